package source

import (
	"context"

	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

// StaticSource is content without a timeline, like DOM markup presented as a
// video: play and pause succeed but no time update is ever reported, so the
// progress readout stays where it is.
type StaticSource struct {
	logger        *zap.Logger
	blockAutoplay bool
	updates       chan domain.TimeUpdate
}

// NewStaticSource creates a source that never reports time
func NewStaticSource(logger *zap.Logger, blockAutoplay bool) *StaticSource {
	return &StaticSource{
		logger:        logger,
		blockAutoplay: blockAutoplay,
		updates:       make(chan domain.TimeUpdate),
	}
}

// Play succeeds unless it is a refused autoplay
func (s *StaticSource) Play(ctx context.Context, origin domain.PlayOrigin) error {
	if s.blockAutoplay && origin == domain.OriginAutoplay {
		return errGestureRequired
	}
	s.logger.Debug("Static source playing", zap.String("origin", origin.String()))
	return ctx.Err()
}

// Pause always succeeds
func (s *StaticSource) Pause(ctx context.Context) error {
	s.logger.Debug("Static source paused")
	return nil
}

// TimeUpdates returns a channel that never fires
func (s *StaticSource) TimeUpdates() <-chan domain.TimeUpdate {
	return s.updates
}

// Close is a no-op; the update channel is left open so readers keep blocking
func (s *StaticSource) Close() error {
	return nil
}
