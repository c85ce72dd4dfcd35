// Package source provides the media sources the transport can drive when no
// external player is attached.
package source

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

// errGestureRequired mirrors a platform that only starts playback on user action
var errGestureRequired = errors.New("play() can only be initiated by a user gesture")

// ReelSource is a synthetic timeline as long as one reel cycle. While playing
// it reports its position once per step, looping at the end.
type ReelSource struct {
	logger        *zap.Logger
	sched         domain.Scheduler
	duration      time.Duration
	step          time.Duration
	blockAutoplay bool

	mu       sync.Mutex
	playing  bool
	closed   bool
	position time.Duration
	task     domain.Task
	dropped  int
	updates  chan domain.TimeUpdate
}

// NewReelSource creates a paused timeline of the given duration
func NewReelSource(logger *zap.Logger, sched domain.Scheduler, duration, step time.Duration, blockAutoplay bool) *ReelSource {
	return &ReelSource{
		logger:        logger,
		sched:         sched,
		duration:      duration,
		step:          step,
		blockAutoplay: blockAutoplay,
		updates:       make(chan domain.TimeUpdate, 1),
	}
}

// Play starts the timeline. Autoplay is refused when the source emulates a
// gesture-gated platform.
func (r *ReelSource) Play(ctx context.Context, origin domain.PlayOrigin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.blockAutoplay && origin == domain.OriginAutoplay {
		return errGestureRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.New("source closed")
	}
	if r.playing {
		return nil
	}
	r.playing = true
	r.task = r.sched.Every(r.step, r.advance)

	r.logger.Debug("Reel timeline playing",
		zap.String("origin", origin.String()),
		zap.Duration("position", r.position))
	return nil
}

// Pause freezes the timeline at its current position
func (r *ReelSource) Pause(ctx context.Context) error {
	r.mu.Lock()
	task := r.task
	r.task = nil
	r.playing = false
	r.mu.Unlock()

	if task != nil {
		task.Cancel()
	}
	r.logger.Debug("Reel timeline paused", zap.Duration("position", r.Position()))
	return nil
}

// TimeUpdates returns a read-only channel of position reports
func (r *ReelSource) TimeUpdates() <-chan domain.TimeUpdate {
	return r.updates
}

// Position returns the current timeline position
func (r *ReelSource) Position() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position
}

// Close stops the timeline and closes the update channel
func (r *ReelSource) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	task := r.task
	r.task = nil
	r.playing = false
	r.mu.Unlock()

	// Wait for an in-flight advance before closing the channel it sends on.
	if task != nil {
		task.Cancel()
	}

	r.mu.Lock()
	r.closed = true
	close(r.updates)
	r.mu.Unlock()
	return nil
}

func (r *ReelSource) advance() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || !r.playing {
		return
	}

	r.position += r.step
	if r.duration > 0 && r.position >= r.duration {
		r.position -= r.duration
	}

	update := domain.TimeUpdate{
		CurrentTime: r.position.Seconds(),
		Duration:    r.duration.Seconds(),
	}

	// Only the latest position matters: replace a report nobody has read yet.
	select {
	case r.updates <- update:
	default:
		select {
		case <-r.updates:
		default:
		}
		r.updates <- update
		r.dropped++
		if r.dropped%100 == 1 {
			r.logger.Debug("Time update consumer is slow, replacing stale reports",
				zap.Int("dropped", r.dropped))
		}
	}
}
