//go:build !linux
// +build !linux

package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

// AutoPlayer selects the first MPRIS player found on the bus
const AutoPlayer = "auto"

var errUnsupported = fmt.Errorf("MPRIS is only supported on Linux systems")

// MprisSource stub for non-Linux platforms
type MprisSource struct {
	logger *zap.Logger
	never  chan domain.TimeUpdate
	flags  chan bool
}

// NewMprisSource creates a stub source that fails to connect on non-Linux platforms
func NewMprisSource(logger *zap.Logger, sched domain.Scheduler, player string, pollInterval time.Duration) *MprisSource {
	return &MprisSource{logger: logger, never: make(chan domain.TimeUpdate), flags: make(chan bool)}
}

// Connect returns an error indicating MPRIS is not supported on this platform
func (m *MprisSource) Connect(ctx context.Context) error { return errUnsupported }

// Close is a no-op on non-Linux platforms
func (m *MprisSource) Close() error { return nil }

// Play always fails on non-Linux platforms
func (m *MprisSource) Play(ctx context.Context, origin domain.PlayOrigin) error {
	return errUnsupported
}

// Pause always fails on non-Linux platforms
func (m *MprisSource) Pause(ctx context.Context) error { return errUnsupported }

// Request always fails on non-Linux platforms
func (m *MprisSource) Request(ctx context.Context) error { return domain.ErrFullscreenUnsupported }

// Exit always fails on non-Linux platforms
func (m *MprisSource) Exit(ctx context.Context) error { return domain.ErrFullscreenUnsupported }

// IsFullscreen is always false on non-Linux platforms
func (m *MprisSource) IsFullscreen() bool { return false }

// TimeUpdates returns a channel that never fires
func (m *MprisSource) TimeUpdates() <-chan domain.TimeUpdate { return m.never }

// PlaybackChanges returns a channel that never fires
func (m *MprisSource) PlaybackChanges() <-chan bool { return m.flags }

// Changes returns a channel that never fires
func (m *MprisSource) Changes() <-chan bool { return m.flags }
