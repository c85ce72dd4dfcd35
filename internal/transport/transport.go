// Package transport implements the play/pause/progress/fullscreen control
// surface laid over the reel. Every platform failure is logged and folded into
// a safe state; nothing is returned to the caller as an error.
package transport

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

// FullscreenPolicy decides when the cached fullscreen flag changes
type FullscreenPolicy int

const (
	// FullscreenConfirmed only trusts the platform change notification
	FullscreenConfirmed FullscreenPolicy = iota
	// FullscreenOptimistic flips the flag as soon as the platform accepts a request
	FullscreenOptimistic
)

// ParseFullscreenPolicy maps a config string onto a policy
func ParseFullscreenPolicy(s string) (FullscreenPolicy, error) {
	switch s {
	case "", "confirmed":
		return FullscreenConfirmed, nil
	case "optimistic":
		return FullscreenOptimistic, nil
	default:
		return FullscreenConfirmed, fmt.Errorf("unknown fullscreen policy %q", s)
	}
}

// String returns the config name of the policy
func (p FullscreenPolicy) String() string {
	if p == FullscreenOptimistic {
		return "optimistic"
	}
	return "confirmed"
}

// Controller holds the transport state machine
// {Playing, Paused} x {Windowed, Fullscreen}.
type Controller struct {
	logger *zap.Logger
	source domain.MediaSource
	screen domain.FullscreenPlatform
	policy FullscreenPolicy

	mu        sync.Mutex
	state     domain.TransportState
	listeners []func(domain.TransportState)
}

// NewController creates a controller in the {Playing, Windowed} state,
// pending the autoplay outcome.
func NewController(logger *zap.Logger, source domain.MediaSource, screen domain.FullscreenPlatform, policy FullscreenPolicy) *Controller {
	return &Controller{
		logger: logger,
		source: source,
		screen: screen,
		policy: policy,
		state:  domain.TransportState{Playing: true},
	}
}

// State returns a snapshot of the transport
func (c *Controller) State() domain.TransportState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange registers fn to be called with the new state after every change.
// Listeners run on the caller's goroutine and must not block.
func (c *Controller) OnChange(fn func(domain.TransportState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// AttemptAutoplay tries to start playback on engine start. A refusal leaves
// the transport paused.
func (c *Controller) AttemptAutoplay(ctx context.Context) {
	if err := c.source.Play(ctx, domain.OriginAutoplay); err != nil {
		c.logger.Warn("Autoplay failed, transport paused",
			zap.Error(fmt.Errorf("%w: %w", domain.ErrAutoplayBlocked, err)))
		c.update(func(s *domain.TransportState) { s.Playing = false })
		return
	}
	c.logger.Info("Autoplay started")
	c.update(func(s *domain.TransportState) { s.Playing = true })
}

// TogglePlay flips the play state and forwards the matching action to the
// source. It returns the resulting play state.
func (c *Controller) TogglePlay(ctx context.Context) bool {
	var next bool
	c.update(func(s *domain.TransportState) {
		s.Playing = !s.Playing
		next = s.Playing
	})

	if next {
		if err := c.source.Play(ctx, domain.OriginUser); err != nil {
			c.logger.Warn("Resume failed, transport stays paused", zap.Error(err))
			c.update(func(s *domain.TransportState) { s.Playing = false })
			return false
		}
		c.logger.Info("Playback resumed")
		return true
	}

	if err := c.source.Pause(ctx); err != nil {
		c.logger.Warn("Pause request failed", zap.Error(err))
	} else {
		c.logger.Info("Playback paused")
	}
	return false
}

// OnProgressTick recomputes progress from a time update. Degenerate input
// (zero, negative or non-finite duration, non-finite position) keeps the
// previous value.
func (c *Controller) OnProgressTick(currentTime, duration float64) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) || math.IsNaN(currentTime) {
		c.logger.Debug("Ignoring degenerate time update",
			zap.Float64("currentTime", currentTime),
			zap.Float64("duration", duration))
		return
	}

	progress := clamp(currentTime/duration*100, 0, 100)
	c.update(func(s *domain.TransportState) { s.Progress = progress })
}

// ToggleFullscreen enters fullscreen when the platform is windowed and leaves
// it otherwise. The direction comes from the platform, not the cached flag.
func (c *Controller) ToggleFullscreen(ctx context.Context) {
	if c.screen.IsFullscreen() {
		if err := c.screen.Exit(ctx); err != nil {
			c.logger.Warn("Could not leave fullscreen",
				zap.Error(fmt.Errorf("%w: %w", domain.ErrFullscreenExitFailed, err)))
			return
		}
		c.logger.Debug("Fullscreen exit accepted")
		if c.policy == FullscreenOptimistic {
			c.update(func(s *domain.TransportState) { s.Fullscreen = false })
		}
		return
	}

	if err := c.screen.Request(ctx); err != nil {
		c.logger.Warn("Could not enter fullscreen",
			zap.Error(fmt.Errorf("%w: %w", domain.ErrFullscreenRequestFailed, err)))
		return
	}
	c.logger.Debug("Fullscreen request accepted")
	if c.policy == FullscreenOptimistic {
		c.update(func(s *domain.TransportState) { s.Fullscreen = true })
	}
}

// ApplyFullscreenChange records the platform's authoritative fullscreen state
func (c *Controller) ApplyFullscreenChange(fullscreen bool) {
	c.update(func(s *domain.TransportState) { s.Fullscreen = fullscreen })
}

// ApplyPlaybackChange records a play state change reported by the source itself
func (c *Controller) ApplyPlaybackChange(playing bool) {
	c.update(func(s *domain.TransportState) { s.Playing = playing })
}

// update applies fn and notifies listeners if the state actually changed
func (c *Controller) update(fn func(*domain.TransportState)) {
	c.mu.Lock()
	before := c.state
	fn(&c.state)
	after := c.state
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	if before == after {
		return
	}
	for _, l := range listeners {
		l(after)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
