// Package display provides a simulated windowed surface that can be put in
// fullscreen. Requests are accepted or refused synchronously; the state change
// itself lands asynchronously on Changes, like a browser fullscreenchange event.
package display

import (
	"context"
	"errors"
	"sync"

	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

var (
	errDenied     = errors.New("fullscreen request denied by user agent")
	errNotEntered = errors.New("document not in fullscreen")
)

// Window is a FullscreenPlatform backed by an in-process surface
type Window struct {
	logger   *zap.Logger
	geometry Geometry
	deny     bool

	mu      sync.Mutex
	full    bool
	pending *bool
	changes chan bool
	wg      sync.WaitGroup
}

// NewWindow creates a windowed surface. When deny is set every fullscreen
// request is refused.
func NewWindow(logger *zap.Logger, geometry Geometry, deny bool) *Window {
	return &Window{
		logger:   logger,
		geometry: geometry,
		deny:     deny,
		changes:  make(chan bool, 4),
	}
}

// Request asks for fullscreen
func (w *Window) Request(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.deny {
		return errDenied
	}
	w.transition(true)
	return nil
}

// Exit asks to leave fullscreen
func (w *Window) Exit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	entered := w.full || (w.pending != nil && *w.pending)
	w.mu.Unlock()
	if !entered {
		return errNotEntered
	}
	w.transition(false)
	return nil
}

// IsFullscreen reports the committed state
func (w *Window) IsFullscreen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.full
}

// Changes emits the committed state after each transition
func (w *Window) Changes() <-chan bool {
	return w.changes
}

// Size returns the surface currently in use
func (w *Window) Size() domain.ScreenResolution {
	return w.geometry.Size(w.IsFullscreen())
}

// Wait blocks until every pending transition has been committed
func (w *Window) Wait() {
	w.wg.Wait()
}

// transition commits the new state on another goroutine
func (w *Window) transition(full bool) {
	w.mu.Lock()
	w.pending = &full
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.commit(full)
	}()
}

func (w *Window) commit(full bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// A newer request superseded this one.
	if w.pending == nil || *w.pending != full {
		return
	}
	w.pending = nil
	if w.full == full {
		return
	}
	w.full = full

	size := w.geometry.Size(full)
	w.logger.Info("Fullscreen changed",
		zap.Bool("fullscreen", full),
		zap.Int("width", size.Width),
		zap.Int("height", size.Height))

	select {
	case w.changes <- full:
	default:
		// Drop the oldest notification; the newest state is what matters.
		select {
		case <-w.changes:
		default:
		}
		w.changes <- full
	}
}
