package engine

import (
	"context"
	"sync"
	"time"

	"github.com/veribee/demoreel/internal/domain"
	"github.com/veribee/demoreel/internal/sequencer"
	"github.com/veribee/demoreel/internal/transport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Engine orchestrates the demo reel.
// It wires the sequencer and the transport to their external collaborators
// and redraws the frame whenever the scene or the transport state changes.
type Engine struct {
	logger    *zap.Logger
	cfg       domain.Config
	sched     domain.Scheduler
	sequencer *sequencer.Sequencer
	transport *transport.Controller
	source    domain.MediaSource
	screen    domain.FullscreenPlatform
	renderer  domain.Renderer
	now       func() time.Time

	// Signals from listeners into the loop. Buffered to one so a burst of
	// changes collapses into a single render.
	advanced chan struct{}
	changed  chan struct{}
	animate  chan struct{}

	mu         sync.Mutex
	running    bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	animTask   domain.Task
	sceneStart time.Time
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	sched domain.Scheduler,
	seq *sequencer.Sequencer,
	ctrl *transport.Controller,
	source domain.MediaSource,
	screen domain.FullscreenPlatform,
	renderer domain.Renderer,
) *Engine {
	e := &Engine{
		logger:    logger,
		cfg:       cfg,
		sched:     sched,
		sequencer: seq,
		transport: ctrl,
		source:    source,
		screen:    screen,
		renderer:  renderer,
		now:       time.Now,
		advanced:  make(chan struct{}, 1),
		changed:   make(chan struct{}, 1),
		animate:   make(chan struct{}, 1),
	}

	seq.OnAdvance(func(domain.Scene) { signal(e.advanced) })
	ctrl.OnChange(func(domain.TransportState) { signal(e.changed) })
	return e
}

// Start begins scene advance, attempts autoplay and launches the event loop.
// It returns immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.sceneStart = e.now()
	e.mu.Unlock()

	e.logger.Info("Engine starting...",
		zap.Int("scenes", e.sequencer.Len()),
		zap.Duration("interval", e.sequencer.Interval()),
		zap.Bool("pauseHaltsScenes", e.cfg.GetPauseHaltsScenes()))

	if err := e.sequencer.Start(); err != nil {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		return err
	}

	e.transport.AttemptAutoplay(ctx)
	if e.cfg.GetPauseHaltsScenes() && !e.transport.State().Playing {
		e.sequencer.Suspend()
	}

	// The loop outlives the start context; Stop ends it.
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	e.mu.Lock()
	e.cancel = cancel
	e.animTask = e.sched.Every(e.cfg.GetProgressInterval(), func() { signal(e.animate) })
	e.mu.Unlock()

	e.wg.Add(1)
	go e.runLoop(loopCtx)
	return nil
}

// runLoop is the main event processing loop. Platform notifications are
// applied to the transport here so that state transitions stay on one goroutine.
func (e *Engine) runLoop(ctx context.Context) {
	defer e.wg.Done()

	updates := e.source.TimeUpdates()
	fullscreen := e.screen.Changes()
	var playback <-chan bool
	if n, ok := e.source.(domain.PlaybackNotifier); ok {
		playback = n.PlaybackChanges()
	}

	e.render(ctx)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case u, ok := <-updates:
			if !ok {
				e.logger.Debug("Time updates channel closed")
				updates = nil
				continue
			}
			e.transport.OnProgressTick(u.CurrentTime, u.Duration)

		case full, ok := <-fullscreen:
			if !ok {
				e.logger.Debug("Fullscreen changes channel closed")
				fullscreen = nil
				continue
			}
			e.logger.Debug("Fullscreen change received", zap.Bool("fullscreen", full))
			e.transport.ApplyFullscreenChange(full)

		case playing, ok := <-playback:
			if !ok {
				e.logger.Debug("Playback changes channel closed")
				playback = nil
				continue
			}
			e.logger.Debug("Playback change received", zap.Bool("playing", playing))
			e.transport.ApplyPlaybackChange(playing)
			e.couple(playing)

		case <-e.advanced:
			e.mu.Lock()
			e.sceneStart = e.now()
			e.mu.Unlock()
			e.render(ctx)

		case <-e.changed:
			e.render(ctx)

		case <-e.animate:
			if e.animating() {
				e.render(ctx)
			}
		}
	}
}

// render draws the current frame. Failures are logged; the reel keeps going.
func (e *Engine) render(ctx context.Context) {
	frame := e.Snapshot()
	if err := e.renderer.Render(ctx, frame); err != nil {
		e.logger.Error("Failed to render frame",
			zap.Int("scene", frame.Index),
			zap.Error(err))
	}
}

// animating reports whether the current scene is still fading in or filling
func (e *Engine) animating() bool {
	frame := e.Snapshot()
	span := frame.Scene.FadeIn
	if frame.Scene.Kind == domain.KindLoading {
		span = max(span, frame.Scene.Fill)
	}
	// One extra frame past the end so the final state is drawn
	return frame.Elapsed <= span+e.cfg.GetProgressInterval()
}

// couple suspends or resumes scene advance with playback when configured to
func (e *Engine) couple(playing bool) {
	if !e.cfg.GetPauseHaltsScenes() {
		return
	}
	if playing {
		e.sequencer.Resume()
	} else {
		e.sequencer.Suspend()
	}
}

// TogglePlay flips playback and returns the new playing state
func (e *Engine) TogglePlay(ctx context.Context) bool {
	playing := e.transport.TogglePlay(ctx)
	e.couple(playing)
	e.logger.Info("Playback toggled", zap.String("status", string(e.transport.State().Status())))
	return playing
}

// ToggleFullscreen asks the platform to enter or leave fullscreen
func (e *Engine) ToggleFullscreen(ctx context.Context) {
	e.transport.ToggleFullscreen(ctx)
}

// State returns the current transport state
func (e *Engine) State() domain.TransportState {
	return e.transport.State()
}

// CurrentScene returns the scene on screen
func (e *Engine) CurrentScene() domain.Scene {
	return e.sequencer.CurrentScene()
}

// Snapshot returns everything needed to draw the current frame
func (e *Engine) Snapshot() domain.Frame {
	e.mu.Lock()
	start := e.sceneStart
	e.mu.Unlock()

	elapsed := time.Duration(0)
	if !start.IsZero() {
		elapsed = max(e.now().Sub(start), 0)
	}

	index, scene := e.sequencer.Current()
	return domain.Frame{
		Scene:     scene,
		Index:     index,
		Elapsed:   elapsed,
		Transport: e.transport.State(),
	}
}

// Stop ends the loop, halts scene advance and releases the media source
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = false
	cancel, anim := e.cancel, e.animTask
	e.cancel, e.animTask = nil, nil
	e.mu.Unlock()

	e.logger.Info("Engine stopping...")

	if cancel != nil {
		cancel()
	}
	if anim != nil {
		anim.Cancel()
	}
	e.sequencer.Stop()

	var err error
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		err = multierr.Append(err, ctx.Err())
	}

	err = multierr.Append(err, e.source.Close())
	if err != nil {
		e.logger.Error("Engine stopped with errors", zap.Error(err))
		return err
	}

	e.logger.Info("Engine stopped")
	return nil
}

// signal performs a non-blocking send; a pending signal already covers this one
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
