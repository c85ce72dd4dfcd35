// Package sequencer cycles through a fixed reel of scenes on an autonomous clock.
package sequencer

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

// DefaultInterval is the time each scene stays on screen
const DefaultInterval = 3000 * time.Millisecond

// Option configures a Sequencer
type Option func(*Sequencer)

// WithInterval overrides the tick period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Sequencer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// Sequencer advances a scene index modulo N once per tick, forever.
// It has no failure states and no terminal state.
type Sequencer struct {
	logger   *zap.Logger
	sched    domain.Scheduler
	scenes   []domain.Scene
	interval time.Duration

	mu        sync.RWMutex
	index     int
	task      domain.Task
	listeners []func(domain.Scene)
}

// New creates a sequencer positioned on the first scene. The scene slice is
// copied; scenes are never interpreted.
func New(logger *zap.Logger, sched domain.Scheduler, scenes []domain.Scene, opts ...Option) (*Sequencer, error) {
	if len(scenes) == 0 {
		return nil, domain.ErrEmptyReel
	}

	s := &Sequencer{
		logger:   logger,
		sched:    sched,
		scenes:   append([]domain.Scene(nil), scenes...),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start begins the repeating tick. A second Start while running is refused so
// that two timers can never drive the same index.
func (s *Sequencer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task != nil {
		return fmt.Errorf("start sequencer: %w", domain.ErrSequencerRunning)
	}
	s.task = s.sched.Every(s.interval, s.advance)

	s.logger.Info("Sequencer started",
		zap.Int("scenes", len(s.scenes)),
		zap.Int("index", s.index),
		zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels the tick. Calling it on a sequencer that never started is a no-op.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	task := s.task
	s.task = nil
	s.mu.Unlock()

	if task == nil {
		return
	}
	// Cancel outside the lock: a wall-clock task may be blocked in advance.
	task.Cancel()
	s.logger.Info("Sequencer stopped", zap.Int("index", s.Index()))
}

// Suspend halts scene advance and keeps the current index
func (s *Sequencer) Suspend() {
	s.Stop()
}

// Resume restarts scene advance with a fresh interval. Resuming a running
// sequencer does nothing.
func (s *Sequencer) Resume() {
	if s.Running() {
		return
	}
	if err := s.Start(); err != nil {
		s.logger.Debug("Sequencer resume raced with start", zap.Error(err))
	}
}

// Running reports whether the tick is scheduled
func (s *Sequencer) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.task != nil
}

// advance is the tick: the index moves exactly one step, wrapping at N
func (s *Sequencer) advance() {
	s.mu.Lock()
	s.index = (s.index + 1) % len(s.scenes)
	idx := s.index
	scene := s.scenes[idx]
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	s.logger.Debug("Scene advanced",
		zap.Int("index", idx),
		zap.String("scene", scene.Name))

	for _, fn := range listeners {
		fn(scene)
	}
}

// Current returns the index and its scene read together, so the pair always
// describes the same tick
func (s *Sequencer) Current() (int, domain.Scene) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index, s.scenes[s.index]
}

// CurrentScene returns the scene at the current index
func (s *Sequencer) CurrentScene() domain.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenes[s.index]
}

// Index returns the current scene ordinal
func (s *Sequencer) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Len returns the number of scenes in the reel
func (s *Sequencer) Len() int {
	return len(s.scenes)
}

// Interval returns the tick period
func (s *Sequencer) Interval() time.Duration {
	return s.interval
}

// OnAdvance registers fn to be called with the new scene after every tick.
// Listeners run on the scheduler's goroutine and must not block.
func (s *Sequencer) OnAdvance(fn func(domain.Scene)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
