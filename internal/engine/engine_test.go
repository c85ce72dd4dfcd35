package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veribee/demoreel/internal/display"
	"github.com/veribee/demoreel/internal/domain"
	"github.com/veribee/demoreel/internal/domain/mocks"
	"github.com/veribee/demoreel/internal/reel"
	"github.com/veribee/demoreel/internal/scheduler"
	"github.com/veribee/demoreel/internal/sequencer"
	"github.com/veribee/demoreel/internal/source"
	"github.com/veribee/demoreel/internal/transport"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	waitFor   = 2 * time.Second
	pollEvery = 5 * time.Millisecond
)

type stubConfig struct {
	pauseHaltsScenes bool
}

func (c stubConfig) GetTickInterval() time.Duration     { return sequencer.DefaultInterval }
func (c stubConfig) GetProgressInterval() time.Duration { return 250 * time.Millisecond }
func (c stubConfig) GetPauseHaltsScenes() bool          { return c.pauseHaltsScenes }
func (c stubConfig) GetOutputDir() string               { return "" }
func (c stubConfig) GetBackdropURL() string             { return "" }

// recordingRenderer keeps every frame it is asked to draw
type recordingRenderer struct {
	mu     sync.Mutex
	frames []domain.Frame
	err    error
}

func (r *recordingRenderer) Render(ctx context.Context, frame domain.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return r.err
}

func (r *recordingRenderer) last() (domain.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return domain.Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

type harness struct {
	engine   *Engine
	clock    *scheduler.Manual
	seq      *sequencer.Sequencer
	window   *display.Window
	renderer *recordingRenderer
}

func newHarness(t *testing.T, cfg stubConfig, src domain.MediaSource, clock *scheduler.Manual) *harness {
	t.Helper()
	logger := zap.NewNop()

	seq, err := sequencer.New(logger, clock, reel.Default().Scenes)
	require.NoError(t, err)

	geometry := display.Geometry{
		Window: domain.ScreenResolution{Width: 320, Height: 180},
		Screen: domain.ScreenResolution{Width: 640, Height: 360},
	}
	window := display.NewWindow(logger, geometry, false)
	ctrl := transport.NewController(logger, src, window, transport.FullscreenConfirmed)
	rec := &recordingRenderer{}

	e := NewEngine(logger, cfg, clock, seq, ctrl, src, window, rec)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base.Add(clock.Now()) }

	return &harness{engine: e, clock: clock, seq: seq, window: window, renderer: rec}
}

func newReelHarness(t *testing.T, cfg stubConfig, blockAutoplay bool) *harness {
	t.Helper()
	clock := scheduler.NewManual()
	duration := reel.Default().Duration(sequencer.DefaultInterval)
	src := source.NewReelSource(zap.NewNop(), clock, duration, 250*time.Millisecond, blockAutoplay)
	return newHarness(t, cfg, src, clock)
}

func TestEngine_StartRendersFirstScene(t *testing.T) {
	h := newReelHarness(t, stubConfig{}, false)
	require.NoError(t, h.engine.Start(context.Background()))
	t.Cleanup(func() { _ = h.engine.Stop(context.Background()) })

	require.Eventually(t, func() bool { return h.renderer.count() > 0 }, waitFor, pollEvery)
	frame, _ := h.renderer.last()
	assert.Equal(t, 0, frame.Index)
	assert.Equal(t, "landing", frame.Scene.Name)
	assert.True(t, frame.Transport.Playing)
}

func TestEngine_AdvancesScenesOnTheClock(t *testing.T) {
	h := newReelHarness(t, stubConfig{}, false)
	require.NoError(t, h.engine.Start(context.Background()))
	t.Cleanup(func() { _ = h.engine.Stop(context.Background()) })

	h.clock.Advance(2999 * time.Millisecond)
	assert.Equal(t, 0, h.engine.CurrentScene().ID)

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, 1, h.engine.CurrentScene().ID)

	require.Eventually(t, func() bool {
		frame, ok := h.renderer.last()
		return ok && frame.Index == 1
	}, waitFor, pollEvery)

	// Wraps back to the landing scene after a full cycle
	h.clock.Advance(4 * sequencer.DefaultInterval)
	assert.Equal(t, 0, h.engine.CurrentScene().ID)
}

func TestEngine_ProgressFollowsTimeUpdates(t *testing.T) {
	h := newReelHarness(t, stubConfig{}, false)
	require.NoError(t, h.engine.Start(context.Background()))
	t.Cleanup(func() { _ = h.engine.Stop(context.Background()) })

	// 3s into a 15s reel
	h.clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool {
		return h.engine.State().Progress == 20
	}, waitFor, pollEvery)
}

func TestEngine_TogglePlay(t *testing.T) {
	tests := []struct {
		name             string
		pauseHaltsScenes bool
		wantIndex        int
	}{
		{name: "pause leaves scenes running", pauseHaltsScenes: false, wantIndex: 2},
		{name: "pause halts scenes", pauseHaltsScenes: true, wantIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newReelHarness(t, stubConfig{pauseHaltsScenes: tt.pauseHaltsScenes}, false)
			ctx := context.Background()
			require.NoError(t, h.engine.Start(ctx))
			t.Cleanup(func() { _ = h.engine.Stop(ctx) })

			assert.False(t, h.engine.TogglePlay(ctx))
			assert.Equal(t, domain.StatusPaused, h.engine.State().Status())

			h.clock.Advance(2 * sequencer.DefaultInterval)
			assert.Equal(t, tt.wantIndex, h.engine.CurrentScene().ID)

			assert.True(t, h.engine.TogglePlay(ctx))
			h.clock.Advance(sequencer.DefaultInterval)
			assert.Equal(t, tt.wantIndex+1, h.engine.CurrentScene().ID)
		})
	}
}

func TestEngine_BlockedAutoplay(t *testing.T) {
	tests := []struct {
		name             string
		pauseHaltsScenes bool
		wantRunning      bool
	}{
		{name: "scenes keep advancing", pauseHaltsScenes: false, wantRunning: true},
		{name: "scenes held until play", pauseHaltsScenes: true, wantRunning: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newReelHarness(t, stubConfig{pauseHaltsScenes: tt.pauseHaltsScenes}, true)
			ctx := context.Background()
			require.NoError(t, h.engine.Start(ctx))
			t.Cleanup(func() { _ = h.engine.Stop(ctx) })

			assert.False(t, h.engine.State().Playing)
			assert.Equal(t, tt.wantRunning, h.seq.Running())

			// A user gesture is allowed through
			assert.True(t, h.engine.TogglePlay(ctx))
			assert.True(t, h.seq.Running())
		})
	}
}

func TestEngine_FullscreenConfirmedByPlatform(t *testing.T) {
	h := newReelHarness(t, stubConfig{}, false)
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))
	t.Cleanup(func() { _ = h.engine.Stop(ctx) })

	h.engine.ToggleFullscreen(ctx)
	h.window.Wait()

	require.Eventually(t, func() bool { return h.engine.State().Fullscreen }, waitFor, pollEvery)
	require.Eventually(t, func() bool {
		frame, ok := h.renderer.last()
		return ok && frame.Transport.Fullscreen
	}, waitFor, pollEvery)

	h.engine.ToggleFullscreen(ctx)
	h.window.Wait()
	require.Eventually(t, func() bool { return !h.engine.State().Fullscreen }, waitFor, pollEvery)
}

func TestEngine_StopReleasesTasks(t *testing.T) {
	h := newReelHarness(t, stubConfig{}, false)
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))
	require.Positive(t, h.clock.Pending())

	require.NoError(t, h.engine.Stop(ctx))
	assert.Equal(t, 0, h.clock.Pending())
	assert.False(t, h.seq.Running())

	// Stopping twice is harmless
	assert.NoError(t, h.engine.Stop(ctx))
}

func TestEngine_StartTwiceIsNoop(t *testing.T) {
	h := newReelHarness(t, stubConfig{}, false)
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))
	t.Cleanup(func() { _ = h.engine.Stop(ctx) })

	pending := h.clock.Pending()
	require.NoError(t, h.engine.Start(ctx))
	assert.Equal(t, pending, h.clock.Pending())
}

func TestEngine_StopCombinesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockMediaSource(ctrl)
	src.EXPECT().Play(gomock.Any(), domain.OriginAutoplay).Return(nil)
	src.EXPECT().TimeUpdates().Return((<-chan domain.TimeUpdate)(nil))
	src.EXPECT().Close().Return(errors.New("source busy"))

	h := newHarness(t, stubConfig{}, src, scheduler.NewManual())
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))

	err := h.engine.Stop(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source busy")
}

func TestEngine_RenderFailureKeepsRunning(t *testing.T) {
	h := newReelHarness(t, stubConfig{}, false)
	h.renderer.err = errors.New("disk full")
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))
	t.Cleanup(func() { _ = h.engine.Stop(ctx) })

	h.clock.Advance(sequencer.DefaultInterval)
	require.Eventually(t, func() bool {
		frame, ok := h.renderer.last()
		return ok && frame.Index == 1
	}, waitFor, pollEvery)
}

func TestEngine_SnapshotElapsed(t *testing.T) {
	h := newReelHarness(t, stubConfig{}, false)
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))
	t.Cleanup(func() { _ = h.engine.Stop(ctx) })

	h.clock.Advance(400 * time.Millisecond)
	frame := h.engine.Snapshot()
	assert.Equal(t, 400*time.Millisecond, frame.Elapsed)
	assert.True(t, h.engine.animating())

	h.clock.Advance(time.Second)
	assert.False(t, h.engine.animating())
}

// notifyingSource is a static source whose player can also be paused from outside
type notifyingSource struct {
	*source.StaticSource
	playback chan bool
}

func (s *notifyingSource) PlaybackChanges() <-chan bool {
	return s.playback
}

func TestEngine_ExternalPlaybackChange(t *testing.T) {
	clock := scheduler.NewManual()
	src := &notifyingSource{
		StaticSource: source.NewStaticSource(zap.NewNop(), false),
		playback:     make(chan bool, 1),
	}
	h := newHarness(t, stubConfig{pauseHaltsScenes: true}, src, clock)
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))
	t.Cleanup(func() { _ = h.engine.Stop(ctx) })

	src.playback <- false
	require.Eventually(t, func() bool {
		return !h.engine.State().Playing && !h.seq.Running()
	}, waitFor, pollEvery)

	src.playback <- true
	require.Eventually(t, func() bool {
		return h.engine.State().Playing && h.seq.Running()
	}, waitFor, pollEvery)
}

func TestEngine_SnapshotPairsSceneWithIndex(t *testing.T) {
	logger := zap.NewNop()
	clock := scheduler.NewTicker(logger)

	seq, err := sequencer.New(logger, clock, reel.Default().Scenes, sequencer.WithInterval(time.Microsecond))
	require.NoError(t, err)
	src := source.NewStaticSource(logger, false)
	window := display.NewWindow(logger, display.Geometry{}, false)
	ctrl := transport.NewController(logger, src, window, transport.FullscreenConfirmed)
	e := NewEngine(logger, stubConfig{}, clock, seq, ctrl, src, window, &recordingRenderer{})

	ctx := context.Background()
	require.NoError(t, e.Start(ctx))
	t.Cleanup(func() { _ = e.Stop(ctx) })

	for i := 0; i < 50_000; i++ {
		frame := e.Snapshot()
		if frame.Scene.ID != frame.Index {
			t.Fatalf("frame index %d carries scene %d", frame.Index, frame.Scene.ID)
		}
	}
}
