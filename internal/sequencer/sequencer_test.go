package sequencer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veribee/demoreel/internal/domain"
	"github.com/veribee/demoreel/internal/scheduler"
	"go.uber.org/zap"
)

func fiveScenes() []domain.Scene {
	scenes := make([]domain.Scene, 5)
	for i := range scenes {
		scenes[i] = domain.Scene{ID: i, Name: fmt.Sprintf("scene-%d", i)}
	}
	return scenes
}

func newTestSequencer(t *testing.T) (*Sequencer, *scheduler.Manual) {
	t.Helper()
	clock := scheduler.NewManual()
	seq, err := New(zap.NewNop(), clock, fiveScenes())
	require.NoError(t, err)
	return seq, clock
}

func TestNew_EmptyReel(t *testing.T) {
	_, err := New(zap.NewNop(), scheduler.NewManual(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyReel)
}

func TestSequencer_IndexIsTicksModN(t *testing.T) {
	for k := 0; k <= 23; k++ {
		t.Run(fmt.Sprintf("ticks=%d", k), func(t *testing.T) {
			seq, _ := newTestSequencer(t)
			for i := 0; i < k; i++ {
				seq.advance()
			}
			assert.Equal(t, k%5, seq.Index())
			assert.Equal(t, k%5, seq.CurrentScene().ID)
		})
	}
}

func TestSequencer_SimulatedClockWrapsAfterFiveTicks(t *testing.T) {
	seq, clock := newTestSequencer(t)
	require.NoError(t, seq.Start())

	observed := []int{seq.Index()}
	for i := 0; i < 5; i++ {
		clock.Advance(3000 * time.Millisecond)
		observed = append(observed, seq.Index())
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 0}, observed)
}

func TestSequencer_NoAdvanceBeforeInterval(t *testing.T) {
	seq, clock := newTestSequencer(t)
	require.NoError(t, seq.Start())

	clock.Advance(2999 * time.Millisecond)
	assert.Equal(t, 0, seq.Index())
}

func TestSequencer_RefusesSecondStart(t *testing.T) {
	seq, clock := newTestSequencer(t)
	require.NoError(t, seq.Start())

	err := seq.Start()
	assert.True(t, errors.Is(err, domain.ErrSequencerRunning))
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(3 * time.Second)
	assert.Equal(t, 1, seq.Index(), "a second timer would have skipped a scene")
}

func TestSequencer_StopReleasesTimer(t *testing.T) {
	seq, clock := newTestSequencer(t)

	// Stop before Start is a no-op.
	seq.Stop()

	require.NoError(t, seq.Start())
	clock.Advance(3 * time.Second)
	seq.Stop()
	seq.Stop()

	assert.Equal(t, 0, clock.Pending())
	clock.Advance(time.Minute)
	assert.Equal(t, 1, seq.Index())
	assert.False(t, seq.Running())
}

func TestSequencer_SuspendResume(t *testing.T) {
	seq, clock := newTestSequencer(t)
	require.NoError(t, seq.Start())

	clock.Advance(3 * time.Second)
	seq.Suspend()
	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, seq.Index())

	seq.Resume()
	seq.Resume()
	assert.Equal(t, 1, clock.Pending())

	// Resume schedules a fresh full interval.
	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, seq.Index())
	clock.Advance(time.Second)
	assert.Equal(t, 2, seq.Index())
}

func TestSequencer_OnAdvanceObservesUpdatedIndex(t *testing.T) {
	seq, clock := newTestSequencer(t)

	var seen []int
	seq.OnAdvance(func(scene domain.Scene) {
		// The index read from a listener must already be the new one.
		assert.Equal(t, scene.ID, seq.Index())
		seen = append(seen, scene.ID)
	})

	require.NoError(t, seq.Start())
	clock.Advance(18 * time.Second)

	assert.Equal(t, []int{1, 2, 3, 4, 0, 1}, seen)
}

func TestWithInterval(t *testing.T) {
	clock := scheduler.NewManual()
	seq, err := New(zap.NewNop(), clock, fiveScenes(), WithInterval(time.Second), WithInterval(-1))
	require.NoError(t, err)
	assert.Equal(t, time.Second, seq.Interval())

	require.NoError(t, seq.Start())
	clock.Advance(2 * time.Second)
	assert.Equal(t, 2, seq.Index())
}

func TestSequencer_CurrentPairsIndexWithScene(t *testing.T) {
	seq, err := New(zap.NewNop(), scheduler.NewTicker(zap.NewNop()), fiveScenes(), WithInterval(time.Microsecond))
	require.NoError(t, err)
	require.NoError(t, seq.Start())
	t.Cleanup(seq.Stop)

	for i := 0; i < 50_000; i++ {
		index, scene := seq.Current()
		if index != scene.ID {
			t.Fatalf("index %d paired with scene %d", index, scene.ID)
		}
	}
}
