package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veribee/demoreel/internal/domain"
	"github.com/veribee/demoreel/internal/scheduler"
	"go.uber.org/zap"
)

func newReel(t *testing.T, blockAutoplay bool) (*ReelSource, *scheduler.Manual) {
	t.Helper()
	clock := scheduler.NewManual()
	return NewReelSource(zap.NewNop(), clock, 15*time.Second, 250*time.Millisecond, blockAutoplay), clock
}

func TestReelSource_ReportsPositionWhilePlaying(t *testing.T) {
	src, clock := newReel(t, false)
	require.NoError(t, src.Play(context.Background(), domain.OriginAutoplay))

	clock.Advance(3750 * time.Millisecond)

	select {
	case u := <-src.TimeUpdates():
		assert.InDelta(t, 3.75, u.CurrentTime, 1e-9)
		assert.InDelta(t, 15.0, u.Duration, 1e-9)
	default:
		t.Fatal("expected a time update")
	}
}

func TestReelSource_PauseFreezesPosition(t *testing.T) {
	src, clock := newReel(t, false)
	ctx := context.Background()
	require.NoError(t, src.Play(ctx, domain.OriginUser))
	require.NoError(t, src.Play(ctx, domain.OriginUser))
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(time.Second)
	require.NoError(t, src.Pause(ctx))
	clock.Advance(10 * time.Second)

	assert.Equal(t, time.Second, src.Position())
	assert.Equal(t, 0, clock.Pending())
}

func TestReelSource_LoopsAtEnd(t *testing.T) {
	src, clock := newReel(t, false)
	require.NoError(t, src.Play(context.Background(), domain.OriginUser))

	clock.Advance(16 * time.Second)
	assert.Equal(t, time.Second, src.Position())
}

func TestReelSource_BlocksAutoplayOnly(t *testing.T) {
	src, _ := newReel(t, true)

	assert.ErrorIs(t, src.Play(context.Background(), domain.OriginAutoplay), errGestureRequired)
	assert.NoError(t, src.Play(context.Background(), domain.OriginUser))
}

func TestReelSource_CancelledContext(t *testing.T) {
	src, clock := newReel(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, src.Play(ctx, domain.OriginUser), context.Canceled)
	assert.Equal(t, 0, clock.Pending())
}

func TestReelSource_CloseReleasesTask(t *testing.T) {
	src, clock := newReel(t, false)
	require.NoError(t, src.Play(context.Background(), domain.OriginUser))

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	assert.Equal(t, 0, clock.Pending())

	_, ok := <-src.TimeUpdates()
	assert.False(t, ok, "update channel should be closed")
	assert.Error(t, src.Play(context.Background(), domain.OriginUser))
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(zap.NewNop(), false)
	ctx := context.Background()

	assert.NoError(t, src.Play(ctx, domain.OriginAutoplay))
	assert.NoError(t, src.Pause(ctx))
	assert.NoError(t, src.Close())

	select {
	case <-src.TimeUpdates():
		t.Fatal("static source must never report time")
	case <-time.After(20 * time.Millisecond):
	}

	blocked := NewStaticSource(zap.NewNop(), true)
	assert.Error(t, blocked.Play(ctx, domain.OriginAutoplay))
	assert.NoError(t, blocked.Play(ctx, domain.OriginUser))
}
