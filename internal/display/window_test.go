package display

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

var testGeometry = Geometry{
	Window: domain.ScreenResolution{Width: 1280, Height: 720},
	Screen: domain.ScreenResolution{Width: 2560, Height: 1440},
}

func nextChange(t *testing.T, w *Window) bool {
	t.Helper()
	select {
	case v := <-w.Changes():
		return v
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for fullscreen change")
		return false
	}
}

func TestWindow_RequestAndExit(t *testing.T) {
	w := NewWindow(zap.NewNop(), testGeometry, false)
	ctx := context.Background()

	require.NoError(t, w.Request(ctx))
	assert.True(t, nextChange(t, w))
	assert.True(t, w.IsFullscreen())
	assert.Equal(t, testGeometry.Screen, w.Size())

	require.NoError(t, w.Exit(ctx))
	assert.False(t, nextChange(t, w))
	assert.False(t, w.IsFullscreen())
	assert.Equal(t, testGeometry.Window, w.Size())
}

func TestWindow_Denied(t *testing.T) {
	w := NewWindow(zap.NewNop(), testGeometry, true)

	assert.ErrorIs(t, w.Request(context.Background()), errDenied)
	w.Wait()
	assert.False(t, w.IsFullscreen())
	assert.Empty(t, w.Changes())
}

func TestWindow_ExitWhileWindowed(t *testing.T) {
	w := NewWindow(zap.NewNop(), testGeometry, false)
	assert.ErrorIs(t, w.Exit(context.Background()), errNotEntered)
}

func TestWindow_CancelledContext(t *testing.T) {
	w := NewWindow(zap.NewNop(), testGeometry, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, w.Request(ctx))
	w.Wait()
	assert.False(t, w.IsFullscreen())
}

func TestGeometry_Size(t *testing.T) {
	assert.Equal(t, testGeometry.Window, testGeometry.Size(false))
	assert.Equal(t, testGeometry.Screen, testGeometry.Size(true))
}
