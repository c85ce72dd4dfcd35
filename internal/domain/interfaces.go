package domain

import (
	"context"
	"time"
)

// Task is a handle to a repeating scheduled job
type Task interface {
	// Cancel stops future firings. It is safe to call more than once.
	// Once Cancel returns the job will not run again.
	Cancel()
}

// Scheduler runs repeating jobs on a clock it owns.
// Injecting it lets tests drive time deterministically.
//
//go:generate mockgen -destination=mocks/ports_mock.go -package=mocks github.com/veribee/demoreel/internal/domain Scheduler,MediaSource,FullscreenPlatform,Renderer
type Scheduler interface {
	// Every runs fn once per period d until the returned Task is cancelled
	Every(d time.Duration, fn func()) Task
}

// MediaSource is the content whose playback the transport controls.
// It also acts as the external time source for progress reporting.
type MediaSource interface {
	// Play starts or resumes playback. Implementations may refuse autoplay.
	Play(ctx context.Context, origin PlayOrigin) error

	// Pause suspends playback
	Pause(ctx context.Context) error

	// TimeUpdates returns a read-only channel of position reports.
	// Sources without a timeline return a channel that never fires.
	TimeUpdates() <-chan TimeUpdate

	// Close releases the source and its subscriptions
	Close() error
}

// PlaybackNotifier is implemented by sources whose playback state can change
// without going through the transport (e.g. an external player paused by hand).
type PlaybackNotifier interface {
	// PlaybackChanges emits true when playback starts and false when it stops
	PlaybackChanges() <-chan bool
}

// FullscreenPlatform is the external fullscreen capability.
// Request and Exit only report whether the request was accepted; the
// authoritative state arrives later on Changes.
type FullscreenPlatform interface {
	// Request asks the platform to enter fullscreen
	Request(ctx context.Context) error

	// Exit asks the platform to leave fullscreen
	Exit(ctx context.Context) error

	// IsFullscreen reports the actual current platform state
	IsFullscreen() bool

	// Changes emits the platform state every time it changes
	Changes() <-chan bool
}

// Renderer is the render boundary: it draws one frame and owns how
type Renderer interface {
	// Render draws the frame. It is invoked on every scene or transport change.
	Render(ctx context.Context, frame Frame) error
}

// Fetcher defines the interface for retrieving backdrop artwork
type Fetcher interface {
	// Fetch downloads or reads image data from a URL or local path
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Config defines the interface for application configuration
type Config interface {
	// GetTickInterval returns the scene advance period
	GetTickInterval() time.Duration

	// GetProgressInterval returns the time update cadence of synthetic sources
	GetProgressInterval() time.Duration

	// GetPauseHaltsScenes reports whether pausing also stops scene advance
	GetPauseHaltsScenes() bool

	// GetOutputDir returns the directory for rendered frames
	GetOutputDir() string

	// GetBackdropURL returns an optional backdrop image location
	GetBackdropURL() string
}
