package domain

import (
	"math"
	"time"
)

// PlayerStatus represents the current state of the transport
type PlayerStatus string

const (
	// StatusPlaying indicates the reel is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the reel is paused
	StatusPaused PlayerStatus = "Paused"
)

// PlayOrigin tells a media source who asked it to start playing
type PlayOrigin int

const (
	// OriginAutoplay is a play request issued on engine start without user action
	OriginAutoplay PlayOrigin = iota
	// OriginUser is a play request issued by an explicit user transport action
	OriginUser
)

// String returns a human-readable label for the origin.
func (o PlayOrigin) String() string {
	switch o {
	case OriginAutoplay:
		return "autoplay"
	case OriginUser:
		return "user"
	default:
		return "unknown"
	}
}

// SceneKind classifies how a scene is animated
type SceneKind string

const (
	// KindPage is a static mocked page that fades in
	KindPage SceneKind = "page"
	// KindLoading is an interstitial with a filling progress bar
	KindLoading SceneKind = "loading"
)

// Scene is one opaque unit of renderable content cycled by the sequencer.
// The engine never interprets its fields; they exist for the render boundary.
type Scene struct {
	// ID is the ordinal of the scene inside its reel, in [0, N)
	ID int `yaml:"id"`
	// Name is a short machine-friendly identifier (e.g. "landing")
	Name string `yaml:"name"`
	// Title is the headline drawn on the scene
	Title string `yaml:"title"`
	// Kind selects the animation curve
	Kind SceneKind `yaml:"kind"`
	// Accent is a #rrggbb colour used for the scene panel
	Accent string `yaml:"accent"`
	// Caption holds the secondary lines drawn under the title
	Caption []string `yaml:"caption"`
	// FadeIn is how long the scene takes to become fully opaque
	FadeIn time.Duration `yaml:"fade_in"`
	// Fill is how long a loading bar takes to reach 100%
	Fill time.Duration `yaml:"fill"`
}

// Opacity returns the scene opacity in [0,1] after elapsed time on screen.
func (s Scene) Opacity(elapsed time.Duration) float64 {
	return ramp(elapsed, s.FadeIn)
}

// LoadingFill returns how full the loading bar is in [0,1]. Pages have no bar.
func (s Scene) LoadingFill(elapsed time.Duration) float64 {
	if s.Kind != KindLoading {
		return 0
	}
	return ramp(elapsed, s.Fill)
}

func ramp(elapsed, span time.Duration) float64 {
	if span <= 0 {
		return 1
	}
	return math.Min(1, math.Max(0, float64(elapsed)/float64(span)))
}

// TransportState is the media-style control surface laid over the reel
type TransportState struct {
	// Playing is true while the transport reports playback
	Playing bool
	// Progress is the playback position in percent, always within [0,100]
	Progress float64
	// Fullscreen mirrors the platform fullscreen state
	Fullscreen bool
}

// Status maps the play flag onto a PlayerStatus.
func (t TransportState) Status() PlayerStatus {
	if t.Playing {
		return StatusPlaying
	}
	return StatusPaused
}

// TimeUpdate is one position report from a media source, in seconds
type TimeUpdate struct {
	CurrentTime float64
	Duration    float64
}

// Frame is everything the render boundary needs to draw one picture
type Frame struct {
	Scene Scene
	// Index is the scene ordinal at the time the frame was taken
	Index int
	// Elapsed is the time the scene has been on screen
	Elapsed   time.Duration
	Transport TransportState
}

// ScreenResolution holds the display dimensions
type ScreenResolution struct {
	Width  int
	Height int
}
