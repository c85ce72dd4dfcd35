package domain

import "errors"

var (
	// ErrAutoplayBlocked is reported when the platform refuses to start playback
	// without a user gesture.
	ErrAutoplayBlocked = errors.New("autoplay blocked")

	// ErrFullscreenRequestFailed is reported when entering fullscreen is denied.
	ErrFullscreenRequestFailed = errors.New("fullscreen request failed")

	// ErrFullscreenExitFailed is reported when leaving fullscreen fails.
	ErrFullscreenExitFailed = errors.New("fullscreen exit failed")

	// ErrFullscreenUnsupported is returned by platforms without a fullscreen mode.
	ErrFullscreenUnsupported = errors.New("fullscreen not supported")

	// ErrSequencerRunning is returned when Start is called on a running sequencer.
	ErrSequencerRunning = errors.New("sequencer already running")

	// ErrEmptyReel is returned when a reel has no scenes.
	ErrEmptyReel = errors.New("reel has no scenes")
)
