package display

import (
	"github.com/kbinani/screenshot"
	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

var fallbackScreen = domain.ScreenResolution{Width: 1920, Height: 1080}

// Geometry holds the two surfaces a frame can be drawn on
type Geometry struct {
	Window domain.ScreenResolution
	Screen domain.ScreenResolution
}

// Size returns the surface matching the fullscreen state
func (g Geometry) Size(fullscreen bool) domain.ScreenResolution {
	if fullscreen {
		return g.Screen
	}
	return g.Window
}

// NewGeometry detects the primary screen resolution at startup
func NewGeometry(logger *zap.Logger, windowWidth, windowHeight int) Geometry {
	g := Geometry{
		Window: domain.ScreenResolution{Width: windowWidth, Height: windowHeight},
		Screen: detectScreen(logger),
	}

	logger.Info("Display geometry",
		zap.Int("windowWidth", g.Window.Width),
		zap.Int("windowHeight", g.Window.Height),
		zap.Int("screenWidth", g.Screen.Width),
		zap.Int("screenHeight", g.Screen.Height))
	return g
}

func detectScreen(logger *zap.Logger) (res domain.ScreenResolution) {
	// Headless hosts without an X server can make the capture backend panic.
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Screen detection failed, falling back to 1920x1080", zap.Any("panic", r))
			res = fallbackScreen
		}
	}()

	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		logger.Warn("No active displays detected, falling back to 1920x1080")
		return fallbackScreen
	}

	// Use primary monitor (index 0)
	bounds := screenshot.GetDisplayBounds(0)
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fallbackScreen
	}
	return domain.ScreenResolution{Width: bounds.Dx(), Height: bounds.Dy()}
}
