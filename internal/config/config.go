package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// Source names accepted by DEMOREEL_SOURCE
const (
	SourceReel   = "reel"
	SourceStatic = "static"
	SourceMpris  = "mpris"
)

// AppConfig holds application configuration
type AppConfig struct {
	TickInterval     time.Duration `env:"DEMOREEL_TICK_INTERVAL" envDefault:"3s"`
	ProgressInterval time.Duration `env:"DEMOREEL_PROGRESS_INTERVAL" envDefault:"250ms"`
	Source           string        `env:"DEMOREEL_SOURCE" envDefault:"reel"`
	MprisPlayer      string        `env:"DEMOREEL_MPRIS_PLAYER" envDefault:"org.mpris.MediaPlayer2.vlc"`
	ReelFile         string        `env:"DEMOREEL_REEL_FILE"`
	OutputDir        string        `env:"DEMOREEL_OUTPUT_DIR" envDefault:"/tmp/demoreel"`
	BackdropURL      string        `env:"DEMOREEL_BACKDROP_URL"`
	PauseHaltsScenes bool          `env:"DEMOREEL_PAUSE_HALTS_SCENES" envDefault:"false"`
	FullscreenPolicy string        `env:"DEMOREEL_FULLSCREEN_POLICY" envDefault:"confirmed"`
	AutoplayBlocked  bool          `env:"DEMOREEL_AUTOPLAY_BLOCKED" envDefault:"false"`
	FullscreenDenied bool          `env:"DEMOREEL_FULLSCREEN_DENIED" envDefault:"false"`
	WindowWidth      int           `env:"DEMOREEL_WINDOW_WIDTH" envDefault:"1280"`
	WindowHeight     int           `env:"DEMOREEL_WINDOW_HEIGHT" envDefault:"720"`
	Debug            bool          `env:"DEMOREEL_DEBUG" envDefault:"false"`
}

// Load reads the configuration from the environment
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.OutputDir = ExpandPath(cfg.OutputDir)
	cfg.ReelFile = ExpandPath(cfg.ReelFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the engine cannot run with
func (c *AppConfig) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.ProgressInterval <= 0 {
		return fmt.Errorf("progress interval must be positive, got %s", c.ProgressInterval)
	}
	switch c.Source {
	case SourceReel, SourceStatic, SourceMpris:
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	switch c.FullscreenPolicy {
	case "confirmed", "optimistic":
	default:
		return fmt.Errorf("unknown fullscreen policy %q", c.FullscreenPolicy)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.WindowWidth, c.WindowHeight)
	}
	return nil
}

// Log writes the effective configuration
func (c *AppConfig) Log(logger *zap.Logger) {
	logger.Info("Configuration loaded",
		zap.Duration("tickInterval", c.TickInterval),
		zap.Duration("progressInterval", c.ProgressInterval),
		zap.String("source", c.Source),
		zap.String("reelFile", c.ReelFile),
		zap.String("outputDir", c.OutputDir),
		zap.Bool("pauseHaltsScenes", c.PauseHaltsScenes),
		zap.String("fullscreenPolicy", c.FullscreenPolicy))
}

// ExpandPath expands environment variables and a leading ~
func ExpandPath(p string) string {
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// GetTickInterval returns the scene advance period
func (c *AppConfig) GetTickInterval() time.Duration {
	return c.TickInterval
}

// GetProgressInterval returns the time update cadence of synthetic sources
func (c *AppConfig) GetProgressInterval() time.Duration {
	return c.ProgressInterval
}

// GetPauseHaltsScenes reports whether pausing also stops scene advance
func (c *AppConfig) GetPauseHaltsScenes() bool {
	return c.PauseHaltsScenes
}

// GetOutputDir returns the directory for rendered frames
func (c *AppConfig) GetOutputDir() string {
	return c.OutputDir
}

// GetBackdropURL returns an optional backdrop image location
func (c *AppConfig) GetBackdropURL() string {
	return c.BackdropURL
}
