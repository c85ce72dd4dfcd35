package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/veribee/demoreel/internal/config"
	"github.com/veribee/demoreel/internal/display"
	"github.com/veribee/demoreel/internal/domain"
	"github.com/veribee/demoreel/internal/engine"
	"github.com/veribee/demoreel/internal/fetcher"
	"github.com/veribee/demoreel/internal/input"
	"github.com/veribee/demoreel/internal/monitor"
	"github.com/veribee/demoreel/internal/reel"
	"github.com/veribee/demoreel/internal/renderer"
	"github.com/veribee/demoreel/internal/scheduler"
	"github.com/veribee/demoreel/internal/sequencer"
	"github.com/veribee/demoreel/internal/source"
	"github.com/veribee/demoreel/internal/transport"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// AppOptions is the complete dependency graph of the daemon
var AppOptions = fx.Options(
	// Provide dependencies
	fx.Provide(
		newConfig,
		newLogger,
		asDomainConfig,
		fx.Annotate(scheduler.NewTicker, fx.As(new(domain.Scheduler))),
		fx.Annotate(fetcher.NewHTTPFetcher, fx.As(new(domain.Fetcher))),
		newReel,
		newSequencer,
		newGeometry,
		newMedia,
		newTransport,
		newRenderer,
		engine.NewEngine,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

// flags holds command line overrides of the environment configuration
type flags struct {
	debug            bool
	source           string
	player           string
	reelFile         string
	outputDir        string
	backdrop         string
	interval         time.Duration
	pauseHaltsScenes bool
	fullscreenPolicy string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "demoreel",
		Short:        "Play the VeriBee demo reel behind a media-style transport",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&f.debug, "debug", false, "enable debug logging")
	fs.StringVar(&f.source, "source", config.SourceReel, "media source: reel, static or mpris")
	fs.StringVar(&f.player, "player", "", "MPRIS player bus name, or \"auto\"")
	fs.StringVar(&f.reelFile, "reel", "", "YAML file with an alternative reel")
	fs.StringVar(&f.outputDir, "output", "", "directory for rendered frames")
	fs.StringVar(&f.backdrop, "backdrop", "", "backdrop image URL or path")
	fs.DurationVar(&f.interval, "interval", sequencer.DefaultInterval, "scene advance period")
	fs.BoolVar(&f.pauseHaltsScenes, "pause-halts-scenes", false, "pausing also stops scene advance")
	fs.StringVar(&f.fullscreenPolicy, "fullscreen-policy", transport.FullscreenConfirmed.String(), "confirmed or optimistic")
	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	app := fx.New(
		AppOptions,

		// Logger configuration
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		fx.Decorate(func(cfg *config.AppConfig) (*config.AppConfig, error) {
			return applyFlags(cmd, f, cfg)
		}),
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	// Wait for an interrupt signal or a quit key
	select {
	case <-ctx.Done():
	case <-app.Wait():
	}

	// Stop the application gracefully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}

// applyFlags overrides cfg with every flag set on the command line
func applyFlags(cmd *cobra.Command, f flags, cfg *config.AppConfig) (*config.AppConfig, error) {
	changed := cmd.Flags().Changed
	if changed("debug") {
		cfg.Debug = f.debug
	}
	if changed("source") {
		cfg.Source = f.source
	}
	if changed("player") {
		cfg.MprisPlayer = f.player
	}
	if changed("reel") {
		cfg.ReelFile = config.ExpandPath(f.reelFile)
	}
	if changed("output") {
		cfg.OutputDir = config.ExpandPath(f.outputDir)
	}
	if changed("backdrop") {
		cfg.BackdropURL = f.backdrop
	}
	if changed("interval") {
		cfg.TickInterval = f.interval
	}
	if changed("pause-halts-scenes") {
		cfg.PauseHaltsScenes = f.pauseHaltsScenes
	}
	if changed("fullscreen-policy") {
		cfg.FullscreenPolicy = f.fullscreenPolicy
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func newConfig() (*config.AppConfig, error) {
	return config.Load()
}

func asDomainConfig(cfg *config.AppConfig) domain.Config {
	return cfg
}

// newLogger creates a new zap logger instance
func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	cfg.Log(logger)
	return logger, nil
}

func newReel(logger *zap.Logger, cfg *config.AppConfig) (reel.Reel, error) {
	if cfg.ReelFile == "" {
		return reel.Default(), nil
	}
	r, err := reel.Load(cfg.ReelFile)
	if err != nil {
		return reel.Reel{}, err
	}
	logger.Info("Reel loaded", zap.String("path", cfg.ReelFile), zap.Int("scenes", len(r.Scenes)))
	return r, nil
}

func newSequencer(logger *zap.Logger, sched domain.Scheduler, r reel.Reel, cfg *config.AppConfig) (*sequencer.Sequencer, error) {
	return sequencer.New(logger, sched, r.Scenes, sequencer.WithInterval(cfg.TickInterval))
}

func newGeometry(logger *zap.Logger, cfg *config.AppConfig) display.Geometry {
	return display.NewGeometry(logger, cfg.WindowWidth, cfg.WindowHeight)
}

// newMedia selects the media source and the fullscreen platform. An MPRIS
// player is both, and is attached to the bus before the engine starts.
func newMedia(
	lc fx.Lifecycle,
	logger *zap.Logger,
	cfg *config.AppConfig,
	sched domain.Scheduler,
	r reel.Reel,
	geometry display.Geometry,
) (domain.MediaSource, domain.FullscreenPlatform) {
	switch cfg.Source {
	case config.SourceMpris:
		mpris := monitor.NewMprisSource(logger, sched, cfg.MprisPlayer, cfg.ProgressInterval)
		lc.Append(fx.Hook{
			OnStart: mpris.Connect,
		})
		return mpris, mpris
	case config.SourceStatic:
		return source.NewStaticSource(logger, cfg.AutoplayBlocked),
			display.NewWindow(logger, geometry, cfg.FullscreenDenied)
	default:
		duration := r.Duration(cfg.TickInterval)
		return source.NewReelSource(logger, sched, duration, cfg.ProgressInterval, cfg.AutoplayBlocked),
			display.NewWindow(logger, geometry, cfg.FullscreenDenied)
	}
}

func newTransport(
	logger *zap.Logger,
	cfg *config.AppConfig,
	src domain.MediaSource,
	screen domain.FullscreenPlatform,
) (*transport.Controller, error) {
	policy, err := transport.ParseFullscreenPolicy(cfg.FullscreenPolicy)
	if err != nil {
		return nil, err
	}
	return transport.NewController(logger, src, screen, policy), nil
}

func newRenderer(
	lc fx.Lifecycle,
	logger *zap.Logger,
	cfg domain.Config,
	geometry display.Geometry,
	fetch domain.Fetcher,
) domain.Renderer {
	r := renderer.NewFrameRenderer(logger, cfg, geometry, fetch)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// A missing backdrop falls back to a plain background
			if err := r.LoadBackdrop(ctx); err != nil {
				logger.Warn("Backdrop unavailable", zap.Error(err))
			}
			return nil
		},
	})
	return r
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, e *engine.Engine, shutdowner fx.Shutdowner) {
	inputCtx, stopInput := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Demoreel started", zap.String("version", version))
			if err := e.Start(ctx); err != nil {
				return err
			}

			if input.IsTerminal(os.Stdin) {
				k := input.NewKeyboard(logger, os.Stdin, e, func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Warn("Shutdown request failed", zap.Error(err))
					}
				})
				go func() {
					if err := k.Run(inputCtx); err != nil {
						logger.Error("Keyboard input stopped", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			stopInput()
			return e.Stop(ctx)
		},
	})
}
