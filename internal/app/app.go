// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/wavescope/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/wavescope/internal/adapter/audio/native"
	"github.com/tejashwikalptaru/wavescope/internal/adapter/canvas/raster"
	"github.com/tejashwikalptaru/wavescope/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/wavescope/internal/adapter/scheduler"
	fyneui "github.com/tejashwikalptaru/wavescope/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/wavescope/internal/config"
	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/logger"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
	"github.com/tejashwikalptaru/wavescope/internal/service"
	"github.com/tejashwikalptaru/wavescope/internal/visualizer"
)

// audioBackend is what the application needs from an audio adapter.
type audioBackend interface {
	ports.MediaHost
	ports.AnalysisFacility
	io.Closer
}

// frameScheduler is a closable ports.FrameScheduler.
type frameScheduler interface {
	ports.FrameScheduler
	Close() error
}

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	config Config

	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus  *eventbus.SyncEventBus
	audio     audioBackend
	scheduler frameScheduler
	surface   *raster.Surface

	// Services
	modes    *service.ModeSelector
	driver   *service.AnimationDriver
	playback *service.PlaybackService

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	shutdownOnce sync.Once
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// SampleRate is the audio output rate
	SampleRate int

	// FFTSize is the analysis window; a power of two
	FFTSize int

	// Analyser parameters
	Smoothing float64
	MinDB     float64
	MaxDB     float64

	// Mode is the initial visualization mode
	Mode domain.VisualizationMode

	// FrameSource is config.FrameSourceVSync or config.FrameSourceTicker
	FrameSource string

	// TickerFPS paces the ticker frame source
	TickerFPS int

	// UseMockAudio determines whether to use a mock audio engine (for testing)
	UseMockAudio bool

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// InitialFile is loaded before the window is shown, if set
	InitialFile string

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:        "com.wavescope.app",
		AppName:      "WaveScope",
		SampleRate:   44100,
		FFTSize:      domain.DefaultFFTSize,
		Smoothing:    0.8,
		MinDB:        -100,
		MaxDB:        -30,
		Mode:         domain.ModeBars,
		FrameSource:  config.FrameSourceVSync,
		TickerFPS:    scheduler.DefaultFPS,
		UseMockAudio: false,
		LogLevel:     loggerCfg.Level,
		LogFormat:    loggerCfg.Format,
	}
}

// FromFileConfig derives the application configuration from a loaded file.
func FromFileConfig(c *config.Config) Config {
	return Config{
		AppID:        c.App.ID,
		AppName:      c.App.Name,
		SampleRate:   c.Audio.SampleRate,
		FFTSize:      c.Analysis.FFTSize,
		Smoothing:    c.Analysis.Smoothing,
		MinDB:        c.Analysis.MinDB,
		MaxDB:        c.Analysis.MaxDB,
		Mode:         c.Mode(),
		FrameSource:  c.Render.FrameSource,
		TickerFPS:    c.Render.TickerFPS,
		UseMockAudio: c.Audio.UseMock,
		LogLevel:     c.LogLevel(),
		LogFormat:    c.Log.Format,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(cfg Config) (*Application, error) {
	if !domain.IsValidFFTSize(cfg.FFTSize) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidFFTSize, cfg.FFTSize)
	}

	app := &Application{config: cfg}

	// Step 1: Create Fyne application
	if cfg.TestFyneApp != nil {
		app.fyneApp = cfg.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(cfg.AppID)
	}

	// Step 2: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", cfg.AppID),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 3: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(app.logger.With(slog.String("component", "eventbus")))

	// Step 4: Create the audio backend
	if cfg.UseMockAudio {
		engine := mock.NewEngine()
		engine.SetLogger(app.logger)
		app.audio = engine
	} else {
		app.audio = native.NewHost(app.logger, native.Options{
			SampleRate:  cfg.SampleRate,
			Smoothing:   cfg.Smoothing,
			MinDecibels: cfg.MinDB,
			MaxDecibels: cfg.MaxDB,
		})
	}

	// Step 5: Create the render target and frame source
	app.surface = raster.NewSurface(0, 0)
	switch cfg.FrameSource {
	case config.FrameSourceTicker:
		app.scheduler = scheduler.NewTickerScheduler(app.logger, cfg.TickerFPS)
	default:
		app.scheduler = scheduler.NewAnimationScheduler(app.logger, nil)
	}

	// Step 6: Create services (with dependency injection)
	app.modes = service.NewModeSelector(app.logger, app.eventBus, cfg.Mode)
	app.driver = service.NewAnimationDriver(app.logger, app.scheduler, app.surface, app.modes, visualizer.NewRegistry())

	playback, err := service.NewPlaybackService(app.logger, app.audio, app.audio, app.eventBus, app.driver, app.modes, cfg.FFTSize)
	if err != nil {
		_ = app.scheduler.Close()
		_ = app.audio.Close()
		return nil, fmt.Errorf("failed to create playback service: %w", err)
	}
	app.playback = playback

	// Step 7: Create UI and presenter
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, app.surface, app.logger.With(slog.String("component", "main_window")))
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.playback,
		app.eventBus,
		app.mainWindow,
	)
	app.mainWindow.SetPresenter(app.presenter)

	return app, nil
}

// LoadInitialFile loads Config.InitialFile, if any. A rejected file is
// reported in the window like any other and does not stop the application.
func (a *Application) LoadInitialFile() {
	if a.config.InitialFile == "" {
		return
	}
	file := domain.NewAudioFile(a.config.InitialFile, fyneui.MediaTypeForPath(a.config.InitialFile))
	if err := a.presenter.OnFileOpened(file); err != nil {
		a.logger.Warn("initial file not loaded", slog.String("path", file.Path), slog.Any("error", err))
	}
}

// Run starts the application.
// It blocks until the main window is closed.
func (a *Application) Run() error {
	a.logger.Info("WaveScope started",
		slog.String("mode", string(a.modes.Current())),
		slog.String("frame_source", a.config.FrameSource))

	a.LoadInitialFile()
	a.mainWindow.ShowAndRun()
	return nil
}

// Shutdown gracefully shuts down the application in reverse order of
// construction. It is safe to call more than once.
func (a *Application) Shutdown() error {
	var errs []error

	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.presenter != nil {
			a.presenter.Shutdown()
		}

		if a.playback != nil {
			a.playback.Shutdown()
		}

		if a.scheduler != nil {
			if err := a.scheduler.Close(); err != nil {
				a.logger.Warn("failed to close frame scheduler", slog.Any("error", err))
				errs = append(errs, err)
			}
		}

		if a.audio != nil {
			if err := a.audio.Close(); err != nil {
				a.logger.Warn("failed to close audio backend", slog.Any("error", err))
				errs = append(errs, err)
			}
		}

		if a.eventBus != nil {
			if err := a.eventBus.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		a.logger.Info("application shutdown complete")
	})

	return errors.Join(errs...)
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetPlaybackService returns the playback service.
func (a *Application) GetPlaybackService() *service.PlaybackService {
	return a.playback
}

// GetDriver returns the animation driver.
func (a *Application) GetDriver() *service.AnimationDriver {
	return a.driver
}

// GetSurface returns the visualization surface.
func (a *Application) GetSurface() *raster.Surface {
	return a.surface
}

// GetMainWindow returns the main window.
func (a *Application) GetMainWindow() *fyneui.MainWindow {
	return a.mainWindow
}
