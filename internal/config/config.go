// Package config loads the WaveScope configuration file.
//
// Values come from built-in defaults, then an optional YAML file, then
// WAVESCOPE_* environment variables, and are validated last.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/logger"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "wavescope.yaml"

// Environment overrides.
const (
	EnvLogLevel    = logger.EnvLogLevel
	EnvMode        = "WAVESCOPE_MODE"
	EnvFFTSize     = "WAVESCOPE_FFT_SIZE"
	EnvFrameSource = "WAVESCOPE_FRAME_SOURCE"
)

// Frame sources.
const (
	FrameSourceVSync  = "vsync"
	FrameSourceTicker = "ticker"
)

// Config is the root of wavescope.yaml.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Log      LogConfig      `yaml:"log"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Audio    AudioConfig    `yaml:"audio"`
	Render   RenderConfig   `yaml:"render"`
}

// AppConfig identifies the desktop application.
type AppConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// AnalysisConfig holds the analyser parameters.
type AnalysisConfig struct {
	FFTSize   int     `yaml:"fft_size"`
	Smoothing float64 `yaml:"smoothing"`
	MinDB     float64 `yaml:"min_db"`
	MaxDB     float64 `yaml:"max_db"`
}

// AudioConfig holds output settings.
type AudioConfig struct {
	SampleRate int  `yaml:"sample_rate"`
	UseMock    bool `yaml:"use_mock"`
}

// RenderConfig selects the initial mode and the frame cadence.
type RenderConfig struct {
	Mode        string `yaml:"mode"`
	FrameSource string `yaml:"frame_source"`
	TickerFPS   int    `yaml:"ticker_fps"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		App: AppConfig{
			ID:   "com.wavescope.app",
			Name: "WaveScope",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Analysis: AnalysisConfig{
			FFTSize:   domain.DefaultFFTSize,
			Smoothing: 0.8,
			MinDB:     -100,
			MaxDB:     -30,
		},
		Audio: AudioConfig{
			SampleRate: 44100,
		},
		Render: RenderConfig{
			Mode:        string(domain.ModeBars),
			FrameSource: FrameSourceVSync,
			TickerFPS:   60,
		},
	}
}

// LoadConfig builds the configuration. An empty path falls back to
// DefaultFile when it exists; a missing explicit path is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if val, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = val
	}
	if val, ok := os.LookupEnv(EnvMode); ok {
		c.Render.Mode = val
	}
	if val, ok := os.LookupEnv(EnvFrameSource); ok {
		c.Render.FrameSource = strings.ToLower(strings.TrimSpace(val))
	}
	if val, ok := os.LookupEnv(EnvFFTSize); ok {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return domain.NewValidationError(EnvFFTSize, val, "must be an integer")
		}
		c.Analysis.FFTSize = n
	}
	return nil
}

// Validate reports every invalid field, joined.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		errs = append(errs, domain.NewValidationError("log.level", c.Log.Level, "must be one of debug, info, warn, error"))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, domain.NewValidationError("log.format", c.Log.Format, "must be text or json"))
	}

	if !domain.IsValidFFTSize(c.Analysis.FFTSize) {
		errs = append(errs, domain.NewValidationError("analysis.fft_size", c.Analysis.FFTSize,
			fmt.Sprintf("must be a power of two in [%d, %d]", domain.MinFFTSize, domain.MaxFFTSize)))
	}
	if c.Analysis.Smoothing < 0 || c.Analysis.Smoothing >= 1 {
		errs = append(errs, domain.NewValidationError("analysis.smoothing", c.Analysis.Smoothing, "must be in [0, 1)"))
	}
	if c.Analysis.MaxDB <= c.Analysis.MinDB {
		errs = append(errs, domain.NewValidationError("analysis.max_db", c.Analysis.MaxDB, "must be greater than min_db"))
	}

	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		errs = append(errs, domain.NewValidationError("audio.sample_rate", c.Audio.SampleRate, "must be in [8000, 192000]"))
	}

	if _, err := domain.ParseMode(c.Render.Mode); err != nil {
		errs = append(errs, domain.NewValidationError("render.mode", c.Render.Mode, "must be one of bars, wave, circular, flashing"))
	}
	if c.Render.FrameSource != FrameSourceVSync && c.Render.FrameSource != FrameSourceTicker {
		errs = append(errs, domain.NewValidationError("render.frame_source", c.Render.FrameSource, "must be vsync or ticker"))
	}
	if c.Render.TickerFPS < 1 || c.Render.TickerFPS > 240 {
		errs = append(errs, domain.NewValidationError("render.ticker_fps", c.Render.TickerFPS, "must be in [1, 240]"))
	}

	return errors.Join(errs...)
}

// Mode returns the parsed initial mode. Call after Validate.
func (c *Config) Mode() domain.VisualizationMode {
	mode, err := domain.ParseMode(c.Render.Mode)
	if err != nil {
		return domain.ModeBars
	}
	return mode
}

// LogLevel returns the parsed log level, INFO when unset or invalid.
func (c *Config) LogLevel() slog.Level {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}
