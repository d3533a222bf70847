// Package logger provides structured logging configuration using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable that overrides the log level.
const EnvLogLevel = "WAVESCOPE_LOG_LEVEL"

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string    // "text" or "json"
	Output io.Writer // defaults to os.Stderr
}

// NewLogger creates a configured slog.Logger.
func NewLogger(cfg Config) *slog.Logger {
	var handler slog.Handler

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		// Source locations only at debug level
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps DEBUG, INFO, WARN, WARNING and ERROR (any case) to a level.
// The second result is false for unrecognised input.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// DefaultConfig returns the default logger configuration.
// WAVESCOPE_LOG_LEVEL overrides the INFO default.
func DefaultConfig() Config {
	level := slog.LevelInfo

	if envLevel := os.Getenv(EnvLogLevel); envLevel != "" {
		if parsed, ok := ParseLevel(envLevel); ok {
			level = parsed
		}
	}

	return Config{
		Level:  level,
		Format: "text",
	}
}
