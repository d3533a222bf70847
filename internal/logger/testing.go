// Package logger provides test helpers for structured logging.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// NewTestLogger creates a logger for tests.
// Only warnings and errors are printed unless TEST_DEBUG is set.
func NewTestLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("TEST_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return NewLogger(Config{Level: level, Format: "text", Output: os.Stdout})
}

// NewCaptureLogger creates a debug-level logger writing to w, for tests that
// assert on log output.
func NewCaptureLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
