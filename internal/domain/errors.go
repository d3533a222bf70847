// Package domain defines domain-specific errors.
// These errors represent visualizer failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services and adapters can return.
var (
	// ErrUnsupportedMediaType is returned when a file does not declare an audio media type.
	ErrUnsupportedMediaType = errors.New("unsupported media type: not an audio file")

	// ErrUnsupportedFormat is returned when no decoder exists for an audio container.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrResourceUnavailable is returned when the host denies an analysis facility,
	// an audio output or a drawing surface.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrStaleHandle is returned when an operation needs a handle that is not present yet.
	ErrStaleHandle = errors.New("handle not ready")

	// ErrNoFileLoaded is returned when playback is attempted with no file loaded.
	ErrNoFileLoaded = errors.New("no file loaded")

	// ErrDriverRunning is returned when the animation driver is started twice.
	ErrDriverRunning = errors.New("animation driver already running")

	// ErrInvalidMode is returned for an unknown visualization mode.
	ErrInvalidMode = errors.New("invalid visualization mode")

	// ErrInvalidFFTSize is returned when the analysis window is not a power of two in range.
	ErrInvalidFFTSize = errors.New("invalid fft size")

	// ErrClosed is returned when a closed component is used.
	ErrClosed = errors.New("component closed")
)

// AudioEngineError wraps low-level decoder and output failures with context.
type AudioEngineError struct {
	Op      string // Operation that failed (e.g., "open", "play", "connect")
	Path    string // File path (if applicable)
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AudioEngineError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio engine %s failed for '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("audio engine %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *AudioEngineError) Unwrap() error {
	return e.Err
}

// NewAudioEngineError creates a new AudioEngineError.
func NewAudioEngineError(op, path, message string, err error) *AudioEngineError {
	return &AudioEngineError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "PlaybackService")
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
