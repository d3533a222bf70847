// Package domain defines the core domain models for WaveScope.
// These models are independent of any infrastructure or UI framework.
package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// VisualizationMode selects the render strategy used by the animation driver.
type VisualizationMode string

// Available visualization modes.
const (
	ModeBars     VisualizationMode = "bars"
	ModeWave     VisualizationMode = "wave"
	ModeCircular VisualizationMode = "circular"
	ModeFlashing VisualizationMode = "flashing"
)

// Modes returns every selectable mode in menu order.
func Modes() []VisualizationMode {
	return []VisualizationMode{ModeBars, ModeWave, ModeCircular, ModeFlashing}
}

// DisplayName returns the label shown in the mode selector.
func (m VisualizationMode) DisplayName() string {
	switch m {
	case ModeBars:
		return "Bars"
	case ModeWave:
		return "Wave"
	case ModeCircular:
		return "Circular"
	case ModeFlashing:
		return "Flashing"
	default:
		return string(m)
	}
}

// IsValid reports whether m is one of the four known modes.
func (m VisualizationMode) IsValid() bool {
	switch m {
	case ModeBars, ModeWave, ModeCircular, ModeFlashing:
		return true
	}
	return false
}

// ParseMode converts a mode identifier or display name (case-insensitive) into a mode.
func ParseMode(s string) (VisualizationMode, error) {
	candidate := VisualizationMode(strings.ToLower(strings.TrimSpace(s)))
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %w", ErrInvalidMode, NewValidationError("mode", s, "must be one of bars, wave, circular, flashing"))
}

// Analysis window bounds.
const (
	MinFFTSize     = 32
	MaxFFTSize     = 32768
	DefaultFFTSize = 2048
)

// IsValidFFTSize reports whether n is a power of two within [MinFFTSize, MaxFFTSize].
func IsValidFFTSize(n int) bool {
	return n >= MinFFTSize && n <= MaxFFTSize && n&(n-1) == 0
}

// MagnitudeSnapshot holds one frame of per-bin magnitudes in [0, 255].
// A snapshot is overwritten in place every tick and never retained.
type MagnitudeSnapshot []uint8

// NewMagnitudeSnapshot allocates a snapshot sized for the given transform window.
func NewMagnitudeSnapshot(fftSize int) MagnitudeSnapshot {
	return make(MagnitudeSnapshot, fftSize/2)
}

// Mean returns the average magnitude across all bins (0 for an empty snapshot).
func (s MagnitudeSnapshot) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum int
	for _, v := range s {
		sum += int(v)
	}
	return float64(sum) / float64(len(s))
}

// Fraction returns bin i scaled into [0, 1].
func (s MagnitudeSnapshot) Fraction(i int) float64 {
	return float64(s[i]) / 255.0
}

// AudioFile describes a user-supplied file before it is opened.
type AudioFile struct {
	Path      string
	Name      string
	MediaType string // declared MIME type, e.g. "audio/mpeg"
}

// NewAudioFile builds an AudioFile from a path and its declared media type.
func NewAudioFile(path, mediaType string) AudioFile {
	return AudioFile{
		Path:      path,
		Name:      filepath.Base(path),
		MediaType: mediaType,
	}
}

// IsAudio reports whether the declared media type is an audio type.
func (f AudioFile) IsAudio() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(f.MediaType)), "audio/")
}

// Extension returns the lower-case file extension without the dot.
func (f AudioFile) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Path)), ".")
}

// TrackInfo contains the descriptive metadata of an opened source.
type TrackInfo struct {
	Title      string
	Artist     string
	Album      string
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// DisplayTitle formats the track for the shell, falling back to the file name.
func (t TrackInfo) DisplayTitle(fallback string) string {
	switch {
	case t.Artist != "" && t.Title != "":
		return fmt.Sprintf("%s - %s", t.Artist, t.Title)
	case t.Title != "":
		return t.Title
	default:
		return fallback
	}
}

// PlaybackStatus is the lifecycle state of the playback manager.
type PlaybackStatus int

// Lifecycle states.
const (
	StatusNoFile PlaybackStatus = iota
	StatusPaused
	StatusPlaying
)

// String returns a human-readable representation of the status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusNoFile:
		return "NoFile"
	case StatusPaused:
		return "Loaded-Paused"
	case StatusPlaying:
		return "Loaded-Playing"
	default:
		return "Unknown"
	}
}

// PlaybackState is a point-in-time copy of the playback manager state.
type PlaybackState struct {
	Status        PlaybackStatus
	File          *AudioFile
	Track         TrackInfo
	HasSession    bool
	DriverRunning bool
	Mode          VisualizationMode
}

// DriverStats counts animation driver activity.
type DriverStats struct {
	FramesRendered uint64
	TicksSkipped   uint64
	LastFrame      time.Time
}
