// Package ports define interfaces for dependency inversion.
// These interfaces keep the visualizer core independent of audio libraries and UI toolkits.
package ports

import (
	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// MediaSource is a playable, opened audio file.
//
// A source is bound to exactly one AudioFile. Closing it releases every
// file-derived resource (decoder, file handle, output player).
//
// Implementations must be thread-safe.
type MediaSource interface {
	// File returns the file this source was opened from.
	File() domain.AudioFile

	// Info returns the metadata read when the source was opened.
	Info() domain.TrackInfo

	// Play starts or resumes native playback.
	Play() error

	// Pause pauses native playback. The position is kept.
	Pause() error

	// IsPlaying reports whether audio is currently being produced.
	IsPlaying() bool

	// Close stops playback and releases the source. Safe to call more than once.
	Close() error
}

// MediaHost opens audio files into playable sources.
type MediaHost interface {
	// Open decodes the header of file and prepares it for playback.
	//
	// Returns domain.ErrUnsupportedFormat when no decoder exists for the
	// container, and domain.ErrResourceUnavailable when the audio output
	// cannot be acquired.
	Open(file domain.AudioFile) (MediaSource, error)
}

// Analyser is a live binding between a playing source and its spectral analyser.
//
// ByteFrequencyData never blocks: it always reports the current state of
// analysis, even when no new audio has arrived since the previous call.
type Analyser interface {
	// FrequencyBinCount returns fftSize/2, the length of every snapshot.
	FrequencyBinCount() int

	// ByteFrequencyData overwrites dst with the current magnitudes in [0, 255].
	// dst shorter than FrequencyBinCount receives the lowest bins only.
	ByteFrequencyData(dst []byte)

	// Close detaches the analyser from its source.
	Close() error
}

// AnalysisFacility binds media sources into an analysis graph.
type AnalysisFacility interface {
	// Connect wires source -> analyser -> output with a fixed transform
	// window of fftSize samples (a power of two).
	Connect(source MediaSource, fftSize int) (Analyser, error)
}
