// Package service provides the visualizer core: the playback lifecycle
// manager, the animation driver and the mode selection they share.
package service

import (
	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// FrameSampler produces the magnitude snapshot for the current tick.
//
// Sample never blocks. The returned slice is reused on every call, so callers
// must not retain it past the tick.
type FrameSampler interface {
	Sample() domain.MagnitudeSnapshot
}

// PlaybackSession binds one loaded source to its analyser. It owns the
// snapshot buffer, sized once from the transform window.
type PlaybackSession struct {
	analyser ports.Analyser
	fftSize  int
	snapshot domain.MagnitudeSnapshot
}

func newPlaybackSession(analyser ports.Analyser, fftSize int) *PlaybackSession {
	n := analyser.FrequencyBinCount()
	if n <= 0 {
		n = fftSize / 2
	}
	return &PlaybackSession{
		analyser: analyser,
		fftSize:  fftSize,
		snapshot: make(domain.MagnitudeSnapshot, n),
	}
}

// Sample overwrites the session buffer with the analyser's current magnitudes.
func (s *PlaybackSession) Sample() domain.MagnitudeSnapshot {
	s.analyser.ByteFrequencyData(s.snapshot)
	return s.snapshot
}

// FFTSize returns the transform window the session was created with.
func (s *PlaybackSession) FFTSize() int {
	return s.fftSize
}

// BinCount returns the snapshot length.
func (s *PlaybackSession) BinCount() int {
	return len(s.snapshot)
}

func (s *PlaybackSession) close() error {
	return s.analyser.Close()
}

var _ FrameSampler = (*PlaybackSession)(nil)
