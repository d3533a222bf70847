package native

import (
	"errors"
	"sync"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Source is an opened file bound to one output player.
type Source struct {
	host *Host
	file domain.AudioFile
	info domain.TrackInfo
	tap  *ring

	mu     sync.Mutex
	stream *pcmStream
	player player
	closed bool
}

var _ ports.MediaSource = (*Source)(nil)

// File implements ports.MediaSource.
func (s *Source) File() domain.AudioFile { return s.file }

// Info implements ports.MediaSource.
func (s *Source) Info() domain.TrackInfo { return s.info }

// Play implements ports.MediaSource.
func (s *Source) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.NewAudioEngineError("play", s.file.Path, "source closed", domain.ErrStaleHandle)
	}
	s.player.Play()
	return nil
}

// Pause implements ports.MediaSource.
func (s *Source) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.NewAudioEngineError("pause", s.file.Path, "source closed", domain.ErrStaleHandle)
	}
	s.player.Pause()
	return nil
}

// IsPlaying implements ports.MediaSource.
func (s *Source) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.player.IsPlaying()
}

// Close implements ports.MediaSource.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.host.forget(s)
	err := errors.Join(s.player.Close(), s.stream.Close())
	s.tap.Reset()
	return err
}

func (s *Source) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
