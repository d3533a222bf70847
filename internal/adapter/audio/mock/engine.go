// Package mock provides an in-memory MediaHost and AnalysisFacility.
// It is used for testing services, and for running the shell without an
// audio device.
package mock

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Engine simulates opening, playing and analysing audio without producing sound.
//
// Thread-safety: This implementation is thread-safe.
type Engine struct {
	// Dependencies
	logger *slog.Logger

	mu sync.RWMutex

	// Spectrum reported by analysers of playing sources; nil selects a falling ramp.
	spectrum []byte

	// Bookkeeping for assertions
	opened        int
	liveSources   int
	liveAnalysers int
	connects      int

	// Behavior configuration (for testing error scenarios)
	failOpen    bool
	failConnect bool
	failPlay    bool
}

// NewEngine creates a new mock engine.
func NewEngine() *Engine {
	return &Engine{logger: slog.New(slog.DiscardHandler)}
}

// SetLogger sets the logger for this engine.
func (m *Engine) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger.With(slog.String("adapter", "mock_audio"))
}

// SetSpectrum fixes the magnitudes reported while a source plays. Bins
// beyond len(values) repeat the pattern.
func (m *Engine) SetSpectrum(values []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spectrum = append([]byte(nil), values...)
}

// SetFailOpen configures the mock to fail opening files (for testing).
func (m *Engine) SetFailOpen(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOpen = fail
}

// SetFailConnect configures the mock to refuse analysers (for testing).
func (m *Engine) SetFailConnect(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failConnect = fail
}

// SetFailPlay configures sources to fail starting playback (for testing).
func (m *Engine) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// Open implements ports.MediaHost.
func (m *Engine) Open(file domain.AudioFile) (ports.MediaSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOpen {
		return nil, domain.NewAudioEngineError("open", file.Path, "mock open failed", domain.ErrResourceUnavailable)
	}
	if file.Path == "" {
		return nil, domain.NewAudioEngineError("open", file.Path, "empty path", domain.ErrUnsupportedFormat)
	}

	m.opened++
	m.liveSources++
	m.logger.Debug("source opened", slog.String("path", file.Path))

	name := file.Name
	return &Source{
		engine: m,
		file:   file,
		info: domain.TrackInfo{
			Title:      strings.TrimSuffix(name, filepath.Ext(name)),
			Artist:     "Mock Artist",
			Album:      "Mock Album",
			SampleRate: 44100,
			Channels:   2,
			Duration:   3 * time.Minute,
		},
	}, nil
}

// Connect implements ports.AnalysisFacility.
func (m *Engine) Connect(source ports.MediaSource, fftSize int) (ports.Analyser, error) {
	if !domain.IsValidFFTSize(fftSize) {
		return nil, domain.NewAudioEngineError("connect", "", "bad window size", domain.ErrInvalidFFTSize)
	}

	src, ok := source.(*Source)
	if !ok || src.engine != m || src.isClosed() {
		return nil, domain.NewAudioEngineError("connect", "", "source is not open on this engine", domain.ErrStaleHandle)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failConnect {
		return nil, domain.NewAudioEngineError("connect", src.file.Path, "mock connect failed", domain.ErrResourceUnavailable)
	}

	m.connects++
	m.liveAnalysers++
	return &Analyser{engine: m, source: src, bins: fftSize / 2}, nil
}

// OpenedSources returns how many sources were ever opened.
func (m *Engine) OpenedSources() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opened
}

// LiveSources returns how many sources are open now.
func (m *Engine) LiveSources() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.liveSources
}

// LiveAnalysers returns how many analysers are connected now.
func (m *Engine) LiveAnalysers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.liveAnalysers
}

// Connects returns how many analysers were ever created.
func (m *Engine) Connects() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connects
}

// Close implements io.Closer so the mock can stand in for a real host.
func (m *Engine) Close() error {
	return nil
}

func (m *Engine) fill(dst []byte, bins int, playing bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range dst {
		switch {
		case !playing:
			dst[i] = 0
		case len(m.spectrum) > 0:
			dst[i] = m.spectrum[i%len(m.spectrum)]
		default:
			// Simulate decreasing intensity at higher frequencies
			dst[i] = byte(127 * (1 - float64(i)/float64(bins)))
		}
	}
}

func (m *Engine) released(analyser bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if analyser {
		m.liveAnalysers--
	} else {
		m.liveSources--
	}
}

// Source is a simulated open file.
type Source struct {
	engine *Engine
	file   domain.AudioFile
	info   domain.TrackInfo

	mu      sync.Mutex
	playing bool
	closed  bool
}

// File implements ports.MediaSource.
func (s *Source) File() domain.AudioFile { return s.file }

// Info implements ports.MediaSource.
func (s *Source) Info() domain.TrackInfo { return s.info }

// Play implements ports.MediaSource.
func (s *Source) Play() error {
	s.engine.mu.RLock()
	fail := s.engine.failPlay
	s.engine.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.NewAudioEngineError("play", s.file.Path, "source closed", domain.ErrClosed)
	}
	if fail {
		return domain.NewAudioEngineError("play", s.file.Path, "mock play failed", domain.ErrResourceUnavailable)
	}
	s.playing = true
	return nil
}

// Pause implements ports.MediaSource.
func (s *Source) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.NewAudioEngineError("pause", s.file.Path, "source closed", domain.ErrClosed)
	}
	s.playing = false
	return nil
}

// IsPlaying implements ports.MediaSource.
func (s *Source) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Close implements ports.MediaSource.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.playing = false
	s.mu.Unlock()

	s.engine.released(false)
	return nil
}

func (s *Source) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Analyser reports the engine's spectrum while its source plays and
// silence otherwise.
type Analyser struct {
	engine *Engine
	source *Source
	bins   int

	mu     sync.Mutex
	closed bool
}

// FrequencyBinCount implements ports.Analyser.
func (a *Analyser) FrequencyBinCount() int { return a.bins }

// ByteFrequencyData implements ports.Analyser.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	if len(dst) > a.bins {
		dst = dst[:a.bins]
	}
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	a.engine.fill(dst, a.bins, !closed && a.source.IsPlaying())
}

// Close implements ports.Analyser.
func (a *Analyser) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	a.engine.released(true)
	return nil
}

var (
	_ ports.MediaHost        = (*Engine)(nil)
	_ ports.AnalysisFacility = (*Engine)(nil)
	_ ports.MediaSource      = (*Source)(nil)
	_ ports.Analyser         = (*Analyser)(nil)
)
