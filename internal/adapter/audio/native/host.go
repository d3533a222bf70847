// Package native plays audio files through the system output and analyses
// what is being played.
//
// Decoding is done in pure Go (go-mp3, go-audio/wav, oggvorbis, flac), the
// output goes through oto, and spectra are computed with gonum's FFT.
package native

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Options configures the output device and the analysers created by a Host.
type Options struct {
	SampleRate  int           // output rate in Hz
	BufferSize  time.Duration // device buffer; 0 lets oto decide
	Smoothing   float64       // time constant in [0, 1)
	MinDecibels float64       // maps to 0
	MaxDecibels float64       // maps to 255
}

// DefaultOptions returns the AnalyserNode defaults at CD rate.
func DefaultOptions() Options {
	return Options{
		SampleRate:  44100,
		Smoothing:   0.8,
		MinDecibels: -100,
		MaxDecibels: -30,
	}
}

// player is the part of *oto.Player a Source drives.
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// device creates players reading float32 stereo at the host rate.
type device interface {
	NewPlayer(r io.Reader) player
}

type otoDevice struct {
	ctx *oto.Context
}

func (d otoDevice) NewPlayer(r io.Reader) player {
	return d.ctx.NewPlayer(r)
}

// Host implements ports.MediaHost and ports.AnalysisFacility on top of the
// system audio output.
//
// The output context is created on the first Open, once per process.
//
// Thread-safety: This implementation is thread-safe.
type Host struct {
	logger *slog.Logger
	opts   Options

	once      sync.Once
	dev       device
	devErr    error
	newDevice func(Options) (device, error)

	mu      sync.Mutex
	sources map[*Source]struct{}
	closed  bool
}

var (
	_ ports.MediaHost        = (*Host)(nil)
	_ ports.AnalysisFacility = (*Host)(nil)
)

// NewHost creates a host. No audio device is touched until a file is opened.
func NewHost(logger *slog.Logger, opts Options) *Host {
	defaults := DefaultOptions()
	if opts.SampleRate <= 0 {
		opts.SampleRate = defaults.SampleRate
	}
	if opts.MaxDecibels <= opts.MinDecibels {
		opts.MinDecibels, opts.MaxDecibels = defaults.MinDecibels, defaults.MaxDecibels
	}
	if opts.Smoothing < 0 || opts.Smoothing >= 1 {
		opts.Smoothing = defaults.Smoothing
	}

	return &Host{
		logger:    logger.With(slog.String("adapter", "native_audio")),
		opts:      opts,
		newDevice: openOtoDevice,
		sources:   make(map[*Source]struct{}),
	}
}

func openOtoDevice(opts Options) (device, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: outputChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   opts.BufferSize,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return otoDevice{ctx: ctx}, nil
}

func (h *Host) device() (device, error) {
	h.once.Do(func() {
		h.dev, h.devErr = h.newDevice(h.opts)
		if h.devErr != nil {
			h.logger.Error("audio output unavailable", slog.Any("error", h.devErr))
			return
		}
		h.logger.Debug("audio output ready", slog.Int("sample_rate", h.opts.SampleRate))
	})
	return h.dev, h.devErr
}

// Open implements ports.MediaHost.
func (h *Host) Open(file domain.AudioFile) (ports.MediaSource, error) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, domain.NewAudioEngineError("open", file.Path, "host closed", domain.ErrClosed)
	}

	dec, err := openDecoder(file.Path, file.Extension())
	if err != nil {
		return nil, domain.NewAudioEngineError("open", file.Path, "cannot decode file", err)
	}

	dev, err := h.device()
	if err != nil {
		_ = dec.Close()
		return nil, domain.NewAudioEngineError("open", file.Path, "audio output unavailable",
			fmt.Errorf("%w: %w", domain.ErrResourceUnavailable, err))
	}

	info := readTrackInfo(file.Path)
	info.SampleRate = dec.SampleRate()
	info.Channels = dec.Channels()
	info.Duration = dec.Duration()

	tap := newRing(domain.MaxFFTSize)
	stream := newPCMStream(dec, h.opts.SampleRate, tap)
	src := &Source{
		host:   h,
		file:   file,
		info:   info,
		stream: stream,
		tap:    tap,
		player: dev.NewPlayer(stream),
	}

	h.mu.Lock()
	h.sources[src] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("source opened",
		slog.String("path", file.Path),
		slog.Int("sample_rate", info.SampleRate),
		slog.Int("channels", info.Channels),
	)
	return src, nil
}

// Connect implements ports.AnalysisFacility.
func (h *Host) Connect(source ports.MediaSource, fftSize int) (ports.Analyser, error) {
	if !domain.IsValidFFTSize(fftSize) {
		return nil, domain.NewAudioEngineError("connect", "", fmt.Sprintf("fft size %d", fftSize), domain.ErrInvalidFFTSize)
	}

	src, ok := source.(*Source)
	if !ok || src.host != h || src.isClosed() {
		return nil, domain.NewAudioEngineError("connect", "", "source is not open on this host", domain.ErrStaleHandle)
	}

	h.logger.Debug("analyser connected", slog.String("path", src.file.Path), slog.Int("fft_size", fftSize))
	return newAnalyser(src, fftSize, h.opts), nil
}

// Options returns the effective options.
func (h *Host) Options() Options {
	return h.opts
}

// Close closes every open source. The output context itself lives for the
// rest of the process.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	sources := make([]*Source, 0, len(h.sources))
	for src := range h.sources {
		sources = append(sources, src)
	}
	h.mu.Unlock()

	for _, src := range sources {
		if err := src.Close(); err != nil {
			h.logger.Warn("failed to close source", slog.String("path", src.file.Path), slog.Any("error", err))
		}
	}
	h.logger.Debug("host closed", slog.Int("sources", len(sources)))
	return nil
}

func (h *Host) forget(src *Source) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sources, src)
}
