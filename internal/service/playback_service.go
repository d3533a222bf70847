package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// PlaybackService is the playback and resource lifecycle manager.
//
// It owns the loaded source and its analysis session, moves between
// NoFile, Loaded-Paused and Loaded-Playing, and starts or stops the
// animation driver in lockstep with playback. Events are published after
// the lock is released so subscribers may query the service.
type PlaybackService struct {
	// Dependencies (injected)
	logger   *slog.Logger
	host     ports.MediaHost
	facility ports.AnalysisFacility
	bus      ports.EventBus
	driver   *AnimationDriver
	modes    *ModeSelector
	fftSize  int

	// State
	mu      sync.Mutex
	status  domain.PlaybackStatus
	file    *domain.AudioFile
	source  ports.MediaSource
	session *PlaybackSession
	closed  bool
}

// NewPlaybackService creates a service with no file loaded.
func NewPlaybackService(
	logger *slog.Logger,
	host ports.MediaHost,
	facility ports.AnalysisFacility,
	bus ports.EventBus,
	driver *AnimationDriver,
	modes *ModeSelector,
	fftSize int,
) (*PlaybackService, error) {
	if !domain.IsValidFFTSize(fftSize) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidFFTSize, fftSize)
	}

	s := &PlaybackService{
		logger:   logger.With(slog.String("service", "playback")),
		host:     host,
		facility: facility,
		bus:      bus,
		driver:   driver,
		modes:    modes,
		fftSize:  fftSize,
		status:   domain.StatusNoFile,
	}
	s.logger.Debug("playback service initialized", slog.Int("fft_size", fftSize))
	return s, nil
}

// LoadFile replaces the current file. A file that does not declare an audio
// media type is rejected without touching the current state. Otherwise the
// previous driver, session and source are released before the new file is
// opened, and the service lands in Loaded-Paused.
func (s *PlaybackService) LoadFile(file domain.AudioFile) error {
	var events []domain.Event
	defer func() { s.publish(events) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrClosed
	}

	s.logger.Debug("loading file", slog.String("path", file.Path), slog.String("media_type", file.MediaType))

	if !file.IsAudio() {
		err := fmt.Errorf("%w: %q", domain.ErrUnsupportedMediaType, file.MediaType)
		s.logger.Info("file rejected", slog.String("name", file.Name), slog.Any("error", err))
		events = append(events, domain.NewFileRejectedEvent(file, err))
		return domain.NewServiceError("PlaybackService", "load", "not an audio file", err)
	}

	events = append(events, s.releaseLocked()...)

	src, err := s.host.Open(file)
	if err != nil {
		s.logger.Warn("failed to open file", slog.String("path", file.Path), slog.Any("error", err))
		events = append(events, domain.NewFileRejectedEvent(file, err))
		return domain.NewServiceError("PlaybackService", "load", "failed to open file", err)
	}

	s.source = src
	s.file = &file
	s.status = domain.StatusPaused
	info := src.Info()

	s.logger.Info("file loaded", slog.String("name", file.Name), slog.String("title", info.DisplayTitle(file.Name)))
	events = append(events, domain.NewFileLoadedEvent(file, info))
	return nil
}

// TogglePlay flips between playing and paused. With no file loaded it does nothing.
func (s *PlaybackService) TogglePlay() error {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()

	switch status {
	case domain.StatusPaused:
		return s.Play()
	case domain.StatusPlaying:
		return s.Pause()
	default:
		s.logger.Debug("toggle ignored, no file loaded")
		return nil
	}
}

// Play starts native playback, creates the analysis session on first use
// and starts the animation driver. When the host cannot provide an
// analyser the audio still plays and rendering stays off until Play runs
// again: directly, or through TogglePlay after a pause.
func (s *PlaybackService) Play() error {
	var events []domain.Event
	defer func() { s.publish(events) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrClosed
	}
	if s.source == nil {
		return domain.ErrNoFileLoaded
	}

	if s.status != domain.StatusPlaying {
		if err := s.source.Play(); err != nil {
			s.logger.Warn("failed to start playback", slog.Any("error", err))
			return domain.NewServiceError("PlaybackService", "play", "failed to start playback", err)
		}
		s.status = domain.StatusPlaying
		events = append(events, domain.NewPlaybackStartedEvent(*s.file))
	}

	created, err := s.ensureSessionLocked()
	if created != nil {
		events = append(events, created)
	}
	if err != nil {
		s.logger.Warn("analysis unavailable, rendering disabled", slog.Any("error", err))
		return nil
	}

	if err := s.driver.Start(s.session); err != nil && !errors.Is(err, domain.ErrDriverRunning) {
		s.logger.Warn("failed to start driver", slog.Any("error", err))
	}
	return nil
}

// Pause stops the animation driver and pauses native playback. The
// analysis session is kept for the next Play.
func (s *PlaybackService) Pause() error {
	var events []domain.Event
	defer func() { s.publish(events) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrClosed
	}
	if s.source == nil {
		return domain.ErrNoFileLoaded
	}
	if s.status != domain.StatusPlaying {
		return nil
	}

	s.driver.Stop()
	if err := s.source.Pause(); err != nil {
		s.logger.Warn("failed to pause source", slog.Any("error", err))
	}
	s.status = domain.StatusPaused
	events = append(events, domain.NewPlaybackPausedEvent(*s.file))
	return nil
}

// EnsureSession creates the analysis session for the loaded source unless
// one exists already. Repeated calls return the same session.
func (s *PlaybackService) EnsureSession() (*PlaybackSession, error) {
	var events []domain.Event
	defer func() { s.publish(events) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrClosed
	}
	created, err := s.ensureSessionLocked()
	if created != nil {
		events = append(events, created)
	}
	if err != nil {
		return nil, err
	}
	return s.session, nil
}

func (s *PlaybackService) ensureSessionLocked() (domain.Event, error) {
	if s.session != nil {
		return nil, nil
	}
	if s.source == nil {
		return nil, domain.ErrStaleHandle
	}

	analyser, err := s.facility.Connect(s.source, s.fftSize)
	if err != nil {
		return nil, domain.NewServiceError("PlaybackService", "connect", "failed to create analysis session", err)
	}
	s.session = newPlaybackSession(analyser, s.fftSize)

	s.logger.Debug("session created", slog.Int("fft_size", s.fftSize), slog.Int("bins", s.session.BinCount()))
	return domain.NewSessionCreatedEvent(s.fftSize, s.session.BinCount()), nil
}

// releaseLocked stops the driver, destroys the session and closes the
// source, in that order.
func (s *PlaybackService) releaseLocked() []domain.Event {
	var events []domain.Event

	s.driver.Stop()

	if s.session != nil {
		if err := s.session.close(); err != nil {
			s.logger.Warn("failed to close analyser", slog.Any("error", err))
		}
		s.session = nil
		events = append(events, domain.NewSessionReleasedEvent())
	}

	if s.source != nil {
		if err := s.source.Close(); err != nil {
			s.logger.Warn("failed to close source", slog.Any("error", err))
		}
		s.source = nil
	}

	s.file = nil
	s.status = domain.StatusNoFile
	return events
}

// Shutdown releases every resource and publishes the teardown event. It
// is safe to call more than once.
func (s *PlaybackService) Shutdown() {
	var events []domain.Event
	defer func() { s.publish(events) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	events = append(events, s.releaseLocked()...)
	events = append(events, domain.NewTeardownEvent())

	s.logger.Debug("playback service shut down")
}

// State returns a copy of the current state.
func (s *PlaybackService) State() domain.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := domain.PlaybackState{
		Status:        s.status,
		HasSession:    s.session != nil,
		DriverRunning: s.driver.IsRunning(),
		Mode:          s.modes.Current(),
	}
	if s.file != nil {
		f := *s.file
		state.File = &f
	}
	if s.source != nil {
		state.Track = s.source.Info()
	}
	return state
}

// Mode returns the selected visualization mode.
func (s *PlaybackService) Mode() domain.VisualizationMode {
	return s.modes.Current()
}

// SetMode selects the strategy used from the next frame on.
func (s *PlaybackService) SetMode(mode domain.VisualizationMode) error {
	return s.modes.Set(mode)
}

// Driver returns the animation driver.
func (s *PlaybackService) Driver() *AnimationDriver {
	return s.driver
}

func (s *PlaybackService) publish(events []domain.Event) {
	for _, e := range events {
		s.bus.Publish(e)
	}
}
