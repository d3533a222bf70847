// Package fyne provides the Fyne desktop shell: the main window, the
// visualization surface widget and the presenter that connects them to
// the playback service.
package fyne

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
	"github.com/tejashwikalptaru/wavescope/internal/service"
)

// Presenter implements the Presenter pattern (MVP architecture).
// It turns domain events into view updates and view commands into
// playback service calls.
//
// Thread-safety: All operations are thread-safe.
type Presenter struct {
	// Dependencies
	logger   *slog.Logger
	playback *service.PlaybackService
	bus      ports.EventBus
	view     ports.View

	mu           sync.Mutex
	subs         []domain.SubscriptionID
	shutdownOnce sync.Once
}

// NewPresenter creates a presenter, subscribes it to the bus and syncs the
// view with the current playback state.
func NewPresenter(
	logger *slog.Logger,
	playback *service.PlaybackService,
	bus ports.EventBus,
	view ports.View,
) *Presenter {
	p := &Presenter{
		logger:   logger,
		playback: playback,
		bus:      bus,
		view:     view,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		domain.EventFileLoaded:      p.onFileLoaded,
		domain.EventFileRejected:    p.onFileRejected,
		domain.EventPlaybackStarted: p.onPlaybackStarted,
		domain.EventPlaybackPaused:  p.onPlaybackPaused,
		domain.EventModeChanged:     p.onModeChanged,
		domain.EventTeardown:        p.onTeardown,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for eventType, handler := range subscriptions {
		p.subs = append(p.subs, p.bus.Subscribe(eventType, handler))
	}
}

func (p *Presenter) syncInitialState() {
	state := p.playback.State()

	p.view.SetMode(state.Mode)
	p.view.SetPlayState(state.Status == domain.StatusPlaying)
	p.view.SetPlayEnabled(state.Status != domain.StatusNoFile)
	if state.File != nil {
		p.view.SetTrackInfo(state.Track.DisplayTitle(state.File.Name))
	} else {
		p.view.SetTrackInfo("")
	}
}

// Event handlers

func (p *Presenter) onFileLoaded(event domain.Event) {
	e, ok := event.(domain.FileLoadedEvent)
	if !ok {
		return
	}
	p.view.SetTrackInfo(e.Track.DisplayTitle(e.File.Name))
	p.view.SetPlayEnabled(true)
	p.view.SetPlayState(false)
}

func (p *Presenter) onFileRejected(event domain.Event) {
	e, ok := event.(domain.FileRejectedEvent)
	if !ok {
		return
	}

	switch {
	case errors.Is(e.Reason, domain.ErrUnsupportedMediaType):
		p.view.ShowNotice("Not an audio file", fmt.Sprintf("%s is not an audio file.", e.File.Name))
	case errors.Is(e.Reason, domain.ErrUnsupportedFormat):
		p.view.ShowNotice("Unsupported format", fmt.Sprintf("%s cannot be decoded.", e.File.Name))
	default:
		p.view.ShowNotice("Cannot open file", fmt.Sprintf("%s: %v", e.File.Name, e.Reason))
	}

	// a failed open has already released the previous file
	state := p.playback.State()
	if state.Status == domain.StatusNoFile {
		p.view.SetTrackInfo("")
		p.view.SetPlayEnabled(false)
		p.view.SetPlayState(false)
	}
}

func (p *Presenter) onPlaybackStarted(domain.Event) {
	p.view.SetPlayState(true)
}

func (p *Presenter) onPlaybackPaused(domain.Event) {
	p.view.SetPlayState(false)
}

func (p *Presenter) onModeChanged(event domain.Event) {
	e, ok := event.(domain.ModeChangedEvent)
	if !ok {
		return
	}
	p.view.SetMode(e.Mode)
}

func (p *Presenter) onTeardown(domain.Event) {
	p.view.SetPlayState(false)
	p.view.SetPlayEnabled(false)
}

// UI Command handlers (called by UI)

// OnFileOpened loads a file chosen by the user. Rejections are reported
// through the file.rejected event, so the error is only logged here.
func (p *Presenter) OnFileOpened(file domain.AudioFile) error {
	if err := p.playback.LoadFile(file); err != nil {
		p.logger.Info("file not loaded", slog.String("name", file.Name), slog.Any("error", err))
		return err
	}
	return nil
}

// OnPlayClicked handles the play button click.
func (p *Presenter) OnPlayClicked() {
	if err := p.playback.TogglePlay(); err != nil {
		p.logger.Error("play/pause failed", slog.Any("error", err))
		p.view.ShowNotice("Playback Error", fmt.Sprintf("Failed to toggle playback: %v", err))
	}
}

// OnModeSelected handles a mode chosen in the selector or via a shortcut.
func (p *Presenter) OnModeSelected(mode domain.VisualizationMode) {
	if err := p.playback.SetMode(mode); err != nil {
		p.logger.Warn("mode change rejected", slog.String("mode", string(mode)), slog.Any("error", err))
		p.view.ShowNotice("Visualization", fmt.Sprintf("Unknown mode %q", mode))
	}
}

// Shutdown unsubscribes from the bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		subs := p.subs
		p.subs = nil
		p.mu.Unlock()

		for _, id := range subs {
			p.bus.Unsubscribe(id)
		}
	})
}
