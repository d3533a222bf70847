package service

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// ModeSelector owns the selected visualization mode. The shell writes it;
// the animation driver reads it once at the top of every tick.
type ModeSelector struct {
	logger *slog.Logger
	bus    ports.EventBus

	mu      sync.Mutex // serializes Set
	current atomic.Value
}

// NewModeSelector creates a selector. An invalid initial mode falls back to Bars.
func NewModeSelector(logger *slog.Logger, bus ports.EventBus, initial domain.VisualizationMode) *ModeSelector {
	if !initial.IsValid() {
		initial = domain.ModeBars
	}
	m := &ModeSelector{
		logger: logger.With(slog.String("service", "mode_selector")),
		bus:    bus,
	}
	m.current.Store(initial)
	return m
}

// Current returns the selected mode.
func (m *ModeSelector) Current() domain.VisualizationMode {
	return m.current.Load().(domain.VisualizationMode)
}

// Set selects mode. Selecting the current mode again publishes nothing.
func (m *ModeSelector) Set(mode domain.VisualizationMode) error {
	if !mode.IsValid() {
		return domain.NewServiceError("ModeSelector", "set", "unknown mode "+string(mode), domain.ErrInvalidMode)
	}

	m.mu.Lock()
	previous := m.Current()
	if previous == mode {
		m.mu.Unlock()
		return nil
	}
	m.current.Store(mode)
	m.mu.Unlock()

	m.logger.Debug("mode changed", slog.String("from", string(previous)), slog.String("to", string(mode)))
	m.bus.Publish(domain.NewModeChangedEvent(previous, mode))
	return nil
}
