// Package visualizer provides the render strategies that turn a magnitude
// snapshot into drawing commands on a ports.Context2D.
package visualizer

import (
	"time"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Frame is everything a strategy may read during one render call.
type Frame struct {
	Snapshot domain.MagnitudeSnapshot
	Width    float64
	Height   float64
	Time     time.Time
}

// Strategy draws one visualization mode.
//
// Render is deterministic in (Snapshot, Width, Height, Time) and keeps no
// state between calls. The surface has already been prepared (cleared, or
// painted by PaintBackground) when Render runs.
type Strategy interface {
	Mode() domain.VisualizationMode
	Render(ctx ports.Context2D, frame Frame)
}

// BackgroundPainter is implemented by strategies that replace the full clear
// before each frame with their own background.
type BackgroundPainter interface {
	PaintBackground(ctx ports.Context2D, frame Frame)
}

// Factory returns the strategy for a mode, falling back to Bars.
func Factory(mode domain.VisualizationMode) Strategy {
	switch mode {
	case domain.ModeWave:
		return Wave{}
	case domain.ModeCircular:
		return Circular{}
	case domain.ModeFlashing:
		return Flashing{}
	default:
		return Bars{}
	}
}

// Registry maps every mode to its strategy. Strategies are stateless, so one
// registry can be shared by every driver.
type Registry map[domain.VisualizationMode]Strategy

// NewRegistry builds a registry holding all four strategies.
func NewRegistry() Registry {
	r := make(Registry, len(domain.Modes()))
	for _, m := range domain.Modes() {
		r[m] = Factory(m)
	}
	return r
}

// Lookup returns the strategy for mode, or Bars for an unknown mode.
func (r Registry) Lookup(mode domain.VisualizationMode) Strategy {
	if s, ok := r[mode]; ok {
		return s
	}
	return Bars{}
}

// ModeInfo pairs a mode with its display name for selector widgets.
type ModeInfo struct {
	Mode domain.VisualizationMode
	Name string
}

// GetModes returns all modes with their display names in menu order.
func GetModes() []ModeInfo {
	modes := domain.Modes()
	out := make([]ModeInfo, 0, len(modes))
	for _, m := range modes {
		out = append(out, ModeInfo{Mode: m, Name: m.DisplayName()})
	}
	return out
}
