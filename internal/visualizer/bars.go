package visualizer

import (
	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

const (
	barWidthFactor = 2.5
	barGutter      = 1.0
)

// Bars draws one vertical gradient bar per frequency bin, anchored to the bottom edge.
// Columns are wider than width/n, so high bins run off the right edge.
type Bars struct{}

// Mode implements Strategy.
func (Bars) Mode() domain.VisualizationMode { return domain.ModeBars }

// Render implements Strategy.
func (Bars) Render(ctx ports.Context2D, f Frame) {
	n := len(f.Snapshot)
	if n == 0 {
		return
	}

	barWidth := f.Width / float64(n) * barWidthFactor
	x := 0.0
	for _, v := range f.Snapshot {
		h := float64(v) / 255 * f.Height
		top := f.Height - h
		paint := domain.LinearGradient(0, top, 0, f.Height,
			domain.ColorStop{Offset: 0, Color: indigo},
			domain.ColorStop{Offset: 0.5, Color: violet},
			domain.ColorStop{Offset: 1, Color: pink},
		)
		ctx.FillRect(x, top, barWidth, h, paint)
		x += barWidth + barGutter
	}
}

var _ Strategy = Bars{}
