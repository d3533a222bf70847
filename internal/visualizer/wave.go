package visualizer

import (
	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

const (
	waveLineWidth = 2.0
	waveGlowBlur  = 15.0
)

// Wave plots the snapshot as a polyline. A bin of 128 sits on the horizontal
// centre line; the path always ends at (width, height/2).
type Wave struct{}

// Mode implements Strategy.
func (Wave) Mode() domain.VisualizationMode { return domain.ModeWave }

// Render implements Strategy.
func (Wave) Render(ctx ports.Context2D, f Frame) {
	n := len(f.Snapshot)
	if n == 0 {
		return
	}

	slice := f.Width / float64(n)
	points := make([]domain.Point, 0, n+1)
	for i, v := range f.Snapshot {
		points = append(points, domain.Point{
			X: float64(i) * slice,
			Y: float64(v) / 128.0 * f.Height / 2,
		})
	}
	points = append(points, domain.Point{X: f.Width, Y: f.Height / 2})

	paint := domain.SolidPaint(indigo)
	ctx.StrokePolyline(points, waveLineWidth, paint)

	// second pass with glow, then reset so the next strategy starts clean
	ctx.SetShadow(domain.Shadow{Blur: waveGlowBlur, Color: indigo})
	ctx.StrokePolyline(points, waveLineWidth, paint)
	ctx.ClearShadow()
}

var _ Strategy = Wave{}
