package visualizer

import (
	"math"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

const (
	ringInset     = 20.0
	ringLineWidth = 2.0
	tickLineWidth = 2.0
	tickScale     = 0.5
)

// Circular draws a base ring and one radial tick per bin growing outward from it.
// Bin 0 points along +x and bins advance clockwise on screen.
type Circular struct{}

// Mode implements Strategy.
func (Circular) Mode() domain.VisualizationMode { return domain.ModeCircular }

// Render implements Strategy. Surfaces too small for a positive ring radius draw nothing.
func (Circular) Render(ctx ports.Context2D, f Frame) {
	cx, cy := f.Width/2, f.Height/2
	radius := math.Min(f.Width, f.Height)/2 - ringInset
	if radius <= 0 {
		return
	}

	ctx.StrokeCircle(cx, cy, radius, ringLineWidth, domain.SolidPaint(slate))

	n := len(f.Snapshot)
	if n == 0 {
		return
	}

	step := 2 * math.Pi / float64(n)
	for i, v := range f.Snapshot {
		length := radius * (float64(v) / 255) * tickScale
		if length <= 0 {
			continue
		}

		cos, sin := math.Cos(float64(i)*step), math.Sin(float64(i)*step)
		x1, y1 := cx+cos*radius, cy+sin*radius
		x2, y2 := cx+cos*(radius+length), cy+sin*(radius+length)

		paint := domain.LinearGradient(x1, y1, x2, y2,
			domain.ColorStop{Offset: 0, Color: blue},
			domain.ColorStop{Offset: 1, Color: pink},
		)
		ctx.StrokePolyline([]domain.Point{{X: x1, Y: y1}, {X: x2, Y: y2}}, tickLineWidth, paint)
	}
}

var _ Strategy = Circular{}
