package visualizer

import (
	"image/color"
	"math"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

const (
	flashLights        = 12
	flashThreshold     = 0.05
	flashOrbitFactor   = 0.35
	flashMinSize       = 15.0
	flashSizeRange     = 45.0
	flashHueStep       = 30.0
	flashHueDriftMs    = 50.0
	flashGlowPerFrac   = 30.0
	flashCenterFactor  = 0.15
	trailMinAlpha      = 0.2
	trailQuietAddition = 0.3
)

// Flashing draws twelve pulsing lights around the centre over a translucent
// trail fill, plus one centre light driven by overall loudness.
// Hues drift with wall-clock time.
type Flashing struct{}

// Mode implements Strategy.
func (Flashing) Mode() domain.VisualizationMode { return domain.ModeFlashing }

// Intensity returns the mean magnitude of the snapshot in [0, 1].
func Intensity(s domain.MagnitudeSnapshot) float64 {
	return s.Mean() / 255
}

// TrailAlpha returns the opacity of the black trail fill for an intensity.
// Quiet audio gives a more opaque fill and therefore shorter trails.
func TrailAlpha(intensity float64) float64 {
	return trailMinAlpha + (1-intensity)*trailQuietAddition
}

// PaintBackground implements BackgroundPainter.
func (Flashing) PaintBackground(ctx ports.Context2D, f Frame) {
	alpha := TrailAlpha(Intensity(f.Snapshot))
	ctx.FillRect(0, 0, f.Width, f.Height, domain.SolidPaint(withAlpha(color.NRGBA{}, alpha)))
}

// Render implements Strategy.
func (Flashing) Render(ctx ports.Context2D, f Frame) {
	n := len(f.Snapshot)
	if n == 0 {
		return
	}

	intensity := Intensity(f.Snapshot)
	cx, cy := f.Width/2, f.Height/2
	minDim := math.Min(f.Width, f.Height)
	orbit := minDim * flashOrbitFactor
	drift := float64(f.Time.UnixMilli()) / flashHueDriftMs

	for i := 0; i < flashLights; i++ {
		frac := f.Snapshot.Fraction(i * n / flashLights)
		if frac < flashThreshold {
			continue
		}

		angle := float64(i) * 2 * math.Pi / flashLights
		dist := orbit * (0.5 + 0.5*frac)
		x, y := cx+math.Cos(angle)*dist, cy+math.Sin(angle)*dist
		size := flashMinSize + flashSizeRange*frac

		c := HSLA(float64(i)*flashHueStep+drift, 1, 0.6, frac)
		paint := domain.RadialGradient(x, y, 0, size, glowStops(c)...)

		ctx.FillCircle(x, y, size, paint)

		ctx.SetShadow(domain.Shadow{Blur: flashGlowPerFrac * frac, Color: c})
		ctx.FillCircle(x, y, size, paint)
		ctx.ClearShadow()
	}

	centerSize := minDim * flashCenterFactor * intensity
	center := domain.RadialGradient(cx, cy, 0, centerSize, glowStops(withAlpha(white, intensity))...)
	ctx.FillCircle(cx, cy, centerSize, center)
}

var (
	_ Strategy          = Flashing{}
	_ BackgroundPainter = Flashing{}
)
