package domain

import (
	"image/color"
	"math"
	"sort"
)

// Point is a position in surface pixel coordinates.
type Point struct {
	X, Y float64
}

// ColorStop is one stop of a gradient; Offset is in [0, 1].
type ColorStop struct {
	Offset float64
	Color  color.NRGBA
}

// PaintKind distinguishes solid colours from gradients.
type PaintKind int

// Paint kinds.
const (
	PaintSolid PaintKind = iota
	PaintLinear
	PaintRadial
)

// Paint describes how a shape is filled or stroked.
// Gradients are expressed in surface coordinates.
type Paint struct {
	Kind  PaintKind
	Color color.NRGBA

	// Linear gradients run from Start to End.
	Start, End Point

	// Radial gradients are concentric around Center, from Radius0 to Radius1.
	Center           Point
	Radius0, Radius1 float64

	Stops []ColorStop
}

// SolidPaint returns a single-colour paint.
func SolidPaint(c color.NRGBA) Paint {
	return Paint{Kind: PaintSolid, Color: c}
}

// LinearGradient returns a gradient running from (x0, y0) to (x1, y1).
func LinearGradient(x0, y0, x1, y1 float64, stops ...ColorStop) Paint {
	return Paint{
		Kind:  PaintLinear,
		Start: Point{X: x0, Y: y0},
		End:   Point{X: x1, Y: y1},
		Stops: sortedStops(stops),
	}
}

// RadialGradient returns a gradient between two concentric circles.
func RadialGradient(cx, cy, r0, r1 float64, stops ...ColorStop) Paint {
	return Paint{
		Kind:    PaintRadial,
		Center:  Point{X: cx, Y: cy},
		Radius0: r0,
		Radius1: r1,
		Stops:   sortedStops(stops),
	}
}

func sortedStops(stops []ColorStop) []ColorStop {
	out := append([]ColorStop(nil), stops...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// ColorAt evaluates the paint at a surface position.
func (p Paint) ColorAt(x, y float64) color.NRGBA {
	switch p.Kind {
	case PaintLinear:
		dx, dy := p.End.X-p.Start.X, p.End.Y-p.Start.Y
		lenSq := dx*dx + dy*dy
		if lenSq == 0 {
			return p.colorAtOffset(0)
		}
		t := ((x-p.Start.X)*dx + (y-p.Start.Y)*dy) / lenSq
		return p.colorAtOffset(t)
	case PaintRadial:
		span := p.Radius1 - p.Radius0
		if span <= 0 {
			return p.colorAtOffset(1)
		}
		d := math.Hypot(x-p.Center.X, y-p.Center.Y)
		return p.colorAtOffset((d - p.Radius0) / span)
	default:
		return p.Color
	}
}

// colorAtOffset interpolates the stops at offset t, clamping outside [0, 1].
func (p Paint) colorAtOffset(t float64) color.NRGBA {
	if len(p.Stops) == 0 {
		return color.NRGBA{}
	}
	if t <= p.Stops[0].Offset {
		return p.Stops[0].Color
	}
	last := p.Stops[len(p.Stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(p.Stops); i++ {
		a, b := p.Stops[i-1], p.Stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		return LerpColor(a.Color, b.Color, (t-a.Offset)/span)
	}
	return last.Color
}

// IsOpaque reports whether every colour the paint can produce is fully opaque.
func (p Paint) IsOpaque() bool {
	if p.Kind == PaintSolid {
		return p.Color.A == 0xff
	}
	for _, s := range p.Stops {
		if s.Color.A != 0xff {
			return false
		}
	}
	return len(p.Stops) > 0
}

// LerpColor blends two colours channel by channel.
func LerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Shadow is a soft glow drawn beneath subsequent shapes.
type Shadow struct {
	Blur  float64
	Color color.NRGBA
}

// Active reports whether the shadow has any visible effect.
func (s Shadow) Active() bool {
	return s.Blur > 0 && s.Color.A > 0
}
