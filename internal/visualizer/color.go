package visualizer

import (
	"image/color"
	"math"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// Palette used by the strategies.
var (
	indigo = hex(0x6366f1)
	violet = hex(0x8b5cf6)
	pink   = hex(0xec4899)
	blue   = hex(0x3b82f6)
	slate  = hex(0x334155)
	white  = hex(0xffffff)
)

func hex(rgb uint32) color.NRGBA {
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
}

// withAlpha returns c with its alpha replaced by a in [0, 1].
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = alphaByte(a)
	return c
}

func alphaByte(a float64) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 0xff
	}
	return uint8(math.Round(a * 255))
}

// HSLA converts hue in degrees, saturation and lightness in [0, 1] and
// alpha in [0, 1] into a colour.
func HSLA(hue, s, l, a float64) color.NRGBA {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := HSLToRGB(h/360, s, l)
	return color.NRGBA{
		R: uint8(math.Round(r * 255)),
		G: uint8(math.Round(g * 255)),
		B: uint8(math.Round(b * 255)),
		A: alphaByte(a),
	}
}

// HSLToRGB converts HSL to RGB (h, s, l in 0-1 range).
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return hueToRGB(p, q, h+1.0/3.0), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3.0)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

// glowStops fades c from its own alpha at the centre to transparent at the edge.
func glowStops(c color.NRGBA) []domain.ColorStop {
	return []domain.ColorStop{
		{Offset: 0, Color: c},
		{Offset: 1, Color: withAlpha(c, 0)},
	}
}
