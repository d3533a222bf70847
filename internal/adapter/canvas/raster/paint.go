package raster

import (
	"image"
	"image/color"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// gradientImage exposes a gradient paint as an infinite source image
// sampled at pixel centres.
type gradientImage struct {
	paint  domain.Paint
	bounds image.Rectangle
}

func (g *gradientImage) ColorModel() color.Model { return color.NRGBAModel }

func (g *gradientImage) Bounds() image.Rectangle { return g.bounds }

func (g *gradientImage) At(x, y int) color.Color {
	return g.paint.ColorAt(float64(x)+0.5, float64(y)+0.5)
}

// source converts a paint into a draw source covering bounds.
func source(paint domain.Paint, bounds image.Rectangle) image.Image {
	if paint.Kind == domain.PaintSolid {
		return image.NewUniform(paint.Color)
	}
	return &gradientImage{paint: paint, bounds: bounds}
}
