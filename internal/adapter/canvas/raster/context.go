// Package raster implements the drawing surface on top of an RGBA pixel
// buffer. Shapes are scan converted with golang.org/x/image/vector into a
// coverage mask and composited with image/draw.
package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Context draws into a single RGBA image. It is not safe for concurrent use.
type Context struct {
	dst    *image.RGBA
	bounds image.Rectangle
	z      vector.Rasterizer
	mask   *image.Alpha
	shadow domain.Shadow
	blur   blurrer
}

// NewContext creates a context drawing into dst.
func NewContext(dst *image.RGBA) *Context {
	b := dst.Bounds()
	return &Context{
		dst:    dst,
		bounds: b,
		mask:   image.NewAlpha(b),
	}
}

// Image returns the image being drawn into.
func (c *Context) Image() *image.RGBA {
	return c.dst
}

// ClearRect resets the covered pixels to transparent black.
func (c *Context) ClearRect(x, y, w, h float64) {
	r := rectPath(x, y, w, h).bounds
	area := image.Rect(
		int(math.Floor(r.minX)), int(math.Floor(r.minY)),
		int(math.Ceil(r.maxX)), int(math.Ceil(r.maxY)),
	).Intersect(c.bounds)
	if area.Empty() {
		return
	}
	draw.Draw(c.dst, area, image.Transparent, image.Point{}, draw.Src)
}

// FillRect fills an axis aligned rectangle.
func (c *Context) FillRect(x, y, w, h float64, paint domain.Paint) {
	if w == 0 || h == 0 {
		return
	}
	c.fill(paint, rectPath(x, y, w, h))
}

// FillCircle fills a disc.
func (c *Context) FillCircle(cx, cy, r float64, paint domain.Paint) {
	if r <= 0 {
		return
	}
	c.fill(paint, discPath(cx, cy, r))
}

// StrokeCircle outlines a circle with a line centred on its radius.
func (c *Context) StrokeCircle(cx, cy, r, lineWidth float64, paint domain.Paint) {
	if r <= 0 || lineWidth <= 0 {
		return
	}
	hw := lineWidth / 2
	c.fill(paint, annulusPath(cx, cy, r-hw, r+hw))
}

// StrokePolyline strokes connected segments with round joins and butt caps.
func (c *Context) StrokePolyline(points []domain.Point, lineWidth float64, paint domain.Paint) {
	paths := polylinePaths(points, lineWidth)
	if len(paths) == 0 {
		return
	}
	c.fill(paint, paths...)
}

// SetShadow applies a glow to subsequent shapes.
func (c *Context) SetShadow(shadow domain.Shadow) {
	c.shadow = shadow
}

// ClearShadow removes any glow.
func (c *Context) ClearShadow() {
	c.shadow = domain.Shadow{}
}

// fill accumulates every subpath into the mask, then composites the mask
// once so overlapping pieces of one shape are not blended twice.
func (c *Context) fill(paint domain.Paint, paths ...subpath) {
	var dirty image.Rectangle
	for _, sp := range paths {
		r := sp.bounds.pixels(c.bounds)
		if r.Empty() {
			continue
		}
		c.z.Reset(r.Dx(), r.Dy())
		sp.trace(pen{z: &c.z, ox: float64(r.Min.X), oy: float64(r.Min.Y)})
		c.z.Draw(c.mask, r, image.Opaque, image.Point{})
		dirty = dirty.Union(r)
	}
	if dirty.Empty() {
		return
	}

	if c.shadow.Active() {
		c.drawShadow(dirty)
	}
	draw.DrawMask(c.dst, dirty, source(paint, c.bounds), dirty.Min, c.mask, dirty.Min, draw.Over)
	c.clearMask(dirty)
}

func (c *Context) drawShadow(dirty image.Rectangle) {
	radius := boxRadius(c.shadow.Blur)
	area := dirty.Inset(-blurPasses * radius).Intersect(c.bounds)
	if area.Empty() {
		return
	}
	blurred := c.blur.blur(c.mask, area, radius)
	draw.DrawMask(c.dst, area, image.NewUniform(c.shadow.Color), image.Point{}, blurred, area.Min, draw.Over)
}

func (c *Context) clearMask(r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := c.mask.PixOffset(r.Min.X, y)
		clear(c.mask.Pix[i : i+r.Dx()])
	}
}

var _ ports.Context2D = (*Context)(nil)
