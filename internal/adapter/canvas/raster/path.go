package raster

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// box is a floating point bounding box in surface coordinates.
type box struct {
	minX, minY, maxX, maxY float64
}

func boxOf(points ...domain.Point) box {
	b := box{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, p := range points {
		b.minX = math.Min(b.minX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxX = math.Max(b.maxX, p.X)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	return b
}

// pixels returns the covering integer rectangle, clipped to clip.
func (b box) pixels(clip image.Rectangle) image.Rectangle {
	if math.IsNaN(b.minX) || math.IsNaN(b.minY) || math.IsInf(b.minX, 0) || math.IsInf(b.maxX, 0) {
		return image.Rectangle{}
	}
	r := image.Rect(
		int(math.Floor(b.minX))-1, int(math.Floor(b.minY))-1,
		int(math.Ceil(b.maxX))+1, int(math.Ceil(b.maxY))+1,
	)
	return r.Intersect(clip)
}

// pen issues path commands to a rasterizer whose origin sits at (ox, oy).
type pen struct {
	z      *vector.Rasterizer
	ox, oy float64
}

func (p pen) moveTo(x, y float64) {
	p.z.MoveTo(float32(x-p.ox), float32(y-p.oy))
}

func (p pen) lineTo(x, y float64) {
	p.z.LineTo(float32(x-p.ox), float32(y-p.oy))
}

func (p pen) cubeTo(x1, y1, x2, y2, x3, y3 float64) {
	p.z.CubeTo(
		float32(x1-p.ox), float32(y1-p.oy),
		float32(x2-p.ox), float32(y2-p.oy),
		float32(x3-p.ox), float32(y3-p.oy),
	)
}

func (p pen) closePath() {
	p.z.ClosePath()
}

// circle traces a full circle starting on +x. clockwise is in screen space (y down).
func (p pen) circle(cx, cy, r float64, clockwise bool) {
	k := r * kappa
	s := 1.0
	if !clockwise {
		s = -1
	}
	p.moveTo(cx+r, cy)
	p.cubeTo(cx+r, cy+s*k, cx+k, cy+s*r, cx, cy+s*r)
	p.cubeTo(cx-k, cy+s*r, cx-r, cy+s*k, cx-r, cy)
	p.cubeTo(cx-r, cy-s*k, cx-k, cy-s*r, cx, cy-s*r)
	p.cubeTo(cx+k, cy-s*r, cx+r, cy-s*k, cx+r, cy)
	p.closePath()
}

// subpath is one independently rasterized piece of a shape.
type subpath struct {
	bounds box
	trace  func(p pen)
}

func rectPath(x, y, w, h float64) subpath {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	return subpath{
		bounds: box{minX: x, minY: y, maxX: x + w, maxY: y + h},
		trace: func(p pen) {
			p.moveTo(x, y)
			p.lineTo(x+w, y)
			p.lineTo(x+w, y+h)
			p.lineTo(x, y+h)
			p.closePath()
		},
	}
}

func discPath(cx, cy, r float64) subpath {
	return subpath{
		bounds: box{minX: cx - r, minY: cy - r, maxX: cx + r, maxY: cy + r},
		trace: func(p pen) {
			p.circle(cx, cy, r, true)
		},
	}
}

// annulusPath winds the inner circle against the outer one to cut the hole.
func annulusPath(cx, cy, inner, outer float64) subpath {
	return subpath{
		bounds: box{minX: cx - outer, minY: cy - outer, maxX: cx + outer, maxY: cy + outer},
		trace: func(p pen) {
			p.circle(cx, cy, outer, true)
			if inner > 0 {
				p.circle(cx, cy, inner, false)
			}
		},
	}
}

func quadPath(a, b, c, d domain.Point) subpath {
	return subpath{
		bounds: boxOf(a, b, c, d),
		trace: func(p pen) {
			p.moveTo(a.X, a.Y)
			p.lineTo(b.X, b.Y)
			p.lineTo(c.X, c.Y)
			p.lineTo(d.X, d.Y)
			p.closePath()
		},
	}
}

// polylinePaths strokes each segment as a quad and rounds the interior joins.
func polylinePaths(points []domain.Point, lineWidth float64) []subpath {
	if len(points) < 2 || lineWidth <= 0 {
		return nil
	}
	hw := lineWidth / 2
	out := make([]subpath, 0, 2*len(points))
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*hw, dx/length*hw
		out = append(out, quadPath(
			domain.Point{X: a.X + nx, Y: a.Y + ny},
			domain.Point{X: b.X + nx, Y: b.Y + ny},
			domain.Point{X: b.X - nx, Y: b.Y - ny},
			domain.Point{X: a.X - nx, Y: a.Y - ny},
		))
	}
	for i := 1; i < len(points)-1; i++ {
		out = append(out, discPath(points[i].X, points[i].Y, hw))
	}
	return out
}
