package raster

import (
	"image"
	"math"
)

// blurPasses box-blur passes approximate a Gaussian.
const blurPasses = 3

// blurrer holds scratch buffers reused between shadows.
type blurrer struct {
	buf  []float32
	line []float32
	out  []float32
	pix  []uint8
}

// boxRadius maps a canvas-style shadow blur to a box radius. The blur
// value is twice the Gaussian sigma, and three boxes of radius r have a
// variance of r(r+1).
func boxRadius(blur float64) int {
	sigma := blur / 2
	r := int(math.Round((math.Sqrt(1+4*sigma*sigma) - 1) / 2))
	if r < 1 {
		r = 1
	}
	return r
}

// blur returns a blurred copy of mask restricted to area.
func (b *blurrer) blur(mask *image.Alpha, area image.Rectangle, radius int) *image.Alpha {
	w, h := area.Dx(), area.Dy()
	n := w * h
	b.buf = grow(b.buf, n)
	for y := 0; y < h; y++ {
		row := mask.Pix[mask.PixOffset(area.Min.X, area.Min.Y+y):]
		for x := 0; x < w; x++ {
			b.buf[y*w+x] = float32(row[x])
		}
	}

	longest := w
	if h > longest {
		longest = h
	}
	b.line = grow(b.line, longest)
	b.out = grow(b.out, longest)

	for pass := 0; pass < blurPasses; pass++ {
		for y := 0; y < h; y++ {
			row := b.buf[y*w : (y+1)*w]
			blurLine(row, b.out[:w], radius)
			copy(row, b.out[:w])
		}
		for x := 0; x < w; x++ {
			col := b.line[:h]
			for y := 0; y < h; y++ {
				col[y] = b.buf[y*w+x]
			}
			blurLine(col, b.out[:h], radius)
			for y := 0; y < h; y++ {
				b.buf[y*w+x] = b.out[y]
			}
		}
	}

	if cap(b.pix) < n {
		b.pix = make([]uint8, n)
	}
	pix := b.pix[:n]
	for i, v := range b.buf[:n] {
		switch {
		case v <= 0:
			pix[i] = 0
		case v >= 255:
			pix[i] = 255
		default:
			pix[i] = uint8(v + 0.5)
		}
	}
	return &image.Alpha{Pix: pix, Stride: w, Rect: area}
}

// blurLine writes a zero-padded moving average of width 2r+1 into out.
func blurLine(in, out []float32, r int) {
	n := len(in)
	norm := 1 / float32(2*r+1)
	var sum float32
	for i := 0; i < r && i < n; i++ {
		sum += in[i]
	}
	for i := 0; i < n; i++ {
		if j := i + r; j < n {
			sum += in[j]
		}
		out[i] = sum * norm
		if j := i - r; j >= 0 {
			sum -= in[j]
		}
	}
}

func grow(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, n)
	}
	return s[:n]
}
