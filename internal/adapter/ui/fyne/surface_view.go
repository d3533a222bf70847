package fyne

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/wavescope/internal/adapter/canvas/raster"
)

// SurfaceView displays a raster.Surface and keeps it sized to the layout.
type SurfaceView struct {
	widget.BaseWidget

	surface    *raster.Surface
	raster     *canvas.Raster
	background *canvas.Rectangle
	empty      *image.RGBA
}

// NewSurfaceView creates the widget and hooks it to the surface's Present.
func NewSurfaceView(surface *raster.Surface) *SurfaceView {
	v := &SurfaceView{
		surface:    surface,
		background: canvas.NewRectangle(color.Black),
		empty:      image.NewRGBA(image.Rect(0, 0, 1, 1)),
	}
	v.raster = canvas.NewRaster(v.generate)
	v.raster.SetMinSize(fyne.NewSize(320, 200))
	v.ExtendBaseWidget(v)

	surface.SetOnPresent(func() {
		fyne.Do(v.raster.Refresh)
	})
	return v
}

// generate is the raster callback. It receives the size in device pixels,
// which becomes the surface size on the next tick.
func (v *SurfaceView) generate(w, h int) image.Image {
	v.surface.RequestResize(w, h)
	if frame := v.surface.Frame(); frame != nil {
		return frame
	}
	return v.empty
}

// CreateRenderer implements fyne.Widget.
func (v *SurfaceView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(v.background, v.raster))
}
