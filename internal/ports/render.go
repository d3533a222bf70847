package ports

import (
	"time"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// Context2D is the drawing context of a Surface.
//
// Coordinates are in surface pixels with the origin at the top-left corner.
// While a shadow is set, every fill and stroke is preceded by a blurred copy
// of its shape in the shadow colour.
type Context2D interface {
	// ClearRect makes the rectangle fully transparent.
	ClearRect(x, y, w, h float64)

	// FillRect fills an axis-aligned rectangle.
	FillRect(x, y, w, h float64, paint domain.Paint)

	// FillCircle fills a disc.
	FillCircle(cx, cy, r float64, paint domain.Paint)

	// StrokeCircle strokes a circle outline centred on radius r.
	StrokeCircle(cx, cy, r, lineWidth float64, paint domain.Paint)

	// StrokePolyline strokes connected straight segments with round joins.
	StrokePolyline(points []domain.Point, lineWidth float64, paint domain.Paint)

	// SetShadow enables a glow beneath subsequent shapes.
	SetShadow(shadow domain.Shadow)

	// ClearShadow disables the glow.
	ClearShadow()
}

// Surface is a resizable raster render target.
type Surface interface {
	// Size returns the current pixel dimensions, which track the layout size.
	Size() (width, height int)

	// Context returns the drawing context, or nil when the surface has no
	// backing store yet (zero size or not attached to a window).
	Context() Context2D

	// Present publishes the drawn frame to the display.
	Present()
}

// FrameCallback is invoked once for a requested frame.
type FrameCallback func(now time.Time)

// FrameHandle identifies one requested frame; zero is never a valid handle.
type FrameHandle uint64

// FrameScheduler schedules callbacks at the host's refresh cadence.
//
// Implementations must never invoke a callback while holding a lock that
// RequestFrame or CancelFrame acquires.
type FrameScheduler interface {
	// RequestFrame schedules cb for the next frame.
	RequestFrame(cb FrameCallback) FrameHandle

	// CancelFrame removes a pending request. Unknown handles are ignored.
	CancelFrame(handle FrameHandle)
}
