package raster

import (
	"image"
	"sync"

	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Surface is a double buffered ports.Surface. Drawing happens on a back
// buffer owned by the render loop; Present publishes a copy that Frame
// hands to the display.
//
// Resize requests are deferred until the next Size call so that the
// buffers are only replaced on the render loop's goroutine.
type Surface struct {
	mu sync.Mutex

	width, height int
	pendingW      int
	pendingH      int
	pending       bool

	back  *image.RGBA
	front *image.RGBA
	spare *image.RGBA
	ctx   *Context

	presents  uint64
	onPresent func()
}

// NewSurface creates a surface of the given size. A zero size is valid and
// yields no drawing context until the surface is resized.
func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.resizeLocked(width, height)
	return s
}

// RequestResize records the displayed size. It is applied on the next Size call.
func (s *Surface) RequestResize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width == s.width && height == s.height {
		s.pending = false
		return
	}
	s.pendingW, s.pendingH, s.pending = width, height, true
}

// Size implements ports.Surface and applies any pending resize.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		s.resizeLocked(s.pendingW, s.pendingH)
		s.pending = false
	}
	return s.width, s.height
}

func (s *Surface) resizeLocked(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.width, s.height = width, height
	if width == 0 || height == 0 {
		s.back, s.front, s.spare, s.ctx = nil, nil, nil, nil
		return
	}
	r := image.Rect(0, 0, width, height)
	s.back = image.NewRGBA(r)
	s.front = image.NewRGBA(r)
	s.spare = image.NewRGBA(r)
	s.ctx = NewContext(s.back)
}

// Context implements ports.Surface. It returns nil while the surface has no pixels.
func (s *Surface) Context() ports.Context2D {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return nil
	}
	return s.ctx
}

// Present implements ports.Surface.
func (s *Surface) Present() {
	s.mu.Lock()
	if s.back == nil {
		s.mu.Unlock()
		return
	}
	copy(s.spare.Pix, s.back.Pix)
	s.front, s.spare = s.spare, s.front
	s.presents++
	hook := s.onPresent
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Frame returns the most recently presented image, or nil when the surface is empty.
func (s *Surface) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.front
}

// Presents returns how many frames have been presented.
func (s *Surface) Presents() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// SetOnPresent registers a hook run after each Present, outside the lock.
func (s *Surface) SetOnPresent(fn func()) {
	s.mu.Lock()
	s.onPresent = fn
	s.mu.Unlock()
}

var _ ports.Surface = (*Surface)(nil)
