// Package recorder provides a Context2D and Surface that record drawing
// commands instead of producing pixels. It backs strategy and driver tests.
package recorder

import (
	"sync"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Op names a recorded drawing command.
type Op string

// Recorded operations.
const (
	OpClearRect      Op = "clearRect"
	OpFillRect       Op = "fillRect"
	OpFillCircle     Op = "fillCircle"
	OpStrokeCircle   Op = "strokeCircle"
	OpStrokePolyline Op = "strokePolyline"
	OpSetShadow      Op = "setShadow"
	OpClearShadow    Op = "clearShadow"
)

// Call is one recorded command. Only the fields relevant to Op are set;
// Shadow is the shadow in effect when the command ran.
type Call struct {
	Op        Op
	X, Y      float64
	W, H      float64
	R         float64
	LineWidth float64
	Points    []domain.Point
	Paint     domain.Paint
	Shadow    domain.Shadow
}

// Context records every Context2D call.
type Context struct {
	mu     sync.Mutex
	calls  []Call
	shadow domain.Shadow
}

// New creates an empty recording context.
func New() *Context {
	return &Context{}
}

func (c *Context) record(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	call.Shadow = c.shadow
	c.calls = append(c.calls, call)
}

// ClearRect implements ports.Context2D.
func (c *Context) ClearRect(x, y, w, h float64) {
	c.record(Call{Op: OpClearRect, X: x, Y: y, W: w, H: h})
}

// FillRect implements ports.Context2D.
func (c *Context) FillRect(x, y, w, h float64, paint domain.Paint) {
	c.record(Call{Op: OpFillRect, X: x, Y: y, W: w, H: h, Paint: paint})
}

// FillCircle implements ports.Context2D.
func (c *Context) FillCircle(cx, cy, r float64, paint domain.Paint) {
	c.record(Call{Op: OpFillCircle, X: cx, Y: cy, R: r, Paint: paint})
}

// StrokeCircle implements ports.Context2D.
func (c *Context) StrokeCircle(cx, cy, r, lineWidth float64, paint domain.Paint) {
	c.record(Call{Op: OpStrokeCircle, X: cx, Y: cy, R: r, LineWidth: lineWidth, Paint: paint})
}

// StrokePolyline implements ports.Context2D.
func (c *Context) StrokePolyline(points []domain.Point, lineWidth float64, paint domain.Paint) {
	c.record(Call{
		Op:        OpStrokePolyline,
		Points:    append([]domain.Point(nil), points...),
		LineWidth: lineWidth,
		Paint:     paint,
	})
}

// SetShadow implements ports.Context2D.
func (c *Context) SetShadow(shadow domain.Shadow) {
	c.mu.Lock()
	c.shadow = shadow
	c.calls = append(c.calls, Call{Op: OpSetShadow, Shadow: shadow})
	c.mu.Unlock()
}

// ClearShadow implements ports.Context2D.
func (c *Context) ClearShadow() {
	c.mu.Lock()
	c.shadow = domain.Shadow{}
	c.calls = append(c.calls, Call{Op: OpClearShadow})
	c.mu.Unlock()
}

// Calls returns a copy of everything recorded so far.
func (c *Context) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Filter returns the recorded calls of one operation.
func (c *Context) Filter(op Op) []Call {
	var out []Call
	for _, call := range c.Calls() {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

// ShadowActive reports whether a shadow is still set.
func (c *Context) ShadowActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shadow.Active()
}

// Reset forgets recorded calls and the current shadow.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
	c.shadow = domain.Shadow{}
}

// Surface is a ports.Surface backed by a recording Context.
type Surface struct {
	mu       sync.Mutex
	width    int
	height   int
	ctx      *Context
	detached bool
	presents int
}

// NewSurface creates a recording surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{width: width, height: height, ctx: New()}
}

// Size implements ports.Surface.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Context implements ports.Surface. It returns nil while detached.
func (s *Surface) Context() ports.Context2D {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return nil
	}
	return s.ctx
}

// Present implements ports.Surface.
func (s *Surface) Present() {
	s.mu.Lock()
	s.presents++
	s.mu.Unlock()
}

// Resize changes the reported size, as a layout pass would.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

// SetDetached makes Context return nil, simulating a surface without a backing store.
func (s *Surface) SetDetached(detached bool) {
	s.mu.Lock()
	s.detached = detached
	s.mu.Unlock()
}

// Recorder returns the underlying recording context.
func (s *Surface) Recorder() *Context {
	return s.ctx
}

// Presents returns how many frames were presented.
func (s *Surface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

var (
	_ ports.Context2D = (*Context)(nil)
	_ ports.Surface   = (*Surface)(nil)
)
