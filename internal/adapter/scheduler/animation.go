package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Starter begins invoking tick once per display frame and returns a
// function that stops it. tick must not be invoked synchronously from
// Starter, and stop is never called from inside tick.
type Starter func(tick func()) (stop func())

// FyneStarter paces ticks with a repeating fyne animation, which runs on
// the driver's render loop in step with the display refresh.
func FyneStarter(tick func()) func() {
	anim := fyne.NewAnimation(time.Second, func(float32) { tick() })
	anim.Curve = fyne.AnimationLinear
	anim.RepeatCount = fyne.AnimationRepeatForever
	anim.Start()
	return anim.Stop
}

// AnimationScheduler fires frame callbacks in step with the fyne
// animation loop. The animation runs only while callbacks are pending or
// until the last one is cancelled.
type AnimationScheduler struct {
	logger *slog.Logger
	queue  *queue
	start  Starter
	clock  func() time.Time

	mu   sync.Mutex
	stop func()
}

// NewAnimationScheduler creates a scheduler. A nil starter selects FyneStarter.
func NewAnimationScheduler(logger *slog.Logger, start Starter) *AnimationScheduler {
	if start == nil {
		start = FyneStarter
	}
	return &AnimationScheduler{
		logger: logger.With(slog.String("component", "animation_scheduler")),
		queue:  newQueue(),
		start:  start,
		clock:  time.Now,
	}
}

// RequestFrame implements ports.FrameScheduler.
func (s *AnimationScheduler) RequestFrame(cb ports.FrameCallback) ports.FrameHandle {
	h := s.queue.add(cb)
	if h == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		s.logger.Debug("starting animation")
		s.stop = s.start(s.tick)
	}
	return h
}

// CancelFrame implements ports.FrameScheduler.
func (s *AnimationScheduler) CancelFrame(h ports.FrameHandle) {
	if !s.queue.cancel(h) {
		return
	}
	s.halt()
}

// Close stops the animation and drops pending callbacks.
func (s *AnimationScheduler) Close() error {
	s.queue.close()
	s.halt()
	return nil
}

func (s *AnimationScheduler) tick() {
	s.queue.fire(s.clock())
}

func (s *AnimationScheduler) halt() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		s.logger.Debug("stopping animation")
		stop()
	}
}

var _ ports.FrameScheduler = (*AnimationScheduler)(nil)
