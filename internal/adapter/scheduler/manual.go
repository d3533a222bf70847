package scheduler

import (
	"time"

	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// ManualScheduler fires callbacks only when stepped. Tests use it to drive
// the animation loop one frame at a time.
type ManualScheduler struct {
	queue *queue
}

// NewManualScheduler creates an idle scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{queue: newQueue()}
}

// RequestFrame implements ports.FrameScheduler.
func (s *ManualScheduler) RequestFrame(cb ports.FrameCallback) ports.FrameHandle {
	return s.queue.add(cb)
}

// CancelFrame implements ports.FrameScheduler.
func (s *ManualScheduler) CancelFrame(h ports.FrameHandle) {
	s.queue.cancel(h)
}

// Step fires the callbacks pending now and returns how many ran.
func (s *ManualScheduler) Step(now time.Time) int {
	return s.queue.fire(now)
}

// Pending returns the number of callbacks waiting for a frame.
func (s *ManualScheduler) Pending() int {
	return s.queue.size()
}

// Close drops pending callbacks and rejects new ones.
func (s *ManualScheduler) Close() error {
	s.queue.close()
	return nil
}

var _ ports.FrameScheduler = (*ManualScheduler)(nil)
