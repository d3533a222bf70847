// Package scheduler provides ports.FrameScheduler implementations: one
// paced by the fyne animation loop, one by a time.Ticker, and a manually
// stepped one for tests.
package scheduler

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// queue holds one-shot frame callbacks keyed by handle.
type queue struct {
	mu      sync.Mutex
	next    ports.FrameHandle
	pending map[ports.FrameHandle]ports.FrameCallback
	closed  bool
}

func newQueue() *queue {
	return &queue{pending: make(map[ports.FrameHandle]ports.FrameCallback)}
}

// add registers cb. It returns the zero handle once the queue is closed.
func (q *queue) add(cb ports.FrameCallback) ports.FrameHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || cb == nil {
		return 0
	}
	q.next++
	q.pending[q.next] = cb
	return q.next
}

// cancel drops h and reports whether the queue is now empty.
func (q *queue) cancel(h ports.FrameHandle) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, h)
	return len(q.pending) == 0
}

// fire runs every callback pending at call time, in request order.
// Callbacks registered while firing wait for the next frame.
func (q *queue) fire(now time.Time) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = make(map[ports.FrameHandle]ports.FrameCallback)
	q.mu.Unlock()

	for _, h := range slices.Sorted(maps.Keys(batch)) {
		batch[h](now)
	}
	return len(batch)
}

func (q *queue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// close drops pending callbacks and rejects new ones.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	clear(q.pending)
}
