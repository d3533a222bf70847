package native

import "sync"

// ring is a thread-safe circular buffer of mono samples. The writer is the
// output stream; readers are analysers taking the most recent window.
type ring struct {
	mu   sync.Mutex
	buf  []float32
	w    int // write position
	fill int // current fill level
}

func newRing(size int) *ring {
	return &ring{buf: make([]float32, size)}
}

// Write appends samples, overwriting the oldest once full.
func (r *ring) Write(p []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := len(r.buf)
	if len(p) > size {
		p = p[len(p)-size:]
	}
	for _, v := range p {
		r.buf[r.w] = v
		r.w = (r.w + 1) % size
	}
	r.fill = min(r.fill+len(p), size)
}

// Latest copies the most recent len(dst) samples into dst, oldest first.
// Samples that were never written read as zero at the front of dst.
func (r *ring) Latest(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := len(r.buf)
	n := min(len(dst), r.fill)
	missing := len(dst) - n
	clear(dst[:missing])

	start := (r.w - n + size) % size
	for i := range n {
		dst[missing+i] = r.buf[(start+i)%size]
	}
}

// Reset drops every sample.
func (r *ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = 0
	r.fill = 0
}
