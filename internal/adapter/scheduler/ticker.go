package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// DefaultFPS is the ticker rate when none is configured.
const DefaultFPS = 60

// TickerScheduler fires frame callbacks from a background goroutine at a
// fixed rate. It suits headless runs where no display loop exists.
type TickerScheduler struct {
	logger   *slog.Logger
	queue    *queue
	interval time.Duration

	mu      sync.Mutex
	running bool
	closed  bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewTickerScheduler creates a scheduler firing fps times per second.
func NewTickerScheduler(logger *slog.Logger, fps int) *TickerScheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &TickerScheduler{
		logger:   logger.With(slog.String("component", "ticker_scheduler")),
		queue:    newQueue(),
		interval: time.Second / time.Duration(fps),
		stopCh:   make(chan struct{}),
	}
}

// Interval returns the time between frames.
func (s *TickerScheduler) Interval() time.Duration {
	return s.interval
}

// RequestFrame implements ports.FrameScheduler. The ticker goroutine is
// started with the first request.
func (s *TickerScheduler) RequestFrame(cb ports.FrameCallback) ports.FrameHandle {
	h := s.queue.add(cb)
	if h == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running && !s.closed {
		s.running = true
		s.wg.Add(1)
		go s.loop()
	}
	return h
}

// CancelFrame implements ports.FrameScheduler.
func (s *TickerScheduler) CancelFrame(h ports.FrameHandle) {
	s.queue.cancel(h)
}

// Close stops the ticker goroutine and waits for it to exit. Safe to call
// more than once.
func (s *TickerScheduler) Close() error {
	s.queue.close()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Debug("ticker scheduler closed")
	return nil
}

func (s *TickerScheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug("ticker started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.queue.fire(now)
		}
	}
}

var _ ports.FrameScheduler = (*TickerScheduler)(nil)
