package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/wavescope/internal/logger"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
	"github.com/tejashwikalptaru/wavescope/internal/testutil"
)

// fakeAnimation records starter calls and lets the test drive ticks.
type fakeAnimation struct {
	mu      sync.Mutex
	tick    func()
	starts  int
	stops   int
	running bool
}

func (f *fakeAnimation) start(tick func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tick = tick
	f.starts++
	f.running = true
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stops++
		f.running = false
	}
}

func (f *fakeAnimation) frame() {
	f.mu.Lock()
	tick, running := f.tick, f.running
	f.mu.Unlock()
	if running {
		tick()
	}
}

func (f *fakeAnimation) counts() (starts, stops int, running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops, f.running
}

func TestManualScheduler_FiresOnceInOrder(t *testing.T) {
	s := NewManualScheduler()
	var order []int
	h1 := s.RequestFrame(func(time.Time) { order = append(order, 1) })
	h2 := s.RequestFrame(func(time.Time) { order = append(order, 2) })

	assert.NotZero(t, h1)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, s.Pending())

	now := time.Unix(100, 0)
	assert.Equal(t, 2, s.Step(now))
	assert.Equal(t, []int{1, 2}, order)
	assert.Zero(t, s.Step(now), "callbacks are one-shot")
}

func TestManualScheduler_Cancel(t *testing.T) {
	s := NewManualScheduler()
	fired := false
	h := s.RequestFrame(func(time.Time) { fired = true })
	s.CancelFrame(h)
	s.CancelFrame(h)
	s.CancelFrame(12345)

	assert.Zero(t, s.Step(time.Now()))
	assert.False(t, fired)
}

func TestManualScheduler_RescheduleFromCallback(t *testing.T) {
	s := NewManualScheduler()
	var frames []time.Time
	var loop ports.FrameCallback
	loop = func(now time.Time) {
		frames = append(frames, now)
		s.RequestFrame(loop)
	}
	s.RequestFrame(loop)

	t0 := time.Unix(0, 0)
	s.Step(t0)
	assert.Equal(t, 1, s.Pending(), "re-request waits for the next step")
	s.Step(t0.Add(time.Second))
	assert.Equal(t, []time.Time{t0, t0.Add(time.Second)}, frames)
}

func TestManualScheduler_Close(t *testing.T) {
	s := NewManualScheduler()
	s.RequestFrame(func(time.Time) { t.Fatal("must not fire after close") })
	require.NoError(t, s.Close())

	assert.Zero(t, s.RequestFrame(func(time.Time) {}))
	assert.Zero(t, s.Step(time.Now()))
}

func TestAnimationScheduler_StartsOnDemand(t *testing.T) {
	anim := &fakeAnimation{}
	s := NewAnimationScheduler(logger.NewTestLogger(), anim.start)

	starts, _, _ := anim.counts()
	assert.Zero(t, starts, "idle until a frame is requested")

	var calls atomic.Int32
	s.RequestFrame(func(time.Time) { calls.Add(1) })
	s.RequestFrame(func(time.Time) { calls.Add(1) })

	starts, _, running := anim.counts()
	assert.Equal(t, 1, starts)
	assert.True(t, running)

	anim.frame()
	assert.Equal(t, int32(2), calls.Load())

	anim.frame()
	assert.Equal(t, int32(2), calls.Load(), "nothing pending")
}

func TestAnimationScheduler_CancelLastStopsAnimation(t *testing.T) {
	anim := &fakeAnimation{}
	s := NewAnimationScheduler(logger.NewTestLogger(), anim.start)

	a := s.RequestFrame(func(time.Time) {})
	b := s.RequestFrame(func(time.Time) {})

	s.CancelFrame(a)
	_, stops, running := anim.counts()
	assert.Zero(t, stops)
	assert.True(t, running)

	s.CancelFrame(b)
	_, stops, running = anim.counts()
	assert.Equal(t, 1, stops)
	assert.False(t, running)

	s.RequestFrame(func(time.Time) {})
	starts, _, running := anim.counts()
	assert.Equal(t, 2, starts, "a fresh animation is started")
	assert.True(t, running)
}

func TestAnimationScheduler_Close(t *testing.T) {
	anim := &fakeAnimation{}
	s := NewAnimationScheduler(logger.NewTestLogger(), anim.start)
	s.RequestFrame(func(time.Time) { t.Fatal("must not fire after close") })

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, stops, running := anim.counts()
	assert.Equal(t, 1, stops)
	assert.False(t, running)

	assert.Zero(t, s.RequestFrame(func(time.Time) {}))
	anim.frame()
}

func TestTickerScheduler_Fires(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	s := NewTickerScheduler(logger.NewTestLogger(), 200)
	assert.Equal(t, 5*time.Millisecond, s.Interval())

	done := make(chan time.Time, 1)
	s.RequestFrame(func(now time.Time) { done <- now })

	select {
	case now := <-done:
		assert.False(t, now.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("frame never fired")
	}

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestTickerScheduler_CancelAndClose(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	s := NewTickerScheduler(logger.NewTestLogger(), 0)
	assert.Equal(t, time.Second/DefaultFPS, s.Interval())

	var fired atomic.Bool
	h := s.RequestFrame(func(time.Time) { fired.Store(true) })
	s.CancelFrame(h)
	time.Sleep(5 * s.Interval())
	assert.False(t, fired.Load())

	require.NoError(t, s.Close())
	assert.Zero(t, s.RequestFrame(func(time.Time) {}))
}

func TestTickerScheduler_CloseWithoutStart(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	s := NewTickerScheduler(logger.NewTestLogger(), 30)
	require.NoError(t, s.Close())
}
