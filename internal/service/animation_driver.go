package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
	"github.com/tejashwikalptaru/wavescope/internal/visualizer"
)

// AnimationDriver runs the render loop: every frame it samples the
// spectrum, prepares the surface and dispatches to the selected strategy.
//
// The mutex is held for the whole tick and by Stop, so no frame renders
// once Stop has returned. A callback already dequeued by the scheduler
// when Stop runs sees a newer generation and exits without rescheduling.
type AnimationDriver struct {
	logger    *slog.Logger
	scheduler ports.FrameScheduler
	surface   ports.Surface
	modes     *ModeSelector
	registry  visualizer.Registry

	mu       sync.Mutex
	running  bool
	gen      uint64
	handle   ports.FrameHandle
	sampler  FrameSampler
	skipping bool
	stats    domain.DriverStats
}

// NewAnimationDriver creates an idle driver.
func NewAnimationDriver(
	logger *slog.Logger,
	scheduler ports.FrameScheduler,
	surface ports.Surface,
	modes *ModeSelector,
	registry visualizer.Registry,
) *AnimationDriver {
	if registry == nil {
		registry = visualizer.NewRegistry()
	}
	return &AnimationDriver{
		logger:    logger.With(slog.String("service", "animation_driver")),
		scheduler: scheduler,
		surface:   surface,
		modes:     modes,
		registry:  registry,
	}
}

// Start begins the loop, sampling from sampler every frame.
func (d *AnimationDriver) Start(sampler FrameSampler) error {
	if sampler == nil {
		return domain.ErrStaleHandle
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return domain.ErrDriverRunning
	}
	d.running = true
	d.gen++
	d.sampler = sampler
	d.skipping = false
	d.schedule(d.gen)

	d.logger.Debug("driver started")
	return nil
}

// Stop cancels the next frame and waits for an in-flight one to finish.
// Stopping an idle driver is a no-op.
func (d *AnimationDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	d.running = false
	d.gen++
	d.scheduler.CancelFrame(d.handle)
	d.handle = 0
	d.sampler = nil

	d.logger.Debug("driver stopped",
		slog.Uint64("frames_rendered", d.stats.FramesRendered),
		slog.Uint64("ticks_skipped", d.stats.TicksSkipped))
}

// IsRunning reports whether the loop is active.
func (d *AnimationDriver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Stats returns the driver counters.
func (d *AnimationDriver) Stats() domain.DriverStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *AnimationDriver) schedule(gen uint64) {
	d.handle = d.scheduler.RequestFrame(func(now time.Time) {
		d.tick(gen, now)
	})
}

func (d *AnimationDriver) tick(gen uint64, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running || gen != d.gen {
		return
	}

	strategy := d.registry.Lookup(d.modes.Current())
	snapshot := d.sampler.Sample()

	w, h := d.surface.Size()
	ctx := d.surface.Context()
	if ctx == nil || w <= 0 || h <= 0 {
		d.stats.TicksSkipped++
		if !d.skipping {
			d.skipping = true
			d.logger.Debug("surface unavailable, skipping frames", slog.Int("width", w), slog.Int("height", h))
		}
		d.schedule(gen)
		return
	}
	if d.skipping {
		d.skipping = false
		d.logger.Debug("surface available, rendering resumed")
	}

	frame := visualizer.Frame{
		Snapshot: snapshot,
		Width:    float64(w),
		Height:   float64(h),
		Time:     now,
	}
	if bg, ok := strategy.(visualizer.BackgroundPainter); ok {
		bg.PaintBackground(ctx, frame)
	} else {
		ctx.ClearRect(0, 0, frame.Width, frame.Height)
	}
	strategy.Render(ctx, frame)
	d.surface.Present()

	d.stats.FramesRendered++
	d.stats.LastFrame = now
	d.schedule(gen)
}
