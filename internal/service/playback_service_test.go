package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/wavescope/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/wavescope/internal/adapter/canvas/recorder"
	"github.com/tejashwikalptaru/wavescope/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/wavescope/internal/adapter/scheduler"
	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/logger"
	"github.com/tejashwikalptaru/wavescope/internal/visualizer"
)

type playbackFixture struct {
	service *PlaybackService
	engine  *mock.Engine
	bus     *eventbus.SyncEventBus
	sched   *scheduler.ManualScheduler
	surface *recorder.Surface
	events  *eventLog
}

// eventLog records the type of every published event.
type eventLog struct {
	mu    sync.Mutex
	types []domain.EventType
}

func (l *eventLog) record(e domain.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.types = append(l.types, e.Type())
}

func (l *eventLog) Types() []domain.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.EventType(nil), l.types...)
}

func (l *eventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.types = nil
}

// Helper to create a test playback service
func newTestPlaybackService(t *testing.T) *playbackFixture {
	t.Helper()
	log := logger.NewTestLogger()
	engine := mock.NewEngine()
	engine.SetLogger(log)
	bus := eventbus.NewSyncEventBus(log)

	events := &eventLog{}
	bus.SubscribeAll(events.record)

	sched := scheduler.NewManualScheduler()
	surface := recorder.NewSurface(100, 100)
	modes := NewModeSelector(log, bus, domain.ModeBars)
	driver := NewAnimationDriver(log, sched, surface, modes, visualizer.NewRegistry())

	svc, err := NewPlaybackService(log, engine, engine, bus, driver, modes, 2048)
	require.NoError(t, err)

	t.Cleanup(func() {
		svc.Shutdown()
		_ = bus.Close()
	})

	return &playbackFixture{
		service: svc,
		engine:  engine,
		bus:     bus,
		sched:   sched,
		surface: surface,
		events:  events,
	}
}

func mp3(path string) domain.AudioFile {
	return domain.NewAudioFile(path, "audio/mpeg")
}

func (f *playbackFixture) step() {
	f.sched.Step(time.Now())
}

func TestPlaybackService_InitialState(t *testing.T) {
	f := newTestPlaybackService(t)

	state := f.service.State()
	assert.Equal(t, domain.StatusNoFile, state.Status)
	assert.Nil(t, state.File)
	assert.False(t, state.HasSession)
	assert.False(t, state.DriverRunning)
	assert.Equal(t, domain.ModeBars, state.Mode)
}

func TestPlaybackService_InvalidFFTSize(t *testing.T) {
	log := logger.NewTestLogger()
	_, err := NewPlaybackService(log, nil, nil, nil, nil, nil, 1000)
	assert.ErrorIs(t, err, domain.ErrInvalidFFTSize)
}

func TestPlaybackService_ToggleWithNoFileIsNoop(t *testing.T) {
	f := newTestPlaybackService(t)

	require.NoError(t, f.service.TogglePlay())

	state := f.service.State()
	assert.Equal(t, domain.StatusNoFile, state.Status)
	assert.False(t, state.HasSession)
	assert.Zero(t, f.engine.Connects())
	assert.Zero(t, f.sched.Pending())
	assert.Empty(t, f.events.Types())
}

func TestPlaybackService_PlayPauseWithoutFile(t *testing.T) {
	f := newTestPlaybackService(t)
	assert.ErrorIs(t, f.service.Play(), domain.ErrNoFileLoaded)
	assert.ErrorIs(t, f.service.Pause(), domain.ErrNoFileLoaded)
}

func TestPlaybackService_LoadFile(t *testing.T) {
	f := newTestPlaybackService(t)

	var loaded domain.FileLoadedEvent
	f.bus.Subscribe(domain.EventFileLoaded, func(e domain.Event) {
		loaded = e.(domain.FileLoadedEvent)
	})

	require.NoError(t, f.service.LoadFile(mp3("/music/Test Song.mp3")))

	state := f.service.State()
	assert.Equal(t, domain.StatusPaused, state.Status)
	require.NotNil(t, state.File)
	assert.Equal(t, "Test Song.mp3", state.File.Name)
	assert.Equal(t, "Test Song", state.Track.Title)
	assert.False(t, state.HasSession, "session is created lazily")
	assert.False(t, state.DriverRunning)

	assert.Equal(t, "Test Song", loaded.Track.Title)
	assert.Equal(t, []domain.EventType{domain.EventFileLoaded}, f.events.Types())
}

func TestPlaybackService_RejectsNonAudio(t *testing.T) {
	f := newTestPlaybackService(t)
	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))
	f.events.Reset()

	var rejected domain.FileRejectedEvent
	f.bus.Subscribe(domain.EventFileRejected, func(e domain.Event) {
		rejected = e.(domain.FileRejectedEvent)
	})

	err := f.service.LoadFile(domain.NewAudioFile("/docs/report.pdf", "application/pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)
	var svcErr *domain.ServiceError
	assert.ErrorAs(t, err, &svcErr)

	state := f.service.State()
	assert.Equal(t, domain.StatusPaused, state.Status, "state is unchanged")
	assert.Equal(t, "a.mp3", state.File.Name)
	assert.Equal(t, 1, f.engine.LiveSources())
	assert.Equal(t, 1, f.engine.OpenedSources(), "nothing was opened")

	assert.ErrorIs(t, rejected.Reason, domain.ErrUnsupportedMediaType)
	assert.Equal(t, []domain.EventType{domain.EventFileRejected}, f.events.Types())
}

func TestPlaybackService_TogglePlayPause(t *testing.T) {
	f := newTestPlaybackService(t)
	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))
	f.events.Reset()

	require.NoError(t, f.service.TogglePlay())
	state := f.service.State()
	assert.Equal(t, domain.StatusPlaying, state.Status)
	assert.True(t, state.HasSession)
	assert.True(t, state.DriverRunning)
	assert.Equal(t, 1, f.sched.Pending())
	assert.Equal(t, []domain.EventType{domain.EventPlaybackStarted, domain.EventSessionCreated}, f.events.Types())

	f.step()
	assert.Equal(t, 1, f.surface.Presents())

	f.events.Reset()
	require.NoError(t, f.service.TogglePlay())
	state = f.service.State()
	assert.Equal(t, domain.StatusPaused, state.Status)
	assert.True(t, state.HasSession, "session survives pause")
	assert.False(t, state.DriverRunning)
	assert.Zero(t, f.sched.Pending())
	assert.Equal(t, 1, f.engine.LiveAnalysers())
	assert.Equal(t, []domain.EventType{domain.EventPlaybackPaused}, f.events.Types())

	f.step()
	assert.Equal(t, 1, f.surface.Presents(), "no frames while paused")

	require.NoError(t, f.service.TogglePlay())
	assert.True(t, f.service.State().DriverRunning)
	assert.Equal(t, 1, f.engine.Connects(), "session is reused on resume")
}

func TestPlaybackService_PlayIsIdempotent(t *testing.T) {
	f := newTestPlaybackService(t)
	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))

	require.NoError(t, f.service.Play())
	require.NoError(t, f.service.Play())
	assert.Equal(t, 1, f.sched.Pending())
	assert.Equal(t, 1, f.engine.Connects())

	require.NoError(t, f.service.Pause())
	require.NoError(t, f.service.Pause())
	assert.Equal(t, domain.StatusPaused, f.service.State().Status)
}

func TestPlaybackService_EnsureSessionIsIdempotent(t *testing.T) {
	f := newTestPlaybackService(t)

	_, err := f.service.EnsureSession()
	assert.ErrorIs(t, err, domain.ErrStaleHandle)

	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))

	first, err := f.service.EnsureSession()
	require.NoError(t, err)
	second, err := f.service.EnsureSession()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.engine.Connects())
	assert.Equal(t, 1, f.engine.LiveAnalysers())
	assert.Equal(t, 2048, first.FFTSize())
	assert.Equal(t, 1024, first.BinCount())
}

func TestPlaybackService_LoadWhilePlaying(t *testing.T) {
	f := newTestPlaybackService(t)
	require.NoError(t, f.service.LoadFile(mp3("/music/old.mp3")))
	require.NoError(t, f.service.TogglePlay())
	f.step()
	presents := f.surface.Presents()
	f.events.Reset()

	require.NoError(t, f.service.LoadFile(mp3("/music/new.mp3")))

	state := f.service.State()
	assert.Equal(t, domain.StatusPaused, state.Status)
	assert.Equal(t, "new.mp3", state.File.Name)
	assert.False(t, state.DriverRunning)
	assert.False(t, state.HasSession, "fresh session is pending")

	assert.Equal(t, 1, f.engine.LiveSources(), "old source released")
	assert.Zero(t, f.engine.LiveAnalysers(), "old analyser released")
	assert.Zero(t, f.sched.Pending())

	f.step()
	assert.Equal(t, presents, f.surface.Presents(), "no frames for the old file")

	assert.Equal(t, []domain.EventType{domain.EventSessionReleased, domain.EventFileLoaded}, f.events.Types())
}

func TestPlaybackService_RepeatedLoadsDoNotLeak(t *testing.T) {
	f := newTestPlaybackService(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))
		require.NoError(t, f.service.TogglePlay())
	}
	assert.Equal(t, 10, f.engine.OpenedSources())
	assert.Equal(t, 1, f.engine.LiveSources())
	assert.Equal(t, 1, f.engine.LiveAnalysers())
}

func TestPlaybackService_OpenFailure(t *testing.T) {
	f := newTestPlaybackService(t)
	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))
	f.engine.SetFailOpen(true)
	f.events.Reset()

	err := f.service.LoadFile(mp3("/music/b.mp3"))
	assert.ErrorIs(t, err, domain.ErrResourceUnavailable)

	assert.Equal(t, domain.StatusNoFile, f.service.State().Status, "previous file was released first")
	assert.Zero(t, f.engine.LiveSources())
	assert.Equal(t, []domain.EventType{domain.EventFileRejected}, f.events.Types())
}

func TestPlaybackService_AnalysisUnavailable(t *testing.T) {
	f := newTestPlaybackService(t)
	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))
	f.engine.SetFailConnect(true)

	require.NoError(t, f.service.TogglePlay(), "missing analysis is not an error")
	state := f.service.State()
	assert.Equal(t, domain.StatusPlaying, state.Status)
	assert.False(t, state.HasSession)
	assert.False(t, state.DriverRunning)
	assert.Zero(t, f.sched.Pending())

	f.engine.SetFailConnect(false)
	require.NoError(t, f.service.Play())
	assert.True(t, f.service.State().DriverRunning, "retried on the next play")
}

func TestPlaybackService_AnalysisRetriedAfterTogglePauseAndPlay(t *testing.T) {
	f := newTestPlaybackService(t)
	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))
	f.engine.SetFailConnect(true)
	require.NoError(t, f.service.TogglePlay())
	f.engine.SetFailConnect(false)

	// a toggle while playing pauses even though nothing is rendering
	require.NoError(t, f.service.TogglePlay())
	assert.Equal(t, domain.StatusPaused, f.service.State().Status)
	assert.False(t, f.service.State().DriverRunning)

	require.NoError(t, f.service.TogglePlay())
	state := f.service.State()
	assert.Equal(t, domain.StatusPlaying, state.Status)
	assert.True(t, state.HasSession)
	assert.True(t, state.DriverRunning)
	assert.Equal(t, 1, f.sched.Pending())
}

func TestPlaybackService_PlayFailure(t *testing.T) {
	f := newTestPlaybackService(t)
	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))
	f.engine.SetFailPlay(true)

	err := f.service.TogglePlay()
	assert.ErrorIs(t, err, domain.ErrResourceUnavailable)
	assert.Equal(t, domain.StatusPaused, f.service.State().Status)
	assert.False(t, f.service.State().DriverRunning)
}

func TestPlaybackService_Shutdown(t *testing.T) {
	f := newTestPlaybackService(t)
	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))
	require.NoError(t, f.service.TogglePlay())
	f.events.Reset()

	f.service.Shutdown()
	f.service.Shutdown()

	state := f.service.State()
	assert.Equal(t, domain.StatusNoFile, state.Status)
	assert.False(t, state.DriverRunning)
	assert.Zero(t, f.engine.LiveSources())
	assert.Zero(t, f.engine.LiveAnalysers())
	assert.Zero(t, f.sched.Pending())
	assert.Equal(t, []domain.EventType{domain.EventSessionReleased, domain.EventTeardown}, f.events.Types())

	assert.ErrorIs(t, f.service.LoadFile(mp3("/music/b.mp3")), domain.ErrClosed)
	assert.ErrorIs(t, f.service.Play(), domain.ErrClosed)
	require.NoError(t, f.service.TogglePlay())
}

func TestPlaybackService_SetMode(t *testing.T) {
	f := newTestPlaybackService(t)

	assert.ErrorIs(t, f.service.SetMode("spiral"), domain.ErrInvalidMode)

	require.NoError(t, f.service.SetMode(domain.ModeCircular))
	require.NoError(t, f.service.SetMode(domain.ModeCircular))
	assert.Equal(t, domain.ModeCircular, f.service.Mode())
	assert.Equal(t, []domain.EventType{domain.EventModeChanged}, f.events.Types())
}

func TestPlaybackService_HandlersMayQueryState(t *testing.T) {
	f := newTestPlaybackService(t)

	var seen domain.PlaybackStatus
	f.bus.Subscribe(domain.EventPlaybackStarted, func(domain.Event) {
		seen = f.service.State().Status
	})

	require.NoError(t, f.service.LoadFile(mp3("/music/a.mp3")))
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.service.TogglePlay()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event handler deadlocked against the service")
	}
	assert.Equal(t, domain.StatusPlaying, seen)
}
