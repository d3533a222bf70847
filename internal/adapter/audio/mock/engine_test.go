package mock

import (
	"errors"
	"testing"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

func openFile(t *testing.T, engine *Engine, path string) *Source {
	t.Helper()
	src, err := engine.Open(domain.NewAudioFile(path, "audio/mpeg"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return src.(*Source)
}

// TestNewMockEngine tests creating a new mock engine.
func TestNewMockEngine(t *testing.T) {
	engine := NewEngine()

	if engine == nil {
		t.Fatal("NewEngine returned nil")
	}
	if engine.LiveSources() != 0 || engine.LiveAnalysers() != 0 {
		t.Errorf("Expected no live resources, got %d sources, %d analysers",
			engine.LiveSources(), engine.LiveAnalysers())
	}
}

// TestOpen tests opening a file and its mock metadata.
func TestOpen(t *testing.T) {
	engine := NewEngine()
	src := openFile(t, engine, "/music/Song Name.mp3")

	if got := src.Info().Title; got != "Song Name" {
		t.Errorf("Expected title %q, got %q", "Song Name", got)
	}
	if src.File().Name != "Song Name.mp3" {
		t.Errorf("Unexpected file name %q", src.File().Name)
	}
	if src.IsPlaying() {
		t.Error("New source should not be playing")
	}
	if engine.OpenedSources() != 1 || engine.LiveSources() != 1 {
		t.Errorf("Expected 1 opened and live source, got %d/%d", engine.OpenedSources(), engine.LiveSources())
	}
}

// TestOpenFailure tests the failure toggle.
func TestOpenFailure(t *testing.T) {
	engine := NewEngine()
	engine.SetFailOpen(true)

	_, err := engine.Open(domain.NewAudioFile("/music/a.mp3", "audio/mpeg"))
	if !errors.Is(err, domain.ErrResourceUnavailable) {
		t.Errorf("Expected ErrResourceUnavailable, got %v", err)
	}

	var engineErr *domain.AudioEngineError
	if !errors.As(err, &engineErr) || engineErr.Op != "open" {
		t.Errorf("Expected AudioEngineError for op open, got %v", err)
	}
}

// TestPlayPause tests the play state of a source.
func TestPlayPause(t *testing.T) {
	engine := NewEngine()
	src := openFile(t, engine, "/music/a.mp3")

	if err := src.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if !src.IsPlaying() {
		t.Error("Source should be playing")
	}
	if err := src.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if src.IsPlaying() {
		t.Error("Source should be paused")
	}

	engine.SetFailPlay(true)
	if err := src.Play(); err == nil {
		t.Error("Expected Play to fail")
	}
}

// TestClose tests that closing is idempotent and blocks further use.
func TestClose(t *testing.T) {
	engine := NewEngine()
	src := openFile(t, engine, "/music/a.mp3")

	if err := src.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
	if engine.LiveSources() != 0 {
		t.Errorf("Expected 0 live sources, got %d", engine.LiveSources())
	}
	if err := src.Play(); !errors.Is(err, domain.ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if _, err := engine.Connect(src, 2048); !errors.Is(err, domain.ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle, got %v", err)
	}
}

// TestConnect tests analyser creation and its bookkeeping.
func TestConnect(t *testing.T) {
	engine := NewEngine()
	src := openFile(t, engine, "/music/a.mp3")

	analyser, err := engine.Connect(src, 256)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if analyser.FrequencyBinCount() != 128 {
		t.Errorf("Expected 128 bins, got %d", analyser.FrequencyBinCount())
	}
	if engine.Connects() != 1 || engine.LiveAnalysers() != 1 {
		t.Errorf("Expected 1 connect and live analyser, got %d/%d", engine.Connects(), engine.LiveAnalysers())
	}

	if err := analyser.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	_ = analyser.Close()
	if engine.LiveAnalysers() != 0 {
		t.Errorf("Expected 0 live analysers, got %d", engine.LiveAnalysers())
	}
}

// TestConnectValidation tests the window size and failure toggle.
func TestConnectValidation(t *testing.T) {
	engine := NewEngine()
	src := openFile(t, engine, "/music/a.mp3")

	if _, err := engine.Connect(src, 1000); !errors.Is(err, domain.ErrInvalidFFTSize) {
		t.Errorf("Expected ErrInvalidFFTSize, got %v", err)
	}

	engine.SetFailConnect(true)
	if _, err := engine.Connect(src, 2048); !errors.Is(err, domain.ErrResourceUnavailable) {
		t.Errorf("Expected ErrResourceUnavailable, got %v", err)
	}
	if engine.LiveAnalysers() != 0 {
		t.Errorf("Failed connect must not count, got %d", engine.LiveAnalysers())
	}

	other := NewEngine()
	if _, err := other.Connect(src, 2048); !errors.Is(err, domain.ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle for a foreign source, got %v", err)
	}
}

// TestByteFrequencyData tests the reported spectrum.
func TestByteFrequencyData(t *testing.T) {
	engine := NewEngine()
	src := openFile(t, engine, "/music/a.mp3")
	analyser, err := engine.Connect(src, 32)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	buf := make([]byte, analyser.FrequencyBinCount())
	for i := range buf {
		buf[i] = 99
	}
	analyser.ByteFrequencyData(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("Paused source should be silent, bin %d = %d", i, v)
		}
	}

	_ = src.Play()
	analyser.ByteFrequencyData(buf)
	if buf[0] != 127 || buf[15] >= buf[0] {
		t.Errorf("Expected a falling ramp, got %v", buf)
	}

	engine.SetSpectrum([]byte{10, 20})
	long := make([]byte, 20)
	analyser.ByteFrequencyData(long)
	if long[0] != 10 || long[1] != 20 || long[2] != 10 {
		t.Errorf("Expected repeating spectrum, got %v", long[:4])
	}
	if long[16] != 0 {
		t.Errorf("Bins past the bin count must be untouched, got %d", long[16])
	}
}
