package domain

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.DisplayName())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode("  WAVE ")
	require.NoError(t, err)
	assert.Equal(t, ModeWave, got)

	_, err = ParseMode("spiral")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMode))

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "mode", vErr.Field)
}

func TestModes_ExactlyFour(t *testing.T) {
	modes := Modes()
	assert.Len(t, modes, 4)
	for _, m := range modes {
		assert.True(t, m.IsValid())
	}
	assert.False(t, VisualizationMode("").IsValid())
}

func TestMagnitudeSnapshot(t *testing.T) {
	s := NewMagnitudeSnapshot(2048)
	assert.Len(t, s, 1024)
	assert.Zero(t, s.Mean())

	s = MagnitudeSnapshot{0, 255}
	assert.InDelta(t, 127.5, s.Mean(), 1e-9)
	assert.InDelta(t, 1.0, s.Fraction(1), 1e-9)
	assert.Zero(t, MagnitudeSnapshot(nil).Mean())
}

func TestAudioFile_IsAudio(t *testing.T) {
	assert.True(t, NewAudioFile("/music/a.mp3", "audio/mpeg").IsAudio())
	assert.True(t, NewAudioFile("/music/a.flac", "Audio/FLAC").IsAudio())
	assert.False(t, NewAudioFile("/docs/a.pdf", "application/pdf").IsAudio())
	assert.False(t, NewAudioFile("/docs/a", "").IsAudio())

	f := NewAudioFile("/music/Song.OGG", "audio/ogg")
	assert.Equal(t, "Song.OGG", f.Name)
	assert.Equal(t, "ogg", f.Extension())
}

func TestTrackInfo_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Artist - Title", TrackInfo{Title: "Title", Artist: "Artist"}.DisplayTitle("f.mp3"))
	assert.Equal(t, "Title", TrackInfo{Title: "Title"}.DisplayTitle("f.mp3"))
	assert.Equal(t, "f.mp3", TrackInfo{}.DisplayTitle("f.mp3"))
}

func TestPlaybackStatus_String(t *testing.T) {
	assert.Equal(t, "NoFile", StatusNoFile.String())
	assert.Equal(t, "Loaded-Paused", StatusPaused.String())
	assert.Equal(t, "Loaded-Playing", StatusPlaying.String())
}

func TestPaint_LinearGradient(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	p := LinearGradient(0, 0, 0, 100, ColorStop{Offset: 1, Color: blue}, ColorStop{Offset: 0, Color: red})

	assert.Equal(t, red, p.ColorAt(10, -5))
	assert.Equal(t, blue, p.ColorAt(10, 150))
	mid := p.ColorAt(0, 50)
	assert.InDelta(t, 128, int(mid.R), 1)
	assert.InDelta(t, 128, int(mid.B), 1)
	assert.True(t, p.IsOpaque())
}

func TestPaint_RadialGradient(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	transparent := color.NRGBA{}
	p := RadialGradient(50, 50, 0, 10, ColorStop{0, white}, ColorStop{1, transparent})

	assert.Equal(t, white, p.ColorAt(50, 50))
	assert.Equal(t, transparent, p.ColorAt(70, 50))
	assert.InDelta(t, 128, int(p.ColorAt(55, 50).A), 1)
	assert.False(t, p.IsOpaque())
}

func TestShadow_Active(t *testing.T) {
	assert.False(t, Shadow{}.Active())
	assert.False(t, Shadow{Blur: 5}.Active())
	assert.True(t, Shadow{Blur: 5, Color: color.NRGBA{A: 1}}.Active())
}

func TestIsValidFFTSize(t *testing.T) {
	for _, n := range []int{32, 64, 256, 2048, 32768} {
		assert.True(t, IsValidFFTSize(n), n)
	}
	for _, n := range []int{0, -2048, 16, 31, 1000, 2047, 65536} {
		assert.False(t, IsValidFFTSize(n), n)
	}
}
