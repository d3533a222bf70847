package native

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain reads s to the end and returns the decoded stereo frames.
func drain(t *testing.T, s *pcmStream, chunk int) [][2]float32 {
	t.Helper()
	var frames [][2]float32
	buf := make([]byte, chunk)
	for range 10000 {
		n, err := s.Read(buf)
		for off := 0; off+bytesPerFrame <= n; off += bytesPerFrame {
			frames = append(frames, [2]float32{
				math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])),
				math.Float32frombits(binary.LittleEndian.Uint32(buf[off+bytesPerSample:])),
			})
		}
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
	}
	t.Fatal("stream never ended")
	return nil
}

func left(frames [][2]float32) []float32 {
	out := make([]float32, len(frames))
	for i, f := range frames {
		out[i] = f[0]
	}
	return out
}

func TestPCMStream_SameRateMonoToStereo(t *testing.T) {
	tap := newRing(16)
	s := newPCMStream(&sliceDecoder{rate: 44100, channels: 1, data: []float32{0.1, 0.2, 0.3}}, 44100, tap)

	frames := drain(t, s, 1024)
	require.Len(t, frames, 3)
	for i, want := range []float32{0.1, 0.2, 0.3} {
		assert.InDelta(t, want, frames[i][0], 1e-6)
		assert.InDelta(t, want, frames[i][1], 1e-6)
	}

	got := make([]float32, 3)
	tap.Latest(got)
	assert.InDeltaSlice(t, []float32{0.1, 0.2, 0.3}, got, 1e-6)
}

func ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i) / 100
	}
	return out
}

func TestPCMStream_UpsamplesThroughResampler(t *testing.T) {
	dec := &sliceDecoder{rate: 4000, channels: 1, data: ramp(40)}
	s := newPCMStream(dec, 8000, nil)

	out := left(drain(t, s, 1024))
	require.Greater(t, len(out), 60)

	// cubic interpolation is exact on a ramp; output starts one source frame in
	for k := range 10 {
		assert.InDelta(t, (1+0.5*float32(k))/100, out[k], 1e-5, "frame %d", k)
	}
}

func TestPCMStream_DownsamplesThroughResampler(t *testing.T) {
	data := make([]float32, 64)
	for i := range data {
		data[i] = 0.5
	}
	tap := newRing(64)
	s := newPCMStream(&sliceDecoder{rate: 88200, channels: 1, data: data}, 44100, tap)

	out := left(drain(t, s, 1024))
	require.NotEmpty(t, out)
	assert.LessOrEqual(t, len(out), 32)
	for _, v := range out {
		assert.InDelta(t, 0.5, v, 1e-6)
	}

	got := make([]float32, len(out))
	tap.Latest(got)
	for _, v := range got {
		assert.InDelta(t, 0.5, v, 1e-6)
	}
}

func TestPCMStream_StereoTapIsMono(t *testing.T) {
	tap := newRing(8)
	s := newPCMStream(&sliceDecoder{rate: 48000, channels: 2, data: []float32{0.4, -0.2, 0.6, 0.2}}, 48000, tap)

	frames := drain(t, s, 1024)
	require.Len(t, frames, 2)
	assert.InDelta(t, 0.4, frames[0][0], 1e-6)
	assert.InDelta(t, -0.2, frames[0][1], 1e-6)

	got := make([]float32, 2)
	tap.Latest(got)
	assert.InDeltaSlice(t, []float32{0.1, 0.4}, got, 1e-6)
}

func TestPCMStream_SmallReads(t *testing.T) {
	data := ramp(100)
	s := newPCMStream(&sliceDecoder{rate: 44100, channels: 1, data: data}, 44100, nil)

	// a buffer too small for one frame is refused without consuming audio
	n, err := s.Read(make([]byte, bytesPerFrame-1))
	assert.ErrorIs(t, err, io.ErrShortBuffer)
	assert.Zero(t, n)

	assert.InDeltaSlice(t, data, left(drain(t, s, bytesPerFrame)), 1e-6)
}

func TestPCMStream_EmptyDecoder(t *testing.T) {
	s := newPCMStream(&sliceDecoder{rate: 44100, channels: 1}, 44100, nil)
	n, err := s.Read(make([]byte, 64))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func TestPCMStream_Close(t *testing.T) {
	dec := &sliceDecoder{rate: 44100, channels: 1, data: make([]float32, 1000)}
	s := newPCMStream(dec, 44100, nil)

	n, err := s.Read(make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, 64, n)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, dec.closed)

	n, err = s.Read(make([]byte, 64))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func TestPCMStream_CloseReleasesResampledDecoder(t *testing.T) {
	dec := &sliceDecoder{rate: 22050, channels: 2, data: make([]float32, 2000)}
	s := newPCMStream(dec, 44100, nil)

	n, err := s.Read(make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, 64, n)

	require.NoError(t, s.Close())
	assert.True(t, dec.closed)
}
