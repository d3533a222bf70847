package native

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"

	audpbx "github.com/ik5/audpbx/audio"
)

const (
	outputChannels = 2
	bytesPerSample = 4 // float32 LE
	bytesPerFrame  = outputChannels * bytesPerSample

	// reads that yield nothing without an error before Read gives up
	maxEmptyReads = 8
)

// pcmStream adapts a decoder to the output device. Sources at another rate
// go through an audpbx resampler; frames are mapped to stereo, encoded as
// float32 little-endian, and a mono copy of every emitted frame is tapped.
type pcmStream struct {
	mu sync.Mutex

	src      audpbx.Source
	tap      *ring
	channels int

	buf  []float32
	mono []float32

	ended  bool
	closed bool
}

func newPCMStream(dec decoder, outputRate int, tap *ring) *pcmStream {
	var src audpbx.Source = dec
	if dec.SampleRate() != outputRate {
		src = audpbx.NewResampler(dec, outputRate)
	}
	return &pcmStream{
		src:      src,
		tap:      tap,
		channels: max(src.Channels(), 1),
	}
}

// Read implements io.Reader for the output player. p must hold at least
// one stereo frame.
func (s *pcmStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.ended {
		return 0, io.EOF
	}
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}

	want := frames * s.channels
	if cap(s.buf) < want {
		s.buf = make([]float32, want)
	}
	if cap(s.mono) < frames {
		s.mono = make([]float32, frames)
	}

	var (
		n   int
		err error
	)
	for range maxEmptyReads {
		n, err = s.src.ReadSamples(s.buf[:want])
		if n > 0 || err != nil {
			break
		}
	}
	if errors.Is(err, io.EOF) {
		s.ended = true
		err = nil
	}

	got := n / s.channels
	for i := range got {
		in := s.buf[i*s.channels:]
		l, r := in[0], in[0]
		if s.channels > 1 {
			r = in[1]
		}
		off := i * bytesPerFrame
		binary.LittleEndian.PutUint32(p[off:], math.Float32bits(l))
		binary.LittleEndian.PutUint32(p[off+bytesPerSample:], math.Float32bits(r))
		s.mono[i] = (l + r) / 2
	}
	if s.tap != nil && got > 0 {
		s.tap.Write(s.mono[:got])
	}

	if got == 0 && s.ended {
		return 0, io.EOF
	}
	return got * bytesPerFrame, err
}

// Close releases the decoder. Further reads report io.EOF.
func (s *pcmStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}
