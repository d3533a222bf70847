package native

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	audpbx "github.com/ik5/audpbx/audio"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// decoder is an audpbx source that also knows its length. ReadSamples
// fills dst with whole interleaved frames in [-1, 1] and returns io.EOF
// once the stream is exhausted.
type decoder interface {
	audpbx.Source
	Duration() time.Duration
}

var (
	_ decoder = (*mp3Decoder)(nil)
	_ decoder = (*wavDecoder)(nil)
	_ decoder = (*oggDecoder)(nil)
	_ decoder = (*flacDecoder)(nil)
)

// decodeBufSize is the sample count the decoders are read in.
const decodeBufSize = 4096

// supportedExtensions lists the containers Host can open.
var supportedExtensions = []string{"mp3", "wav", "ogg", "flac"}

// openDecoder opens path with the decoder registered for ext.
func openDecoder(path, ext string) (decoder, error) {
	var open func(*os.File) (decoder, error)
	switch ext {
	case "mp3":
		open = newMP3Decoder
	case "wav", "wave":
		open = newWAVDecoder
	case "ogg", "oga":
		open = newOggDecoder
	case "flac":
		open = newFLACDecoder
	default:
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := open(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrUnsupportedFormat, err)
	}
	return dec, nil
}

func durationOf(frames int64, rate int) time.Duration {
	if rate <= 0 || frames <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(rate)
}

// MP3

type mp3Decoder struct {
	file *os.File
	dec  *mp3.Decoder
	raw  []byte
}

func newMP3Decoder(f *os.File) (decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}
	return &mp3Decoder{file: f, dec: dec}, nil
}

func (d *mp3Decoder) SampleRate() int { return d.dec.SampleRate() }

// Channels is always 2: go-mp3 emits 16-bit stereo regardless of the source.
func (d *mp3Decoder) Channels() int { return 2 }

func (d *mp3Decoder) Duration() time.Duration {
	return durationOf(d.dec.Length()/4, d.dec.SampleRate())
}

func (d *mp3Decoder) ReadSamples(dst []float32) (int, error) {
	want := (len(dst) &^ 1) * 2
	if cap(d.raw) < want {
		d.raw = make([]byte, want)
	}
	raw := d.raw[:want]

	n, err := io.ReadFull(d.dec, raw)
	n &^= 3
	for i := 0; i < n/2; i++ {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / 32768
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
		if n == 0 {
			err = io.EOF
		}
	}
	return n / 2, err
}

func (d *mp3Decoder) BufSize() int { return decodeBufSize }
func (d *mp3Decoder) Close() error { return d.file.Close() }

// WAV

type wavDecoder struct {
	file  *os.File
	dec   *wav.Decoder
	buf   *audio.IntBuffer
	scale float32
	shift int
}

func newWAVDecoder(f *os.File) (decoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, err
	}
	if dec.NumChans == 0 || dec.BitDepth == 0 {
		return nil, errors.New("wav header without format")
	}

	d := &wavDecoder{
		file:  f,
		dec:   dec,
		scale: float32(int64(1) << (dec.BitDepth - 1)),
		buf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: int(dec.NumChans), SampleRate: int(dec.SampleRate)},
		},
	}
	if dec.BitDepth == 8 {
		// 8-bit PCM is unsigned
		d.shift = 128
	}
	return d, nil
}

func (d *wavDecoder) SampleRate() int { return int(d.dec.SampleRate) }
func (d *wavDecoder) Channels() int   { return int(d.dec.NumChans) }

func (d *wavDecoder) Duration() time.Duration {
	if frameSize := int64(d.dec.NumChans) * int64(d.dec.BitDepth/8); d.dec.PCMSize > 0 && frameSize > 0 {
		return durationOf(int64(d.dec.PCMSize)/frameSize, d.SampleRate())
	}
	dur, err := d.dec.Duration()
	if err != nil {
		return 0
	}
	return dur
}

func (d *wavDecoder) ReadSamples(dst []float32) (int, error) {
	ch := d.Channels()
	want := len(dst) - len(dst)%ch
	if want == 0 {
		return 0, nil
	}
	if cap(d.buf.Data) < want {
		d.buf.Data = make([]int, want)
	}
	d.buf.Data = d.buf.Data[:want]

	n, err := d.dec.PCMBuffer(d.buf)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	for i := 0; i < n; i++ {
		dst[i] = float32(d.buf.Data[i]-d.shift) / d.scale
	}
	return n, nil
}

func (d *wavDecoder) BufSize() int { return decodeBufSize }
func (d *wavDecoder) Close() error { return d.file.Close() }

// Ogg Vorbis

type oggDecoder struct {
	file *os.File
	dec  *oggvorbis.Reader
}

func newOggDecoder(f *os.File) (decoder, error) {
	dec, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, err
	}
	return &oggDecoder{file: f, dec: dec}, nil
}

func (d *oggDecoder) SampleRate() int { return d.dec.SampleRate() }
func (d *oggDecoder) Channels() int   { return d.dec.Channels() }

func (d *oggDecoder) Duration() time.Duration {
	return durationOf(d.dec.Length(), d.dec.SampleRate())
}

func (d *oggDecoder) ReadSamples(dst []float32) (int, error) {
	ch := d.Channels()
	return d.dec.Read(dst[:len(dst)-len(dst)%ch])
}

func (d *oggDecoder) BufSize() int { return decodeBufSize }
func (d *oggDecoder) Close() error { return d.file.Close() }

// FLAC

type flacDecoder struct {
	file    *os.File
	stream  *flac.Stream
	scale   float32
	pending []float32
}

func newFLACDecoder(f *os.File) (decoder, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, err
	}
	return &flacDecoder{
		file:   f,
		stream: stream,
		scale:  float32(int64(1) << (stream.Info.BitsPerSample - 1)),
	}, nil
}

func (d *flacDecoder) SampleRate() int { return int(d.stream.Info.SampleRate) }
func (d *flacDecoder) Channels() int   { return int(d.stream.Info.NChannels) }

func (d *flacDecoder) Duration() time.Duration {
	return durationOf(int64(d.stream.Info.NSamples), d.SampleRate())
}

func (d *flacDecoder) ReadSamples(dst []float32) (int, error) {
	ch := d.Channels()
	want := len(dst) - len(dst)%ch

	for len(d.pending) < want {
		fr, err := d.stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		for i := 0; i < int(fr.BlockSize); i++ {
			for c := 0; c < ch; c++ {
				d.pending = append(d.pending, float32(fr.Subframes[c].Samples[i])/d.scale)
			}
		}
	}

	if len(d.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(dst[:want], d.pending)
	d.pending = d.pending[:copy(d.pending, d.pending[n:])]
	return n, nil
}

func (d *flacDecoder) BufSize() int { return decodeBufSize }
func (d *flacDecoder) Close() error { return d.file.Close() }
