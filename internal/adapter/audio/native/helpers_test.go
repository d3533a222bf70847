package native

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

// writeWAV encodes interleaved integer samples into dir/name.
func writeWAV(t *testing.T, dir, name string, rate, bitDepth, channels int, samples []int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, bitDepth, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	return path
}

// sine returns n samples of a 16-bit sine with the given period in samples.
func sine(n int, period float64) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = int(16000 * math.Sin(2*math.Pi*float64(i)/period))
	}
	return out
}

// sliceDecoder serves fixed interleaved samples.
type sliceDecoder struct {
	rate     int
	channels int
	data     []float32
	pos      int
	closed   bool
}

func (d *sliceDecoder) SampleRate() int         { return d.rate }
func (d *sliceDecoder) Channels() int           { return d.channels }
func (d *sliceDecoder) Duration() time.Duration { return durationOf(int64(len(d.data)/d.channels), d.rate) }

func (d *sliceDecoder) ReadSamples(dst []float32) (int, error) {
	if d.pos >= len(d.data) {
		return 0, io.EOF
	}
	want := len(dst) - len(dst)%d.channels
	n := copy(dst[:want], d.data[d.pos:])
	d.pos += n
	return n, nil
}

func (d *sliceDecoder) BufSize() int { return decodeBufSize }

func (d *sliceDecoder) Close() error {
	d.closed = true
	return nil
}

// fakePlayer drains its reader on Play so tests see the stream consumed.
type fakePlayer struct {
	mu      sync.Mutex
	r       io.Reader
	playing bool
	closed  bool
	plays   int
}

func (p *fakePlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	p.plays++
	_, _ = p.r.Read(make([]byte, 4096*bytesPerFrame))
}

func (p *fakePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *fakePlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.playing = false
	return nil
}

type fakeDevice struct {
	mu      sync.Mutex
	players []*fakePlayer
}

func (d *fakeDevice) NewPlayer(r io.Reader) player {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &fakePlayer{r: r}
	d.players = append(d.players, p)
	return p
}

func (d *fakeDevice) last() *fakePlayer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.players[len(d.players)-1]
}
