package native

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Analyser turns the most recent fftSize samples of a source into byte
// magnitudes. Every call analyses whatever the tap holds at that moment.
//
// Thread-safety: This implementation is thread-safe.
type Analyser struct {
	mu sync.Mutex

	source  *Source
	fftSize int

	smoothing float64
	minDB     float64
	rangeDB   float64

	fft      *fourier.FFT
	window   []float64
	samples  []float32
	seq      []float64
	coeffs   []complex128
	smoothed []float64

	closed bool
}

var _ ports.Analyser = (*Analyser)(nil)

func newAnalyser(source *Source, fftSize int, opts Options) *Analyser {
	return &Analyser{
		source:    source,
		fftSize:   fftSize,
		smoothing: opts.Smoothing,
		minDB:     opts.MinDecibels,
		rangeDB:   opts.MaxDecibels - opts.MinDecibels,
		fft:       fourier.NewFFT(fftSize),
		window:    window.Blackman(fftSize),
		samples:   make([]float32, fftSize),
		seq:       make([]float64, fftSize),
		coeffs:    make([]complex128, fftSize/2+1),
		smoothed:  make([]float64, fftSize/2),
	}
}

// FrequencyBinCount implements ports.Analyser.
func (a *Analyser) FrequencyBinCount() int {
	return a.fftSize / 2
}

// ByteFrequencyData implements ports.Analyser.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.source.isClosed() {
		clear(dst)
		return
	}

	a.source.tap.Latest(a.samples)
	a.analyse(dst)
}

// analyse runs one transform over a.samples and writes the smoothed
// magnitudes of the lowest len(dst) bins into dst.
func (a *Analyser) analyse(dst []byte) {
	for i, v := range a.samples {
		a.seq[i] = float64(v) * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.seq)

	n := float64(a.fftSize)
	bins := min(len(dst), len(a.smoothed))
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeffs[k]) / n
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if k < bins {
			dst[k] = a.toByte(a.smoothed[k])
		}
	}
}

func (a *Analyser) toByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := 255 * (db - a.minDB) / a.rangeDB
	switch {
	case scaled <= 0 || math.IsNaN(scaled):
		return 0
	case scaled >= 255:
		return 255
	}
	return byte(scaled)
}

// Close implements ports.Analyser. Later reads yield silence.
func (a *Analyser) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}
