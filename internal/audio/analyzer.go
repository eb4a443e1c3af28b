// Package audio captures PCM from a device and derives per-frame levels,
// spectrum and beats for the visualizer.
package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	FFTSize        = 1024
	Smoothing      = 0.8
	MinDecibels    = -100.0
	MaxDecibels    = -30.0
	BeatThreshold  = 0.18
	baselineWeight = 0.9
)

// Band edges as fractions of the bin count. Each band is [lo, hi).
var (
	BassBand   = [2]float64{0, 0.05}
	MidsBand   = [2]float64{0.05, 0.2}
	TrebleBand = [2]float64{0.2, 0.5}
)

// Analysis is one frame of derived audio features. Levels are in [0,1].
type Analysis struct {
	Volume   float64
	Bass     float64
	Mids     float64
	Treble   float64
	IsBeat   bool
	Waveform []float32
	Spectrum []uint8
}

// Levels returns the four scalar features.
func (a Analysis) Levels() [4]float64 {
	return [4]float64{a.Volume, a.Bass, a.Mids, a.Treble}
}

// BeatDetector flags frames whose volume jumps above a slow baseline.
type BeatDetector struct {
	Threshold float64
	Baseline  float64
}

// Observe folds volume into the baseline and reports a beat when volume
// exceeds the updated baseline by Threshold.
func (b *BeatDetector) Observe(volume float64) bool {
	b.Baseline = b.Baseline*baselineWeight + volume*(1-baselineWeight)
	return volume > b.Baseline+b.Threshold
}

// Analyzer computes byte spectra the way a browser analyser node does:
// Blackman window, FFT, magnitude smoothed over time, dB mapped to bytes.
type Analyzer struct {
	size      int
	smoothing float64
	window    []float64
	smoothed  []float64
	frame     []float64
	beat      BeatDetector
}

func NewAnalyzer() *Analyzer {
	return NewAnalyzerSize(FFTSize)
}

// NewAnalyzerSize uses a custom FFT size, which must be a power of two.
func NewAnalyzerSize(size int) *Analyzer {
	return &Analyzer{
		size:      size,
		smoothing: Smoothing,
		window:    window.Blackman(size),
		smoothed:  make([]float64, size/2),
		frame:     make([]float64, size),
		beat:      BeatDetector{Threshold: BeatThreshold},
	}
}

func (a *Analyzer) Size() int { return a.size }

// Reset clears the temporal smoothing and the beat baseline.
func (a *Analyzer) Reset() {
	clear(a.smoothed)
	a.beat.Baseline = 0
}

// Analyze derives features from the most recent samples. Short input is
// zero-padded at the front.
func (a *Analyzer) Analyze(samples []float32) Analysis {
	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	pad := a.size - len(samples)
	wave := make([]float32, a.size)
	copy(wave[pad:], samples)

	sum := 0.0
	for i, s := range wave {
		v := float64(s)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
			wave[i] = 0
		}
		sum += v * v
		a.frame[i] = v * a.window[i]
	}
	volume := math.Sqrt(sum / float64(a.size))

	spec := fft.FFTReal(a.frame)
	bins := make([]uint8, a.size/2)
	for k := range bins {
		mag := cmplx.Abs(spec[k]) / float64(a.size)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		bins[k] = toByte(a.smoothed[k])
	}

	return Analysis{
		Volume:   math.Min(volume, 1),
		Bass:     BandAverage(bins, BassBand[0], BassBand[1]),
		Mids:     BandAverage(bins, MidsBand[0], MidsBand[1]),
		Treble:   BandAverage(bins, TrebleBand[0], TrebleBand[1]),
		IsBeat:   a.beat.Observe(volume),
		Waveform: wave,
		Spectrum: bins,
	}
}

func toByte(mag float64) uint8 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := 255 * (db - MinDecibels) / (MaxDecibels - MinDecibels)
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// BandAverage is the mean of bins[floor(lo·n) : floor(hi·n)] scaled to [0,1].
func BandAverage(bins []uint8, lo, hi float64) float64 {
	n := len(bins)
	start := int(math.Floor(lo * float64(n)))
	end := int(math.Floor(hi * float64(n)))
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if end <= start {
		return 0
	}
	sum := 0
	for _, b := range bins[start:end] {
		sum += int(b)
	}
	return float64(sum) / float64(end-start) / 255
}
