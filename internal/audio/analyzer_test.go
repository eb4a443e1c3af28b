package audio

import (
	"math"
	"testing"

	"github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, n int, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/SampleRate))
	}
	return out
}

func TestBeatAgainstBaseline(t *testing.T) {
	b := BeatDetector{Threshold: BeatThreshold, Baseline: 0.2}
	assert.True(t, b.Observe(0.5))

	b = BeatDetector{Threshold: BeatThreshold, Baseline: 0.2}
	assert.False(t, b.Observe(0.3))
	assert.InDelta(t, 0.21, b.Baseline, 1e-12)
}

func TestSilenceIsZero(t *testing.T) {
	a := NewAnalyzer()
	res := a.Analyze(make([]float32, FFTSize))
	assert.Zero(t, res.Volume)
	assert.Zero(t, res.Bass)
	assert.Zero(t, res.Mids)
	assert.Zero(t, res.Treble)
	assert.False(t, res.IsBeat)
	assert.Len(t, res.Spectrum, FFTSize/2)
	assert.Len(t, res.Waveform, FFTSize)
}

func TestShortInputPadded(t *testing.T) {
	a := NewAnalyzer()
	res := a.Analyze([]float32{0.5, 0.5})
	require.Len(t, res.Waveform, FFTSize)
	assert.Equal(t, float32(0), res.Waveform[0])
	assert.Equal(t, float32(0.5), res.Waveform[FFTSize-1])
}

func TestLowToneLandsInBass(t *testing.T) {
	a := NewAnalyzer()
	var res Analysis
	for i := 0; i < 20; i++ {
		res = a.Analyze(sine(200, FFTSize, 0.8))
	}
	assert.Greater(t, res.Bass, res.Treble)
	assert.Greater(t, res.Bass, 0.2)
	assert.InDelta(t, 0.8/math.Sqrt2, res.Volume, 0.02)
}

func TestHighToneLandsInTreble(t *testing.T) {
	a := NewAnalyzer()
	var res Analysis
	for i := 0; i < 20; i++ {
		res = a.Analyze(sine(8000, FFTSize, 0.8))
	}
	assert.Greater(t, res.Treble, res.Bass)
}

func TestLevelsBounded(t *testing.T) {
	a := NewAnalyzer()
	loud := make([]float32, FFTSize)
	for i := range loud {
		loud[i] = float32(math.Copysign(4, float64(i%2)-0.5))
	}
	loud[3] = float32(math.NaN())
	res := a.Analyze(loud)
	for _, v := range res.Levels() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestSpectrumSmoothing(t *testing.T) {
	a := NewAnalyzer()
	first := a.Analyze(sine(3000, FFTSize, 0.8))
	second := a.Analyze(sine(3000, FFTSize, 0.8))
	assert.GreaterOrEqual(t, second.Mids, first.Mids, "smoothed magnitudes rise toward the steady state")

	a.Reset()
	again := a.Analyze(sine(3000, FFTSize, 0.8))
	assert.InDelta(t, first.Mids, again.Mids, 1e-12)
}

func TestBandAverageDisjoint(t *testing.T) {
	bins := make([]uint8, 512)
	for i := range bins {
		bins[i] = 255
	}
	assert.Equal(t, 1.0, BandAverage(bins, 0, 0.05))

	bins[25] = 0
	// index 25 = floor(0.05·512) belongs to mids only
	assert.Equal(t, 1.0, BandAverage(bins, BassBand[0], BassBand[1]))
	assert.Less(t, BandAverage(bins, MidsBand[0], MidsBand[1]), 1.0)
	assert.Zero(t, BandAverage(bins, 0.5, 0.5))
	assert.Zero(t, BandAverage(nil, 0, 1))
}

func TestToByte(t *testing.T) {
	assert.Equal(t, uint8(0), toByte(0))
	assert.Equal(t, uint8(0), toByte(1e-6))
	assert.Equal(t, uint8(255), toByte(1))
	mid := toByte(math.Pow(10, -65.0/20))
	assert.InDelta(t, 127, int(mid), 1)
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRing(4)
	assert.Empty(t, r.Snapshot())
	r.Write([]float32{1, 2, 3})
	assert.Equal(t, []float32{1, 2, 3}, r.Snapshot())
	r.Write([]float32{4, 5})
	assert.Equal(t, []float32{2, 3, 4, 5}, r.Snapshot())
	r.Write([]float32{6, 7, 8, 9, 10})
	assert.Equal(t, []float32{7, 8, 9, 10}, r.Snapshot())
	r.Reset()
	assert.Empty(t, r.Snapshot())
}

func TestFindLoopback(t *testing.T) {
	devices := []*portaudio.DeviceInfo{
		{Name: "Built-in Microphone", MaxInputChannels: 1},
		{Name: "Monitor of Speakers", MaxInputChannels: 0},
		{Name: "Monitor of Built-in Audio", MaxInputChannels: 2},
	}
	d := FindLoopback(devices, LoopbackHints)
	require.NotNil(t, d)
	assert.Equal(t, "Monitor of Built-in Audio", d.Name)
	assert.Nil(t, FindLoopback(devices[:2], LoopbackHints))
}

func TestParseSourceKind(t *testing.T) {
	k, err := ParseSourceKind("Loopback")
	require.NoError(t, err)
	assert.Equal(t, System, k)
	k, err = ParseSourceKind("mic")
	require.NoError(t, err)
	assert.Equal(t, Microphone, k)
	_, err = ParseSourceKind("line-in")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
