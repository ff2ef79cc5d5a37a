package audio

import "math"

// Synthesis defaults.
const (
	DefaultSampleRate = 44100
	DefaultFrequency  = 600.0
	DefaultAmplitude  = 0.5
)

// Synth renders tones and silences at a fixed sample rate. It holds no state
// between calls; the same inputs always produce the same samples.
type Synth struct {
	SampleRate int
	Frequency  float64

	// Amplitude scales the sine. Half scale leaves headroom when buffers
	// are concatenated or mixed.
	Amplitude float64

	// Ramp is the raised-cosine attack and release in seconds applied to
	// every tone. Zero keys the tone hard, like a straight key.
	Ramp float64
}

// DefaultSynth returns a 600 Hz, half amplitude synth at 44.1 kHz.
func DefaultSynth() Synth {
	return Synth{
		SampleRate: DefaultSampleRate,
		Frequency:  DefaultFrequency,
		Amplitude:  DefaultAmplitude,
	}
}

// SampleCount is the buffer length for d seconds: round(rate*d), never
// negative.
func (s Synth) SampleCount(d float64) int {
	n := int(math.Round(float64(s.SampleRate) * d))
	if n < 0 {
		return 0
	}
	return n
}

// Tone returns a sine at the synth frequency lasting d seconds. Sample times
// run from 0 to d inclusive.
func (s Synth) Tone(d float64) []float32 {
	n := s.SampleCount(d)
	buf := make([]float32, n)
	if n == 0 {
		return buf
	}

	step := 0.0
	if n > 1 {
		step = d / float64(n-1)
	}
	w := 2 * math.Pi * s.Frequency
	for i := range buf {
		buf[i] = float32(s.Amplitude * math.Sin(w*float64(i)*step))
	}

	s.applyRamp(buf)
	return buf
}

// Silence returns d seconds of zero samples.
func (s Synth) Silence(d float64) []float32 {
	return make([]float32, s.SampleCount(d))
}

func (s Synth) applyRamp(buf []float32) {
	r := s.SampleCount(s.Ramp)
	if r > len(buf)/2 {
		r = len(buf) / 2
	}
	if r == 0 {
		return
	}
	for i := 0; i < r; i++ {
		g := float32(0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(r))))
		buf[i] *= g
		buf[len(buf)-1-i] *= g
	}
}
