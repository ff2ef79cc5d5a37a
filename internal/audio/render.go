package audio

import "github.com/dgnsrekt/morsecast/internal/morse"

// Renderer turns symbol strings into one concatenated sample buffer.
type Renderer struct {
	Synth Synth
}

// NewRenderer creates a renderer over s.
func NewRenderer(s Synth) *Renderer {
	return &Renderer{Synth: s}
}

// Render keys symbols left to right: '.' and '-' become tones, ' ' a symbol
// space and '/' a word space. Every symbol, spaces included, is followed by
// one more symbol space, so a literal space yields two symbol spaces in a
// row. Any other byte only contributes that trailing gap.
func (r *Renderer) Render(symbols string, t morse.Timing) []float32 {
	out := make([]float32, 0, r.Samples(symbols, t))
	if len(symbols) == 0 {
		return out
	}

	var (
		dot   = r.Synth.Tone(t.Dot)
		dash  = r.Synth.Tone(t.Dash)
		space = r.Synth.Silence(t.SymbolSpace)
		word  = r.Synth.Silence(t.WordSpace)
	)
	for i := 0; i < len(symbols); i++ {
		switch symbols[i] {
		case '.':
			out = append(out, dot...)
		case '-':
			out = append(out, dash...)
		case ' ':
			out = append(out, space...)
		case morse.WordSeparator:
			out = append(out, word...)
		}
		out = append(out, space...)
	}
	return out
}

// Samples predicts len(Render(symbols, t)) without synthesizing.
func (r *Renderer) Samples(symbols string, t morse.Timing) int {
	var (
		s     = r.Synth
		gap   = s.SampleCount(t.SymbolSpace)
		total int
	)
	for i := 0; i < len(symbols); i++ {
		switch symbols[i] {
		case '.':
			total += s.SampleCount(t.Dot)
		case '-':
			total += s.SampleCount(t.Dash)
		case ' ':
			total += gap
		case morse.WordSeparator:
			total += s.SampleCount(t.WordSpace)
		}
		total += gap
	}
	return total
}
