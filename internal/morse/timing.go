package morse

import (
	"fmt"
	"math"
)

// DefaultWPM is the keying speed used when none is configured.
const DefaultWPM = 20

// Timing holds element and gap durations in seconds. It is derived once per
// session and never modified.
type Timing struct {
	Dot         float64
	Dash        float64
	SymbolSpace float64
	CharSpace   float64
	WordSpace   float64
}

// NewTiming derives timings from words per minute using the PARIS standard:
// one dot lasts 1.2/wpm seconds.
func NewTiming(wpm float64) (Timing, error) {
	if wpm <= 0 || math.IsNaN(wpm) || math.IsInf(wpm, 0) {
		return Timing{}, fmt.Errorf("%w: got %v", ErrInvalidWPM, wpm)
	}
	dot := 1.2 / wpm
	return Timing{
		Dot:         dot,
		Dash:        dot * 3,
		SymbolSpace: dot,
		CharSpace:   dot * 3,
		WordSpace:   dot * 7,
	}, nil
}

// MustTiming is like NewTiming but panics on an invalid wpm.
func MustTiming(wpm float64) Timing {
	t, err := NewTiming(wpm)
	if err != nil {
		panic(err)
	}
	return t
}

// WPM returns the speed the timing was derived from.
func (t Timing) WPM() float64 {
	if t.Dot == 0 {
		return 0
	}
	return 1.2 / t.Dot
}
