package source

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDelay is the pause between simulated lines.
const DefaultDelay = 3 * time.Second

// SampleLines are the sentences the simulated source plays.
var SampleLines = []string{
	"This is a test of continuous Morse code playback.",
	"Morse code allows text communication through sound.",
	"The quick brown fox jumps over the lazy dog.",
	"73 DE WF9Q",
}

// Simulated stands in for a live text feed: it emits SampleLines with a
// fixed delay between them, and waits one more delay after the last line
// before reporting the end. The delay runs from each call to Next, so a
// consumer that takes longer than the delay still hears a full gap.
type Simulated struct {
	lines   *Lines
	limit   rate.Limit
	started bool
}

// NewSimulated returns the sample feed paced at one line per delay. A zero
// or negative delay emits lines back to back.
func NewSimulated(delay time.Duration) *Simulated {
	return NewPaced(delay, SampleLines...)
}

// NewPaced emits lines with delay before every line but the first.
func NewPaced(delay time.Duration, lines ...string) *Simulated {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Simulated{lines: NewLines(lines...), limit: limit}
}

func (s *Simulated) Next(ctx context.Context) (string, error) {
	if s.started {
		if err := s.pause(ctx); err != nil {
			return "", err
		}
	}
	s.started = true
	return s.lines.Next(ctx)
}

// pause blocks for one delay starting now. The limiter begins with its
// only token spent, so Wait lasts the whole interval.
func (s *Simulated) pause(ctx context.Context) error {
	lim := rate.NewLimiter(s.limit, 1)
	lim.AllowN(time.Now(), 1)

	// Wait fails early when the slot lies past ctx's deadline; treat that
	// the same as the deadline itself.
	if err := lim.Wait(ctx); err != nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (s *Simulated) Close() error { return nil }
