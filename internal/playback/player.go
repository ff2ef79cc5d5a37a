package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/morsecast/internal/audio"
	"github.com/dgnsrekt/morsecast/internal/cache"
	"github.com/dgnsrekt/morsecast/internal/morse"
	"github.com/dgnsrekt/morsecast/internal/queue"
	"github.com/dgnsrekt/morsecast/internal/source"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyRun is returned by Run on a player that has been used.
var ErrAlreadyRun = errors.New("player has already run")

// Options configures a Player.
type Options struct {
	Translator morse.Translator
	Timing     morse.Timing
	Synth      audio.Synth

	// Format is the layout the sink is opened with. Its rate must match
	// Synth.
	Format audio.PCMFormat

	// Open acquires the sink when Run starts.
	Open audio.Opener

	// Console receives the text and symbols of every played line. Nil
	// keeps the player silent on stdout.
	Console *Console

	// Cache holds encoded PCM for recently rendered symbol strings. Nil
	// renders every line.
	Cache cache.Cache

	// Lookahead lets up to this many lines be rendered while an earlier
	// one is still being written. Zero handles one line at a time.
	Lookahead int
}

// Stats summarises a session.
type Stats struct {
	Lines     int
	Skipped   int
	Bytes     int64
	CacheHits int
}

// Player streams a line source to a sink. A Player runs once.
type Player struct {
	translator morse.Translator
	timing     morse.Timing
	synth      audio.Synth
	renderer   *audio.Renderer
	format     audio.PCMFormat
	open       audio.Opener
	console    *Console
	cache      cache.Cache
	lookahead  int

	mu    sync.Mutex
	state State
	stats Stats
}

// New returns a player for opts.
func New(opts Options) (*Player, error) {
	if opts.Open == nil {
		return nil, errors.New("no audio sink configured")
	}
	if opts.Timing.Dot <= 0 {
		return nil, morse.ErrInvalidWPM
	}
	format := opts.Format
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if format.SampleRate != opts.Synth.SampleRate {
		return nil, fmt.Errorf("%w: sink runs at %d Hz, tone at %d Hz",
			audio.ErrInvalidSampleRate, format.SampleRate, opts.Synth.SampleRate)
	}
	if opts.Lookahead < 0 {
		opts.Lookahead = 0
	}

	return &Player{
		translator: opts.Translator,
		timing:     opts.Timing,
		synth:      opts.Synth,
		renderer:   audio.NewRenderer(opts.Synth),
		format:     format,
		open:       opts.Open,
		console:    opts.Console,
		cache:      opts.Cache,
		lookahead:  opts.Lookahead,
	}, nil
}

// State returns the current lifecycle state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stats returns what the player has done so far.
func (p *Player) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Player) setState(s State) {
	p.mu.Lock()
	prev := p.state
	p.state = s
	p.mu.Unlock()
	log.Debug("playback state changed", "from", prev, "to", s)
}

// Run opens the sink and plays src until it returns io.EOF or ctx is
// cancelled. Cancellation is a clean stop: the line being written
// finishes, the sink is drained and Run returns nil. Sink and source
// failures end the session with an error. The sink is closed on every
// path.
func (p *Player) Run(ctx context.Context, src source.Source) (err error) {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return ErrAlreadyRun
	}
	p.mu.Unlock()

	sink, err := p.open(ctx, p.format)
	if err != nil {
		p.setState(StateFailed)
		return fmt.Errorf("unable to open audio sink: %w", err)
	}
	p.setState(StateStreaming)
	log.Debug("audio sink open", "rate", p.format.SampleRate, "lookahead", p.lookahead)

	defer func() {
		cerr := sink.Close()
		if cerr == nil {
			return
		}
		if err == nil && p.State() != StateInterrupted {
			p.setState(StateFailed)
			err = fmt.Errorf("unable to close audio sink: %w", cerr)
			return
		}
		log.Warn("closing audio sink", "err", cerr)
	}()

	if p.lookahead > 0 {
		err = p.runPipelined(ctx, src, sink)
	} else {
		err = p.runSequential(ctx, src, sink)
	}
	return p.finish(ctx, err)
}

func (p *Player) finish(ctx context.Context, err error) error {
	st := p.Stats()
	switch {
	case ctx.Err() != nil && (err == nil || errors.Is(err, ctx.Err())):
		p.setState(StateInterrupted)
		p.console.Stopping()
		log.Info("playback interrupted", "lines", st.Lines, "bytes", humanize.IBytes(uint64(st.Bytes)))
		return nil
	case err != nil:
		p.setState(StateFailed)
		return err
	default:
		p.setState(StateStopped)
		kv := []any{"lines", st.Lines, "skipped", st.Skipped, "bytes", humanize.IBytes(uint64(st.Bytes))}
		if p.cache != nil {
			cs := p.cache.Stats()
			kv = append(kv, "cache_hits", st.CacheHits,
				"cache_hit_rate", fmt.Sprintf("%.0f%%", cs.HitRate*100),
				"cache_evictions", cs.Evictions,
				"cache_size", humanize.IBytes(uint64(cs.Size)))
		}
		log.Info("playback finished", kv...)
		return nil
	}
}

func (p *Player) runSequential(ctx context.Context, src source.Source, sink audio.Sink) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("unable to read line: %w", err)
		}

		item, ok := p.prepare(line)
		if !ok {
			continue
		}
		if err := p.play(sink, item); err != nil {
			return err
		}
	}
}

// runPipelined renders lines on one goroutine and writes them on another,
// with at most p.lookahead rendered lines waiting in between.
func (p *Player) runPipelined(ctx context.Context, src source.Source, sink audio.Sink) error {
	q := queue.NewAudioQueue(p.lookahead)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer q.Close() //nolint:errcheck
		for {
			if err := gctx.Err(); err != nil {
				return err
			}
			line, err := src.Next(gctx)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("unable to read line: %w", err)
			}

			item, ok := p.prepare(line)
			if !ok {
				continue
			}
			if err := q.Enqueue(item); err != nil {
				// The writer stopped; its error, if any, wins.
				return nil
			}
		}
	})

	g.Go(func() error {
		defer q.Close() //nolint:errcheck
		for {
			item, err := q.Dequeue()
			if errors.Is(err, queue.ErrQueueClosed) {
				return nil
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := p.play(sink, item); err != nil {
				return err
			}
		}
	})

	err := g.Wait()
	st := q.GetStats()
	log.Debug("lookahead queue drained", "lines", st.TotalDequeued, "peak", st.PeakSize,
		"peak_bytes", humanize.IBytes(uint64(st.PeakBytes)))
	return err
}

// prepare translates and renders a line. Blank lines are skipped.
func (p *Player) prepare(line string) (queue.Item, bool) {
	text := strings.TrimSpace(line)
	if text == "" {
		p.mu.Lock()
		p.stats.Skipped++
		p.mu.Unlock()
		return queue.Item{}, false
	}

	symbols := p.translator.Translate(text)
	return queue.Item{Text: text, Symbols: symbols, PCM: p.render(symbols)}, true
}

func (p *Player) render(symbols string) []byte {
	if p.cache == nil {
		return audio.EncodeFloat32LE(p.renderer.Render(symbols, p.timing))
	}

	key := cache.Key{
		Symbols:    symbols,
		Dot:        p.timing.Dot,
		SampleRate: p.synth.SampleRate,
		Frequency:  p.synth.Frequency,
		Amplitude:  p.synth.Amplitude,
		Ramp:       p.synth.Ramp,
	}.String()
	if pcm, ok := p.cache.Get(key); ok {
		p.mu.Lock()
		p.stats.CacheHits++
		p.mu.Unlock()
		return pcm
	}

	pcm := audio.EncodeFloat32LE(p.renderer.Render(symbols, p.timing))
	if err := p.cache.Put(key, pcm); err != nil {
		log.Debug("not caching rendered line", "bytes", humanize.IBytes(uint64(len(pcm))), "err", err)
	}
	return pcm
}

// play prints a line and writes its samples. Write errors are fatal.
func (p *Player) play(sink audio.Sink, item queue.Item) error {
	if err := audio.ValidatePCMData(item.PCM, p.format); err != nil {
		return fmt.Errorf("unable to play %q: %w", item.Text, err)
	}
	p.console.Line(item.Text, item.Symbols)

	if _, err := sink.Write(item.PCM); err != nil {
		return fmt.Errorf("unable to write audio: %w", err)
	}
	if err := sink.Flush(); err != nil {
		return fmt.Errorf("unable to flush audio: %w", err)
	}

	p.mu.Lock()
	p.stats.Lines++
	p.stats.Bytes += int64(len(item.PCM))
	p.mu.Unlock()

	log.Debug("played line", "text", item.Text, "symbols", len(item.Symbols),
		"bytes", humanize.IBytes(uint64(len(item.PCM))), "duration", p.format.Duration(len(item.PCM)))
	return nil
}
