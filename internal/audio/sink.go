package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
)

// Sink kinds accepted by NewOpener, besides SinkAuto.
const (
	SinkAplay = "aplay"
	SinkOto   = "oto"
	SinkWAV   = "wav"
	SinkRaw   = "raw"
)

// DefaultDevice is the ALSA device the aplay sink plays to.
const DefaultDevice = "plughw:2,0"

// Sink consumes raw PCM bytes. Write blocks until the sink has accepted the
// data; Close flushes, releases the device and waits for buffered audio to
// finish playing.
type Sink interface {
	io.WriteCloser
	Flush() error
}

// Opener acquires a sink for one playback session.
type Opener func(ctx context.Context, format PCMFormat) (Sink, error)

// SinkConfig selects and configures a sink.
type SinkConfig struct {
	Kind string

	// Device is the ALSA device for the aplay sink.
	Device string

	// Command is the aplay binary. Defaults to "aplay".
	Command string

	// Path is the output file for the wav and raw sinks. "-" or empty
	// writes raw PCM to stdout.
	Path string

	// Buffer is the oto device buffer length.
	Buffer time.Duration
}

// NewOpener returns an Opener for cfg.Kind.
func NewOpener(cfg SinkConfig) (Opener, error) {
	path, err := homedir.Expand(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to expand path %q: %w", cfg.Path, err)
	}

	switch cfg.Kind {
	case SinkAuto:
		platform := DetectPlatform(cfg.Command)
		cfg.Kind = platform.PreferredSink()
		log.Info("Selected audio sink", "sink", cfg.Kind, "platform", platform)
		return NewOpener(cfg)
	case "", SinkAplay:
		return func(_ context.Context, f PCMFormat) (Sink, error) {
			return open(OpenAplay(cfg.Command, cfg.Device, f))
		}, nil
	case SinkOto:
		return func(ctx context.Context, f PCMFormat) (Sink, error) {
			return open(OpenOto(ctx, f, cfg.Buffer))
		}, nil
	case SinkWAV:
		if cfg.Path == "" || cfg.Path == "-" {
			return nil, fmt.Errorf("the %s sink needs an output path", SinkWAV)
		}
		return func(_ context.Context, f PCMFormat) (Sink, error) {
			return open(CreateWAV(path, f))
		}, nil
	case SinkRaw:
		return func(_ context.Context, f PCMFormat) (Sink, error) {
			if cfg.Path == "" || cfg.Path == "-" {
				return NewRawSink(os.Stdout, f), nil
			}
			return open(CreateRaw(path, f))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSink, cfg.Kind)
	}
}

// open keeps a failed constructor from yielding a typed nil Sink.
func open[S Sink](s S, err error) (Sink, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
