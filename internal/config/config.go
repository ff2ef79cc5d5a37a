package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dgnsrekt/morsecast/internal/audio"
	"github.com/dgnsrekt/morsecast/internal/morse"
	"github.com/dgnsrekt/morsecast/internal/source"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Config keys as they appear in morsecast.yml. Nested keys use viper's dot
// notation.
const (
	KeyWPM            = "wpm"
	KeyFrequency      = "frequency"
	KeySampleRate     = "sample_rate"
	KeyAmplitude      = "amplitude"
	KeyRamp           = "ramp"
	KeyTable          = "table"
	KeyFoldDiacritics = "fold_diacritics"
	KeyLookahead      = "lookahead"
	KeyCacheSize      = "cache_size"
	KeyQuiet          = "quiet"

	KeySinkKind    = "sink.kind"
	KeySinkDevice  = "sink.device"
	KeySinkCommand = "sink.command"
	KeySinkOutput  = "sink.output"
	KeySinkBuffer  = "sink.buffer"

	KeySourceKind      = "source.kind"
	KeySourceInput     = "source.input"
	KeySourceDelay     = "source.delay"
	KeySourceFromStart = "source.from_start"
)

// Defaults.
const (
	DefaultCacheSize = 8 << 20
	DefaultBuffer    = 100 * time.Millisecond
	DefaultCommand   = "aplay"
)

// Config contains every setting of a playback session.
type Config struct {
	WPM        float64
	Frequency  float64
	SampleRate int
	Amplitude  float64
	Ramp       time.Duration

	Table          string
	FoldDiacritics bool

	// Lookahead is how many rendered lines may wait ahead of the sink.
	// Zero plays strictly one line at a time.
	Lookahead int

	// CacheSize bounds the rendered-line cache in bytes. Zero disables it.
	CacheSize int64

	Quiet bool

	Sink   SinkConfig
	Source SourceConfig
}

// SinkConfig selects where audio goes.
type SinkConfig struct {
	Kind    string
	Device  string
	Command string
	Output  string
	Buffer  time.Duration
}

// SourceConfig selects where lines come from.
type SourceConfig struct {
	Kind      string
	Input     string
	Delay     time.Duration
	FromStart bool
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		WPM:            morse.DefaultWPM,
		Frequency:      audio.DefaultFrequency,
		SampleRate:     audio.DefaultSampleRate,
		Amplitude:      audio.DefaultAmplitude,
		Table:          morse.TableStandard,
		FoldDiacritics: true,
		CacheSize:      DefaultCacheSize,
		Sink: SinkConfig{
			Kind:    audio.SinkAplay,
			Device:  audio.DefaultDevice,
			Command: DefaultCommand,
			Buffer:  DefaultBuffer,
		},
		Source: SourceConfig{
			Kind:  source.KindSimulated,
			Delay: source.DefaultDelay,
		},
	}
}

// SetDefaults registers the defaults with v so they show up in
// v.AllSettings and apply to unset keys.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyWPM, d.WPM)
	v.SetDefault(KeyFrequency, d.Frequency)
	v.SetDefault(KeySampleRate, d.SampleRate)
	v.SetDefault(KeyAmplitude, d.Amplitude)
	v.SetDefault(KeyRamp, d.Ramp)
	v.SetDefault(KeyTable, d.Table)
	v.SetDefault(KeyFoldDiacritics, d.FoldDiacritics)
	v.SetDefault(KeyLookahead, d.Lookahead)
	v.SetDefault(KeyCacheSize, humanize.IBytes(uint64(d.CacheSize)))
	v.SetDefault(KeyQuiet, d.Quiet)
	v.SetDefault(KeySinkKind, d.Sink.Kind)
	v.SetDefault(KeySinkDevice, d.Sink.Device)
	v.SetDefault(KeySinkCommand, d.Sink.Command)
	v.SetDefault(KeySinkOutput, d.Sink.Output)
	v.SetDefault(KeySinkBuffer, d.Sink.Buffer)
	v.SetDefault(KeySourceKind, d.Source.Kind)
	v.SetDefault(KeySourceInput, d.Source.Input)
	v.SetDefault(KeySourceDelay, d.Source.Delay)
	v.SetDefault(KeySourceFromStart, d.Source.FromStart)
}

// Load reads the configuration from v and validates it. Keys v does not
// know keep their defaults.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	if v.IsSet(KeyWPM) {
		cfg.WPM = v.GetFloat64(KeyWPM)
	}
	if v.IsSet(KeyFrequency) {
		cfg.Frequency = v.GetFloat64(KeyFrequency)
	}
	if v.IsSet(KeySampleRate) {
		cfg.SampleRate = v.GetInt(KeySampleRate)
	}
	if v.IsSet(KeyAmplitude) {
		cfg.Amplitude = v.GetFloat64(KeyAmplitude)
	}
	if v.IsSet(KeyRamp) {
		cfg.Ramp = v.GetDuration(KeyRamp)
	}
	if v.IsSet(KeyTable) {
		cfg.Table = strings.ToLower(v.GetString(KeyTable))
	}
	if v.IsSet(KeyFoldDiacritics) {
		cfg.FoldDiacritics = v.GetBool(KeyFoldDiacritics)
	}
	if v.IsSet(KeyLookahead) {
		cfg.Lookahead = v.GetInt(KeyLookahead)
	}
	if v.IsSet(KeyCacheSize) {
		size, err := parseSize(v.GetString(KeyCacheSize))
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, KeyCacheSize, err)
		}
		cfg.CacheSize = size
	}
	if v.IsSet(KeyQuiet) {
		cfg.Quiet = v.GetBool(KeyQuiet)
	}

	if v.IsSet(KeySinkKind) {
		cfg.Sink.Kind = strings.ToLower(v.GetString(KeySinkKind))
	}
	if v.IsSet(KeySinkDevice) {
		cfg.Sink.Device = v.GetString(KeySinkDevice)
	}
	if v.IsSet(KeySinkCommand) {
		cfg.Sink.Command = v.GetString(KeySinkCommand)
	}
	if v.IsSet(KeySinkOutput) {
		cfg.Sink.Output = v.GetString(KeySinkOutput)
	}
	if v.IsSet(KeySinkBuffer) {
		cfg.Sink.Buffer = v.GetDuration(KeySinkBuffer)
	}

	if v.IsSet(KeySourceKind) {
		cfg.Source.Kind = strings.ToLower(v.GetString(KeySourceKind))
	}
	if v.IsSet(KeySourceInput) {
		cfg.Source.Input = v.GetString(KeySourceInput)
	}
	if v.IsSet(KeySourceDelay) {
		cfg.Source.Delay = v.GetDuration(KeySourceDelay)
	}
	if v.IsSet(KeySourceFromStart) {
		cfg.Source.FromStart = v.GetBool(KeySourceFromStart)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseSize accepts plain byte counts as well as sizes like "8 MiB".
func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size %s out of range", s)
	}
	return int64(n), nil
}

// Validate checks if the configuration is valid. Every error wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	if _, err := morse.NewTiming(c.WPM); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	}
	if nyquist := float64(c.SampleRate) / 2; !(c.Frequency > 0 && c.Frequency < nyquist) {
		return fmt.Errorf("%w: frequency must be between 0 and %g Hz, got %g", ErrInvalidConfig, nyquist, c.Frequency)
	}
	if !(c.Amplitude > 0 && c.Amplitude <= 1) {
		return fmt.Errorf("%w: amplitude must be in (0, 1], got %g", ErrInvalidConfig, c.Amplitude)
	}
	if c.Ramp < 0 {
		return fmt.Errorf("%w: ramp must not be negative, got %s", ErrInvalidConfig, c.Ramp)
	}
	if _, err := morse.TableByName(c.Table); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Lookahead < 0 {
		return fmt.Errorf("%w: lookahead must not be negative, got %d", ErrInvalidConfig, c.Lookahead)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache size must not be negative, got %d", ErrInvalidConfig, c.CacheSize)
	}

	switch c.Sink.Kind {
	case audio.SinkAuto, audio.SinkAplay, audio.SinkOto, audio.SinkRaw:
	case audio.SinkWAV:
		if c.Sink.Output == "" || c.Sink.Output == "-" {
			return fmt.Errorf("%w: the %s sink needs an output file", ErrInvalidConfig, audio.SinkWAV)
		}
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, audio.ErrUnknownSink, c.Sink.Kind)
	}
	if c.Sink.Buffer < 0 {
		return fmt.Errorf("%w: sink buffer must not be negative, got %s", ErrInvalidConfig, c.Sink.Buffer)
	}

	switch c.Source.Kind {
	case source.KindSimulated, source.KindStdin, source.KindArgs, source.KindClipboard:
	case source.KindFile, source.KindFollow, source.KindMarkdown:
		if c.Source.Input == "" {
			return fmt.Errorf("%w: the %s source needs an input path", ErrInvalidConfig, c.Source.Kind)
		}
		if c.Source.Kind == source.KindFollow && c.Source.Input == "-" {
			return fmt.Errorf("%w: cannot follow stdin", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, source.ErrUnknownSource, c.Source.Kind)
	}
	if c.Source.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative, got %s", ErrInvalidConfig, c.Source.Delay)
	}

	return nil
}

// Timing returns the element durations for c.WPM.
func (c Config) Timing() (morse.Timing, error) {
	return morse.NewTiming(c.WPM)
}

// Translator returns the translator for c.Table.
func (c Config) Translator() (morse.Translator, error) {
	table, err := morse.TableByName(c.Table)
	if err != nil {
		return morse.Translator{}, err
	}
	tr := morse.NewTranslator(table)
	tr.FoldDiacritics = c.FoldDiacritics
	return tr, nil
}

// Synth returns the waveform settings.
func (c Config) Synth() audio.Synth {
	return audio.Synth{
		SampleRate: c.SampleRate,
		Frequency:  c.Frequency,
		Amplitude:  c.Amplitude,
		Ramp:       c.Ramp.Seconds(),
	}
}

// Format returns the PCM layout every sink receives.
func (c Config) Format() audio.PCMFormat {
	f := audio.DefaultPCMFormat()
	f.SampleRate = c.SampleRate
	return f
}

// SinkOptions returns the audio sink settings.
func (c Config) SinkOptions() audio.SinkConfig {
	return audio.SinkConfig{
		Kind:    c.Sink.Kind,
		Device:  c.Sink.Device,
		Command: c.Sink.Command,
		Path:    c.Sink.Output,
		Buffer:  c.Sink.Buffer,
	}
}

// SourceOptions returns the source settings. args feed the args source.
func (c Config) SourceOptions(args []string) source.Options {
	return source.Options{
		Path:      c.Source.Input,
		Delay:     c.Source.Delay,
		FromStart: c.Source.FromStart,
		Args:      args,
	}
}
