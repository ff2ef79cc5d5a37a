package config

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/morsecast/internal/audio"
	"github.com/dgnsrekt/morsecast/internal/source"
	"github.com/spf13/viper"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.WPM != 20 {
		t.Errorf("Default wpm should be 20, got %g", cfg.WPM)
	}
	if cfg.Sink.Kind != audio.SinkAplay || cfg.Sink.Device != "plughw:2,0" {
		t.Errorf("Default sink should be aplay on plughw:2,0, got %s on %s", cfg.Sink.Kind, cfg.Sink.Device)
	}
	if cfg.Source.Kind != source.KindSimulated || cfg.Source.Delay != 3*time.Second {
		t.Errorf("Default source should be simulated every 3s, got %s every %s", cfg.Source.Kind, cfg.Source.Delay)
	}
	if cfg.Lookahead != 0 {
		t.Errorf("Lookahead should be off by default, got %d", cfg.Lookahead)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		expectErr bool
		errMsg    string
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{name: "zero wpm", modify: func(c *Config) { c.WPM = 0 }, expectErr: true, errMsg: "words per minute"},
		{name: "negative wpm", modify: func(c *Config) { c.WPM = -5 }, expectErr: true, errMsg: "words per minute"},
		{name: "zero sample rate", modify: func(c *Config) { c.SampleRate = 0 }, expectErr: true, errMsg: "sample rate"},
		{name: "zero frequency", modify: func(c *Config) { c.Frequency = 0 }, expectErr: true, errMsg: "frequency"},
		{name: "frequency at nyquist", modify: func(c *Config) { c.Frequency = 22050 }, expectErr: true, errMsg: "frequency"},
		{name: "amplitude too high", modify: func(c *Config) { c.Amplitude = 1.5 }, expectErr: true, errMsg: "amplitude"},
		{name: "negative ramp", modify: func(c *Config) { c.Ramp = -time.Millisecond }, expectErr: true, errMsg: "ramp"},
		{name: "unknown table", modify: func(c *Config) { c.Table = "wabun" }, expectErr: true, errMsg: "table"},
		{name: "negative lookahead", modify: func(c *Config) { c.Lookahead = -1 }, expectErr: true, errMsg: "lookahead"},
		{name: "negative cache", modify: func(c *Config) { c.CacheSize = -1 }, expectErr: true, errMsg: "cache"},
		{name: "unknown sink", modify: func(c *Config) { c.Sink.Kind = "pulse" }, expectErr: true, errMsg: "unknown audio sink"},
		{name: "wav without output", modify: func(c *Config) { c.Sink.Kind = audio.SinkWAV }, expectErr: true, errMsg: "output file"},
		{
			name: "wav with output",
			modify: func(c *Config) {
				c.Sink.Kind = audio.SinkWAV
				c.Sink.Output = "out.wav"
			},
		},
		{name: "raw to stdout", modify: func(c *Config) { c.Sink.Kind = audio.SinkRaw }},
		{name: "unknown source", modify: func(c *Config) { c.Source.Kind = "radio" }, expectErr: true, errMsg: "unknown text source"},
		{name: "file without input", modify: func(c *Config) { c.Source.Kind = source.KindFile }, expectErr: true, errMsg: "input path"},
		{
			name: "follow stdin",
			modify: func(c *Config) {
				c.Source.Kind = source.KindFollow
				c.Source.Input = "-"
			},
			expectErr: true,
			errMsg:    "stdin",
		},
		{name: "negative delay", modify: func(c *Config) { c.Source.Delay = -time.Second }, expectErr: true, errMsg: "delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.expectErr {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Error should wrap ErrInvalidConfig: %v", err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Error should contain %q, got %v", tt.errMsg, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	const doc = `
wpm: 25
frequency: 700
amplitude: 0.3
ramp: 5ms
table: Extended
fold_diacritics: false
lookahead: 2
cache_size: 2 MiB
sink:
  kind: wav
  output: ~/cq.wav
source:
  kind: file
  input: lines.txt.gz
  delay: 500ms
`
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.WPM != 25 {
		t.Errorf("Expected wpm 25, got %g", cfg.WPM)
	}
	if cfg.Frequency != 700 {
		t.Errorf("Expected frequency 700, got %g", cfg.Frequency)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("Expected default sample rate, got %d", cfg.SampleRate)
	}
	if cfg.Ramp != 5*time.Millisecond {
		t.Errorf("Expected ramp 5ms, got %s", cfg.Ramp)
	}
	if cfg.Table != "extended" {
		t.Errorf("Expected table to be lower cased, got %q", cfg.Table)
	}
	if cfg.FoldDiacritics {
		t.Error("Expected diacritic folding off")
	}
	if cfg.Lookahead != 2 {
		t.Errorf("Expected lookahead 2, got %d", cfg.Lookahead)
	}
	if cfg.CacheSize != 2<<20 {
		t.Errorf("Expected 2 MiB cache, got %d", cfg.CacheSize)
	}
	if cfg.Sink.Kind != audio.SinkWAV || cfg.Sink.Output != "~/cq.wav" {
		t.Errorf("Unexpected sink %+v", cfg.Sink)
	}
	if cfg.Sink.Device != "plughw:2,0" {
		t.Errorf("Expected default device, got %q", cfg.Sink.Device)
	}
	if cfg.Source.Kind != source.KindFile || cfg.Source.Delay != 500*time.Millisecond {
		t.Errorf("Unexpected source %+v", cfg.Source)
	}
}

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Loading an empty config should give the defaults, got %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "wpm", key: KeyWPM, val: 0},
		{name: "cache size", key: KeyCacheSize, val: "lots"},
		{name: "sink", key: KeySinkKind, val: "speaker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.val)

			if _, err := Load(v); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Ramp = 4 * time.Millisecond
	cfg.SampleRate = 48000
	cfg.Table = "extended"
	cfg.FoldDiacritics = false

	synth := cfg.Synth()
	if synth.Ramp != 0.004 || synth.SampleRate != 48000 {
		t.Errorf("Unexpected synth %+v", synth)
	}

	if f := cfg.Format(); f.SampleRate != 48000 || !f.IsFloat || f.BitDepth != 32 || f.Channels != 1 {
		t.Errorf("Unexpected format %+v", f)
	}

	tr, err := cfg.Translator()
	if err != nil {
		t.Fatalf("Translator: %v", err)
	}
	if tr.FoldDiacritics {
		t.Error("Translator should not fold")
	}
	if got := tr.Translate("?"); got != "..--.." {
		t.Errorf("Extended table should map '?', got %q", got)
	}

	timing, err := cfg.Timing()
	if err != nil {
		t.Fatalf("Timing: %v", err)
	}
	if math.Abs(timing.Dot-0.06) > 1e-12 {
		t.Errorf("Expected 60ms dot at 20 wpm, got %g", timing.Dot)
	}

	opts := cfg.SourceOptions([]string{"cq"})
	if opts.Delay != 3*time.Second || len(opts.Args) != 1 {
		t.Errorf("Unexpected source options %+v", opts)
	}
	if s := cfg.SinkOptions(); s.Kind != audio.SinkAplay || s.Command != "aplay" {
		t.Errorf("Unexpected sink options %+v", s)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MORSECAST_DEBUG", "true")
	t.Setenv("MORSECAST_LOG_FILE", "/tmp/morsecast.log")
	t.Setenv("NO_COLOR", "1")

	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if !e.Debug || e.LogFile != "/tmp/morsecast.log" || !e.Colorless() {
		t.Errorf("Unexpected env %+v", e)
	}
}
