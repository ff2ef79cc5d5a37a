// Package main provides the entry point for the morsecast CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/morsecast/internal/audio"
	"github.com/dgnsrekt/morsecast/internal/cache"
	"github.com/dgnsrekt/morsecast/internal/config"
	"github.com/dgnsrekt/morsecast/internal/playback"
	"github.com/dgnsrekt/morsecast/internal/source"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	cfg        config.Config
	environ    config.Env
	styled     bool
	width      int

	rootCmd = &cobra.Command{
		Use:   "morsecast [TEXT...]",
		Short: "Play text as Morse code, line by line",
		Long: paragraph(
			fmt.Sprintf("\nPlay a stream of text as %s, one line at a time.", keyword("Morse code")),
		),
		Example: paragraph("morsecast\nmorsecast cq cq de wf9q\ntail -f log.txt | morsecast --wpm 25\nmorsecast -s follow -i ~/feed.txt --sink oto\nmorsecast -i notes.md --sink wav --output notes.wav"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		PreRunE:          validateOptions,
		RunE:             execute,
	}
)

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// selectSource picks the line source from the flags when none was asked
// for explicitly: positional words, then --input, then piped stdin.
func selectSource(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("source") {
		return nil
	}
	switch {
	case len(args) > 0:
		viper.Set(config.KeySourceKind, source.KindArgs)
	case viper.GetString(config.KeySourceInput) != "":
		viper.Set(config.KeySourceKind, source.KindFile)
	default:
		pipe, err := stdinIsPipe()
		if err != nil {
			return err
		}
		if pipe {
			viper.Set(config.KeySourceKind, source.KindStdin)
		}
	}
	return nil
}

func validateOptions(cmd *cobra.Command, args []string) error {
	if viper.GetBool("debug") || environ.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := selectSource(cmd, args); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.Source.Kind == source.KindArgs && len(args) == 0 {
		return errors.New("the args source needs some text to play")
	}

	isTerminal := term.IsTerminal(int(consoleOut().Fd()))
	styled = isTerminal && !environ.Colorless()
	if !styled {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// Detect terminal width
	if isTerminal {
		w, _, err := term.GetSize(int(consoleOut().Fd()))
		if err == nil {
			width = w
		}
		if width > 120 {
			width = 120
		}
	}

	log.Debug("configuration loaded",
		"wpm", cfg.WPM, "frequency", cfg.Frequency, "rate", cfg.SampleRate,
		"sink", cfg.Sink.Kind, "source", cfg.Source.Kind, "lookahead", cfg.Lookahead)
	return nil
}

// consoleOut is where the Text/Morse lines go. Raw audio on stdout pushes
// them to stderr.
func consoleOut() *os.File {
	if cfg.Sink.Kind == audio.SinkRaw && (cfg.Sink.Output == "" || cfg.Sink.Output == "-") {
		return os.Stderr
	}
	return os.Stdout
}

func execute(_ *cobra.Command, args []string) error {
	translator, err := cfg.Translator()
	if err != nil {
		return err
	}
	timing, err := cfg.Timing()
	if err != nil {
		return err
	}
	opener, err := audio.NewOpener(cfg.SinkOptions())
	if err != nil {
		return err
	}

	var console *playback.Console
	if !cfg.Quiet {
		console = playback.NewConsole(consoleOut(), width, styled)
	}

	opts := playback.Options{
		Translator: translator,
		Timing:     timing,
		Synth:      cfg.Synth(),
		Format:     cfg.Format(),
		Open:       opener,
		Console:    console,
		Lookahead:  cfg.Lookahead,
	}
	if cfg.CacheSize > 0 {
		opts.Cache = cache.NewMemoryCache(cfg.CacheSize)
	}
	player, err := playback.New(opts)
	if err != nil {
		return err
	}

	src, err := source.New(cfg.Source.Kind, cfg.SourceOptions(args))
	if err != nil {
		return fmt.Errorf("unable to open text source: %w", err)
	}
	defer func() { _ = src.Close() }()

	ctx, stop := interruptContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return player.Run(ctx, src)
}

// interruptContext returns a context cancelled by the first of sigs. Once
// it fires the signals get their default action back, so a second Ctrl-C
// ends the process while the sink is still draining.
func interruptContext(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, sigs...)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	var err error
	if environ, err = config.LoadEnv(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	config.SetDefaults(viper.GetViper())
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	d := config.Default()
	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.Float64P("wpm", "w", d.WPM, "speed in words per minute")
	flags.Float64P("freq", "f", d.Frequency, "tone frequency in Hz")
	flags.IntP("rate", "r", d.SampleRate, "sample rate in Hz")
	flags.Float64("amplitude", d.Amplitude, "tone amplitude (0-1]")
	flags.Duration("ramp", d.Ramp, "attack and release of each tone, e.g. 5ms (0 keys hard)")
	flags.String("table", d.Table, "code table: standard or extended (adds punctuation)")
	flags.Bool("no-fold", false, "do not strip accents before lookup")
	flags.Int("lookahead", d.Lookahead, "lines rendered ahead of playback (0 plays strictly in order)")
	flags.String("cache-size", "8 MiB", "rendered line cache size (0 disables)")
	flags.BoolP("quiet", "q", d.Quiet, "do not print the text and Morse of each line")
	flags.String("sink", d.Sink.Kind, "audio sink: aplay, oto, wav, raw or auto")
	flags.StringP("device", "D", d.Sink.Device, "ALSA device for the aplay sink")
	flags.StringP("output", "o", "", "output file for the wav and raw sinks")
	flags.StringP("source", "s", d.Source.Kind, "text source: simulated, stdin, file, follow, markdown, clipboard or args")
	flags.StringP("input", "i", "", "input file for the file, follow and markdown sources (- for stdin)")
	flags.Duration("delay", d.Source.Delay, "pause between simulated lines")
	flags.Bool("from-start", false, "play the existing content of a followed file first")
	flags.Bool("debug", false, "log debug output")

	// Config bindings
	_ = viper.BindPFlag(config.KeyWPM, flags.Lookup("wpm"))
	_ = viper.BindPFlag(config.KeyFrequency, flags.Lookup("freq"))
	_ = viper.BindPFlag(config.KeySampleRate, flags.Lookup("rate"))
	_ = viper.BindPFlag(config.KeyAmplitude, flags.Lookup("amplitude"))
	_ = viper.BindPFlag(config.KeyRamp, flags.Lookup("ramp"))
	_ = viper.BindPFlag(config.KeyTable, flags.Lookup("table"))
	_ = viper.BindPFlag(config.KeyLookahead, flags.Lookup("lookahead"))
	_ = viper.BindPFlag(config.KeyCacheSize, flags.Lookup("cache-size"))
	_ = viper.BindPFlag(config.KeyQuiet, flags.Lookup("quiet"))
	_ = viper.BindPFlag(config.KeySinkKind, flags.Lookup("sink"))
	_ = viper.BindPFlag(config.KeySinkDevice, flags.Lookup("device"))
	_ = viper.BindPFlag(config.KeySinkOutput, flags.Lookup("output"))
	_ = viper.BindPFlag(config.KeySourceKind, flags.Lookup("source"))
	_ = viper.BindPFlag(config.KeySourceInput, flags.Lookup("input"))
	_ = viper.BindPFlag(config.KeySourceDelay, flags.Lookup("delay"))
	_ = viper.BindPFlag(config.KeySourceFromStart, flags.Lookup("from-start"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))

	cobra.OnInitialize(func() {
		if rootCmd.PersistentFlags().Changed("config") {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				log.Warn("Could not read configuration file", "path", configFile, "err", err)
			}
		}
		if flags.Changed("no-fold") {
			viper.Set(config.KeyFoldDiacritics, false)
		}
	})

	rootCmd.AddCommand(configCmd, manCmd, tableCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "morsecast")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "morsecast")}, dirs...)
	}

	if c := environ.ConfigHome; c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("morsecast")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("morsecast")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	configFile = filepath.Join(dirs[0], "morsecast.yml")
}
