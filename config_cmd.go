package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/dgnsrekt/morsecast/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# speed in words per minute
wpm: 20
# tone frequency in Hz
frequency: 600
# sample rate in Hz
sample_rate: 44100
# tone amplitude, 0 to 1
amplitude: 0.5
# attack and release of each tone; 0s keys hard
ramp: 0s
# code table: standard (letters and digits) or extended (adds punctuation)
table: standard
# strip accents before lookup, so É plays as E
fold_diacritics: true
# lines rendered ahead of playback; 0 plays strictly in order
lookahead: 0
# rendered line cache; 0 disables it
cache_size: 8 MiB
# do not print the text and Morse of each line
quiet: false

sink:
  # aplay, oto, wav, raw or auto (aplay when ALSA is usable, oto otherwise)
  kind: aplay
  # ALSA device for aplay
  device: "plughw:2,0"
  command: aplay
  # output file for the wav and raw sinks
  # output: ~/morse.wav
  # device buffer for oto
  buffer: 100ms

source:
  # simulated, stdin, file, follow, markdown, clipboard or args
  kind: simulated
  # input file for file, follow and markdown
  # input: ~/feed.txt
  # pause between simulated lines
  delay: 3s
  # play a followed file's existing lines first
  from_start: false
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open the morsecast settings in $EDITOR",
	Long: paragraph(fmt.Sprintf("\n%s the morsecast defaults in $EDITOR. "+
		"A commented file with the built-in settings is written first when none exists, "+
		"and the result is checked once the editor exits.", keyword("Change"))),
	Example: paragraph("morsecast config\nmorsecast config --config ~/radio/morsecast.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Morsecast", configFile)
		if err != nil {
			return fmt.Errorf("unable to find an editor: %w", err)
		}
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("editor exited with an error: %w", err)
		}

		if err := checkConfigFile(configFile); err != nil {
			return fmt.Errorf("%s was saved but will not load: %w", configFile, err)
		}
		fmt.Println("Settings saved to", configFile)
		return nil
	},
}

// ensureConfigFile resolves configFile and seeds it with defaultConfig when
// it is missing.
func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
	}
	if configFile == "" {
		return errors.New("no configuration file location; pass --config")
	}

	switch ext := path.Ext(configFile); ext {
	case ".yaml", ".yml":
	default:
		return fmt.Errorf("%q is not a YAML file; name it .yaml or .yml", configFile)
	}

	_, err := os.Stat(configFile)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// checkConfigFile loads file on top of the built-in defaults and validates
// the result.
func checkConfigFile(file string) error {
	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	_, err := config.Load(v)
	return err
}
