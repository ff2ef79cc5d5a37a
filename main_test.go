package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/morsecast/internal/config"
	"github.com/dgnsrekt/morsecast/internal/morse"
	"github.com/spf13/viper"
)

func TestDefaultConfigFile(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("default config file drifted from the built-in defaults:\n%+v\n%+v", cfg, config.Default())
	}
}

func TestEnsureConfigFile(t *testing.T) {
	prev := configFile
	t.Cleanup(func() { configFile = prev })

	configFile = filepath.Join(t.TempDir(), "nested", "morsecast.yml")
	if err := ensureConfigFile(); err != nil {
		t.Fatalf("ensureConfigFile: %v", err)
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if string(data) != defaultConfig {
		t.Error("config file should hold the default config")
	}

	// An existing file is left alone.
	if err := os.WriteFile(configFile, []byte("wpm: 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := ensureConfigFile(); err != nil {
		t.Fatalf("ensureConfigFile: %v", err)
	}
	if data, _ := os.ReadFile(configFile); string(data) != "wpm: 30\n" {
		t.Errorf("existing config was overwritten: %q", data)
	}

	configFile = filepath.Join(t.TempDir(), "morsecast.toml")
	if err := ensureConfigFile(); err == nil {
		t.Error("expected an error for a non-yaml config file")
	}
}

func TestCheckConfigFile(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		expectErr bool
	}{
		{name: "defaults", content: defaultConfig},
		{name: "partial", content: "wpm: 25\nfrequency: 700\n"},
		{name: "zero wpm", content: "wpm: 0\n", expectErr: true},
		{name: "tone above nyquist", content: "sample_rate: 8000\nfrequency: 5000\n", expectErr: true},
		{name: "not yaml", content: "wpm: [20\n", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "morsecast.yml")
			if err := os.WriteFile(file, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			err := checkConfigFile(file)
			if tt.expectErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPrintTable(t *testing.T) {
	for _, name := range []string{morse.TableStandard, morse.TableExtended} {
		t.Run(name, func(t *testing.T) {
			table, err := morse.TableByName(name)
			if err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			if err := printTable(&buf, table); err != nil {
				t.Fatalf("printTable: %v", err)
			}

			rows := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if len(rows) != len(table) {
				t.Fatalf("expected %d rows, got %d", len(table), len(rows))
			}
			seen := map[string]string{}
			for _, row := range rows {
				fields := strings.Fields(row)
				if len(fields) != 2 {
					t.Fatalf("malformed row %q", row)
				}
				seen[fields[0]] = fields[1]
			}
			if seen["A"] != ".-" || seen["0"] != "-----" || seen["space"] != "/" {
				t.Errorf("unexpected rows: %v", seen)
			}
		})
	}
}
