package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds settings that only come from the environment, mostly for
// debugging.
type Env struct {
	Debug      bool   `env:"MORSECAST_DEBUG"`
	LogFile    string `env:"MORSECAST_LOG_FILE"`
	ConfigHome string `env:"MORSECAST_CONFIG_HOME"`
	NoColor    string `env:"NO_COLOR"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	e, err := env.ParseAs[Env]()
	if err != nil {
		return e, fmt.Errorf("error parsing environment: %w", err)
	}
	return e, nil
}

// Colorless reports whether NO_COLOR is set to anything.
func (e Env) Colorless() bool {
	return e.NoColor != ""
}
