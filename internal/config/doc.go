// Package config holds morsecast's settings: defaults, loading from viper
// (config file, environment, bound flags), validation and conversion into
// the values the morse, audio and source packages take.
package config
