package main

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/fuzzyjson/fuzzyjson"
)

// CLIConfig holds the repair options the CLI exposes, merged from an
// optional yaml config file and overridden by command-line flags. The
// koanf tags match the flag names (dashes, not underscores) so
// posflag.Provider's keys line up with the config file's without any
// translation step.
type CLIConfig struct {
	AllowTrailingCommas bool   `koanf:"allow-trailing-commas"`
	AllowSingleQuotes   bool   `koanf:"allow-single-quotes"`
	AllowUnquotedKeys   bool   `koanf:"allow-unquoted-keys"`
	// AllowComments is reserved; comment stripping is not currently
	// implemented by any handler or strategy.
	AllowComments     bool   `koanf:"allow-comments"`
	MaxRepairAttempts int    `koanf:"max-repair-attempts"`
	LogLevel          string `koanf:"log-level"`
	ServeAddr         string `koanf:"serve-addr"`
	MetricsAddr       string `koanf:"metrics-addr"`
}

func defaultCLIConfig() CLIConfig {
	return CLIConfig{
		AllowTrailingCommas: true,
		AllowSingleQuotes:   true,
		AllowUnquotedKeys:   false,
		AllowComments:       true,
		MaxRepairAttempts:   1500,
		LogLevel:            "info",
		ServeAddr:           ":8080",
		MetricsAddr:         ":9090",
	}
}

// loadConfig merges defaults, an optional yaml file at path (skipped if
// path is empty), and flags, in that order of increasing precedence.
// cfg starts out holding defaultCLIConfig's values; koanf's Unmarshal
// only overwrites the keys it actually loaded, so a field absent from
// both the file and the flags keeps its default.
func loadConfig(path string, flags *pflag.FlagSet) (CLIConfig, error) {
	k := koanf.New(".")
	cfg := defaultCLIConfig()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return CLIConfig{}, err
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return CLIConfig{}, err
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return CLIConfig{}, err
	}
	return cfg, nil
}

// toOptions builds a fuzzyjson.Options from the repair-related fields of
// cfg.
func (cfg CLIConfig) toOptions() fuzzyjson.Options {
	return fuzzyjson.NewBuilder().
		WithTrailingCommas(cfg.AllowTrailingCommas).
		WithSingleQuotes(cfg.AllowSingleQuotes).
		WithUnquotedKeys(cfg.AllowUnquotedKeys).
		WithComments(cfg.AllowComments).
		WithMaxRepairAttempts(cfg.MaxRepairAttempts).
		Build()
}

// fuzzyjsonParser builds a fuzzyjson.Parser from cfg.
func fuzzyjsonParser(cfg CLIConfig) *fuzzyjson.Parser {
	return fuzzyjson.New(cfg.toOptions())
}
