package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaultCLIConfigMatchesRepairDefaults(t *testing.T) {
	cfg := defaultCLIConfig()
	if !cfg.AllowTrailingCommas || !cfg.AllowSingleQuotes {
		t.Errorf("expected trailing commas and single quotes on by default, got %+v", cfg)
	}
	if cfg.AllowUnquotedKeys {
		t.Errorf("expected unquoted keys off by default, got %+v", cfg)
	}
	if cfg.MaxRepairAttempts != 1500 {
		t.Errorf("expected max repair attempts 1500, got %d", cfg.MaxRepairAttempts)
	}
}

func TestLoadConfigWithNoFileOrFlagsReturnsDefaults(t *testing.T) {
	cfg, err := loadConfig("", nil)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg != defaultCLIConfig() {
		t.Errorf("expected defaults when no file or flags given, got %+v", cfg)
	}
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fuzzyjson.yaml")
	contents := "allow-unquoted-keys: true\nmax-repair-attempts: 42\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := loadConfig(path, nil)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if !cfg.AllowUnquotedKeys {
		t.Errorf("expected allow-unquoted-keys from file to override default")
	}
	if cfg.MaxRepairAttempts != 42 {
		t.Errorf("expected max-repair-attempts 42 from file, got %d", cfg.MaxRepairAttempts)
	}
	if !cfg.AllowSingleQuotes {
		t.Errorf("expected fields absent from file to keep their default")
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fuzzyjson.yaml")
	if err := os.WriteFile(path, []byte("allow-single-quotes: true\n"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("allow-single-quotes", true, "")
	if err := flags.Set("allow-single-quotes", "false"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}

	cfg, err := loadConfig(path, flags)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.AllowSingleQuotes {
		t.Errorf("expected flag value false to win over file value true")
	}
}

func TestToOptionsCarriesConfigFields(t *testing.T) {
	cfg := defaultCLIConfig()
	cfg.AllowUnquotedKeys = true
	cfg.MaxRepairAttempts = 7

	p := fuzzyjsonParser(cfg)
	if p == nil {
		t.Fatalf("expected non-nil parser")
	}

	val, err := p.Parse(`{name: "Ada"}`)
	if err != nil {
		t.Fatalf("expected unquoted key repair to succeed, got %v", err)
	}
	if val == nil {
		t.Fatalf("expected a non-nil value")
	}
}
