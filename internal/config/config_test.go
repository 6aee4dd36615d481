package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Addr != ":8080" {
		t.Fatalf("addr")
	}
	if !cfg.Precheck || !cfg.OutputLinks {
		t.Fatalf("precheck/output links default true")
	}
	if !cfg.Prefilter.Enabled {
		t.Fatalf("prefilter default true")
	}
	if cfg.ResultLimit != 200 {
		t.Fatalf("result limit default 200")
	}
}

func TestBuilderMethods(t *testing.T) {
	cfg := DefaultConfig().
		WithAddr(":9090").
		WithDatabaseDSN("postgres://x").
		WithDictionariesPath("./dicts").
		WithPrecheck(false).
		WithPrefilter(false).
		WithOutputLinks(false)

	if cfg.Addr != ":9090" || cfg.DatabaseDSN != "postgres://x" || cfg.DictionariesPath != "./dicts" {
		t.Fatalf("strings not applied: %+v", cfg)
	}
	opts := cfg.CountOptions()
	if opts.Precheck || opts.OutputLinks || opts.Prefilter.Enabled {
		t.Fatalf("toggles should be false: %+v", opts)
	}
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
addr: ":7000"
precheck: false
prefilter:
  enabled: false
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != ":7000" || cfg.Precheck || cfg.Prefilter.Enabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.OutputLinks || cfg.ResultLimit != 200 || cfg.Prefilter.MinPatternLength != 1 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("addr: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
	if _, err := Parse([]byte("result_limit: -1")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dictcount.yml")
	if err := os.WriteFile(p, []byte("result_limit: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ResultLimit != 50 {
		t.Fatalf("result_limit = %d", cfg.ResultLimit)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DICTCOUNT_ADDR", ":1234")
	t.Setenv("DICTCOUNT_PRECHECK", "false")
	t.Setenv("DICTCOUNT_PREFILTER", "not-a-bool")
	t.Setenv("DICTCOUNT_RESULT_LIMIT", "10")

	cfg := DefaultConfig().FromEnv()
	if cfg.Addr != ":1234" || cfg.Precheck || cfg.ResultLimit != 10 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if !cfg.Prefilter.Enabled {
		t.Fatalf("invalid bool should keep default")
	}
}
