package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("A4_DB_PATH", "")
	t.Setenv("A4_ICON_DIR", "")
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.Theme != "monokai" {
		t.Errorf("Theme = %q, want monokai", cfg.Theme)
	}
	if cfg.Debounce != 50*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Debounce)
	}
	if cfg.Store.Enabled {
		t.Error("store should be disabled with an empty A4_DB_PATH")
	}
	if cfg.Icons.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.Icons.FetchTimeout)
	}
	if cfg.Icons.Dir != "" {
		t.Errorf("Icons.Dir = %q, want empty so the loader picks its own cache dir", cfg.Icons.Dir)
	}
}

func TestLoadFlagsAndArgs(t *testing.T) {
	cfg, err := Load([]string{"-addr", ":9000", "-theme", "dracula", "-db", "/tmp/x.db", "main.rs", "lib.rs"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.Theme != "dracula" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "/tmp/x.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if len(cfg.Paths) != 2 || cfg.Paths[0] != "main.rs" {
		t.Errorf("Paths = %v", cfg.Paths)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("A4_ADDR", "7000")
	t.Setenv("A4_THEME", "github")
	t.Setenv("A4_DEBOUNCE_MS", "120")
	t.Setenv("A4_VERBOSE", "true")
	t.Setenv("A4_FETCH_TIMEOUT", "3")
	t.Setenv("A4_ICON_DIR", "/var/icons")

	cfg, err := Load([]string{"-theme", "dracula"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want :7000", cfg.Addr)
	}
	if cfg.Theme != "github" {
		t.Errorf("Theme = %q, want env override", cfg.Theme)
	}
	if cfg.Debounce != 120*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Debounce)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
	if cfg.Icons.FetchTimeout != 3*time.Second || cfg.Icons.Dir != "/var/icons" {
		t.Errorf("Icons = %+v", cfg.Icons)
	}
}

func TestLoadBadFlag(t *testing.T) {
	if _, err := Load([]string{"-nope"}); err == nil {
		t.Error("Load with unknown flag should fail")
	}
}
