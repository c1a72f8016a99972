// Package config loads a4's settings from a .env file, flags and the
// environment. Environment variables override flags.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	Theme    string
	Debounce time.Duration
	Verbose  bool
	Store    StoreConfig
	Icons    IconConfig
	Paths    []string // files or a folder to open at start-up
}

type StoreConfig struct {
	Enabled bool
	Path    string
}

type IconConfig struct {
	BaseURL      string
	Dir          string // empty selects loader.DefaultIconDir
	Fallback     string
	FetchTimeout time.Duration
}

// Load reads .env (if present), parses args and applies environment
// overrides.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("a4", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "web UI listen address")
	theme := fs.String("theme", "monokai", "syntax highlighting theme")
	debounce := fs.Duration("debounce", 50*time.Millisecond, "quiet period before re-highlighting")
	verbose := fs.Bool("v", false, "verbose logging")
	dbPath := fs.String("db", defaultDBPath(), "session database path; empty disables persistence")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(os.Getenv("A4_ADDR")); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		*addr = v
	}
	*theme = firstNonEmpty(strings.TrimSpace(os.Getenv("A4_THEME")), *theme)
	*debounce = envDuration("A4_DEBOUNCE_MS", time.Millisecond, *debounce)
	*verbose = envBool("A4_VERBOSE", *verbose)
	if v, ok := os.LookupEnv("A4_DB_PATH"); ok {
		*dbPath = strings.TrimSpace(v)
	}

	return &Config{
		Addr:     *addr,
		Theme:    *theme,
		Debounce: *debounce,
		Verbose:  *verbose,
		Store: StoreConfig{
			Enabled: *dbPath != "",
			Path:    *dbPath,
		},
		Icons: loadIconConfig(),
		Paths: fs.Args(),
	}, nil
}

func loadIconConfig() IconConfig {
	return IconConfig{
		BaseURL:      strings.TrimSpace(os.Getenv("A4_ICON_BASE_URL")),
		Dir:          strings.TrimSpace(os.Getenv("A4_ICON_DIR")),
		Fallback:     strings.TrimSpace(os.Getenv("A4_FALLBACK_ICON")),
		FetchTimeout: envDuration("A4_FETCH_TIMEOUT", time.Second, 10*time.Second),
	}
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "a4", "sessions.db")
}

// envDuration reads an integer count of unit from key.
func envDuration(key string, unit, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return time.Duration(n) * unit
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
