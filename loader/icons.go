package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	// DefaultIconBaseURL serves <lang>/<lang>-original.svg.
	DefaultIconBaseURL = "https://cdn.jsdelivr.net/gh/devicons/devicon@latest/icons"
	// DefaultFallbackIcon is shown whenever no language icon is available.
	DefaultFallbackIcon = "/usr/share/pixmaps/a4-logo.png"

	iconMemoSize = 64
)

// Fetcher is the network collaborator: fetch url and persist the body at
// dest, or fail.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// HTTPFetcher fetches with a plain HTTP GET.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher whose requests give up after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch implements Fetcher. The body is written to a temporary file and
// renamed into place so a failed download never leaves a partial icon.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".icon-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// IconAcquisitionError reports why a language icon could not be obtained.
// It is only ever logged; callers see the fallback icon instead.
type IconAcquisitionError struct {
	Language string
	URL      string
	Err      error
}

func (e *IconAcquisitionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("icon for %q: %v", e.Language, e.Err)
	}
	return fmt.Sprintf("icon for %q from %s: %v", e.Language, e.URL, e.Err)
}

func (e *IconAcquisitionError) Unwrap() error {
	return e.Err
}

var errNoLanguage = errors.New("no language")

// IconConfig configures Icons. Zero fields take the package defaults.
type IconConfig struct {
	BaseURL  string
	Dir      string // cache directory for downloaded icons
	Fallback string
	Fetcher  Fetcher
	Log      *zap.Logger
}

// Icons acquires per-language tab icons. It is safe for concurrent use.
type Icons struct {
	baseURL  string
	dir      string
	fallback string
	fetcher  Fetcher
	memo     *lru.Cache[string, string]
	log      *zap.Logger
}

// NewIcons returns an icon source.
func NewIcons(cfg IconConfig) (*Icons, error) {
	memo, err := lru.New[string, string](iconMemoSize)
	if err != nil {
		return nil, err
	}
	ic := &Icons{
		baseURL:  strings.TrimRight(firstNonEmpty(cfg.BaseURL, DefaultIconBaseURL), "/"),
		dir:      firstNonEmpty(cfg.Dir, DefaultIconDir()),
		fallback: firstNonEmpty(cfg.Fallback, DefaultFallbackIcon),
		fetcher:  cfg.Fetcher,
		memo:     memo,
		log:      cfg.Log,
	}
	if ic.fetcher == nil {
		ic.fetcher = NewHTTPFetcher(10 * time.Second)
	}
	if ic.log == nil {
		ic.log = zap.NewNop()
	}
	return ic, nil
}

// Fallback returns the fixed icon used when acquisition fails.
func (ic *Icons) Fallback() string {
	return ic.fallback
}

// Dir returns the directory downloaded icons are written to.
func (ic *Icons) Dir() string {
	return ic.dir
}

// Acquire returns a local path to lang's icon, downloading it on first use.
// Every failure, including an empty lang, yields the fallback icon.
func (ic *Icons) Acquire(ctx context.Context, lang string) string {
	path, err := ic.acquire(ctx, lang)
	if err != nil {
		ic.log.Debug("using fallback icon", zap.Error(err))
		return ic.fallback
	}
	return path
}

func (ic *Icons) acquire(ctx context.Context, lang string) (string, error) {
	if lang == "" {
		return "", &IconAcquisitionError{Err: errNoLanguage}
	}
	if path, ok := ic.memo.Get(lang); ok {
		return path, nil
	}
	url := fmt.Sprintf("%s/%s/%s-original.svg", ic.baseURL, lang, lang)
	dest := filepath.Join(ic.dir, IconFile(lang))
	if err := ic.fetcher.Fetch(ctx, url, dest); err != nil {
		return "", &IconAcquisitionError{Language: lang, URL: url, Err: err}
	}
	ic.memo.Add(lang, dest)
	return dest, nil
}

// DefaultIconDir is the icon cache used when none is configured: a4/icons
// under the user cache directory, or a4-icons under the temp directory.
func DefaultIconDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "a4", "icons")
	}
	return filepath.Join(os.TempDir(), "a4-icons")
}

// IconFile is the cache file name for lang's icon.
func IconFile(lang string) string {
	return lang + "_icon.svg"
}

// IsIconFile reports whether name is the cache file of a known language.
func IsIconFile(name string) bool {
	lang, ok := strings.CutSuffix(name, "_icon.svg")
	return ok && knownLanguage(lang)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
