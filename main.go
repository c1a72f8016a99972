package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/a4-editor/a4/config"
	"github.com/a4-editor/a4/highlight"
	"github.com/a4-editor/a4/loader"
	"github.com/a4-editor/a4/logger"
	"github.com/a4-editor/a4/store"
	"github.com/a4-editor/a4/web"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "a4: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "a4: init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	if err := run(ctx, cfg); err != nil {
		log.Error("a4 exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.L(ctx)

	var st *store.Store
	if cfg.Store.Enabled {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			// Sessions are a convenience; run without them.
			log.Warn("session store unavailable", zap.String("path", cfg.Store.Path), zap.Error(err))
		} else {
			st = s
			defer st.Close()
		}
	}

	icons, err := loader.NewIcons(loader.IconConfig{
		BaseURL:  cfg.Icons.BaseURL,
		Dir:      cfg.Icons.Dir,
		Fallback: cfg.Icons.Fallback,
		Fetcher:  loader.NewHTTPFetcher(cfg.Icons.FetchTimeout),
		Log:      log.Named("icons"),
	})
	if err != nil {
		return fmt.Errorf("init icons: %w", err)
	}

	ws := NewWorkspace(ctx, WorkspaceOptions{
		Icons:    icons,
		Store:    st,
		Theme:    highlight.Theme(cfg.Theme),
		Debounce: cfg.Debounce,
		Log:      log.Named("workspace"),
	})

	srv := web.NewServer(ws, log.Named("web"))
	srv.ServeIcons(icons.Dir(), icons.Fallback())
	if err := ws.SetNotifier(srv); err != nil {
		return err
	}

	if err := ws.Restore(ctx); err != nil {
		log.Warn("restore tabs", zap.Error(err))
	}
	openPaths(ws, cfg.Paths, log)

	server := &http.Server{Addr: cfg.Addr, Handler: srv}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("a4 web UI listening", zap.String("addr", cfg.Addr), zap.String("theme", cfg.Theme))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-ws.Done()
	return nil
}

// openPaths opens command-line arguments: files as tabs, a directory as the
// workspace folder.
func openPaths(ws *Workspace, paths []string, log *zap.Logger) {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if _, err := ws.OpenFolder(p); err != nil {
				log.Warn("open folder", zap.String("path", p), zap.Error(err))
			}
			continue
		}
		if _, err := ws.OpenFile(p); err != nil {
			log.Warn("open file", zap.String("path", p), zap.Error(err))
		}
	}
}
