package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/dgallion1/contentlint/internal/api"
	"github.com/dgallion1/contentlint/internal/config"
	"github.com/dgallion1/contentlint/internal/lint"
	"github.com/dgallion1/contentlint/internal/pathstore"
	"github.com/dgallion1/contentlint/internal/pipeline"
	"github.com/dgallion1/contentlint/internal/scorecache"
	"github.com/dgallion1/contentlint/internal/settings"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	fsys := afero.NewOsFs()
	st, err := settings.Load(fsys, cfg.SettingsFile)
	if err != nil {
		log.Error("invalid settings", "path", cfg.SettingsFile, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the engine and score cache.
	engine := lint.NewEngine(st.RuleConfig(), log)

	var ps *pathstore.Client
	if cfg.CacheBackend == config.CachePathstore {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
	}
	store, err := scorecache.Open(cfg.CacheBackend, cfg.CacheDSN, ps)
	if err != nil {
		log.Error("open score cache", "backend", cfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	scores := scorecache.NewService(store, engine, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, engine, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(engine, scores, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// SIGHUP reloads the settings file.
	go func() {
		hupCh := make(chan os.Signal, 1)
		signal.Notify(hupCh, syscall.SIGHUP)
		for {
			select {
			case <-ctx.Done():
				return
			case <-hupCh:
				st, err := settings.Load(fsys, cfg.SettingsFile)
				if err != nil {
					log.Error("settings reload failed", "path", cfg.SettingsFile, "error", err)
					continue
				}
				engine.SetConfig(st.RuleConfig())
				log.Info("settings reloaded", "path", cfg.SettingsFile)
			}
		}
	}()

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		store.Close()
	}()

	log.Info("starting contentlint", "port", cfg.Port, "cache", cfg.CacheBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
