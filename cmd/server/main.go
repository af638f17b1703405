package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/cache"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/config"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/infra"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/router"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
	syncpkg "github.com/nanayaw-123/Swiftgo-pos-sub000/internal/sync"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local store")
	}

	// Redis is optional on a terminal. Without it the lookup cache is a
	// no-op and every barcode scan hits SQLite, which is fine.
	var lookup cache.LookupCache = cache.NoopCache{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, lookup cache disabled")
		} else {
			lookup = rc
		}
	}

	remote := syncpkg.NewClient(cfg.RemoteAPIURL)
	breaker := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	manager := syncpkg.NewManager(
		store.NewSaleStore(db),
		store.NewQueueStore(db),
		store.NewCatalogStore(db),
		store.NewSettingsStore(db),
		remote,
		remote,
		breaker,
		lookup,
		syncpkg.Options{
			Debounce:     time.Duration(cfg.SyncDebounceMS) * time.Millisecond,
			SyncInterval: time.Duration(cfg.SyncIntervalSeconds) * time.Second,
			StatusTick:   time.Duration(cfg.StatusTickSeconds) * time.Second,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.Start(ctx)

	r := router.New(cfg, db, lookup, manager, breaker)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Swiftgo POS terminal listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
