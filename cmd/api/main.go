package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"precos-materiais-api/internal/api"
	"precos-materiais-api/internal/catalog"
	"precos-materiais-api/internal/config"
	"precos-materiais-api/internal/exporter"
	"precos-materiais-api/internal/logging"
	"precos-materiais-api/internal/quote"
	"precos-materiais-api/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	apiVersion := version.Value()

	logger := logging.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	logger.Info("starting precos-materiais-api",
		slog.String("version", apiVersion),
		slog.String("source", cfg.SourceURL),
		slog.Duration("cacheTtl", cfg.CacheTTL()),
		slog.String("listenAddr", cfg.ListenAddr),
	)

	loader := catalog.NewLoader(cfg.SourceURL, cfg.FetchTimeout(), logger)
	store := catalog.NewStore(loader, cfg.CacheTTL(), logger)

	// Best-effort warm-up; a failed load here is retried lazily on the
	// first request that needs the catalog.
	warmCtx, cancelWarm := context.WithTimeout(ctx, cfg.FetchTimeout())
	if err := store.EnsureFresh(warmCtx); err != nil {
		logger.Warn("initial catalog load failed", slog.String("error", err.Error()))
	}
	cancelWarm()

	quotes := quote.NewService(store)
	handler := api.NewHandler(quotes, store, cfg.SourceURL, apiVersion, logger)
	limiter := api.NewClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	server := exporter.NewServer(cfg.ListenAddr, handler.Router(limiter), logger)

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
