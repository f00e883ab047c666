package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solburn/burnwatch/service/config"
	"github.com/solburn/burnwatch/service/metrics"
	"github.com/solburn/burnwatch/service/price"
	"github.com/solburn/burnwatch/service/solana"
	"github.com/solburn/burnwatch/service/store"
	"github.com/solburn/burnwatch/service/temporal"
)

func main() {
	// Load and validate configuration from environment
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting temporal worker",
		"temporal_host", cfg.TemporalHost,
		"namespace", cfg.TemporalNamespace,
		"task_queue", cfg.TemporalTaskQueue,
		"log_level", cfg.LogLevel,
	)

	// Initialize Prometheus metrics collector
	metricsCollector := metrics.NewMetrics(nil) // nil uses default registry

	// Start metrics HTTP server when an address is configured
	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.Handler(),
		}

		go func() {
			logger.Info("starting metrics HTTP server", "addr", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to shutdown metrics server", "error", err)
			}
		}()
	}

	// Initialize the Solana RPC client
	scanner := solana.NewClient(
		solana.NewRPCClient(cfg.RPCURL),
		extractEndpointFromURL(cfg.RPCURL),
		metricsCollector,
		logger,
	)
	logger.Info("initialized solana RPC client", "endpoint", extractEndpointFromURL(cfg.RPCURL))

	// Initialize the price resolver with its fallback chain
	resolver := price.NewResolver([]price.Source{
		price.NewJupiterSource(price.DefaultJupiterBaseURL, nil),
		price.NewDexScreenerSource(price.DefaultDexScreenerBaseURL, nil),
	}, metricsCollector, logger)

	// Initialize the snapshot store
	snapshotStore := store.NewStore(cfg.DataDir, metricsCollector, logger)
	logger.Info("initialized snapshot store", "dir", cfg.DataDir)

	// Initialize Temporal worker
	worker, err := temporal.NewWorker(temporal.WorkerConfig{
		TemporalHost:      cfg.TemporalHost,
		TemporalNamespace: cfg.TemporalNamespace,
		TaskQueue:         cfg.TemporalTaskQueue,
		Scanner:           scanner,
		Resolver:          resolver,
		Store:             snapshotStore,
		Metrics:           metricsCollector,
		Logger:            logger,
	})
	if err != nil {
		logger.Error("failed to create temporal worker", "error", err)
		os.Exit(1)
	}

	logger.Info("temporal worker initialized, all dependencies ready",
		"wallet", cfg.WalletAddress,
		"mint", cfg.TokenMint,
		"temporal_host", cfg.TemporalHost,
		"task_queue", cfg.TemporalTaskQueue,
	)

	// Start worker in background
	workerErrors := make(chan error, 1)
	go func() {
		workerErrors <- worker.Start()
	}()

	// Wait for shutdown signal or worker error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-workerErrors:
		logger.Error("temporal worker error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
		worker.Stop()
		logger.Info("shutdown complete")
	}
}

// setupLogger creates a structured logger with the given log level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// extractEndpointFromURL extracts a short identifier from the Solana RPC URL
// for metrics labeling, so API keys never end up in label values.
func extractEndpointFromURL(rpcURL string) string {
	parsed, err := url.Parse(rpcURL)
	if err != nil {
		return "unknown"
	}

	host := parsed.Hostname()

	switch {
	case strings.Contains(host, "helius"):
		return "helius"
	case strings.Contains(host, "quiknode"), strings.Contains(host, "quicknode"):
		return "quiknode"
	case strings.Contains(host, "alchemy"):
		return "alchemy"
	case strings.Contains(host, "mainnet"):
		return "mainnet"
	case strings.Contains(host, "devnet"):
		return "devnet"
	}

	return host
}
