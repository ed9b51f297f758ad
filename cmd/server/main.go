// Command server runs assistd, the Gorilla Link AI-assist service:
// cached text generation with deterministic fallbacks plus the
// heuristic matching endpoints, exposed over HTTP to the portal's web
// tier.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/config"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/logging"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	// Config edits arrive on this channel and are applied to the
	// running server; only a stale reload is ever dropped.
	reloads := make(chan config.Config, 1)
	cfg, err := config.Load(*configPath, func(updated config.Config) {
		select {
		case reloads <- updated:
		default:
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	if err := srv.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	for running := true; running; {
		select {
		case updated := <-reloads:
			srv.ApplyConfig(updated)
		case <-sigChan:
			running = false
		}
	}
	logger.Info("received shutdown signal")

	if err := srv.Stop(); err != nil {
		logger.Error("error stopping server", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
