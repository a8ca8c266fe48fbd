package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/smoodsie/beatsync-codex/config"
	"github.com/smoodsie/beatsync-codex/internal/fetch"
	"github.com/smoodsie/beatsync-codex/internal/playlist"
	"github.com/smoodsie/beatsync-codex/internal/server"
	"github.com/smoodsie/beatsync-codex/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config (defaults to $"+config.EnvConfigPath+")")
	port := flag.String("port", "", "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}

	service := playlist.NewService(fetch.New(cfg.Fetch))
	srv := server.New(cfg, service, store)

	slog.Info("Starting playlist extractor API server", "port", cfg.Server.Port, "storage", cfg.Storage.Type)
	if err := srv.Start(cfg.Server.Port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
