// Package main is the entry point for the moodlog API server.
//
// The main package should be kept minimal. Its job is to:
//  1. Read configuration (config file + env vars)
//  2. Create dependencies (logger, server)
//  3. Start the application
//
// Everything else lives under internal/. The moodlog CLI (cmd/moodlog)
// can start the same server with `moodlog serve`; this binary exists for
// running it under a process supervisor with env-only configuration.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/sakif/moodlog/internal/config"
	"github.com/sakif/moodlog/internal/server"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	flag.Parse()

	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid timezone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 3. CREATE AND START THE SERVER ===
	srv, err := server.New(server.Config{
		Addr:        cfg.Server.Addr,
		DBPath:      cfg.Database.Path,
		HeatmapDays: cfg.Heatmap.Days,
		Location:    loc,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Run blocks until SIGINT/SIGTERM, then drains requests and closes the DB.
	if err := srv.Run(context.Background()); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
