package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/arbebra14/hh-parser/internal/api"
	"github.com/arbebra14/hh-parser/internal/config"
	"github.com/arbebra14/hh-parser/internal/core"
	"github.com/arbebra14/hh-parser/internal/httpx"
	"github.com/arbebra14/hh-parser/internal/store"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	dbStore, err := store.NewStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to store", "error", err)
		os.Exit(1)
	}
	defer dbStore.Close()

	// Run schema migrations to ensure tables exist
	workDir, _ := os.Getwd()
	schemaPath := filepath.Join(workDir, "internal", "store", "schema.sql")
	if err := dbStore.RunMigrations(schemaPath); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	fetcher := httpx.NewClient("")
	pipeline := core.NewPipeline(fetcher, dbStore, logger, cfg.BaseURL, cfg.DumpDir)

	srv := api.NewServer(pipeline, dbStore)

	slog.Info("starting server", "port", cfg.Port, "base_url", cfg.BaseURL)
	if err := http.ListenAndServe(":"+cfg.Port, srv.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
