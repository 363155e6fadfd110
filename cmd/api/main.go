package main

import (
	"context"
	_ "embed"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"archive-lens/internal/config"
	"archive-lens/internal/http"
	"archive-lens/internal/service"
	"archive-lens/internal/storage"
)

//go:embed web/index.html
var indexHTML string

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// The store is the document backend every service talks to
	store := storage.NewStore(db, cfg.LibraryRoot)
	slog.Info("Library ready", "root", cfg.LibraryRoot)

	deps := &http.Deps{
		Archives:    service.NewArchiveService(store),
		Annotations: service.NewAnnotationService(store),
		Search:      service.NewSearchService(store, cfg.SearchPageLimit),
		Sheets:      service.NewSheetService(store, cfg.GridCacheTTL),
		DB:          db,
		LibraryRoot: cfg.LibraryRoot,
		IndexHTML:   indexHTML,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting API server", "addr", addr)
		slog.Debug("Search configuration", "page_limit", cfg.SearchPageLimit, "grid_cache_ttl", cfg.GridCacheTTL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
