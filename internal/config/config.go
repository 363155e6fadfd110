package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath          string
	LibraryRoot     string
	APIPort         string
	LogLevel        slog.Level
	LogFormat       string
	SearchPageLimit int
	GridCacheTTL    time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:      getEnv("DB_PATH", "./data/archive-lens.db"),
		LibraryRoot: getEnv("LIBRARY_ROOT", "./data/library"),
		APIPort:     getEnv("API_PORT", "9000"),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	// The backend caps a page at 200 hits.
	limit, err := strconv.Atoi(getEnv("SEARCH_PAGE_LIMIT", "50"))
	if err != nil {
		return nil, fmt.Errorf("SEARCH_PAGE_LIMIT must be a valid integer: %w", err)
	}
	if limit <= 0 || limit > 200 {
		return nil, fmt.Errorf("SEARCH_PAGE_LIMIT must be between 1 and 200")
	}
	cfg.SearchPageLimit = limit

	// Zero disables expiry; the cache is still cleared on every sheet switch.
	ttl, err := time.ParseDuration(getEnv("GRID_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("GRID_CACHE_TTL must be a duration: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("GRID_CACHE_TTL must not be negative")
	}
	cfg.GridCacheTTL = ttl

	// Create the data directory and library root if they don't exist
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.LibraryRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create library root: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
