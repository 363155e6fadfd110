package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var envVars = []string{
	"DB_PATH", "LIBRARY_ROOT", "API_PORT", "LOG_LEVEL", "LOG_FORMAT",
	"SEARCH_PAGE_LIMIT", "GRID_CACHE_TTL",
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name:     "default values for optional fields",
			setupEnv: func(t *testing.T) {},
			wantErr:  false,
			checkConfig: func(cfg *Config) bool {
				return cfg.DBPath == "./data/archive-lens.db" &&
					cfg.LibraryRoot == "./data/library" &&
					cfg.APIPort == "9000" &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text" &&
					cfg.SearchPageLimit == 50 &&
					cfg.GridCacheTTL == 10*time.Minute
			},
		},
		{
			name: "custom values",
			setupEnv: func(t *testing.T) {
				tmpDir := t.TempDir()
				setEnv("DB_PATH", filepath.Join(tmpDir, "custom", "db.db"))
				setEnv("LIBRARY_ROOT", filepath.Join(tmpDir, "lib"))
				setEnv("API_PORT", "9100")
				setEnv("LOG_LEVEL", "debug")
				setEnv("LOG_FORMAT", "JSON")
				setEnv("SEARCH_PAGE_LIMIT", "200")
				setEnv("GRID_CACHE_TTL", "0s")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return filepath.Base(cfg.DBPath) == "db.db" &&
					filepath.Base(cfg.LibraryRoot) == "lib" &&
					cfg.APIPort == "9100" &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json" &&
					cfg.SearchPageLimit == 200 &&
					cfg.GridCacheTTL == 0
			},
		},
		{
			name: "invalid LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_LEVEL", "loud")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_FORMAT",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
		{
			name: "invalid SEARCH_PAGE_LIMIT",
			setupEnv: func(t *testing.T) {
				setEnv("SEARCH_PAGE_LIMIT", "invalid")
			},
			wantErr: true,
		},
		{
			name: "zero SEARCH_PAGE_LIMIT",
			setupEnv: func(t *testing.T) {
				setEnv("SEARCH_PAGE_LIMIT", "0")
			},
			wantErr: true,
		},
		{
			name: "SEARCH_PAGE_LIMIT above backend cap",
			setupEnv: func(t *testing.T) {
				setEnv("SEARCH_PAGE_LIMIT", "201")
			},
			wantErr: true,
		},
		{
			name: "invalid GRID_CACHE_TTL",
			setupEnv: func(t *testing.T) {
				setEnv("GRID_CACHE_TTL", "ten minutes")
			},
			wantErr: true,
		},
		{
			name: "negative GRID_CACHE_TTL",
			setupEnv: func(t *testing.T) {
				setEnv("GRID_CACHE_TTL", "-1m")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Change to a temp directory without .env file to avoid loading it
			tmpDir := t.TempDir()
			originalWd, _ := os.Getwd()
			_ = os.Chdir(tmpDir) // Ignore error - test will fail if this doesn't work
			defer func() {
				_ = os.Chdir(originalWd) // Ignore error in cleanup
			}()

			// Clean up env vars before each test
			for _, key := range envVars {
				unsetEnv(key)
			}
			defer func() {
				for _, key := range envVars {
					unsetEnv(key)
				}
			}()

			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_CreatesDirectories(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test", "db.db")
	libraryRoot := filepath.Join(tmpDir, "library")
	setEnv("DB_PATH", dbPath)
	setEnv("LIBRARY_ROOT", libraryRoot)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, dir := range []string{filepath.Dir(dbPath), libraryRoot} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("Load() should create %s: %v", dir, err)
		}
	}

	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
}

func TestGetEnv(t *testing.T) {
	originalValue := os.Getenv("TEST_ENV_VAR")
	defer func() {
		if originalValue != "" {
			setEnv("TEST_ENV_VAR", originalValue)
		} else {
			unsetEnv("TEST_ENV_VAR")
		}
	}()

	tests := []struct {
		name         string
		setupEnv     func()
		key          string
		defaultValue string
		want         string
	}{
		{
			name: "env var set",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "set-value")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "set-value",
		},
		{
			name: "env var not set",
			setupEnv: func() {
				unsetEnv("TEST_ENV_VAR")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name: "empty env var uses default",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}
