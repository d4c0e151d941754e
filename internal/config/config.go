package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cache backends.
const (
	CacheMemory    = "memory"
	CacheSQLite    = "sqlite"
	CachePathstore = "pathstore"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Rule settings file (YAML). Empty means defaults.
	SettingsFile string

	// Score cache
	CacheBackend string
	CacheDSN     string

	// Pathstore connection, used by the pathstore cache backend
	PathstoreURL    string
	PathstoreAPIKey string

	// Recalculation worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentStore int

	// Request limits
	MaxBodyBytes int64

	// Job state
	JobTTL time.Duration

	// Live re-evaluation
	DebounceInterval time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("CONTENTLINT_API_KEY"),

		SettingsFile: os.Getenv("SETTINGS_FILE"),

		CacheBackend: envOr("CACHE_BACKEND", CacheSQLite),
		CacheDSN:     envOr("CACHE_DSN", "contentlint.db"),

		PathstoreURL:    envOr("PATHSTORE_URL", "http://localhost:8080"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentStore: envInt("MAX_CONCURRENT_STORE", 4),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 10<<20), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		DebounceInterval: envDuration("DEBOUNCE_INTERVAL", 300*time.Millisecond),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentStore <= 0 {
		cfg.MaxConcurrentStore = 4
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 300 * time.Millisecond
	}

	return cfg
}

// Validate checks the settings the HTTP server needs.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("CONTENTLINT_API_KEY is required")
	}
	switch c.CacheBackend {
	case CacheMemory, CacheSQLite:
	case CachePathstore:
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore cache backend")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory, sqlite or pathstore, got %q", c.CacheBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
