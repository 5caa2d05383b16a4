package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

type Config struct {
	Addr                   string
	LogLevel               string
	StorageBackend         string
	DBPath                 string
	DataDir                string
	StorageKey             string
	SeedCSVPath            string
	Timezone               string
	LeetCodeGraphQLURL     string
	LeetCodeTimeoutSeconds int
	EnrichWorkerCount      int
	EnrichQueueSize        int
	PersistQueueSize       int
	ReadyTimeoutMS         int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		StorageBackend:         strings.ToLower(envOr("STORAGE_BACKEND", BackendSQLite)),
		DBPath:                 envOr("DB_PATH", "file:leettrack.db"),
		DataDir:                envOr("DATA_DIR", "./data"),
		StorageKey:             envOr("STORAGE_KEY", "problems"),
		SeedCSVPath:            envOr("SEED_CSV_PATH", ""),
		Timezone:               envOr("TIMEZONE", ""),
		LeetCodeGraphQLURL:     envOr("LEETCODE_GRAPHQL_URL", "https://leetcode.com/graphql"),
		LeetCodeTimeoutSeconds: envIntOr("LEETCODE_TIMEOUT_SECONDS", 15),
		EnrichWorkerCount:      envIntOr("ENRICH_WORKER_COUNT", 2),
		EnrichQueueSize:        envIntOr("ENRICH_QUEUE_SIZE", 32),
		PersistQueueSize:       envIntOr("PERSIST_QUEUE_SIZE", 64),
		ReadyTimeoutMS:         envIntOr("READY_TIMEOUT_MS", 2000),
	}
}

// Validate checks every setting and joins all problems into one error.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	switch strings.ToUpper(strings.TrimSpace(c.LogLevel)) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}

	switch c.StorageBackend {
	case BackendSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty"))
		}
	case BackendFile:
		if strings.TrimSpace(c.DataDir) == "" {
			errs = append(errs, errors.New("DATA_DIR cannot be empty"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be sqlite, file or memory, got %q", c.StorageBackend))
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		errs = append(errs, errors.New("STORAGE_KEY cannot be empty"))
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("TIMEZONE %q is not a known location: %w", c.Timezone, err))
		}
	}
	if c.SeedCSVPath != "" {
		if _, err := os.Stat(c.SeedCSVPath); err != nil {
			errs = append(errs, fmt.Errorf("SEED_CSV_PATH %q: %w", c.SeedCSVPath, err))
		}
	}

	if c.LeetCodeTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("LEETCODE_TIMEOUT_SECONDS must be positive, got %d", c.LeetCodeTimeoutSeconds))
	}
	if c.EnrichWorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("ENRICH_WORKER_COUNT must be positive, got %d", c.EnrichWorkerCount))
	}
	if c.EnrichQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("ENRICH_QUEUE_SIZE must be positive, got %d", c.EnrichQueueSize))
	}
	if c.PersistQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("PERSIST_QUEUE_SIZE must be positive, got %d", c.PersistQueueSize))
	}
	if c.ReadyTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("READY_TIMEOUT_MS cannot be negative, got %d", c.ReadyTimeoutMS))
	}

	return errors.Join(errs...)
}

// Location returns the configured calendar, or time.Local when unset.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) LeetCodeTimeout() time.Duration {
	return time.Duration(c.LeetCodeTimeoutSeconds) * time.Second
}

func (c Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutMS) * time.Millisecond
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
