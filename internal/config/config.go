package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DataDir             string
	CatalogPath         string
	LogLevel            string
	JobWorkerCount      int
	JobQueueSize        int
	MaintenanceInterval int // minutes between ledger prune/flush runs
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	cfg := Config{
		Addr:                envOr("ADDR", ":8080"),
		DataDir:             envOr("DATA_DIR", "data"),
		CatalogPath:         envOr("CATALOG_PATH", ""),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		JobWorkerCount:      envIntOr("JOB_WORKER_COUNT", 2),
		JobQueueSize:        envIntOr("JOB_QUEUE_SIZE", 16),
		MaintenanceInterval: envIntOr("MAINTENANCE_INTERVAL_MINUTES", 30),
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = cfg.DataDir + "/songs.json"
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR cannot be empty")
	}
	if c.JobWorkerCount <= 0 {
		return fmt.Errorf("JOB_WORKER_COUNT must be positive, got %d", c.JobWorkerCount)
	}
	if c.JobQueueSize <= 0 {
		return fmt.Errorf("JOB_QUEUE_SIZE must be positive, got %d", c.JobQueueSize)
	}
	if c.MaintenanceInterval <= 0 {
		return fmt.Errorf("MAINTENANCE_INTERVAL_MINUTES must be positive, got %d", c.MaintenanceInterval)
	}
	return nil
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
