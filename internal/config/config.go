// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Catalogue sources
const (
	CatalogSourceStatic   = "static"
	CatalogSourceSQLite   = "sqlite"
	CatalogSourcePostgres = "postgres"
)

// Bounds for the next-trading-day search
const (
	MinNextTradingDayHorizon     = 14
	MaxNextTradingDayHorizon     = 60
	DefaultNextTradingDayHorizon = 30
)

// Config holds application configuration
type Config struct {
	DataDir               string // Base directory for the SQLite catalogue (always absolute)
	Port                  int
	LogLevel              string
	DevMode               bool
	CatalogSource         string // static, sqlite or postgres
	DatabaseURL           string // Required for the postgres source
	SeedCatalog           bool   // Seed an empty SQLite catalogue from the embedded one
	StatusRefreshSchedule string // cron spec
	CatalogReloadSchedule string // cron spec
	NextTradingDayHorizon int    // days
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("MARKETCLOCK_DATA_DIR", "./data")

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:               absDataDir,
		Port:                  getEnvAsInt("GO_PORT", 8001),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DevMode:               getEnvAsBool("DEV_MODE", false),
		CatalogSource:         strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceStatic)),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		SeedCatalog:           getEnvAsBool("SEED_CATALOG", true),
		StatusRefreshSchedule: getEnv("STATUS_REFRESH_SCHEDULE", "@every 60s"),
		CatalogReloadSchedule: getEnv("CATALOG_RELOAD_SCHEDULE", "@every 15m"),
		NextTradingDayHorizon: clampHorizon(getEnvAsInt("NEXT_TRADING_DAY_HORIZON", DefaultNextTradingDayHorizon)),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.CatalogSource {
	case CatalogSourceStatic, CatalogSourceSQLite:
	case CatalogSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when CATALOG_SOURCE=%s", CatalogSourcePostgres)
		}
	default:
		return fmt.Errorf("unknown catalogue source %q (want %s, %s or %s)",
			c.CatalogSource, CatalogSourceStatic, CatalogSourceSQLite, CatalogSourcePostgres)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.StatusRefreshSchedule == "" {
		return fmt.Errorf("STATUS_REFRESH_SCHEDULE must not be empty")
	}

	return nil
}

// CatalogDBPath is the SQLite catalogue location inside the data directory
func (c *Config) CatalogDBPath() string {
	return filepath.Join(c.DataDir, "catalog.db")
}

func clampHorizon(days int) int {
	if days < MinNextTradingDayHorizon {
		return MinNextTradingDayHorizon
	}
	if days > MaxNextTradingDayHorizon {
		return MaxNextTradingDayHorizon
	}
	return days
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
