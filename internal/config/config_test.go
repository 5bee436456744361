package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range []string{
		"MARKETCLOCK_DATA_DIR", "GO_PORT", "LOG_LEVEL", "DEV_MODE", "CATALOG_SOURCE",
		"DATABASE_URL", "SEED_CATALOG", "STATUS_REFRESH_SCHEDULE", "CATALOG_RELOAD_SCHEDULE",
		"NEXT_TRADING_DAY_HORIZON",
	} {
		t.Setenv(key, "")
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	setEnv(t, map[string]string{"MARKETCLOCK_DATA_DIR": dir})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.DirExists(t, dir)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, CatalogSourceStatic, cfg.CatalogSource)
	assert.True(t, cfg.SeedCatalog)
	assert.Equal(t, "@every 60s", cfg.StatusRefreshSchedule)
	assert.Equal(t, "@every 15m", cfg.CatalogReloadSchedule)
	assert.Equal(t, DefaultNextTradingDayHorizon, cfg.NextTradingDayHorizon)
	assert.Equal(t, filepath.Join(dir, "catalog.db"), cfg.CatalogDBPath())
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"MARKETCLOCK_DATA_DIR":     t.TempDir(),
		"GO_PORT":                  "9090",
		"LOG_LEVEL":                "debug",
		"DEV_MODE":                 "true",
		"CATALOG_SOURCE":           "SQLite",
		"SEED_CATALOG":             "false",
		"STATUS_REFRESH_SCHEDULE":  "*/5 * * * *",
		"NEXT_TRADING_DAY_HORIZON": "45",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, CatalogSourceSQLite, cfg.CatalogSource)
	assert.False(t, cfg.SeedCatalog)
	assert.Equal(t, "*/5 * * * *", cfg.StatusRefreshSchedule)
	assert.Equal(t, 45, cfg.NextTradingDayHorizon)
}

func TestLoad_HorizonIsClamped(t *testing.T) {
	testCases := []struct {
		value    string
		expected int
	}{
		{"1", MinNextTradingDayHorizon},
		{"365", MaxNextTradingDayHorizon},
		{"not-a-number", DefaultNextTradingDayHorizon},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			setEnv(t, map[string]string{
				"MARKETCLOCK_DATA_DIR":     t.TempDir(),
				"NEXT_TRADING_DAY_HORIZON": tc.value,
			})
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg.NextTradingDayHorizon)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Port: 8001, CatalogSource: CatalogSourceStatic, StatusRefreshSchedule: "@every 60s"}
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown source", func(c *Config) { c.CatalogSource = "mysql" }, "unknown catalogue source"},
		{"postgres without url", func(c *Config) { c.CatalogSource = CatalogSourcePostgres }, "DATABASE_URL"},
		{"postgres with url", func(c *Config) {
			c.CatalogSource = CatalogSourcePostgres
			c.DatabaseURL = "postgres://localhost/marketclock"
		}, ""},
		{"zero port", func(c *Config) { c.Port = 0 }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = 70000 }, "invalid port"},
		{"empty refresh schedule", func(c *Config) { c.StatusRefreshSchedule = "" }, "STATUS_REFRESH_SCHEDULE"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_InvalidSource(t *testing.T) {
	setEnv(t, map[string]string{
		"MARKETCLOCK_DATA_DIR": t.TempDir(),
		"CATALOG_SOURCE":       "postgres",
	})
	_, err := Load()
	assert.Error(t, err)
}
