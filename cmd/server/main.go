// Package main is the entry point for the marketclock service.
// The service reports, for every exchange in its catalogue, whether the market is
// open, closed or at lunch and how long until that changes.
//
// Startup sequence:
// 1. Load configuration from environment variables (.env file supported)
// 2. Initialize logging
// 3. Wire dependencies via the DI container (catalogue source, services, jobs)
// 4. Start the scheduler and take the first status snapshot
// 5. Start the HTTP server
// 6. Wait for a shutdown signal and shut down gracefully
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Embedded IANA zone database so exchange timezones resolve on hosts without zoneinfo
	_ "time/tzdata"

	"github.com/marketclock/marketclock/internal/config"
	"github.com/marketclock/marketclock/internal/di"
	"github.com/marketclock/marketclock/internal/server"
	"github.com/marketclock/marketclock/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("catalog_source", cfg.CatalogSource).
		Str("data_dir", cfg.DataDir).
		Msg("Starting marketclock")

	// Wire all dependencies using DI container
	// A catalogue that fails validation is fatal here
	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close container")
		}
	}()

	// Take the baseline snapshot before serving so the first scheduled run can report transitions
	if err := container.Scheduler.RunNow(jobs.MarketStatus); err != nil {
		log.Error().Err(err).Msg("Initial market status refresh failed")
	}
	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Stop the scheduler first so no job runs against a closing database
	container.Scheduler.Stop()

	// Graceful shutdown
	// In-flight requests get up to 10 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
