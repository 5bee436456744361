// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/marketclock/marketclock/internal/config"
	"github.com/marketclock/marketclock/internal/database"
	"github.com/marketclock/marketclock/internal/scheduler"
)

const walCheckpointSchedule = "@hourly"

// RegisterJobs creates the scheduler and registers all jobs with it.
// Returns JobInstances for manual triggering.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if container.MarketHoursService == nil {
		return nil, fmt.Errorf("market hours service not initialized")
	}

	sched := scheduler.New(log)
	container.Scheduler = sched

	instances := &JobInstances{}

	// ==========================================
	// Job 1: Market status refresh
	// ==========================================
	marketStatus := scheduler.NewMarketStatusJob(container.MarketHoursService, container.EventManager)
	marketStatus.SetLogger(log.With().Str("job", marketStatus.Name()).Logger())
	if err := sched.AddJob(cfg.StatusRefreshSchedule, marketStatus); err != nil {
		return nil, err
	}
	instances.MarketStatus = marketStatus

	// ==========================================
	// Job 2: Catalogue reload
	// ==========================================
	// The embedded catalogue never changes while running
	if container.CatalogRepo != nil && cfg.CatalogReloadSchedule != "" {
		catalogReload := scheduler.NewCatalogReloadJob(container.CatalogSource, container.MarketHoursService, container.EventManager)
		catalogReload.SetLogger(log.With().Str("job", catalogReload.Name()).Logger())
		if err := sched.AddJob(cfg.CatalogReloadSchedule, catalogReload); err != nil {
			return nil, err
		}
		instances.CatalogReload = catalogReload
	}

	// ==========================================
	// Job 3: WAL checkpoint (SQLite catalogue only)
	// ==========================================
	if container.CatalogDB != nil && container.CatalogDB.Driver() == database.DriverSQLite {
		walCheckpoint := scheduler.NewWALCheckpointJob(container.CatalogDB.Conn(), container.CatalogDB.Name())
		walCheckpoint.SetLogger(log.With().Str("job", walCheckpoint.Name()).Logger())
		if err := sched.AddJob(walCheckpointSchedule, walCheckpoint); err != nil {
			return nil, err
		}
		instances.WALCheckpoint = walCheckpoint
	}

	log.Info().Msg("Jobs registered")

	return instances, nil
}
