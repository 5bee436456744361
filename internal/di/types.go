/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the HTTP server for access to services.
 */
package di

import (
	"github.com/marketclock/marketclock/internal/database"
	"github.com/marketclock/marketclock/internal/events"
	"github.com/marketclock/marketclock/internal/modules/catalog"
	"github.com/marketclock/marketclock/internal/modules/market_hours"
	"github.com/marketclock/marketclock/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Database: optional catalogue database (SQLite file or PostgreSQL); nil for the static source
 * - Catalogue: the source the exchange catalogue is loaded and reloaded from
 * - Services: the market hours service (status engine facade)
 * - Events: in-process bus, manager and the recent transition log
 * - Scheduler: cron runner for the status refresh and catalogue reload jobs
 */
type Container struct {
	// Database
	CatalogDB *database.DB // nil when the embedded catalogue is used

	// Catalogue
	CatalogSource catalog.Source
	CatalogRepo   *catalog.Repository // nil when the embedded catalogue is used

	// Services
	MarketHoursService *market_hours.MarketHoursService

	// Events
	EventBus      *events.Bus
	EventManager  *events.Manager
	TransitionLog *events.TransitionLog

	// Scheduler
	Scheduler *scheduler.Scheduler

	detachTransitions func()
}

// JobInstances holds references to registered jobs for manual triggering
type JobInstances struct {
	MarketStatus  *scheduler.MarketStatusJob
	CatalogReload *scheduler.CatalogReloadJob
	WALCheckpoint *scheduler.WALCheckpointJob // nil unless the catalogue lives in SQLite
}

// Close releases resources held by the container.
// The scheduler must be stopped by the caller before closing.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.detachTransitions != nil {
		c.detachTransitions()
		c.detachTransitions = nil
	}
	if c.CatalogDB != nil {
		err := c.CatalogDB.Close()
		c.CatalogDB = nil
		return err
	}
	return nil
}
