package scheduler

import (
	"context"
	"time"

	"github.com/marketclock/marketclock/internal/events"
	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

// StatusProviderInterface defines the status queries used by the refresh job
// Used by scheduler to enable testing with mocks
type StatusProviderInterface interface {
	GetAllStatuses(ctx context.Context, now time.Time) ([]market_hours.StatusResult, error)
}

// CatalogReloaderInterface swaps the catalogue served by the market hours service
type CatalogReloaderInterface interface {
	Reload(catalog *market_hours.Catalog) error
}

// EventManagerInterface defines the contract for event emission
type EventManagerInterface interface {
	EmitTyped(module string, data events.EventData)
	EmitError(module string, err error, context map[string]interface{})
}
