// Package catalog provides the exchange catalogue sources consumed by the
// market hours service: an embedded YAML catalogue and a SQL repository
// backed by SQLite or PostgreSQL.
package catalog

import (
	"context"

	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

// Source loads a complete exchange catalogue
type Source interface {
	// Load returns every exchange with its sessions and static holidays
	Load(ctx context.Context) (*market_hours.Catalog, error)
	// Name identifies the source in logs
	Name() string
}

// Compile-time checks
var (
	_ Source = (*StaticSource)(nil)
	_ Source = (*Repository)(nil)
)
