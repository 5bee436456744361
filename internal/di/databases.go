// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/marketclock/marketclock/internal/config"
	"github.com/marketclock/marketclock/internal/database"
)

// InitializeDatabases opens the catalogue database for the configured source and applies the schema.
// The static source needs no database and leaves CatalogDB nil.
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	var (
		db  *database.DB
		err error
	)

	switch cfg.CatalogSource {
	case config.CatalogSourceStatic, "":
		log.Info().Msg("Using embedded exchange catalogue, no database opened")
		return container, nil

	case config.CatalogSourceSQLite:
		db, err = database.New(database.Config{
			Path:    cfg.CatalogDBPath(),
			Profile: database.ProfileStandard,
			Name:    "catalog",
		})

	case config.CatalogSourcePostgres:
		db, err = database.NewPostgres(database.PostgresConfig{
			URL:  cfg.DatabaseURL,
			Name: "catalog",
		})

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate catalog database: %w", err)
	}

	log.Info().
		Str("driver", db.Driver()).
		Str("path", db.Path()).
		Msg("Catalog database ready")

	container.CatalogDB = db
	return container, nil
}
