// Package di provides dependency injection for the catalogue repository.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketclock/marketclock/internal/config"
	"github.com/marketclock/marketclock/internal/modules/catalog"
)

// InitializeRepositories selects the catalogue source.
// With a database, an empty catalogue is seeded from the embedded one when cfg.SeedCatalog is set.
func InitializeRepositories(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	if container.CatalogDB == nil {
		container.CatalogSource = catalog.NewStaticSource()
		return nil
	}

	repo := catalog.NewRepository(container.CatalogDB.Conn(), log)
	container.CatalogRepo = repo
	container.CatalogSource = repo

	if !cfg.SeedCatalog {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	empty, err := repo.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect catalog database: %w", err)
	}
	if !empty {
		return nil
	}

	embedded, err := catalog.NewStaticSource().Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load embedded catalog: %w", err)
	}
	if err := repo.Seed(ctx, embedded); err != nil {
		return fmt.Errorf("failed to seed catalog database: %w", err)
	}

	log.Info().
		Int("exchanges", len(embedded.Exchanges)).
		Int("holidays", len(embedded.Holidays)).
		Msg("Seeded empty catalog database from embedded catalogue")

	return nil
}
