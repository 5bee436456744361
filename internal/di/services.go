// Package di provides dependency injection for services.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketclock/marketclock/internal/config"
	"github.com/marketclock/marketclock/internal/events"
	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

// transitionLogSize bounds the number of status transitions kept in memory
const transitionLogSize = 500

// InitializeServices loads the catalogue and builds the services on top of it
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.CatalogSource == nil {
		return fmt.Errorf("catalog source not initialized")
	}

	// Events first: jobs and the transition log hang off the bus
	container.EventBus = events.NewBus(log)
	container.EventManager = events.NewManager(container.EventBus, log)
	container.TransitionLog = events.NewTransitionLog(transitionLogSize)
	container.detachTransitions = container.TransitionLog.Attach(container.EventBus)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cat, err := container.CatalogSource.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog from %s: %w", container.CatalogSource.Name(), err)
	}

	service, err := market_hours.NewMarketHoursService(
		cat,
		log,
		market_hours.WithNextTradingDayHorizon(cfg.NextTradingDayHorizon),
	)
	if err != nil {
		return fmt.Errorf("failed to build market hours service: %w", err)
	}
	container.MarketHoursService = service

	log.Info().
		Str("source", container.CatalogSource.Name()).
		Int("exchanges", len(cat.Exchanges)).
		Int("horizon_days", cfg.NextTradingDayHorizon).
		Msg("Market hours service initialized")

	return nil
}
