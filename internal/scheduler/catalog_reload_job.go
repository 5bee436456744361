package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/marketclock/marketclock/internal/events"
	"github.com/marketclock/marketclock/internal/modules/catalog"
)

const catalogLoadTimeout = 30 * time.Second

// CatalogReloadJob reloads the exchange catalogue from its source and swaps it into the service
type CatalogReloadJob struct {
	JobBase
	source  catalog.Source
	service CatalogReloaderInterface
	events  EventManagerInterface
}

// NewCatalogReloadJob creates a new CatalogReloadJob
func NewCatalogReloadJob(source catalog.Source, service CatalogReloaderInterface, eventManager EventManagerInterface) *CatalogReloadJob {
	return &CatalogReloadJob{
		JobBase: newJobBase(),
		source:  source,
		service: service,
		events:  eventManager,
	}
}

// Name returns the job name
func (j *CatalogReloadJob) Name() string {
	return "catalog_reload"
}

// Run executes the catalogue reload. The service keeps its current catalogue on any failure.
func (j *CatalogReloadJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), catalogLoadTimeout)
	defer cancel()

	loaded, err := j.source.Load(ctx)
	if err != nil {
		j.reportError(err)
		return fmt.Errorf("failed to load catalogue from %s: %w", j.source.Name(), err)
	}

	if err := j.service.Reload(loaded); err != nil {
		j.reportError(err)
		return fmt.Errorf("failed to apply catalogue from %s: %w", j.source.Name(), err)
	}

	if j.events != nil {
		j.events.EmitTyped("catalog", &events.CatalogReloadedData{
			Source:    j.source.Name(),
			Exchanges: len(loaded.Exchanges),
			Sessions:  len(loaded.Sessions),
			Holidays:  len(loaded.Holidays),
		})
	}

	j.log.Info().
		Str("source", j.source.Name()).
		Int("exchanges", len(loaded.Exchanges)).
		Msg("Catalogue reloaded")
	return nil
}

func (j *CatalogReloadJob) reportError(err error) {
	if j.events != nil {
		j.events.EmitError("catalog", err, map[string]interface{}{"source": j.source.Name()})
	}
}
