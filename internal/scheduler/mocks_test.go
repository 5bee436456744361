package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/marketclock/marketclock/internal/events"
	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

// MockStatusProvider is a mock implementation of StatusProviderInterface
type MockStatusProvider struct {
	GetAllStatusesFunc func(ctx context.Context, now time.Time) ([]market_hours.StatusResult, error)
}

func (m *MockStatusProvider) GetAllStatuses(ctx context.Context, now time.Time) ([]market_hours.StatusResult, error) {
	if m.GetAllStatusesFunc != nil {
		return m.GetAllStatusesFunc(ctx, now)
	}
	return nil, nil
}

// MockCatalogReloader is a mock implementation of CatalogReloaderInterface
type MockCatalogReloader struct {
	ReloadFunc func(catalog *market_hours.Catalog) error
}

func (m *MockCatalogReloader) Reload(catalog *market_hours.Catalog) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(catalog)
	}
	return nil
}

// MockSource is a mock implementation of catalog.Source
type MockSource struct {
	LoadFunc func(ctx context.Context) (*market_hours.Catalog, error)
}

func (m *MockSource) Load(ctx context.Context) (*market_hours.Catalog, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return &market_hours.Catalog{}, nil
}

func (m *MockSource) Name() string {
	return "mock"
}

// RecordingEventManager captures emitted events
type RecordingEventManager struct {
	mu     sync.Mutex
	Events []events.EventData
	Errors []error
}

func (m *RecordingEventManager) EmitTyped(module string, data events.EventData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, data)
}

func (m *RecordingEventManager) EmitError(module string, err error, context map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, err)
}

func (m *RecordingEventManager) transitions() []*events.MarketStatusChangedData {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*events.MarketStatusChangedData
	for _, e := range m.Events {
		if t, ok := e.(*events.MarketStatusChangedData); ok {
			out = append(out, t)
		}
	}
	return out
}
