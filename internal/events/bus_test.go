package events

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_SubscribeAndEmit(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var received []*Event
	unsubscribe := bus.Subscribe(MarketStatusChanged, func(e *Event) {
		received = append(received, e)
	})
	bus.Subscribe(CatalogReloaded, func(*Event) {
		t.Error("handler for another type must not run")
	})

	bus.Emit(MarketStatusChanged, "test", &MarketStatusChangedData{Exchange: "nyse", To: "OPEN"})
	require.Len(t, received, 1)
	assert.Equal(t, "test", received[0].Module)
	assert.Equal(t, "nyse", received[0].Data.(*MarketStatusChangedData).Exchange)
	assert.False(t, received[0].Timestamp.IsZero())

	unsubscribe()
	assert.Equal(t, 0, bus.SubscriberCount(MarketStatusChanged))
	bus.Emit(MarketStatusChanged, "test", &MarketStatusChangedData{})
	assert.Len(t, received, 1)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var calls int32
	bus.Subscribe(ErrorOccurred, func(*Event) { panic("boom") })
	bus.Subscribe(ErrorOccurred, func(*Event) { atomic.AddInt32(&calls, 1) })

	assert.NotPanics(t, func() {
		bus.Emit(ErrorOccurred, "test", &ErrorEventData{Error: "x"})
	})
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBus_ConcurrentEmit(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var calls int64
	bus.Subscribe(MarketStatusChanged, func(*Event) { atomic.AddInt64(&calls, 1) })

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Emit(MarketStatusChanged, "test", &MarketStatusChangedData{})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1000), atomic.LoadInt64(&calls))
}

func TestManager_EmitTyped(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	bus := NewBus(log)
	manager := NewManager(bus, log)

	var got *Event
	bus.Subscribe(CatalogReloaded, func(e *Event) { got = e })

	manager.EmitTyped("scheduler", &CatalogReloadedData{Source: "static", Exchanges: 30})
	require.NotNil(t, got)
	assert.Equal(t, CatalogReloaded, got.Type)
	assert.Contains(t, buf.String(), "CATALOG_RELOADED")
	assert.Contains(t, buf.String(), `"exchanges":30`)
}

func TestManager_EmitError(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	manager := NewManager(bus, zerolog.Nop())

	var got *ErrorEventData
	bus.Subscribe(ErrorOccurred, func(e *Event) { got = e.Data.(*ErrorEventData) })

	manager.EmitError("catalog", errors.New("load failed"), map[string]interface{}{"source": "sqlite"})
	require.NotNil(t, got)
	assert.Equal(t, "load failed", got.Error)
	assert.Equal(t, "sqlite", got.Context["source"])
}
