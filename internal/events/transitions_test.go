package events

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionLog_RecentNewestFirst(t *testing.T) {
	log := NewTransitionLog(3)

	for _, to := range []string{"OPEN", "LUNCH", "OPEN", "CLOSED"} {
		log.Record(MarketStatusChangedData{Exchange: "tse", To: to})
	}

	assert.Equal(t, 3, log.Len())
	recent := log.Recent(0, "")
	require.Len(t, recent, 3)
	assert.Equal(t, "CLOSED", recent[0].To)
	assert.Equal(t, "OPEN", recent[1].To)
	assert.Equal(t, "LUNCH", recent[2].To)

	assert.Len(t, log.Recent(2, ""), 2)
}

func TestTransitionLog_FilterByExchange(t *testing.T) {
	log := NewTransitionLog(10)
	log.Record(MarketStatusChangedData{Exchange: "nyse", To: "OPEN"})
	log.Record(MarketStatusChangedData{Exchange: "lse", To: "CLOSED"})
	log.Record(MarketStatusChangedData{Exchange: "nyse", To: "CLOSED"})

	nyse := log.Recent(0, "nyse")
	require.Len(t, nyse, 2)
	assert.Equal(t, "CLOSED", nyse[0].To)
	assert.Empty(t, log.Recent(0, "tse"))
}

func TestTransitionLog_AttachToBus(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	log := NewTransitionLog(0)

	detach := log.Attach(bus)
	bus.Emit(MarketStatusChanged, "scheduler", &MarketStatusChangedData{Exchange: "asx", To: "OPEN"})
	assert.Equal(t, 1, log.Len())

	detach()
	bus.Emit(MarketStatusChanged, "scheduler", &MarketStatusChangedData{Exchange: "asx", To: "CLOSED"})
	assert.Equal(t, 1, log.Len())
}

func TestTransitionLog_Empty(t *testing.T) {
	log := NewTransitionLog(5)
	assert.Empty(t, log.Recent(10, ""))
	assert.Equal(t, 0, log.Len())
}
