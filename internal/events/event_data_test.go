package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDataTypes(t *testing.T) {
	testCases := []struct {
		data     EventData
		expected EventType
	}{
		{&MarketStatusChangedData{}, MarketStatusChanged},
		{&MarketsSnapshotData{}, MarketsSnapshotUpdated},
		{&CatalogReloadedData{}, CatalogReloaded},
		{&ErrorEventData{}, ErrorOccurred},
		{&GenericEventData{Type: "CUSTOM"}, EventType("CUSTOM")},
	}

	for _, tc := range testCases {
		t.Run(string(tc.expected), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.data.EventType())
		})
	}
}

func TestEventWithData_RoundTripKeepsConcreteType(t *testing.T) {
	observed := time.Date(2025, time.June, 10, 13, 30, 0, 0, time.UTC)
	original := &EventWithData{
		Type:      MarketStatusChanged,
		Timestamp: observed,
		Module:    "scheduler",
		Data: &MarketStatusChangedData{
			Exchange:     "nyse",
			From:         "CLOSED",
			To:           "OPEN",
			Label:        "closes in 6h 30m",
			NextChangeAt: observed.Add(390 * time.Minute),
			ObservedAt:   observed,
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"exchange":"nyse"`)
	assert.Contains(t, string(raw), `"type":"MARKET_STATUS_CHANGED"`)

	var decoded EventWithData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	data, ok := decoded.Data.(*MarketStatusChangedData)
	require.True(t, ok)
	assert.Equal(t, "OPEN", data.To)
	assert.True(t, data.NextChangeAt.Equal(observed.Add(390*time.Minute)))
	assert.Equal(t, "scheduler", decoded.Module)
}

func TestEventWithData_UnknownTypeFallsBackToGeneric(t *testing.T) {
	var decoded EventWithData
	require.NoError(t, json.Unmarshal([]byte(`{"type":"SOMETHING_ELSE","module":"x","data":{"a":1}}`), &decoded))

	generic, ok := decoded.Data.(*GenericEventData)
	require.True(t, ok)
	assert.Equal(t, EventType("SOMETHING_ELSE"), generic.EventType())
	assert.Equal(t, float64(1), generic.Data["a"])
}

func TestEventWithData_NullData(t *testing.T) {
	var decoded EventWithData
	require.NoError(t, json.Unmarshal([]byte(`{"type":"CATALOG_RELOADED","data":null}`), &decoded))
	assert.Nil(t, decoded.Data)
}
