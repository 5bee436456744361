package events

import (
	"encoding/json"
	"time"
)

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// MarketStatusChangedData describes one exchange moving from one state to another
type MarketStatusChangedData struct {
	Exchange     string    `json:"exchange"`
	From         string    `json:"from"` // empty on the first observation
	To           string    `json:"to"`
	Label        string    `json:"label"`
	NextChangeAt time.Time `json:"next_change_at"`
	IsHoliday    bool      `json:"is_holiday"`
	HolidayName  string    `json:"holiday_name,omitempty"`
	ObservedAt   time.Time `json:"observed_at"`
}

// EventType returns the event type for MarketStatusChangedData
func (d *MarketStatusChangedData) EventType() EventType {
	return MarketStatusChanged
}

// MarketsSnapshotData summarises a full status refresh
type MarketsSnapshotData struct {
	OpenCount   int      `json:"open_count"`
	LunchCount  int      `json:"lunch_count"`
	ClosedCount int      `json:"closed_count"`
	Open        []string `json:"open"`
	LastUpdated string   `json:"last_updated"` // ISO 8601 timestamp
}

// EventType returns the event type for MarketsSnapshotData
func (d *MarketsSnapshotData) EventType() EventType {
	return MarketsSnapshotUpdated
}

// CatalogReloadedData contains data for CatalogReloaded events
type CatalogReloadedData struct {
	Source    string `json:"source"`
	Exchanges int    `json:"exchanges"`
	Sessions  int    `json:"sessions"`
	Holidays  int    `json:"holidays"`
}

// EventType returns the event type for CatalogReloadedData
func (d *CatalogReloadedData) EventType() EventType {
	return CatalogReloaded
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// EventWithData represents an event with typed data
type EventWithData struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Data      EventData `json:"data"`
}

// MarshalJSON customizes JSON serialization for EventWithData
func (e *EventWithData) MarshalJSON() ([]byte, error) {
	type Alias EventWithData
	aux := &struct {
		Data json.RawMessage `json:"data"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}

	if e.Data != nil {
		dataBytes, err := json.Marshal(e.Data)
		if err != nil {
			return nil, err
		}
		aux.Data = dataBytes
	}

	return json.Marshal(aux)
}

// UnmarshalJSON customizes JSON deserialization for EventWithData
func (e *EventWithData) UnmarshalJSON(data []byte) error {
	type Alias EventWithData
	aux := &struct {
		Data json.RawMessage `json:"data"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if len(aux.Data) == 0 || string(aux.Data) == "null" {
		return nil
	}

	var eventData EventData
	switch aux.Type {
	case MarketStatusChanged:
		eventData = &MarketStatusChangedData{}
	case MarketsSnapshotUpdated:
		eventData = &MarketsSnapshotData{}
	case CatalogReloaded:
		eventData = &CatalogReloadedData{}
	case ErrorOccurred:
		eventData = &ErrorEventData{}
	default:
		// For unknown types, use raw map
		generic := &GenericEventData{Type: aux.Type}
		if err := json.Unmarshal(aux.Data, &generic.Data); err != nil {
			return err
		}
		e.Data = generic
		return nil
	}

	if err := json.Unmarshal(aux.Data, eventData); err != nil {
		return err
	}
	e.Data = eventData
	return nil
}

// GenericEventData is a fallback for events that don't have a specific type
type GenericEventData struct {
	Type EventType              `json:"-"`
	Data map[string]interface{} `json:"-"`
}

// EventType returns the event type for GenericEventData
func (d *GenericEventData) EventType() EventType {
	return d.Type
}

// MarshalJSON customizes JSON serialization for GenericEventData
func (d *GenericEventData) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Data)
}
