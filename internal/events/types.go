// Package events provides event management functionality.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	// MarketStatusChanged is emitted when an exchange moves between OPEN, LUNCH and CLOSED
	MarketStatusChanged EventType = "MARKET_STATUS_CHANGED"
	// MarketsSnapshotUpdated is emitted after every status refresh
	MarketsSnapshotUpdated EventType = "MARKETS_SNAPSHOT_UPDATED"
	// CatalogReloaded is emitted after the exchange catalogue has been swapped
	CatalogReloaded EventType = "CATALOG_RELOADED"
	ErrorOccurred   EventType = "ERROR_OCCURRED"
)

// Event represents a system event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Data      EventData `json:"data"`
}
