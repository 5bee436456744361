package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marketclock/marketclock/internal/events"
	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

const statusRefreshTimeout = 10 * time.Second

// MarketStatusJob recomputes every exchange status and emits an event for
// each exchange whose status differs from the previous run.
type MarketStatusJob struct {
	JobBase
	service  StatusProviderInterface
	events   EventManagerInterface
	now      func() time.Time
	mu       sync.Mutex
	previous map[string]market_hours.Status
}

// NewMarketStatusJob creates a new MarketStatusJob
func NewMarketStatusJob(service StatusProviderInterface, eventManager EventManagerInterface) *MarketStatusJob {
	return &MarketStatusJob{
		JobBase: newJobBase(),
		service: service,
		events:  eventManager,
		now:     time.Now,
	}
}

// SetClock replaces the time source
func (j *MarketStatusJob) SetClock(now func() time.Time) {
	j.now = now
}

// Name returns the job name
func (j *MarketStatusJob) Name() string {
	return "market_status_refresh"
}

// Run executes the status refresh.
// The first run only records a baseline; transitions are reported from the second run on.
func (j *MarketStatusJob) Run() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), statusRefreshTimeout)
	defer cancel()

	now := j.now()
	results, err := j.service.GetAllStatuses(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to compute market statuses: %w", err)
	}

	current := make(map[string]market_hours.Status, len(results))
	snapshot := &events.MarketsSnapshotData{
		Open:        []string{},
		LastUpdated: now.UTC().Format(time.RFC3339),
	}
	changed := 0

	for _, r := range results {
		current[r.Exchange] = r.Status
		switch r.Status {
		case market_hours.StatusOpen:
			snapshot.OpenCount++
			snapshot.Open = append(snapshot.Open, r.Exchange)
		case market_hours.StatusLunch:
			snapshot.LunchCount++
		default:
			snapshot.ClosedCount++
		}

		if j.previous == nil {
			continue
		}
		prev, seen := j.previous[r.Exchange]
		if seen && prev == r.Status {
			continue
		}
		changed++
		j.emit(&events.MarketStatusChangedData{
			Exchange:     r.Exchange,
			From:         string(prev),
			To:           string(r.Status),
			Label:        r.Label,
			NextChangeAt: r.NextChangeAtLocal,
			IsHoliday:    r.IsHoliday,
			HolidayName:  r.HolidayName,
			ObservedAt:   now,
		})
	}

	j.previous = current
	j.emit(snapshot)

	j.log.Debug().
		Int("exchanges", len(results)).
		Int("open", snapshot.OpenCount).
		Int("changed", changed).
		Msg("Market statuses refreshed")

	return nil
}

func (j *MarketStatusJob) emit(data events.EventData) {
	if j.events != nil {
		j.events.EmitTyped("market_hours", data)
	}
}
