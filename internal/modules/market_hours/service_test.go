package market_hours

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	lse := Exchange{ID: "lse-market-id", Slug: "lse", Name: "London Stock Exchange", Timezone: "Europe/London", Position: 3, IsActive: true}
	dormant := Exchange{ID: "old-market-id", Slug: "old", Name: "Dormant Exchange", Timezone: "UTC", Position: 4, IsActive: false}

	sessions := append(nyseSessions(), tokyoSessions()...)
	sessions = append(sessions, weekdaySessions(lse.ID, "08:00", "16:30", "", "")...)
	sessions = append(sessions, weekdaySessions(dormant.ID, "00:00", "23:59", "", "")...)

	return &Catalog{
		// Deliberately out of position order
		Exchanges: []Exchange{lse, tokyoExchange(), dormant, nyseExchange()},
		Sessions:  sessions,
		Holidays: []Holiday{
			{ExchangeID: "nyse-market-id", Date: "2025-01-01", Name: "New Year's Day", IsClosedAllDay: true},
			{ExchangeID: "lse-market-id", Date: "2025-12-24", Name: "Christmas Eve", CloseTimeOverride: "12:30"},
		},
	}
}

func newTestService(t *testing.T, opts ...ServiceOption) *MarketHoursService {
	t.Helper()
	svc, err := NewMarketHoursService(testCatalog(), zerolog.New(nil).Level(zerolog.Disabled), opts...)
	require.NoError(t, err)
	return svc
}

func TestMarketHoursService_GetMarketStatus(t *testing.T) {
	svc := newTestService(t)
	now := utc(2025, time.June, 10, 18, 0)

	t.Run("by slug", func(t *testing.T) {
		result := svc.GetMarketStatus("nyse", now)
		assert.Equal(t, StatusOpen, result.Status)
		assert.Equal(t, "nyse", result.Exchange)
		assert.Equal(t, "closes in 2h 0m", result.Label)
	})

	t.Run("slug is case-insensitive", func(t *testing.T) {
		assert.Equal(t, StatusOpen, svc.GetMarketStatus("NYSE", now).Status)
	})

	t.Run("by id", func(t *testing.T) {
		assert.Equal(t, StatusClosed, svc.GetMarketStatus("tse-market-id", now).Status)
	})

	t.Run("unknown exchange", func(t *testing.T) {
		result := svc.GetMarketStatus("moon", now)
		assert.Equal(t, StatusNotFound, result.Status)
		assert.Equal(t, "moon", result.Exchange)
		assert.Equal(t, 0, result.RemainingMinutes)
	})
}

func TestMarketHoursService_GetAllStatuses(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.GetAllStatuses(context.Background(), utc(2025, time.June, 10, 14, 0))
	require.NoError(t, err)

	slugs := make([]string, 0, len(results))
	for _, r := range results {
		slugs = append(slugs, r.Exchange)
	}
	// Ordered by position, inactive exchanges excluded
	assert.Equal(t, []string{"nyse", "tse", "lse"}, slugs)
	assert.Equal(t, StatusOpen, results[0].Status)
	assert.Equal(t, StatusClosed, results[1].Status)
	assert.Equal(t, StatusOpen, results[2].Status)
}

func TestMarketHoursService_GetAllStatuses_Cancelled(t *testing.T) {
	svc := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetAllStatuses(ctx, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMarketHoursService_GetAllStatusesMatchesSingleLookups(t *testing.T) {
	svc := newTestService(t)
	now := utc(2025, time.December, 24, 12, 45)

	results, err := svc.GetAllStatuses(context.Background(), now)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, svc.GetMarketStatus(r.Exchange, now), r)
	}
}

func TestMarketHoursService_GetOpenMarkets(t *testing.T) {
	svc := newTestService(t)

	// 14:00 UTC: New York and London open, Tokyo closed, dormant exchange ignored
	assert.Equal(t, []string{"nyse", "lse"}, svc.GetOpenMarkets(utc(2025, time.June, 10, 14, 0)))
	assert.Equal(t, []string{"tse"}, svc.GetOpenMarkets(utc(2025, time.June, 10, 1, 0)))
	assert.Empty(t, svc.GetOpenMarkets(utc(2025, time.June, 14, 14, 0)))

	assert.True(t, svc.IsMarketOpen("lse", utc(2025, time.June, 10, 14, 0)))
	assert.False(t, svc.IsMarketOpen("lse", utc(2025, time.December, 24, 12, 45)))
}

func TestMarketHoursService_HolidaysForYear(t *testing.T) {
	svc := newTestService(t)

	holidays, err := svc.HolidaysForYear("lse", 2025)
	require.NoError(t, err)
	dates := make([]string, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Date)
	}
	assert.Equal(t, []string{
		"2025-01-01", "2025-04-18", "2025-04-21", "2025-05-05", "2025-05-26",
		"2025-08-25", "2025-12-24", "2025-12-25", "2025-12-26",
	}, dates)

	_, err = svc.HolidaysForYear("moon", 2025)
	assert.ErrorIs(t, err, ErrExchangeNotFound)
}

func TestMarketHoursService_IsTradingDay(t *testing.T) {
	svc := newTestService(t)

	ok, err := svc.IsTradingDay("nyse", LocalDate{2025, time.January, 1})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsTradingDay("nyse", LocalDate{2025, time.January, 2})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.IsTradingDay("moon", LocalDate{2025, time.January, 2})
	assert.ErrorIs(t, err, ErrExchangeNotFound)
}

func TestMarketHoursService_ExchangesAndSessions(t *testing.T) {
	svc := newTestService(t)

	exchanges := svc.Exchanges()
	require.Len(t, exchanges, 4)
	assert.Equal(t, "nyse", exchanges[0].Slug)
	assert.Equal(t, "old", exchanges[3].Slug)

	sessions, err := svc.SessionsFor("tse")
	require.NoError(t, err)
	require.Len(t, sessions, 5)
	assert.Equal(t, 1, sessions[0].Weekday)
	assert.True(t, sessions[0].HasLunchBreak)
}

func TestNewMarketHoursService_InvalidCatalog(t *testing.T) {
	catalog := testCatalog()
	catalog.Exchanges = append(catalog.Exchanges,
		Exchange{ID: "bad-tz", Slug: "badtz", Timezone: "Not/AZone"},
		Exchange{ID: "lse-market-id", Slug: "lse2", Timezone: "Europe/London"},
		Exchange{ID: "another", Slug: "NYSE", Timezone: "America/New_York"},
	)
	catalog.Sessions = append(catalog.Sessions, Session{
		ExchangeID: "tse-market-id", Weekday: 6, OpenTime: "09:00", CloseTime: "15:00",
		HasLunchBreak: true, LunchOpenTime: "08:00", LunchCloseTime: "09:30",
	})

	svc, err := NewMarketHoursService(catalog, zerolog.New(nil).Level(zerolog.Disabled))
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Contains(t, err.Error(), "duplicate id")
	assert.Contains(t, err.Error(), "duplicate slug")

	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestMarketHoursService_Reload(t *testing.T) {
	svc := newTestService(t)
	now := utc(2025, time.June, 10, 18, 0)

	t.Run("invalid catalogue keeps the previous one", func(t *testing.T) {
		err := svc.Reload(&Catalog{Exchanges: []Exchange{{ID: "x", Slug: "x", Timezone: "Bad/Zone"}}})
		require.Error(t, err)
		assert.Len(t, svc.Exchanges(), 4)
		assert.Equal(t, StatusOpen, svc.GetMarketStatus("nyse", now).Status)
	})

	t.Run("valid catalogue replaces the old one", func(t *testing.T) {
		err := svc.Reload(&Catalog{
			Exchanges: []Exchange{tokyoExchange()},
			Sessions:  tokyoSessions(),
		})
		require.NoError(t, err)
		assert.Len(t, svc.Exchanges(), 1)
		assert.Equal(t, StatusNotFound, svc.GetMarketStatus("nyse", now).Status)
	})

	t.Run("nil catalogue", func(t *testing.T) {
		assert.Error(t, svc.Reload(nil))
	})
}

func TestMarketHoursService_ConcurrentReadsDuringReload(t *testing.T) {
	svc := newTestService(t)
	now := utc(2025, time.June, 10, 18, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := svc.GetAllStatuses(context.Background(), now)
				assert.NoError(t, err)
				_ = svc.GetMarketStatus("tse", now)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, svc.Reload(testCatalog()))
	}
	wg.Wait()
}

func TestWithNextTradingDayHorizon(t *testing.T) {
	svc := newTestService(t, WithNextTradingDayHorizon(1))

	// Friday evening: Saturday is the only candidate inside a one day horizon
	result := svc.GetMarketStatus("nyse", utc(2025, time.June, 13, 21, 0))
	assert.Equal(t, LabelClosedIndefinitely, result.Label)
}
