package testing

import (
	"strconv"

	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

// NewCatalogFixture returns a small catalogue covering a plain session (NYSE),
// a lunch-break session (Tokyo), a Sunday-Thursday week (Tadawul) and an
// inactive exchange, with one full-day and one partial-day holiday.
func NewCatalogFixture() *market_hours.Catalog {
	exchanges := []market_hours.Exchange{
		{
			ID: "nyse-market-id", Slug: "nyse", Name: "New York Stock Exchange", ShortName: "NYSE",
			Country: "United States", City: "New York", Timezone: "America/New_York",
			Tier: 1, Position: 1, IsActive: true,
		},
		{
			ID: "tse-market-id", Slug: "tse", Name: "Tokyo Stock Exchange", ShortName: "TSE",
			Country: "Japan", City: "Tokyo", Timezone: "Asia/Tokyo",
			Tier: 1, Position: 2, IsActive: true,
		},
		{
			ID: "tasi-market-id", Slug: "tasi", Name: "Saudi Exchange", ShortName: "Tadawul",
			Country: "Saudi Arabia", City: "Riyadh", Timezone: "Asia/Riyadh",
			Tier: 2, Position: 3, IsActive: true,
		},
		{
			ID: "old-market-id", Slug: "old", Name: "Retired Exchange", ShortName: "OLD",
			Country: "Nowhere", City: "Nowhere", Timezone: "UTC",
			Tier: 3, Position: 4, IsActive: false,
		},
	}

	var sessions []market_hours.Session
	for wd := 1; wd <= 5; wd++ {
		sessions = append(sessions,
			market_hours.Session{
				ID: sessionID("nyse", wd), ExchangeID: "nyse-market-id", Weekday: wd,
				OpenTime: "09:30", CloseTime: "16:00",
			},
			market_hours.Session{
				ID: sessionID("tse", wd), ExchangeID: "tse-market-id", Weekday: wd,
				OpenTime: "09:00", CloseTime: "15:00",
				HasLunchBreak: true, LunchOpenTime: "11:30", LunchCloseTime: "12:30",
			},
			market_hours.Session{
				ID: sessionID("old", wd), ExchangeID: "old-market-id", Weekday: wd,
				OpenTime: "10:00", CloseTime: "14:00",
			},
		)
	}
	for _, wd := range []int{0, 1, 2, 3, 4} {
		sessions = append(sessions, market_hours.Session{
			ID: sessionID("tasi", wd), ExchangeID: "tasi-market-id", Weekday: wd,
			OpenTime: "10:00", CloseTime: "15:00",
		})
	}

	holidays := []market_hours.Holiday{
		{
			ID: "nyse-2025-01-01", ExchangeID: "nyse-market-id", Date: "2025-01-01",
			Name: "New Year's Day", IsClosedAllDay: true,
		},
		{
			ID: "nyse-2025-11-28", ExchangeID: "nyse-market-id", Date: "2025-11-28",
			Name: "Day after Thanksgiving", CloseTimeOverride: "13:00",
		},
	}

	return &market_hours.Catalog{Exchanges: exchanges, Sessions: sessions, Holidays: holidays}
}

func sessionID(slug string, weekday int) string {
	return slug + "-session-" + strconv.Itoa(weekday)
}
