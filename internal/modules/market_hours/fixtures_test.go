package market_hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func nyseExchange() Exchange {
	return Exchange{
		ID:       "nyse-market-id",
		Slug:     "nyse",
		Name:     "New York Stock Exchange",
		Timezone: "America/New_York",
		Position: 1,
		IsActive: true,
	}
}

func tokyoExchange() Exchange {
	return Exchange{
		ID:       "tse-market-id",
		Slug:     "tse",
		Name:     "Tokyo Stock Exchange",
		Timezone: "Asia/Tokyo",
		Position: 2,
		IsActive: true,
	}
}

// weekdaySessions builds Monday-Friday sessions with optional lunch times
func weekdaySessions(exchangeID, open, close, lunchOpen, lunchClose string) []Session {
	sessions := make([]Session, 0, 5)
	for wd := 1; wd <= 5; wd++ {
		sess := Session{
			ExchangeID: exchangeID,
			Weekday:    wd,
			OpenTime:   open,
			CloseTime:  close,
		}
		if lunchOpen != "" {
			sess.HasLunchBreak = true
			sess.LunchOpenTime = lunchOpen
			sess.LunchCloseTime = lunchClose
		}
		sessions = append(sessions, sess)
	}
	return sessions
}

func nyseSessions() []Session {
	return weekdaySessions("nyse-market-id", "09:30", "16:00", "", "")
}

func tokyoSessions() []Session {
	return weekdaySessions("tse-market-id", "09:00", "15:00", "11:30", "12:30")
}

func mustSchedule(t *testing.T, ex Exchange, sessions []Session, holidays []Holiday, opts ...ScheduleOption) *Schedule {
	t.Helper()
	s, err := NewSchedule(ex, sessions, holidays, opts...)
	require.NoError(t, err)
	return s
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}
