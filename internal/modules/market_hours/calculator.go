package market_hours

import (
	"fmt"
	"time"
)

// LabelClosedIndefinitely is reported when no trading day exists within the scan horizon
const LabelClosedIndefinitely = "closed indefinitely"

// ComputeStatus validates the exchange configuration and computes its status at now.
// sessions and holidays must belong to ex and may be in any order.
func ComputeStatus(ex Exchange, sessions []Session, holidays []Holiday, now time.Time, opts ...ScheduleOption) (StatusResult, error) {
	s, err := NewSchedule(ex, sessions, holidays, opts...)
	if err != nil {
		return StatusResult{}, err
	}
	return s.Status(now), nil
}

// Status computes the exchange status at an absolute instant.
// It holds no state between calls; the same instant always yields the same result.
func (s *Schedule) Status(now time.Time) StatusResult {
	local := Localize(now, s.loc)
	today := local.Date()
	minutesNow := local.MinuteOfDay()

	holiday, isHoliday := s.Resolve(today)
	result := StatusResult{
		Exchange:  s.exchange.Slug,
		Timezone:  s.exchange.Timezone,
		IsHoliday: isHoliday,
	}
	if isHoliday {
		result.HolidayName = holiday.Name
	}

	if day, ok := s.tradingDayOn(today, holiday, isHoliday); ok {
		switch {
		case minutesNow < day.open:
			return s.transition(result, StatusClosed, "opens in", today.At(day.open, s.loc), now)
		case day.lunch && minutesNow < day.lunchOpen:
			return s.transition(result, StatusOpen, "lunch in", today.At(day.lunchOpen, s.loc), now)
		case day.lunch && minutesNow < day.lunchClose:
			return s.transition(result, StatusLunch, "reopens in", today.At(day.lunchClose, s.loc), now)
		case minutesNow < day.close:
			return s.transition(result, StatusOpen, "closes in", today.At(day.close, s.loc), now)
		}
	}

	// Closed for the rest of today: the holiday fields stay those of today
	_, nextOpen, found := s.FindNextTradingDay(today)
	if !found {
		result.Status = StatusClosed
		result.Label = LabelClosedIndefinitely
		result.NextChangeAtLocal = now.In(s.loc)
		result.RemainingMinutes = 0
		result.RemainingFormatted = FormatRemaining(0)
		return result
	}
	return s.transition(result, StatusClosed, "opens in", nextOpen, now)
}

// FindNextTradingDay scans forward from the day after from, one local date at a
// time, for the first date with an effective session. Full-day holidays are skipped
// and a partial-day open override moves the returned open instant.
func (s *Schedule) FindNextTradingDay(from LocalDate) (LocalDate, time.Time, bool) {
	for i := 1; i <= s.horizon; i++ {
		candidate := from.AddDays(i)
		holiday, isHoliday := s.Resolve(candidate)
		if day, ok := s.tradingDayOn(candidate, holiday, isHoliday); ok {
			return candidate, candidate.At(day.open, s.loc), true
		}
	}
	return LocalDate{}, time.Time{}, false
}

func (s *Schedule) transition(result StatusResult, status Status, verb string, next, now time.Time) StatusResult {
	remaining := RemainingMinutes(now, next)
	result.Status = status
	result.NextChangeAtLocal = next.In(s.loc)
	result.RemainingMinutes = remaining
	result.RemainingFormatted = FormatRemaining(remaining)
	result.Label = fmt.Sprintf("%s %s", verb, result.RemainingFormatted)
	return result
}

// RemainingMinutes is the whole minutes from now until next, floored and never negative
func RemainingMinutes(now, next time.Time) int {
	d := next.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// FormatRemaining renders a countdown as "2h 13m" or "45m"
func FormatRemaining(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
