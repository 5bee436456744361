package market_hours

import "time"

// Status is the trading state of an exchange at a given instant
type Status string

const (
	// StatusOpen means the exchange is trading
	StatusOpen Status = "OPEN"
	// StatusClosed means the exchange is not trading (before open, after close, weekend or holiday)
	StatusClosed Status = "CLOSED"
	// StatusLunch means the exchange is inside its midday break
	StatusLunch Status = "LUNCH"
	// StatusNotFound is reported by the service when an exchange identifier is unknown
	StatusNotFound Status = "NOT_FOUND"
)

// Exchange identifies a trading venue and its scheduling parameters
type Exchange struct {
	ID        string `json:"id" yaml:"id"`
	Slug      string `json:"slug" yaml:"slug"`
	Name      string `json:"name" yaml:"name"`
	ShortName string `json:"short_name" yaml:"short_name"`
	Country   string `json:"country" yaml:"country"`
	City      string `json:"city" yaml:"city"`
	Timezone  string `json:"timezone" yaml:"timezone"` // IANA zone name
	Tier      int    `json:"tier" yaml:"tier"`
	Position  int    `json:"position" yaml:"position"`
	IsActive  bool   `json:"is_active" yaml:"is_active"`
	// Jurisdiction selects the rule-derived holiday catalogue.
	// Empty means it is derived from the slug.
	Jurisdiction string `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
}

// Session is one weekly recurring trading window.
// Times are local wall-clock "HH:MM" strings; empty lunch times mean absent.
type Session struct {
	ID             string `json:"id" yaml:"id"`
	ExchangeID     string `json:"exchange_id" yaml:"exchange_id"`
	Weekday        int    `json:"weekday" yaml:"weekday"` // 0=Sunday..6=Saturday
	OpenTime       string `json:"open_time" yaml:"open_time"`
	CloseTime      string `json:"close_time" yaml:"close_time"`
	HasLunchBreak  bool   `json:"has_lunch_break" yaml:"has_lunch_break"`
	LunchOpenTime  string `json:"lunch_open_time,omitempty" yaml:"lunch_open_time,omitempty"`
	LunchCloseTime string `json:"lunch_close_time,omitempty" yaml:"lunch_close_time,omitempty"`
}

// Holiday is an exception to the regular session on one local calendar date
type Holiday struct {
	ID                string `json:"id" yaml:"id"`
	ExchangeID        string `json:"exchange_id" yaml:"exchange_id"`
	Date              string `json:"date" yaml:"date"` // YYYY-MM-DD, exchange-local
	Name              string `json:"name" yaml:"name"`
	IsClosedAllDay    bool   `json:"is_closed_all_day" yaml:"is_closed_all_day"`
	OpenTimeOverride  string `json:"open_time_override,omitempty" yaml:"open_time_override,omitempty"`
	CloseTimeOverride string `json:"close_time_override,omitempty" yaml:"close_time_override,omitempty"`
	// RuleDerived is set on holidays generated from calendar rules
	RuleDerived bool `json:"rule_derived,omitempty" yaml:"-"`
}

// StatusResult is the computed status of an exchange at an instant
type StatusResult struct {
	Exchange           string    `json:"exchange"`
	Timezone           string    `json:"timezone"`
	Status             Status    `json:"status"`
	Label              string    `json:"label"`
	NextChangeAtLocal  time.Time `json:"next_change_at_local"`
	RemainingMinutes   int       `json:"remaining_minutes"`
	RemainingFormatted string    `json:"remaining_formatted"`
	IsHoliday          bool      `json:"is_holiday"`
	HolidayName        string    `json:"holiday_name,omitempty"`
}

// IsOpen reports whether the result is a trading state
func (r StatusResult) IsOpen() bool {
	return r.Status == StatusOpen
}
