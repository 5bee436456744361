package market_hours

import (
	"strings"
	"time"
)

// Jurisdiction codes with rule-derived holiday coverage
const (
	JurisdictionUS       = "US"
	JurisdictionUK       = "UK"
	JurisdictionDE       = "DE"
	JurisdictionEuronext = "EURONEXT"
)

// slugToJurisdiction maps exchange slugs to their holiday rule catalogue.
// Exchanges not listed rely on statically configured holidays only.
var slugToJurisdiction = map[string]string{
	"nyse":           JurisdictionUS,
	"nasdaq":         JurisdictionUS,
	"lse":            JurisdictionUK,
	"xetra":          JurisdictionDE,
	"dax":            JurisdictionDE,
	"euronext-paris": JurisdictionEuronext,
}

// JurisdictionFor returns the rule catalogue key for an exchange, or "" if none applies
func JurisdictionFor(ex Exchange) string {
	if ex.Jurisdiction != "" {
		return strings.ToUpper(ex.Jurisdiction)
	}
	return slugToJurisdiction[strings.ToLower(ex.Slug)]
}

// DefaultHolidayRules is the built-in rule catalogue per jurisdiction
var DefaultHolidayRules = map[string][]NamedRule{
	JurisdictionUS: {
		{Name: "New Year's Day", Rule: FixedDateRule{Month: time.January, Day: 1, Observance: ObserveSundayToMonday}},
		{Name: "Martin Luther King Jr. Day", Rule: NthWeekdayRule{Month: time.January, Weekday: time.Monday, N: 3}},
		{Name: "Presidents Day", Rule: NthWeekdayRule{Month: time.February, Weekday: time.Monday, N: 3}},
		{Name: "Good Friday", Rule: EasterOffsetRule{DaysOffset: -2}},
		{Name: "Memorial Day", Rule: NthWeekdayRule{Month: time.May, Weekday: time.Monday, N: -1}},
		{Name: "Juneteenth", Rule: FixedDateRule{Month: time.June, Day: 19, Observance: ObserveNearestWeekday}},
		{Name: "Independence Day", Rule: FixedDateRule{Month: time.July, Day: 4, Observance: ObserveNearestWeekday}},
		{Name: "Labor Day", Rule: NthWeekdayRule{Month: time.September, Weekday: time.Monday, N: 1}},
		{Name: "Thanksgiving Day", Rule: NthWeekdayRule{Month: time.November, Weekday: time.Thursday, N: 4}},
		{Name: "Christmas Day", Rule: FixedDateRule{Month: time.December, Day: 25, Observance: ObserveNearestWeekday}},
	},
	JurisdictionUK: {
		{Name: "New Year's Day", Rule: FixedDateRule{Month: time.January, Day: 1, Observance: ObserveNextMonday}},
		{Name: "Good Friday", Rule: EasterOffsetRule{DaysOffset: -2}},
		{Name: "Easter Monday", Rule: EasterOffsetRule{DaysOffset: 1}},
		{Name: "Early May Bank Holiday", Rule: NthWeekdayRule{Month: time.May, Weekday: time.Monday, N: 1}},
		{Name: "Spring Bank Holiday", Rule: NthWeekdayRule{Month: time.May, Weekday: time.Monday, N: -1}},
		{Name: "Summer Bank Holiday", Rule: NthWeekdayRule{Month: time.August, Weekday: time.Monday, N: -1}},
		{Name: "Christmas Day", Rule: FixedDateRule{Month: time.December, Day: 25, Observance: ObservePairedSubstitute}},
		{Name: "Boxing Day", Rule: FixedDateRule{Month: time.December, Day: 26, Observance: ObservePairedSubstitute}},
	},
	JurisdictionDE: {
		{Name: "New Year's Day", Rule: FixedDateRule{Month: time.January, Day: 1}},
		{Name: "Good Friday", Rule: EasterOffsetRule{DaysOffset: -2}},
		{Name: "Easter Monday", Rule: EasterOffsetRule{DaysOffset: 1}},
		{Name: "Labour Day", Rule: FixedDateRule{Month: time.May, Day: 1}},
		{Name: "Christmas Eve", Rule: FixedDateRule{Month: time.December, Day: 24}},
		{Name: "Christmas Day", Rule: FixedDateRule{Month: time.December, Day: 25}},
		{Name: "Boxing Day", Rule: FixedDateRule{Month: time.December, Day: 26}},
		{Name: "New Year's Eve", Rule: FixedDateRule{Month: time.December, Day: 31}},
	},
	JurisdictionEuronext: {
		{Name: "New Year's Day", Rule: FixedDateRule{Month: time.January, Day: 1}},
		{Name: "Good Friday", Rule: EasterOffsetRule{DaysOffset: -2}},
		{Name: "Easter Monday", Rule: EasterOffsetRule{DaysOffset: 1}},
		{Name: "Labour Day", Rule: FixedDateRule{Month: time.May, Day: 1}},
		{Name: "Christmas Day", Rule: FixedDateRule{Month: time.December, Day: 25}},
		{Name: "Boxing Day", Rule: FixedDateRule{Month: time.December, Day: 26}},
	},
}
