package market_hours

import (
	"errors"
	"testing"
	"time"
)

func TestCalculateEaster(t *testing.T) {
	tests := []struct {
		year     int
		expected string
	}{
		{2024, "2024-03-31"},
		{2025, "2025-04-20"},
		{2026, "2026-04-05"},
		{2027, "2027-03-28"},
		{2028, "2028-04-16"},
		{2029, "2029-04-01"},
		{2030, "2030-04-21"},
		{2038, "2038-04-25"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := CalculateEaster(tt.year)
			if result.String() != tt.expected {
				t.Errorf("CalculateEaster(%d) = %s, want %s", tt.year, result, tt.expected)
			}
			if result.Weekday() != time.Sunday {
				t.Errorf("Easter should be on Sunday, got %v", result.Weekday())
			}
		})
	}
}

func TestNthWeekdayRule(t *testing.T) {
	tests := []struct {
		name     string
		rule     NthWeekdayRule
		year     int
		expected string
		ok       bool
	}{
		{"MLK 2025", NthWeekdayRule{time.January, time.Monday, 3}, 2025, "2025-01-20", true},
		{"Presidents 2026", NthWeekdayRule{time.February, time.Monday, 3}, 2026, "2026-02-16", true},
		{"Memorial 2025 (last)", NthWeekdayRule{time.May, time.Monday, -1}, 2025, "2025-05-26", true},
		{"Labor 2026 (first)", NthWeekdayRule{time.September, time.Monday, 1}, 2026, "2026-09-07", true},
		{"Thanksgiving 2025", NthWeekdayRule{time.November, time.Thursday, 4}, 2025, "2025-11-27", true},
		{"Summer bank 2026 (last)", NthWeekdayRule{time.August, time.Monday, -1}, 2026, "2026-08-31", true},
		{"Fifth Friday exists", NthWeekdayRule{time.January, time.Friday, 5}, 2027, "2027-01-29", true},
		{"Fifth Monday missing", NthWeekdayRule{time.February, time.Monday, 5}, 2025, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ, ok := tt.rule.Occurrence(tt.year)
			if ok != tt.ok {
				t.Fatalf("Occurrence(%d) ok = %v, want %v", tt.year, ok, tt.ok)
			}
			if !ok {
				return
			}
			if occ.Date.String() != tt.expected {
				t.Errorf("Occurrence(%d) = %s, want %s", tt.year, occ.Date, tt.expected)
			}
			if occ.Date.Weekday() != tt.rule.Weekday {
				t.Errorf("expected %v, got %v", tt.rule.Weekday, occ.Date.Weekday())
			}
			if occ.Observed {
				t.Error("nth-weekday occurrences are never observed substitutes")
			}
		})
	}
}

func TestEasterOffsetRule(t *testing.T) {
	goodFriday := EasterOffsetRule{DaysOffset: -2}
	easterMonday := EasterOffsetRule{DaysOffset: 1}

	occ, _ := goodFriday.Occurrence(2025)
	if occ.Date.String() != "2025-04-18" {
		t.Errorf("Good Friday 2025 = %s, want 2025-04-18", occ.Date)
	}
	occ, _ = easterMonday.Occurrence(2026)
	if occ.Date.String() != "2026-04-06" {
		t.Errorf("Easter Monday 2026 = %s, want 2026-04-06", occ.Date)
	}
}

func TestFixedDateRule_Observance(t *testing.T) {
	tests := []struct {
		name         string
		rule         FixedDateRule
		year         int
		expected     string
		observed     bool
		hasOccurence bool
	}{
		{"actual weekday", FixedDateRule{time.July, 4, ObserveNearestWeekday}, 2025, "2025-07-04", false, true},
		{"saturday to friday", FixedDateRule{time.July, 4, ObserveNearestWeekday}, 2026, "2026-07-03", true, true},
		{"sunday to monday", FixedDateRule{time.December, 25, ObserveNearestWeekday}, 2022, "2022-12-26", true, true},
		{"new year sunday", FixedDateRule{time.January, 1, ObserveSundayToMonday}, 2023, "2023-01-02", true, true},
		{"new year saturday skipped", FixedDateRule{time.January, 1, ObserveSundayToMonday}, 2022, "", false, false},
		{"next monday from saturday", FixedDateRule{time.January, 1, ObserveNextMonday}, 2022, "2022-01-03", true, true},
		{"paired christmas sunday", FixedDateRule{time.December, 25, ObservePairedSubstitute}, 2022, "2022-12-27", true, true},
		{"paired boxing saturday", FixedDateRule{time.December, 26, ObservePairedSubstitute}, 2026, "2026-12-28", true, true},
		{"actual on weekend", FixedDateRule{time.December, 24, ObserveActual}, 2022, "2022-12-24", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ, ok := tt.rule.Occurrence(tt.year)
			if ok != tt.hasOccurence {
				t.Fatalf("Occurrence(%d) ok = %v, want %v", tt.year, ok, tt.hasOccurence)
			}
			if !ok {
				return
			}
			if occ.Date.String() != tt.expected {
				t.Errorf("Occurrence(%d) = %s, want %s", tt.year, occ.Date, tt.expected)
			}
			if occ.Observed != tt.observed {
				t.Errorf("Observed = %v, want %v", occ.Observed, tt.observed)
			}
		})
	}
}

func TestRuleValidation(t *testing.T) {
	tests := []struct {
		name  string
		rule  HolidayRule
		valid bool
	}{
		{"valid nth", NthWeekdayRule{time.May, time.Monday, 1}, true},
		{"valid last", NthWeekdayRule{time.May, time.Monday, -1}, true},
		{"occurrence zero", NthWeekdayRule{time.May, time.Monday, 0}, false},
		{"occurrence six", NthWeekdayRule{time.May, time.Monday, 6}, false},
		{"occurrence minus two", NthWeekdayRule{time.May, time.Monday, -2}, false},
		{"month zero", NthWeekdayRule{0, time.Monday, 1}, false},
		{"weekday seven", NthWeekdayRule{time.May, time.Weekday(7), 1}, false},
		{"easter offset", EasterOffsetRule{DaysOffset: 50}, true},
		{"easter offset too far", EasterOffsetRule{DaysOffset: -90}, false},
		{"leap day", FixedDateRule{Month: time.February, Day: 29}, true},
		{"april 31", FixedDateRule{Month: time.April, Day: 31}, false},
		{"month thirteen", FixedDateRule{Month: 13, Day: 1}, false},
		{"unknown observance", FixedDateRule{Month: time.May, Day: 1, Observance: Observance(42)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid rule, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidRule) {
				t.Errorf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
}

func TestDefaultHolidayRules_AreValid(t *testing.T) {
	for jurisdiction, rules := range DefaultHolidayRules {
		for _, nr := range rules {
			if err := nr.Rule.Validate(); err != nil {
				t.Errorf("%s %q: %v", jurisdiction, nr.Name, err)
			}
		}
	}
}

func TestJurisdictionFor(t *testing.T) {
	tests := []struct {
		exchange Exchange
		expected string
	}{
		{Exchange{Slug: "nyse"}, JurisdictionUS},
		{Exchange{Slug: "NASDAQ"}, JurisdictionUS},
		{Exchange{Slug: "lse"}, JurisdictionUK},
		{Exchange{Slug: "xetra"}, JurisdictionDE},
		{Exchange{Slug: "euronext-paris"}, JurisdictionEuronext},
		{Exchange{Slug: "tse"}, ""},
		{Exchange{Slug: "tse", Jurisdiction: "us"}, JurisdictionUS},
	}

	for _, tt := range tests {
		t.Run(tt.exchange.Slug, func(t *testing.T) {
			if got := JurisdictionFor(tt.exchange); got != tt.expected {
				t.Errorf("JurisdictionFor(%+v) = %q, want %q", tt.exchange, got, tt.expected)
			}
		})
	}
}
