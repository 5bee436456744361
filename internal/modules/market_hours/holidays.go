package market_hours

import (
	"fmt"
	"time"
)

// Occurrence is the date a rule produces for one year
type Occurrence struct {
	Date LocalDate
	// Observed is set when the date was moved off a weekend
	Observed bool
}

// HolidayRule derives a holiday date from the calendar
type HolidayRule interface {
	// Occurrence returns the rule's date in year, or false when the rule
	// has no date that year (e.g. a 5th Monday that does not exist)
	Occurrence(year int) (Occurrence, bool)
	// Validate rejects out-of-range parameters
	Validate() error
}

// NamedRule pairs a rule with the holiday name it produces
type NamedRule struct {
	Name string
	Rule HolidayRule
}

// NthWeekdayRule is the Nth occurrence of a weekday in a month (N = -1 means last)
type NthWeekdayRule struct {
	Month   time.Month
	Weekday time.Weekday
	N       int
}

// Occurrence implements HolidayRule
func (r NthWeekdayRule) Occurrence(year int) (Occurrence, bool) {
	var d LocalDate
	if r.N == -1 {
		d = findLastWeekday(year, r.Month, r.Weekday)
	} else {
		d = findNthWeekday(year, r.Month, r.Weekday, r.N)
		if d.Month != r.Month {
			return Occurrence{}, false
		}
	}
	return Occurrence{Date: d}, true
}

// Validate implements HolidayRule
func (r NthWeekdayRule) Validate() error {
	if r.Month < time.January || r.Month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidRule, r.Month)
	}
	if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday %d", ErrInvalidRule, r.Weekday)
	}
	if r.N != -1 && (r.N < 1 || r.N > 5) {
		return fmt.Errorf("%w: occurrence %d", ErrInvalidRule, r.N)
	}
	return nil
}

// EasterOffsetRule is a fixed number of days from Gregorian Easter Sunday
type EasterOffsetRule struct {
	DaysOffset int // negative = before Easter
}

// Occurrence implements HolidayRule
func (r EasterOffsetRule) Occurrence(year int) (Occurrence, bool) {
	return Occurrence{Date: CalculateEaster(year).AddDays(r.DaysOffset)}, true
}

// Validate implements HolidayRule
func (r EasterOffsetRule) Validate() error {
	// Keeps the holiday inside the spring months
	if r.DaysOffset < -60 || r.DaysOffset > 60 {
		return fmt.Errorf("%w: easter offset %d", ErrInvalidRule, r.DaysOffset)
	}
	return nil
}

// Observance decides where a fixed-date holiday lands when it falls on a weekend
type Observance int

const (
	// ObserveActual keeps the date even on weekends
	ObserveActual Observance = iota
	// ObserveNearestWeekday moves Saturday to Friday and Sunday to Monday
	ObserveNearestWeekday
	// ObserveSundayToMonday moves Sunday to Monday; Saturday is not observed
	ObserveSundayToMonday
	// ObserveNextMonday moves Saturday and Sunday to the following Monday
	ObserveNextMonday
	// ObservePairedSubstitute moves weekend dates two days later, for
	// consecutive holidays such as Christmas and Boxing Day
	ObservePairedSubstitute
)

// FixedDateRule is a holiday on the same month/day every year
type FixedDateRule struct {
	Month      time.Month
	Day        int
	Observance Observance
}

// Occurrence implements HolidayRule
func (r FixedDateRule) Occurrence(year int) (Occurrence, bool) {
	actual := LocalDate{Year: year, Month: r.Month, Day: r.Day}
	shift := 0
	switch wd := actual.Weekday(); r.Observance {
	case ObserveNearestWeekday:
		if wd == time.Saturday {
			shift = -1
		} else if wd == time.Sunday {
			shift = 1
		}
	case ObserveSundayToMonday:
		if wd == time.Saturday {
			return Occurrence{}, false
		}
		if wd == time.Sunday {
			shift = 1
		}
	case ObserveNextMonday:
		if wd == time.Saturday {
			shift = 2
		} else if wd == time.Sunday {
			shift = 1
		}
	case ObservePairedSubstitute:
		if wd == time.Saturday || wd == time.Sunday {
			shift = 2
		}
	}
	if shift == 0 {
		return Occurrence{Date: actual}, true
	}
	return Occurrence{Date: actual.AddDays(shift), Observed: true}, true
}

// Validate implements HolidayRule
func (r FixedDateRule) Validate() error {
	if r.Month < time.January || r.Month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidRule, r.Month)
	}
	// 2024 is a leap year, so Feb 29 is accepted
	last := time.Date(2024, r.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if r.Day < 1 || r.Day > last {
		return fmt.Errorf("%w: day %d of month %d", ErrInvalidRule, r.Day, r.Month)
	}
	if r.Observance < ObserveActual || r.Observance > ObservePairedSubstitute {
		return fmt.Errorf("%w: observance %d", ErrInvalidRule, r.Observance)
	}
	return nil
}

// CalculateEaster calculates Gregorian Easter Sunday for a year
// using the anonymous Gregorian computus (Meeus/Jones/Butcher)
func CalculateEaster(year int) LocalDate {
	// Golden Number (position in 19-year Metonic cycle)
	a := year % 19

	// Century
	b := year / 100
	c := year % 100

	// Corrections
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451

	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return LocalDate{Year: year, Month: time.Month(month), Day: day}
}

// findNthWeekday finds the nth occurrence of a weekday in a given month/year.
// The result spills into the next month when n exceeds the occurrences.
func findNthWeekday(year int, month time.Month, weekday time.Weekday, n int) LocalDate {
	first := LocalDate{Year: year, Month: month, Day: 1}

	daysToAdd := int(weekday - first.Weekday())
	if daysToAdd < 0 {
		daysToAdd += 7
	}

	return first.AddDays(daysToAdd + (n-1)*7)
}

// findLastWeekday finds the last occurrence of a weekday in a given month/year
func findLastWeekday(year int, month time.Month, weekday time.Weekday) LocalDate {
	last := DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))

	daysToSubtract := int(last.Weekday() - weekday)
	if daysToSubtract < 0 {
		daysToSubtract += 7
	}

	return last.AddDays(-daysToSubtract)
}
