package market_hours

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

const minutesPerDay = 24 * 60

// LocalDate is a calendar date without a zone, interpreted in an exchange's timezone
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseLocalDate parses a YYYY-MM-DD string
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date component of t in t's own location
func DateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// String renders the date as YYYY-MM-DD
func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays returns the date n calendar days later (n may be negative).
// Arithmetic is done in UTC so DST transitions can never skip or repeat a day.
func (d LocalDate) AddDays(n int) LocalDate {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Weekday returns the day of week of the date
func (d LocalDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// Before reports whether d is strictly earlier than other
func (d LocalDate) Before(other LocalDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// At returns the instant at which the given wall-clock minute of this date occurs in loc.
// A wall-clock time skipped by a DST gap resolves to the first instant after the gap.
func (d LocalDate) At(minuteOfDay int, loc *time.Location) time.Time {
	t := time.Date(d.Year, d.Month, d.Day, minuteOfDay/60, minuteOfDay%60, 0, 0, loc)
	got := t.Hour()*60 + t.Minute()
	if got == minuteOfDay {
		return t
	}

	// time.Date picks one side of the gap; step past it and take the start of the new zone period
	diff := minuteOfDay - got
	if diff > minutesPerDay/2 {
		diff -= minutesPerDay
	} else if diff < -minutesPerDay/2 {
		diff += minutesPerDay
	}
	later := t
	if diff > 0 {
		later = t.Add(time.Duration(diff) * time.Minute)
	}
	if start, _ := later.ZoneBounds(); !start.IsZero() {
		return start.In(loc)
	}
	return later
}

// LocalDateTime is an instant broken down into an exchange's wall-clock fields
type LocalDateTime struct {
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday time.Weekday
}

// Date returns the calendar date component
func (l LocalDateTime) Date() LocalDate {
	return LocalDate{Year: l.Year, Month: l.Month, Day: l.Day}
}

// MinuteOfDay returns hour*60+minute; seconds are ignored
func (l LocalDateTime) MinuteOfDay() int {
	return l.Hour*60 + l.Minute
}

// Localize converts an absolute instant into wall-clock fields of loc.
// The offset is resolved for this instant, so DST is always current.
func Localize(instant time.Time, loc *time.Location) LocalDateTime {
	t := instant.In(loc)
	return LocalDateTime{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: t.Weekday(),
	}
}

// LocalDateString returns the YYYY-MM-DD date of instant in loc
func LocalDateString(instant time.Time, loc *time.Location) string {
	return Localize(instant, loc).Date().String()
}

// LoadTimezone resolves an IANA zone name.
// An empty name is rejected: time.LoadLocation would silently return UTC.
func LoadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty timezone", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// ParseClockTime parses an "HH:MM" local time into minutes since midnight
func ParseClockTime(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClockTime renders minutes since midnight as "HH:MM"
func FormatClockTime(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}
