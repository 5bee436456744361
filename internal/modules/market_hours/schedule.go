package market_hours

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// DefaultScanHorizonDays bounds the next-trading-day search
const DefaultScanHorizonDays = 30

var sharedResolver = sync.OnceValue(DefaultHolidayResolver)

// noOverride marks an absent open/close override
const noOverride = -1

type daySession struct {
	open       int
	close      int
	hasLunch   bool
	lunchOpen  int
	lunchClose int
}

type holidayEntry struct {
	Holiday
	openOverride  int
	closeOverride int
}

// tradingDay holds the effective boundaries of one local date, in minutes since midnight
type tradingDay struct {
	open       int
	close      int
	lunch      bool
	lunchOpen  int
	lunchClose int
}

// Schedule is the validated, compiled weekly table and holiday calendar of one exchange.
// It is immutable after construction and safe for concurrent use.
type Schedule struct {
	exchange     Exchange
	loc          *time.Location
	jurisdiction string
	sessions     [7]*daySession
	holidays     map[LocalDate]holidayEntry
	resolver     *HolidayResolver
	horizon      int
}

// ScheduleOption customizes schedule compilation
type ScheduleOption func(*Schedule)

// WithResolver sets the rule-derived holiday resolver (nil disables rules)
func WithResolver(r *HolidayResolver) ScheduleOption {
	return func(s *Schedule) {
		s.resolver = r
	}
}

// WithScanHorizon sets how many days the next-trading-day search may look ahead
func WithScanHorizon(days int) ScheduleOption {
	return func(s *Schedule) {
		if days > 0 {
			s.horizon = days
		}
	}
}

// NewSchedule validates an exchange's sessions and holidays and compiles them.
// Every violation is collected into a single *ConfigError.
func NewSchedule(ex Exchange, sessions []Session, holidays []Holiday, opts ...ScheduleOption) (*Schedule, error) {
	s := &Schedule{
		exchange:     ex,
		jurisdiction: JurisdictionFor(ex),
		holidays:     make(map[LocalDate]holidayEntry, len(holidays)),
		resolver:     sharedResolver(),
		horizon:      DefaultScanHorizonDays,
	}
	for _, opt := range opts {
		opt(s)
	}

	name := ex.Slug
	if name == "" {
		name = ex.ID
	}
	cfgErr := &ConfigError{Exchange: name}

	loc, err := LoadTimezone(ex.Timezone)
	if err != nil {
		cfgErr.add(err)
	}
	s.loc = loc

	for _, sess := range sessions {
		if err := s.addSession(sess); err != nil {
			cfgErr.add(err)
		}
	}
	added := make([]LocalDate, 0, len(holidays))
	for _, h := range holidays {
		date, err := s.addHoliday(h)
		if err != nil {
			cfgErr.add(err)
			continue
		}
		added = append(added, date)
	}
	// Overrides are checked against the regular session once all weekdays are compiled
	for _, date := range added {
		if err := s.checkOverride(date); err != nil {
			cfgErr.add(err)
		}
	}

	if err := cfgErr.orNil(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schedule) addSession(sess Session) error {
	if sess.ExchangeID != "" && s.exchange.ID != "" && sess.ExchangeID != s.exchange.ID {
		return fmt.Errorf("%w: session %s belongs to exchange %s", ErrInvalidSession, sess.ID, sess.ExchangeID)
	}
	if sess.Weekday < 0 || sess.Weekday > 6 {
		return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSession, sess.Weekday)
	}
	if s.sessions[sess.Weekday] != nil {
		return fmt.Errorf("%w: duplicate session for %s", ErrInvalidSession, time.Weekday(sess.Weekday))
	}

	open, err := ParseClockTime(sess.OpenTime)
	if err != nil {
		return fmt.Errorf("%s open: %w", time.Weekday(sess.Weekday), err)
	}
	closeMin, err := ParseClockTime(sess.CloseTime)
	if err != nil {
		return fmt.Errorf("%s close: %w", time.Weekday(sess.Weekday), err)
	}
	if open >= closeMin {
		return fmt.Errorf("%w: %s opens at %s after closing at %s",
			ErrInvalidSession, time.Weekday(sess.Weekday), sess.OpenTime, sess.CloseTime)
	}

	ds := &daySession{open: open, close: closeMin}
	if sess.HasLunchBreak {
		if sess.LunchOpenTime == "" || sess.LunchCloseTime == "" {
			return fmt.Errorf("%w: %s lunch break without lunch times", ErrInvalidSession, time.Weekday(sess.Weekday))
		}
		lunchOpen, err := ParseClockTime(sess.LunchOpenTime)
		if err != nil {
			return fmt.Errorf("%s lunch open: %w", time.Weekday(sess.Weekday), err)
		}
		lunchClose, err := ParseClockTime(sess.LunchCloseTime)
		if err != nil {
			return fmt.Errorf("%s lunch close: %w", time.Weekday(sess.Weekday), err)
		}
		if open > lunchOpen || lunchOpen >= lunchClose || lunchClose > closeMin {
			return fmt.Errorf("%w: %s lunch %s-%s outside %s-%s", ErrInvalidSession, time.Weekday(sess.Weekday),
				sess.LunchOpenTime, sess.LunchCloseTime, sess.OpenTime, sess.CloseTime)
		}
		ds.hasLunch = true
		ds.lunchOpen = lunchOpen
		ds.lunchClose = lunchClose
	}

	s.sessions[sess.Weekday] = ds
	return nil
}

func (s *Schedule) addHoliday(h Holiday) (LocalDate, error) {
	if h.ExchangeID != "" && s.exchange.ID != "" && h.ExchangeID != s.exchange.ID {
		return LocalDate{}, fmt.Errorf("%w: holiday %s belongs to exchange %s", ErrInvalidHoliday, h.Date, h.ExchangeID)
	}
	date, err := ParseLocalDate(h.Date)
	if err != nil {
		return LocalDate{}, fmt.Errorf("%w: %v", ErrInvalidHoliday, err)
	}
	if _, dup := s.holidays[date]; dup {
		return LocalDate{}, fmt.Errorf("%w: duplicate holiday on %s", ErrInvalidHoliday, h.Date)
	}

	entry := holidayEntry{Holiday: h, openOverride: noOverride, closeOverride: noOverride}
	if !h.IsClosedAllDay {
		if h.OpenTimeOverride == "" && h.CloseTimeOverride == "" {
			return LocalDate{}, fmt.Errorf("%w: partial holiday %s has no override time", ErrInvalidHoliday, h.Date)
		}
		if h.OpenTimeOverride != "" {
			if entry.openOverride, err = ParseClockTime(h.OpenTimeOverride); err != nil {
				return LocalDate{}, fmt.Errorf("holiday %s open override: %w", h.Date, err)
			}
		}
		if h.CloseTimeOverride != "" {
			if entry.closeOverride, err = ParseClockTime(h.CloseTimeOverride); err != nil {
				return LocalDate{}, fmt.Errorf("holiday %s close override: %w", h.Date, err)
			}
		}
		if entry.openOverride != noOverride && entry.closeOverride != noOverride &&
			entry.openOverride >= entry.closeOverride {
			return LocalDate{}, fmt.Errorf("%w: holiday %s opens at %s after closing at %s",
				ErrInvalidHoliday, h.Date, h.OpenTimeOverride, h.CloseTimeOverride)
		}
	}
	if entry.ExchangeID == "" {
		entry.ExchangeID = s.exchange.ID
	}

	s.holidays[date] = entry
	return date, nil
}

// checkOverride rejects a partial holiday whose single override leaves no trading
// time within the regular session of its weekday
func (s *Schedule) checkOverride(date LocalDate) error {
	entry := s.holidays[date]
	ds := s.sessions[date.Weekday()]
	if entry.IsClosedAllDay || ds == nil {
		return nil
	}
	if entry.openOverride != noOverride && entry.closeOverride == noOverride && entry.openOverride >= ds.close {
		return fmt.Errorf("%w: holiday %s opens at %s at or after the regular close %s",
			ErrInvalidHoliday, entry.Date, entry.OpenTimeOverride, FormatClockTime(ds.close))
	}
	if entry.closeOverride != noOverride && entry.openOverride == noOverride && entry.closeOverride <= ds.open {
		return fmt.Errorf("%w: holiday %s closes at %s at or before the regular open %s",
			ErrInvalidHoliday, entry.Date, entry.CloseTimeOverride, FormatClockTime(ds.open))
	}
	return nil
}

// Exchange returns the exchange this schedule describes
func (s *Schedule) Exchange() Exchange {
	return s.exchange
}

// Location returns the exchange's timezone
func (s *Schedule) Location() *time.Location {
	return s.loc
}

// Jurisdiction returns the holiday rule catalogue key, or "" when only static holidays apply
func (s *Schedule) Jurisdiction() string {
	return s.jurisdiction
}

// HasRuleCoverage reports whether computed holiday rules apply to this exchange.
// Without coverage only configured holidays are known.
func (s *Schedule) HasRuleCoverage() bool {
	return s.resolver.HasRules(s.jurisdiction)
}

// SessionFor returns the regular session for a weekday; false means a non-trading weekday
func (s *Schedule) SessionFor(weekday time.Weekday) (Session, bool) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return Session{}, false
	}
	ds := s.sessions[weekday]
	if ds == nil {
		return Session{}, false
	}
	sess := Session{
		ExchangeID:    s.exchange.ID,
		Weekday:       int(weekday),
		OpenTime:      FormatClockTime(ds.open),
		CloseTime:     FormatClockTime(ds.close),
		HasLunchBreak: ds.hasLunch,
	}
	if ds.hasLunch {
		sess.LunchOpenTime = FormatClockTime(ds.lunchOpen)
		sess.LunchCloseTime = FormatClockTime(ds.lunchClose)
	}
	return sess, true
}

// Resolve returns the holiday applying to a local date.
// A statically configured holiday always takes precedence over a rule-derived one.
func (s *Schedule) Resolve(date LocalDate) (Holiday, bool) {
	if entry, ok := s.holidays[date]; ok {
		return entry.Holiday, true
	}
	if h, ok := s.resolver.RuleHoliday(s.jurisdiction, date); ok {
		h.ExchangeID = s.exchange.ID
		return h, true
	}
	return Holiday{}, false
}

// StaticHolidays returns the configured holidays between from and to (inclusive), sorted by date
func (s *Schedule) StaticHolidays(from, to LocalDate) []Holiday {
	result := make([]Holiday, 0)
	for date, entry := range s.holidays {
		if date.Before(from) || to.Before(date) {
			continue
		}
		result = append(result, entry.Holiday)
	}
	sortHolidays(result)
	return result
}

// HolidaysForYear merges static and rule-derived holidays of a year.
// A rule-derived date is dropped when a static entry exists for it.
func (s *Schedule) HolidaysForYear(year int) []Holiday {
	merged := s.StaticHolidays(LocalDate{Year: year, Month: time.January, Day: 1},
		LocalDate{Year: year, Month: time.December, Day: 31})
	for _, h := range s.resolver.RuleHolidaysForYear(s.jurisdiction, year) {
		date, _ := ParseLocalDate(h.Date)
		if _, static := s.holidays[date]; static {
			continue
		}
		h.ExchangeID = s.exchange.ID
		merged = append(merged, h)
	}
	sortHolidays(merged)
	return merged
}

// IsTradingDay reports whether the exchange trades at all on a local date
func (s *Schedule) IsTradingDay(date LocalDate) bool {
	holiday, isHoliday := s.Resolve(date)
	_, ok := s.tradingDayOn(date, holiday, isHoliday)
	return ok
}

// tradingDayOn computes the effective boundaries for a date given its resolved holiday.
// An open override suppresses lunch; a close override keeps lunch while it still
// fits and otherwise ends the day when lunch would have started.
func (s *Schedule) tradingDayOn(date LocalDate, holiday Holiday, isHoliday bool) (tradingDay, bool) {
	if isHoliday && holiday.IsClosedAllDay {
		return tradingDay{}, false
	}
	ds := s.sessions[date.Weekday()]
	if ds == nil {
		return tradingDay{}, false
	}

	day := tradingDay{
		open:       ds.open,
		close:      ds.close,
		lunch:      ds.hasLunch,
		lunchOpen:  ds.lunchOpen,
		lunchClose: ds.lunchClose,
	}
	if isHoliday {
		entry := s.overridesFor(date, holiday)
		if entry.openOverride != noOverride {
			day.open = entry.openOverride
			day.lunch = false
		}
		if entry.closeOverride != noOverride {
			day.close = entry.closeOverride
		}
	}

	if day.lunch {
		switch {
		case day.lunchOpen >= day.close:
			day.lunch = false
		case day.lunchClose > day.close:
			day.close = day.lunchOpen
			day.lunch = false
		}
	}
	if day.open >= day.close {
		return tradingDay{}, false
	}
	return day, true
}

func (s *Schedule) overridesFor(date LocalDate, holiday Holiday) holidayEntry {
	if entry, ok := s.holidays[date]; ok {
		return entry
	}
	// Rule-derived holidays carry no overrides
	return holidayEntry{Holiday: holiday, openOverride: noOverride, closeOverride: noOverride}
}

func sortHolidays(holidays []Holiday) {
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date < holidays[j].Date })
}
