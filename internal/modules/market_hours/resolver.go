package market_hours

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zhangyunhao116/skipmap"
)

// HolidayResolver derives rule-based holidays per jurisdiction.
// Results are cached per (jurisdiction, year); rules never change after
// construction, so a cached year is valid for the resolver's lifetime.
type HolidayResolver struct {
	rules map[string][]NamedRule
	cache *skipmap.StringMap[map[LocalDate]Holiday]
}

// NewHolidayResolver validates the rule catalogue and creates a resolver
func NewHolidayResolver(rules map[string][]NamedRule) (*HolidayResolver, error) {
	normalized := make(map[string][]NamedRule, len(rules))
	for jurisdiction, named := range rules {
		for _, nr := range named {
			if nr.Name == "" {
				return nil, fmt.Errorf("%w: %s rule without a name", ErrInvalidRule, jurisdiction)
			}
			if nr.Rule == nil {
				return nil, fmt.Errorf("%w: %s %q has no rule", ErrInvalidRule, jurisdiction, nr.Name)
			}
			if err := nr.Rule.Validate(); err != nil {
				return nil, fmt.Errorf("%s %q: %w", jurisdiction, nr.Name, err)
			}
		}
		normalized[strings.ToUpper(jurisdiction)] = named
	}

	return &HolidayResolver{
		rules: normalized,
		cache: skipmap.NewString[map[LocalDate]Holiday](),
	}, nil
}

// DefaultHolidayResolver returns a resolver over DefaultHolidayRules
func DefaultHolidayResolver() *HolidayResolver {
	r, err := NewHolidayResolver(DefaultHolidayRules)
	if err != nil {
		panic("built-in holiday rules are invalid: " + err.Error())
	}
	return r
}

// RuleHoliday returns the rule-derived holiday on date, if any
func (r *HolidayResolver) RuleHoliday(jurisdiction string, date LocalDate) (Holiday, bool) {
	if r == nil || jurisdiction == "" {
		return Holiday{}, false
	}
	h, ok := r.yearHolidays(strings.ToUpper(jurisdiction), date.Year)[date]
	return h, ok
}

// RuleHolidaysForYear returns every rule-derived holiday of a year, sorted by date
func (r *HolidayResolver) RuleHolidaysForYear(jurisdiction string, year int) []Holiday {
	if r == nil || jurisdiction == "" {
		return nil
	}
	byDate := r.yearHolidays(strings.ToUpper(jurisdiction), year)
	holidays := make([]Holiday, 0, len(byDate))
	for _, h := range byDate {
		holidays = append(holidays, h)
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date < holidays[j].Date })
	return holidays
}

// HasRules reports whether the jurisdiction has any rule coverage
func (r *HolidayResolver) HasRules(jurisdiction string) bool {
	if r == nil {
		return false
	}
	return len(r.rules[strings.ToUpper(jurisdiction)]) > 0
}

func (r *HolidayResolver) yearHolidays(jurisdiction string, year int) map[LocalDate]Holiday {
	key := jurisdiction + ":" + strconv.Itoa(year)
	if cached, ok := r.cache.Load(key); ok {
		return cached
	}

	computed := r.computeYear(jurisdiction, year)
	actual, _ := r.cache.LoadOrStore(key, computed)
	return actual
}

// computeYear evaluates the rules of the neighbouring years too, because
// weekend observance can move a holiday across a year boundary.
func (r *HolidayResolver) computeYear(jurisdiction string, year int) map[LocalDate]Holiday {
	named := r.rules[jurisdiction]
	result := make(map[LocalDate]Holiday)
	for _, y := range []int{year, year - 1, year + 1} {
		for _, nr := range named {
			occ, ok := nr.Rule.Occurrence(y)
			if !ok || occ.Date.Year != year {
				continue
			}
			// First matching rule wins
			if _, taken := result[occ.Date]; taken {
				continue
			}
			name := nr.Name
			if occ.Observed {
				name += " (Observed)"
			}
			result[occ.Date] = Holiday{
				ID:             fmt.Sprintf("rule-%s-%s", strings.ToLower(jurisdiction), occ.Date),
				Date:           occ.Date.String(),
				Name:           name,
				IsClosedAllDay: true,
				RuleDerived:    true,
			}
		}
	}
	return result
}
