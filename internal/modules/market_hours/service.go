package market_hours

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Catalog is a configuration snapshot of exchanges with their sessions and holidays
type Catalog struct {
	Exchanges []Exchange `yaml:"exchanges"`
	Sessions  []Session  `yaml:"sessions"`
	Holidays  []Holiday  `yaml:"holidays"`
}

// serviceState is one compiled catalogue; it is replaced wholesale on reload
type serviceState struct {
	schedules []*Schedule // ordered by position
	bySlug    map[string]*Schedule
	byID      map[string]*Schedule
}

// MarketHoursService answers status queries over a compiled exchange catalogue
type MarketHoursService struct {
	mu       sync.RWMutex
	state    *serviceState
	resolver *HolidayResolver
	horizon  int
	log      zerolog.Logger
}

// ServiceOption customizes the service
type ServiceOption func(*MarketHoursService)

// WithHolidayResolver replaces the built-in rule catalogue
func WithHolidayResolver(r *HolidayResolver) ServiceOption {
	return func(s *MarketHoursService) {
		s.resolver = r
	}
}

// WithNextTradingDayHorizon sets the next-trading-day scan bound in days
func WithNextTradingDayHorizon(days int) ServiceOption {
	return func(s *MarketHoursService) {
		if days > 0 {
			s.horizon = days
		}
	}
}

// NewMarketHoursService validates and compiles the catalogue.
// Any configuration error is fatal: no service is returned.
func NewMarketHoursService(catalog *Catalog, log zerolog.Logger, opts ...ServiceOption) (*MarketHoursService, error) {
	s := &MarketHoursService{
		resolver: sharedResolver(),
		horizon:  DefaultScanHorizonDays,
		log:      log.With().Str("service", "market_hours").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := s.compile(catalog)
	if err != nil {
		return nil, err
	}
	s.state = state

	s.log.Info().Int("exchanges", len(state.schedules)).Msg("Market hours catalogue loaded")
	return s, nil
}

// compile builds one schedule per exchange and joins every exchange's errors
func (s *MarketHoursService) compile(catalog *Catalog) (*serviceState, error) {
	if catalog == nil {
		return nil, errors.New("nil catalog")
	}

	sessionsByExchange := make(map[string][]Session)
	for _, sess := range catalog.Sessions {
		sessionsByExchange[sess.ExchangeID] = append(sessionsByExchange[sess.ExchangeID], sess)
	}
	holidaysByExchange := make(map[string][]Holiday)
	for _, h := range catalog.Holidays {
		holidaysByExchange[h.ExchangeID] = append(holidaysByExchange[h.ExchangeID], h)
	}

	state := &serviceState{
		schedules: make([]*Schedule, 0, len(catalog.Exchanges)),
		bySlug:    make(map[string]*Schedule, len(catalog.Exchanges)),
		byID:      make(map[string]*Schedule, len(catalog.Exchanges)),
	}

	var errs []error
	for _, ex := range catalog.Exchanges {
		if ex.ID == "" || ex.Slug == "" {
			errs = append(errs, fmt.Errorf("exchange %q: id and slug are required", ex.Name))
			continue
		}
		slug := strings.ToLower(ex.Slug)
		if _, dup := state.bySlug[slug]; dup {
			errs = append(errs, fmt.Errorf("exchange %s: duplicate slug", ex.Slug))
			continue
		}
		if _, dup := state.byID[ex.ID]; dup {
			errs = append(errs, fmt.Errorf("exchange %s: duplicate id %s", ex.Slug, ex.ID))
			continue
		}

		schedule, err := NewSchedule(ex, sessionsByExchange[ex.ID], holidaysByExchange[ex.ID],
			WithResolver(s.resolver), WithScanHorizon(s.horizon))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		state.schedules = append(state.schedules, schedule)
		state.bySlug[slug] = schedule
		state.byID[ex.ID] = schedule
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid market hours catalogue: %w", errors.Join(errs...))
	}

	sort.SliceStable(state.schedules, func(i, j int) bool {
		return state.schedules[i].exchange.Position < state.schedules[j].exchange.Position
	})
	return state, nil
}

// Reload swaps in a new catalogue. An invalid catalogue is rejected and the
// previous one stays active.
func (s *MarketHoursService) Reload(catalog *Catalog) error {
	state, err := s.compile(catalog)
	if err != nil {
		s.log.Error().Err(err).Msg("Rejected market hours catalogue reload")
		return err
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.log.Info().Int("exchanges", len(state.schedules)).Msg("Market hours catalogue reloaded")
	return nil
}

func (s *MarketHoursService) current() *serviceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Schedule looks up an exchange by slug (case-insensitive) or id
func (s *MarketHoursService) Schedule(exchange string) (*Schedule, error) {
	state := s.current()
	if sch, ok := state.bySlug[strings.ToLower(exchange)]; ok {
		return sch, nil
	}
	if sch, ok := state.byID[exchange]; ok {
		return sch, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrExchangeNotFound, exchange)
}

// GetMarketStatus returns the status of one exchange.
// An unknown identifier yields a NOT_FOUND result rather than an error.
func (s *MarketHoursService) GetMarketStatus(exchange string, now time.Time) StatusResult {
	sch, err := s.Schedule(exchange)
	if err != nil {
		return StatusResult{
			Exchange:           exchange,
			Status:             StatusNotFound,
			Label:              "unknown exchange",
			RemainingFormatted: FormatRemaining(0),
		}
	}
	return sch.Status(now)
}

// IsMarketOpen reports whether an exchange is trading at t
func (s *MarketHoursService) IsMarketOpen(exchange string, t time.Time) bool {
	return s.GetMarketStatus(exchange, t).IsOpen()
}

// GetAllStatuses computes the status of every active exchange concurrently,
// returned in catalogue position order.
func (s *MarketHoursService) GetAllStatuses(ctx context.Context, now time.Time) ([]StatusResult, error) {
	state := s.current()

	active := make([]*Schedule, 0, len(state.schedules))
	for _, sch := range state.schedules {
		if sch.exchange.IsActive {
			active = append(active, sch)
		}
	}

	results := make([]StatusResult, len(active))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, sch := range active {
		i, sch := i, sch
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = sch.Status(now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetOpenMarkets returns the slugs of active exchanges that are OPEN at t
func (s *MarketHoursService) GetOpenMarkets(t time.Time) []string {
	state := s.current()
	open := make([]string, 0)
	for _, sch := range state.schedules {
		if sch.exchange.IsActive && sch.Status(t).IsOpen() {
			open = append(open, sch.exchange.Slug)
		}
	}
	return open
}

// HolidaysForYear returns static and rule-derived holidays of an exchange, sorted by date
func (s *MarketHoursService) HolidaysForYear(exchange string, year int) ([]Holiday, error) {
	sch, err := s.Schedule(exchange)
	if err != nil {
		return nil, err
	}
	return sch.HolidaysForYear(year), nil
}

// IsTradingDay reports whether the exchange has an effective session on a local date
func (s *MarketHoursService) IsTradingDay(exchange string, date LocalDate) (bool, error) {
	sch, err := s.Schedule(exchange)
	if err != nil {
		return false, err
	}
	return sch.IsTradingDay(date), nil
}

// Exchanges returns every configured exchange in position order
func (s *MarketHoursService) Exchanges() []Exchange {
	state := s.current()
	exchanges := make([]Exchange, 0, len(state.schedules))
	for _, sch := range state.schedules {
		exchanges = append(exchanges, sch.exchange)
	}
	return exchanges
}

// SessionsFor returns the weekly sessions of an exchange ordered by weekday
func (s *MarketHoursService) SessionsFor(exchange string) ([]Session, error) {
	sch, err := s.Schedule(exchange)
	if err != nil {
		return nil, err
	}
	sessions := make([]Session, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if sess, ok := sch.SessionFor(wd); ok {
			sessions = append(sessions, sess)
		}
	}
	return sessions, nil
}
