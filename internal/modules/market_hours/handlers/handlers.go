// Package handlers provides HTTP handlers for market hours operations.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/marketclock/marketclock/internal/events"
	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

const defaultTransitionsLimit = 50

// Handler handles market hours HTTP requests
type Handler struct {
	service     *market_hours.MarketHoursService
	transitions *events.TransitionLog
	now         func() time.Time
	log         zerolog.Logger
}

// NewHandler creates a new market hours handler.
// transitions may be nil, in which case the transitions endpoint returns an empty list.
func NewHandler(
	service *market_hours.MarketHoursService,
	transitions *events.TransitionLog,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service:     service,
		transitions: transitions,
		now:         time.Now,
		log:         log.With().Str("handler", "market_hours").Logger(),
	}
}

// HandleGetExchanges handles GET /api/market-hours/exchanges
// Returns the catalogue of exchanges, inactive ones included
func (h *Handler) HandleGetExchanges(w http.ResponseWriter, r *http.Request) {
	exchanges := h.service.Exchanges()

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"exchanges": exchanges,
		"count":     len(exchanges),
	})
}

// HandleGetStatus handles GET /api/market-hours/status
// Returns the status of every active exchange, ordered by position
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	now, ok := h.instant(w, r)
	if !ok {
		return
	}

	markets, err := h.service.GetAllStatuses(r.Context(), now)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute market statuses")
		h.writeError(w, http.StatusInternalServerError, "Failed to compute market statuses")
		return
	}

	openCount := 0
	for _, m := range markets {
		if m.IsOpen() {
			openCount++
		}
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"timestamp":  now.Format(time.RFC3339),
		"markets":    markets,
		"open_count": openCount,
	})
}

// HandleGetStatusByExchange handles GET /api/market-hours/status/{exchange}
// Returns the status of one exchange looked up by slug or id
func (h *Handler) HandleGetStatusByExchange(w http.ResponseWriter, r *http.Request) {
	now, ok := h.instant(w, r)
	if !ok {
		return
	}

	exchange := chi.URLParam(r, "exchange")
	result := h.service.GetMarketStatus(exchange, now)

	status := http.StatusOK
	if result.Status == market_hours.StatusNotFound {
		status = http.StatusNotFound
	}
	h.writeData(w, status, result)
}

// HandleGetOpenMarkets handles GET /api/market-hours/open-markets
// Returns list of currently open exchanges
func (h *Handler) HandleGetOpenMarkets(w http.ResponseWriter, r *http.Request) {
	now, ok := h.instant(w, r)
	if !ok {
		return
	}

	openMarkets := h.service.GetOpenMarkets(now)

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"timestamp":    now.Format(time.RFC3339),
		"open_markets": openMarkets,
		"count":        len(openMarkets),
	})
}

// HandleGetHolidays handles GET /api/market-hours/holidays
// Returns static and rule-derived holidays for one exchange, or every exchange, in a year
func (h *Handler) HandleGetHolidays(w http.ResponseWriter, r *http.Request) {
	// Get year from query param, default to current year
	year := h.now().Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsedYear, err := strconv.Atoi(yearStr)
		if err != nil || parsedYear < 1 || parsedYear > 9999 {
			h.writeError(w, http.StatusBadRequest, "year must be a number between 1 and 9999")
			return
		}
		year = parsedYear
	}

	holidaysByExchange := make(map[string][]market_hours.Holiday)

	if exchange := r.URL.Query().Get("exchange"); exchange != "" {
		// One lookup so a concurrent reload cannot swap the schedule underneath us
		schedule, err := h.service.Schedule(exchange)
		if err != nil {
			h.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown exchange %q", exchange))
			return
		}
		holidaysByExchange[schedule.Exchange().Slug] = schedule.HolidaysForYear(year)
	} else {
		for _, ex := range h.service.Exchanges() {
			holidays, err := h.service.HolidaysForYear(ex.Slug, year)
			if err != nil {
				h.log.Warn().Err(err).Str("exchange", ex.Slug).Msg("Failed to get holidays")
				continue
			}
			if len(holidays) > 0 {
				holidaysByExchange[ex.Slug] = holidays
			}
		}
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"year":     year,
		"holidays": holidaysByExchange,
	})
}

// HandleGetTradingDay handles GET /api/market-hours/trading-day?exchange=&date=
// Reports whether a local date has a session and when the next one opens
func (h *Handler) HandleGetTradingDay(w http.ResponseWriter, r *http.Request) {
	exchange := r.URL.Query().Get("exchange")
	if exchange == "" {
		h.writeError(w, http.StatusBadRequest, "exchange parameter is required")
		return
	}

	schedule, err := h.service.Schedule(exchange)
	if err != nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown exchange %q", exchange))
		return
	}

	date := market_hours.DateOf(h.now().In(schedule.Location()))
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err = market_hours.ParseLocalDate(dateStr)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	data := map[string]interface{}{
		"exchange":       schedule.Exchange().Slug,
		"date":           date.String(),
		"is_trading_day": schedule.IsTradingDay(date),
		"rule_coverage":  schedule.HasRuleCoverage(),
	}
	if holiday, ok := schedule.Resolve(date); ok {
		data["holiday"] = holiday
	}
	if next, opensAt, found := schedule.FindNextTradingDay(date); found {
		data["next_trading_day"] = next.String()
		data["next_open_at_local"] = opensAt.In(schedule.Location())
	}

	h.writeData(w, http.StatusOK, data)
}

// HandleGetTransitions handles GET /api/market-hours/transitions?exchange=&limit=
// Returns the most recent status transitions, newest first
func (h *Handler) HandleGetTransitions(w http.ResponseWriter, r *http.Request) {
	limit := defaultTransitionsLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = parsed
	}

	transitions := []events.MarketStatusChangedData{}
	if h.transitions != nil {
		transitions = h.transitions.Recent(limit, r.URL.Query().Get("exchange"))
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"transitions": transitions,
		"count":       len(transitions),
	})
}

// instant returns the evaluation instant: the optional "at" query parameter or the current time
func (h *Handler) instant(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	at := r.URL.Query().Get("at")
	if at == "" {
		return h.now(), true
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "at must be an RFC3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": h.now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": message,
		"metadata": map[string]interface{}{
			"timestamp": h.now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
