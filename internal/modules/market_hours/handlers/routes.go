package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all market hours routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market-hours", func(r chi.Router) {
		r.Get("/exchanges", h.HandleGetExchanges)
		r.Get("/status", h.HandleGetStatus)
		r.Get("/status/{exchange}", h.HandleGetStatusByExchange)
		r.Get("/open-markets", h.HandleGetOpenMarkets)
		r.Get("/holidays", h.HandleGetHolidays)
		r.Get("/trading-day", h.HandleGetTradingDay)
		r.Get("/transitions", h.HandleGetTransitions)
	})
}
