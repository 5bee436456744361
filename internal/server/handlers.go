package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// handleHealth handles health check requests.
// Reports "degraded" with 503 when the catalogue database failed its last check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "marketclock",
	}
	status := http.StatusOK

	if s.statusMonitor != nil {
		health := s.statusMonitor.Health()
		database := map[string]interface{}{
			"healthy": health.Healthy,
		}
		if !health.CheckedAt.IsZero() {
			database["checked_at"] = health.CheckedAt.UTC().Format(time.RFC3339)
		}
		if health.Error != "" {
			database["error"] = health.Error
		}
		response["database"] = database

		if !health.Healthy {
			response["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, status, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
