package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/marketclock/marketclock/internal/database"
	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

// SystemHandlers serves process and catalogue diagnostics
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	startupTime time.Time
	source      string
	service     *market_hours.MarketHoursService
	catalogDB   *database.DB
	now         func() time.Time
	hostStats   func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance.
// catalogDB is nil when the embedded catalogue is served.
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	source string,
	service *market_hours.MarketHoursService,
	catalogDB *database.DB,
) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		startupTime: time.Now(),
		source:      source,
		service:     service,
		catalogDB:   catalogDB,
		now:         time.Now,
	}
	h.hostStats = h.getSystemStats
	return h
}

// CatalogSummary describes the catalogue currently served
type CatalogSummary struct {
	Source          string `json:"source"`
	Exchanges       int    `json:"exchanges"`
	ActiveExchanges int    `json:"active_exchanges"`
	OpenMarkets     int    `json:"open_markets"`
}

// RuntimeStats describes the Go runtime
type RuntimeStats struct {
	GoVersion   string  `json:"go_version"`
	Goroutines  int     `json:"goroutines"`
	HeapAllocMB float64 `json:"heap_alloc_mb"`
	SysMB       float64 `json:"sys_mb"`
	NumGC       uint32  `json:"num_gc"`
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status        string         `json:"status"`
	StartedAt     string         `json:"started_at"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Uptime        string         `json:"uptime"`
	CPUPercent    float64        `json:"cpu_percent"`
	MemoryPercent float64        `json:"memory_percent"`
	DataDirMB     float64        `json:"data_dir_mb"`
	Runtime       RuntimeStats   `json:"runtime"`
	Catalog       CatalogSummary `json:"catalog"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	uptime := now.Sub(h.startupTime).Truncate(time.Second)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	cpuPercent, memPercent := h.hostStats()

	summary := CatalogSummary{Source: h.source}
	if h.service != nil {
		for _, ex := range h.service.Exchanges() {
			summary.Exchanges++
			if ex.IsActive {
				summary.ActiveExchanges++
			}
		}
		summary.OpenMarkets = len(h.service.GetOpenMarkets(now))
	}

	response := SystemStatusResponse{
		Status:        "ok",
		StartedAt:     h.startupTime.UTC().Format(time.RFC3339),
		UptimeSeconds: int64(uptime.Seconds()),
		Uptime:        uptime.String(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		DataDirMB:     h.getDirSize(h.dataDir),
		Runtime: RuntimeStats{
			GoVersion:   runtime.Version(),
			Goroutines:  runtime.NumGoroutine(),
			HeapAllocMB: float64(memStats.HeapAlloc) / 1024 / 1024,
			SysMB:       float64(memStats.Sys) / 1024 / 1024,
			NumGC:       memStats.NumGC,
		},
		Catalog: summary,
	}

	h.writeJSON(w, response)
}

// DatabaseStatsResponse represents the catalogue database diagnostics
type DatabaseStatsResponse struct {
	Name    string          `json:"name"`
	Driver  string          `json:"driver"`
	Path    string          `json:"path,omitempty"`
	Profile string          `json:"profile,omitempty"`
	Stats   *database.Stats `json:"stats,omitempty"`
}

// HandleDatabaseStats handles GET /api/system/database
// Returns 404 when the embedded catalogue is served
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	if h.catalogDB == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "no catalog database configured"})
		return
	}

	response := DatabaseStatsResponse{
		Name:    h.catalogDB.Name(),
		Driver:  h.catalogDB.Driver(),
		Path:    h.catalogDB.Path(),
		Profile: string(h.catalogDB.Profile()),
	}

	if h.catalogDB.Driver() == database.DriverSQLite {
		stats, err := h.catalogDB.GetStats()
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to get database stats")
			http.Error(w, "Failed to get database stats", http.StatusInternalServerError)
			return
		}
		response.Stats = stats
	}

	h.writeJSON(w, response)
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	if dirPath == "" {
		return 0
	}

	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short sampling interval (100ms) to keep the endpoint responsive
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
