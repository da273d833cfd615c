package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/statarb/internal/clientdata"
)

// SystemHandlers serves process and cache status for the dashboard.
type SystemHandlers struct {
	log         zerolog.Logger
	priceCache  *clientdata.Repository
	startupTime time.Time
}

// NewSystemHandlers creates system handlers
func NewSystemHandlers(log zerolog.Logger, priceCache *clientdata.Repository) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		priceCache:  priceCache,
		startupTime: time.Now(),
	}
}

// SystemStatusResponse is the payload for GET /api/system/status.
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	UptimeHours   float64 `json:"uptime_hours"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	CachedWindows int64   `json:"cached_price_windows"`
	Timestamp     string  `json:"timestamp"`
}

// HandleSystemStatus returns process health and cache statistics
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPct, ramPct := h.getSystemStats()

	var cachedWindows int64
	if h.priceCache != nil {
		count, err := h.priceCache.Count()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to count cached price windows")
		} else {
			cachedWindows = count
		}
	}

	response := SystemStatusResponse{
		Status:        "ok",
		UptimeHours:   time.Since(h.startupTime).Hours(),
		CPUPercent:    cpuPct,
		RAMPercent:    ramPct,
		CachedWindows: cachedWindows,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a shorter interval (100ms) to avoid blocking the API call for too long
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
