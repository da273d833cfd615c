// Package handlers provides HTTP handlers for ticker reference data.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/statarb/internal/universe"
)

// Handler handles universe HTTP requests
type Handler struct {
	service *universe.Service
	log     zerolog.Logger
}

// NewHandler creates a new universe handler
func NewHandler(service *universe.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "universe").Logger(),
	}
}

// RegisterRoutes registers the universe routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sectors", h.HandleListSectors)
	r.Get("/sectors/{sector}/tickers", h.HandleSectorTickers)
	r.Get("/tickers/validate/{ticker}", h.HandleValidateTicker)
}

// HandleListSectors handles GET /api/sectors
func (h *Handler) HandleListSectors(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sectors": universe.Sectors(),
	})
}

// HandleSectorTickers handles GET /api/sectors/{sector}/tickers
func (h *Handler) HandleSectorTickers(w http.ResponseWriter, r *http.Request) {
	sector := chi.URLParam(r, "sector")

	tickers, ok := universe.SectorTickers(sector)
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{
			"code":  "unknown_sector",
			"error": "sector " + sector + " not found",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tickers": tickers,
	})
}

// HandleValidateTicker handles GET /api/tickers/validate/{ticker}
func (h *Handler) HandleValidateTicker(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	valid, name, err := h.service.ValidateTicker(r.Context(), ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Ticker validation failed")
		h.writeJSON(w, http.StatusBadGateway, map[string]string{
			"code":  "upstream_error",
			"error": "failed to validate ticker",
		})
		return
	}

	if !valid {
		h.writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"valid": false,
			"name":  "",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"name":  name,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
