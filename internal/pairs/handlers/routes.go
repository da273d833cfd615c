package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes registers the pair-screening routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	// Screening over many candidates can take a while on large windows
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(120 * time.Second))

		r.Get("/risk-metrics", h.HandleRiskMetrics)
		r.Get("/best-pair", h.HandleBestPair)
		r.Get("/chart-data", h.HandleChartData)
	})
}
