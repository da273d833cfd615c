// Package handlers provides HTTP handlers for the pair-screening engine.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/statarb/internal/domain"
	"github.com/aristath/statarb/internal/pairs"
)

// Handler handles pair-screening HTTP requests
type Handler struct {
	service      *pairs.Service
	defaultStart string
	log          zerolog.Logger
}

// NewHandler creates a new pairs handler. defaultStart is used when requests
// omit the start date; the end date defaults to today.
func NewHandler(service *pairs.Service, defaultStart string, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		defaultStart: defaultStart,
		log:          log.With().Str("handler", "pairs").Logger(),
	}
}

// HandleRiskMetrics handles GET /api/risk-metrics?tickerA=&tickerB=&start=&end=
func (h *Handler) HandleRiskMetrics(w http.ResponseWriter, r *http.Request) {
	tickerA := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("tickerA")))
	tickerB := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("tickerB")))
	if tickerA == "" || tickerB == "" {
		h.writeError(w, http.StatusBadRequest, "bad_request", "tickerA and tickerB are required")
		return
	}
	if tickerA == tickerB {
		h.writeError(w, http.StatusBadRequest, "bad_request", "tickerA and tickerB must differ")
		return
	}

	start, end, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	startTime := time.Now()
	result, err := h.service.ComputeMetrics(r.Context(), tickerA, tickerB, start, end)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.log.Info().
		Str("ticker_a", tickerA).
		Str("ticker_b", tickerB).
		Dur("elapsed", time.Since(startTime)).
		Msg("Risk metrics computed")

	h.writeJSON(w, http.StatusOK, result)
}

// HandleBestPair handles GET /api/best-pair?tickers=a,b,c&start=&end=
func (h *Handler) HandleBestPair(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tickers")
	var tickers []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) < 2 {
		h.writeError(w, http.StatusBadRequest, "bad_request", "at least 2 tickers are required")
		return
	}

	start, end, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	startTime := time.Now()
	result, err := h.service.FindBestPair(r.Context(), tickers, start, end)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.log.Info().
		Int("tickers", len(tickers)).
		Str("ticker_a", result.TickerA).
		Str("ticker_b", result.TickerB).
		Dur("elapsed", time.Since(startTime)).
		Msg("Best pair screening completed")

	h.writeJSON(w, http.StatusOK, result)
}

// HandleChartData handles GET /api/chart-data?tickerA=&tickerB=&start=&end=
func (h *Handler) HandleChartData(w http.ResponseWriter, r *http.Request) {
	tickerA := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("tickerA")))
	tickerB := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("tickerB")))
	if tickerA == "" || tickerB == "" {
		h.writeError(w, http.StatusBadRequest, "bad_request", "tickerA and tickerB are required")
		return
	}

	start, end, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	chart, err := h.service.ChartData(r.Context(), tickerA, tickerB, start, end)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker_a": tickerA,
		"ticker_b": tickerB,
		"points":   chart,
	})
}

// dateRange extracts and validates the start/end query parameters, applying
// defaults when omitted. Writes the error response itself on failure.
func (h *Handler) dateRange(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	start := r.URL.Query().Get("start")
	if start == "" {
		start = h.defaultStart
	}
	end := r.URL.Query().Get("end")
	if end == "" {
		end = time.Now().Format(domain.DateFormat)
	}

	startTime, err := time.Parse(domain.DateFormat, start)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "bad_request", "invalid start date, expected YYYY-MM-DD")
		return "", "", false
	}
	endTime, err := time.Parse(domain.DateFormat, end)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "bad_request", "invalid end date, expected YYYY-MM-DD")
		return "", "", false
	}
	if !startTime.Before(endTime) {
		h.writeError(w, http.StatusBadRequest, "bad_request", "start date must be before end date")
		return "", "", false
	}

	return start, end, true
}

// writeEngineError maps engine error kinds to distinct stable codes so the
// presentation layer can explain why no result was produced.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)

	var status int
	switch {
	case errors.Is(err, domain.ErrNoCandidatePair):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrDegenerateRegression),
		errors.Is(err, domain.ErrDegenerateSpread):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		h.log.Error().Err(err).Msg("Engine request failed")
	}

	h.writeError(w, status, code, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]string{
		"code":  code,
		"error": message,
	})
}
