package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/statarb/internal/domain"
	"github.com/aristath/statarb/internal/pairs"
)

// stubProvider serves canned series keyed by symbol.
type stubProvider struct {
	series map[string]domain.PriceSeries
	errs   map[string]error
}

func (s *stubProvider) GetPriceSeries(_ context.Context, symbol, _, _ string) (domain.PriceSeries, error) {
	if err, ok := s.errs[symbol]; ok {
		return domain.PriceSeries{}, err
	}
	ps, ok := s.series[symbol]
	if !ok {
		return domain.PriceSeries{}, fmt.Errorf("no data for %s", symbol)
	}
	return ps, nil
}

// cointegratedFixture builds two series where B tracks half of A with a
// small oscillation.
func cointegratedFixture(n int) map[string]domain.PriceSeries {
	pattern := []float64{100, 101, 99, 102, 100}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var a, b domain.PriceSeries
	a.Symbol, b.Symbol = "AAA", "BBB"
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, i).Format(domain.DateFormat)
		priceA := pattern[i%len(pattern)]
		wiggle := 0.02
		if i%2 == 1 {
			wiggle = -0.02
		}
		a.Points = append(a.Points, domain.PricePoint{Date: date, AdjClose: priceA})
		b.Points = append(b.Points, domain.PricePoint{Date: date, AdjClose: priceA/2 + wiggle})
	}
	return map[string]domain.PriceSeries{"AAA": a, "BBB": b}
}

func testRouter(provider pairs.PriceProvider) *chi.Mux {
	service := pairs.NewService(provider, 2, zerolog.Nop())
	handler := NewHandler(service, "2016-01-01", zerolog.Nop())

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router
}

func doRequest(t *testing.T, router *chi.Mux, url string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandleRiskMetrics_OK(t *testing.T) {
	router := testRouter(&stubProvider{series: cointegratedFixture(100)})

	rec, _ := doRequest(t, router, "/api/risk-metrics?tickerA=aaa&tickerB=BBB&start=2024-01-01&end=2024-12-31")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result domain.PairResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "AAA", result.TickerA) // lowercased input is normalized
	assert.Equal(t, "BBB", result.TickerB)
	assert.InDelta(t, 2.0, result.Metrics.HedgeRatio, 0.02)
	assert.Less(t, result.Metrics.PValue, 0.05)
	assert.NotEmpty(t, result.ChartData)
}

func TestHandleRiskMetrics_Validation(t *testing.T) {
	router := testRouter(&stubProvider{series: cointegratedFixture(100)})

	tests := []struct {
		name string
		url  string
	}{
		{"missing tickers", "/api/risk-metrics"},
		{"identical tickers", "/api/risk-metrics?tickerA=AAA&tickerB=AAA"},
		{"bad start date", "/api/risk-metrics?tickerA=AAA&tickerB=BBB&start=01/02/2024"},
		{"bad end date", "/api/risk-metrics?tickerA=AAA&tickerB=BBB&end=soon"},
		{"inverted range", "/api/risk-metrics?tickerA=AAA&tickerB=BBB&start=2024-06-01&end=2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doRequest(t, router, tt.url)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `"bad_request"`, string(body["code"]))
		})
	}
}

func TestHandleRiskMetrics_EngineErrorCodes(t *testing.T) {
	// Only 10 overlapping observations
	short := cointegratedFixture(10)

	router := testRouter(&stubProvider{series: short})
	rec, body := doRequest(t, router, "/api/risk-metrics?tickerA=AAA&tickerB=BBB&start=2024-01-01&end=2024-12-31")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `"insufficient_data"`, string(body["code"]))
}

func TestHandleRiskMetrics_UpstreamFailure(t *testing.T) {
	provider := &stubProvider{
		series: cointegratedFixture(100),
		errs:   map[string]error{"BBB": fmt.Errorf("connection refused")},
	}

	router := testRouter(provider)
	rec, body := doRequest(t, router, "/api/risk-metrics?tickerA=AAA&tickerB=BBB&start=2024-01-01&end=2024-12-31")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `"internal_error"`, string(body["code"]))
}

func TestHandleBestPair_OK(t *testing.T) {
	router := testRouter(&stubProvider{series: cointegratedFixture(100)})

	rec, _ := doRequest(t, router, "/api/best-pair?tickers=AAA,BBB&start=2024-01-01&end=2024-12-31")
	assert.Equal(t, http.StatusOK, rec.Code)

	var result domain.BestPairResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "AAA", result.TickerA)
	assert.Equal(t, "BBB", result.TickerB)
	assert.Equal(t, 1, result.CandidatesTried)
}

func TestHandleBestPair_RequiresTwoTickers(t *testing.T) {
	router := testRouter(&stubProvider{series: cointegratedFixture(100)})

	rec, body := doRequest(t, router, "/api/best-pair?tickers=AAA")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `"bad_request"`, string(body["code"]))

	// Empty entries from stray commas are dropped before the count check
	rec, _ = doRequest(t, router, "/api/best-pair?tickers=AAA,,")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBestPair_NoCandidatePair(t *testing.T) {
	provider := &stubProvider{
		errs: map[string]error{
			"AAA": fmt.Errorf("connection refused"),
			"BBB": fmt.Errorf("connection refused"),
		},
	}

	router := testRouter(provider)
	rec, body := doRequest(t, router, "/api/best-pair?tickers=AAA,BBB&start=2024-01-01&end=2024-12-31")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `"no_candidate_pair"`, string(body["code"]))
}

func TestHandleChartData_OK(t *testing.T) {
	router := testRouter(&stubProvider{series: cointegratedFixture(60)})

	rec, body := doRequest(t, router, "/api/chart-data?tickerA=AAA&tickerB=BBB&start=2024-01-01&end=2024-12-31")
	assert.Equal(t, http.StatusOK, rec.Code)

	var points []domain.ChartPoint
	require.NoError(t, json.Unmarshal(body["points"], &points))
	assert.Len(t, points, 60)
	assert.Equal(t, "2024-01-01", points[0].Date)
}
