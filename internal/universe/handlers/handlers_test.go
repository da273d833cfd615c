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
	"github.com/aristath/statarb/internal/universe"
)

type stubClient struct {
	valid map[string]string
	err   error
}

func (s *stubClient) GetDailyPrices(context.Context, string, string, string) (domain.PriceSeries, error) {
	return domain.PriceSeries{}, fmt.Errorf("not used")
}

func (s *stubClient) ValidateSymbol(_ context.Context, symbol string) (bool, string, error) {
	if s.err != nil {
		return false, "", s.err
	}
	name, ok := s.valid[symbol]
	return ok, name, nil
}

func testRouter(client universe.PriceClient) *chi.Mux {
	service := universe.NewService(client, nil, time.Hour, zerolog.Nop())
	handler := NewHandler(service, zerolog.Nop())

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router
}

func get(router *chi.Mux, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleListSectors(t *testing.T) {
	rec := get(testRouter(&stubClient{}), "/api/sectors")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sectors []string `json:"sectors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Finance", "Healthcare", "Tech", "Energy"}, body.Sectors)
}

func TestHandleSectorTickers(t *testing.T) {
	router := testRouter(&stubClient{})

	rec := get(router, "/api/sectors/Energy/tickers")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tickers []string `json:"tickers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"XOM", "CVX", "COP", "SLB", "EOG"}, body.Tickers)

	rec = get(router, "/api/sectors/Utilities/tickers")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleValidateTicker(t *testing.T) {
	router := testRouter(&stubClient{valid: map[string]string{"AAPL": "Apple Inc."}})

	rec := get(router, "/api/tickers/validate/aapl")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Valid bool   `json:"valid"`
		Name  string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Valid, "lowercased path parameter is normalized")
	assert.Equal(t, "Apple Inc.", body.Name)

	rec = get(router, "/api/tickers/validate/NOPE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Valid)
}

func TestHandleValidateTicker_UpstreamError(t *testing.T) {
	router := testRouter(&stubClient{err: fmt.Errorf("connection refused")})

	rec := get(router, "/api/tickers/validate/AAPL")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "upstream_error", body["code"])
}
