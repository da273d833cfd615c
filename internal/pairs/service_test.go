package pairs

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/statarb/internal/domain"
)

// fakeProvider serves canned price series keyed by symbol.
type fakeProvider struct {
	series map[string]domain.PriceSeries
	errs   map[string]error
	calls  map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		series: make(map[string]domain.PriceSeries),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeProvider) GetPriceSeries(_ context.Context, symbol, _, _ string) (domain.PriceSeries, error) {
	f.calls[symbol]++
	if err, ok := f.errs[symbol]; ok {
		return domain.PriceSeries{}, err
	}
	s, ok := f.series[symbol]
	if !ok {
		return domain.PriceSeries{}, fmt.Errorf("no data for %s", symbol)
	}
	return s, nil
}

// correlatedPairSeries builds the canonical cointegrated fixture: A repeats
// a five-day pattern and B tracks half of A with a small oscillation so the
// spread is stationary but not degenerate.
func correlatedPairSeries(n int) (domain.PriceSeries, domain.PriceSeries) {
	pattern := []float64{100, 101, 99, 102, 100}
	dates := businessDates(n)
	pricesA := make([]float64, n)
	pricesB := make([]float64, n)
	for i := 0; i < n; i++ {
		pricesA[i] = pattern[i%len(pattern)]
		wiggle := 0.02
		if i%2 == 1 {
			wiggle = -0.02
		}
		pricesB[i] = pricesA[i]/2 + wiggle
	}
	return makeSeries("A", dates, pricesA), makeSeries("B", dates, pricesB)
}

func testService(provider PriceProvider, workers int) *Service {
	return NewService(provider, workers, zerolog.Nop())
}

func TestComputeMetrics_CointegratedPair(t *testing.T) {
	provider := newFakeProvider()
	provider.series["A"], provider.series["B"] = correlatedPairSeries(100)

	svc := testService(provider, 1)
	result, err := svc.ComputeMetrics(context.Background(), "A", "B", "2024-01-01", "2024-12-31")
	require.NoError(t, err)

	assert.Equal(t, "A", result.TickerA)
	assert.Equal(t, "B", result.TickerB)

	// B is half of A, so the hedge ratio is 2 within 1%
	assert.InDelta(t, 2.0, result.Metrics.HedgeRatio, 0.02)

	// The oscillating spread is strongly stationary
	assert.Less(t, result.Metrics.PValue, 0.05)

	// Chart data covers the aligned window
	assert.Len(t, result.ChartData, 100)
	assert.Equal(t, businessDates(100)[0], result.ChartData[0].Date)
}

func TestComputeMetrics_FetchErrorPropagates(t *testing.T) {
	provider := newFakeProvider()
	provider.series["A"], _ = correlatedPairSeries(100)
	provider.errs["B"] = fmt.Errorf("upstream unavailable")

	svc := testService(provider, 1)
	_, err := svc.ComputeMetrics(context.Background(), "A", "B", "2024-01-01", "2024-12-31")
	assert.ErrorContains(t, err, "upstream unavailable")
}

func TestComputeMetrics_InsufficientOverlap(t *testing.T) {
	provider := newFakeProvider()
	a, b := correlatedPairSeries(100)
	b.Points = b.Points[:20] // only 20 common dates
	provider.series["A"], provider.series["B"] = a, b

	svc := testService(provider, 1)
	_, err := svc.ComputeMetrics(context.Background(), "A", "B", "2024-01-01", "2024-12-31")
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestComputeMetrics_DegenerateSpread(t *testing.T) {
	provider := newFakeProvider()
	a, _ := correlatedPairSeries(100)
	b := domain.PriceSeries{Symbol: "B"}
	for _, p := range a.Points {
		b.Points = append(b.Points, domain.PricePoint{Date: p.Date, AdjClose: p.AdjClose / 2})
	}
	provider.series["A"], provider.series["B"] = a, b

	svc := testService(provider, 1)
	_, err := svc.ComputeMetrics(context.Background(), "A", "B", "2024-01-01", "2024-12-31")
	assert.ErrorIs(t, err, domain.ErrDegenerateSpread)
}

func TestChartData(t *testing.T) {
	provider := newFakeProvider()
	provider.series["A"], provider.series["B"] = correlatedPairSeries(60)

	svc := testService(provider, 1)
	chart, err := svc.ChartData(context.Background(), "A", "B", "2024-01-01", "2024-12-31")
	require.NoError(t, err)

	require.Len(t, chart, 60)
	for i, p := range chart {
		assert.InDelta(t, p.PriceA/2, p.PriceB, 0.03, "row %d", i)
	}
}
