package pairs

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/aristath/statarb/internal/domain"
)

// PriceProvider supplies daily adjusted-close series for the engine.
// Retrieval (network, caching) lives entirely behind this boundary; the
// engine itself is pure computation.
type PriceProvider interface {
	GetPriceSeries(ctx context.Context, symbol, start, end string) (domain.PriceSeries, error)
}

// Service orchestrates the screening pipeline: alignment, regression,
// stationarity testing, spread construction, trade simulation and metrics.
// Stateless between invocations; every request is a pure function of its
// inputs plus the provided price data.
type Service struct {
	prices  PriceProvider
	workers int
	log     zerolog.Logger
}

// NewService creates a new pairs service. workers controls screening
// parallelism; 0 means one worker per CPU.
func NewService(prices PriceProvider, workers int, log zerolog.Logger) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Service{
		prices:  prices,
		workers: workers,
		log:     log.With().Str("service", "pairs").Logger(),
	}
}

// ComputeMetrics evaluates one explicit pair over [start, end] and returns
// the full metrics report with display chart data. Engine errors
// (insufficient data, degenerate regression or spread) propagate to the
// caller unchanged.
func (s *Service) ComputeMetrics(ctx context.Context, tickerA, tickerB, start, end string) (domain.PairResult, error) {
	seriesA, err := s.prices.GetPriceSeries(ctx, tickerA, start, end)
	if err != nil {
		return domain.PairResult{}, err
	}
	seriesB, err := s.prices.GetPriceSeries(ctx, tickerB, start, end)
	if err != nil {
		return domain.PairResult{}, err
	}

	eval, err := evaluatePair(seriesA, seriesB)
	if err != nil {
		return domain.PairResult{}, err
	}

	s.log.Debug().
		Str("ticker_a", tickerA).
		Str("ticker_b", tickerB).
		Float64("p_value", eval.adf.PValue).
		Float64("hedge_ratio", eval.hedge.Slope).
		Msg("Computed pair metrics")

	return eval.toPairResult(), nil
}

// pairEvaluation is the intermediate outcome of running the full pipeline
// on one aligned pair.
type pairEvaluation struct {
	pair   domain.AlignedPair
	hedge  domain.HedgeRatio
	adf    ADFResult
	spread domain.SpreadSeries
	sim    SimulationResult
}

// evaluatePair runs the whole pipeline on two raw price series. The hedge
// ratio is fit fresh for every request; nothing is cached across windows.
func evaluatePair(seriesA, seriesB domain.PriceSeries) (*pairEvaluation, error) {
	aligned, err := AlignPair(seriesA, seriesB)
	if err != nil {
		return nil, err
	}

	hedge, err := FitHedgeRatio(aligned.PricesA, aligned.PricesB)
	if err != nil {
		return nil, err
	}

	spread, err := BuildSpread(aligned, hedge)
	if err != nil {
		return nil, err
	}

	// ADF on the spread. The test regression includes a constant, so the
	// statistic is identical on the spread and on the intercept-adjusted
	// regression residuals.
	values := make([]float64, len(spread.Points))
	for i, p := range spread.Points {
		values[i] = p.Spread
	}
	adf, err := ADFTest(values)
	if err != nil {
		return nil, err
	}

	sim := Simulate(aligned, hedge, spread)

	return &pairEvaluation{
		pair:   aligned,
		hedge:  hedge,
		adf:    adf,
		spread: spread,
		sim:    sim,
	}, nil
}

// toPairResult shapes an evaluation into the external contract.
func (e *pairEvaluation) toPairResult() domain.PairResult {
	chart := make([]domain.ChartPoint, e.pair.Len())
	for i := range e.pair.Dates {
		chart[i] = domain.ChartPoint{
			Date:   e.pair.Dates[i],
			PriceA: e.pair.PricesA[i],
			PriceB: e.pair.PricesB[i],
		}
	}

	return domain.PairResult{
		TickerA:   e.pair.SymbolA,
		TickerB:   e.pair.SymbolB,
		Metrics:   CalculateMetrics(e.sim, e.spread, e.hedge, e.adf),
		ChartData: chart,
	}
}

// ChartData returns the aligned price rows for a pair without running the
// statistical pipeline. Used by the display layer.
func (s *Service) ChartData(ctx context.Context, tickerA, tickerB, start, end string) ([]domain.ChartPoint, error) {
	seriesA, err := s.prices.GetPriceSeries(ctx, tickerA, start, end)
	if err != nil {
		return nil, err
	}
	seriesB, err := s.prices.GetPriceSeries(ctx, tickerB, start, end)
	if err != nil {
		return nil, err
	}

	aligned, err := AlignPair(seriesA, seriesB)
	if err != nil {
		return nil, err
	}

	chart := make([]domain.ChartPoint, aligned.Len())
	for i := range aligned.Dates {
		chart[i] = domain.ChartPoint{
			Date:   aligned.Dates[i],
			PriceA: aligned.PricesA[i],
			PriceB: aligned.PricesB[i],
		}
	}
	return chart, nil
}

// validateTickers rejects empty and duplicate symbols before any network
// round trip.
func validateTickers(tickers []string) error {
	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		if t == "" {
			return fmt.Errorf("empty ticker symbol")
		}
		if seen[t] {
			return fmt.Errorf("duplicate ticker symbol: %s", t)
		}
		seen[t] = true
	}
	return nil
}
