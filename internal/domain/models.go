// Package domain provides core domain models and types for pair screening.
package domain

// DateFormat is the calendar-date layout used across the engine.
// Dates are kept as strings so series align and sort lexicographically.
const DateFormat = "2006-01-02"

// PricePoint is a single (date, adjusted close) observation.
type PricePoint struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	AdjClose float64 `json:"adj_close"`
}

// PriceSeries is an ordered daily price history for one symbol.
// Dates are strictly increasing with no duplicates.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Dates returns the ordered date column of the series.
func (s PriceSeries) Dates() []string {
	dates := make([]string, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Prices returns the ordered adjusted-close column of the series.
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Points))
	for i, p := range s.Points {
		prices[i] = p.AdjClose
	}
	return prices
}

// AlignedPair holds two price series restricted to their common trading
// dates. PricesA and PricesB always have the same length as Dates.
type AlignedPair struct {
	SymbolA string    `json:"symbol_a"`
	SymbolB string    `json:"symbol_b"`
	Dates   []string  `json:"dates"`
	PricesA []float64 `json:"prices_a"`
	PricesB []float64 `json:"prices_b"`
}

// Len returns the number of aligned observations.
func (p AlignedPair) Len() int {
	return len(p.Dates)
}

// HedgeRatio is the OLS fit of prices A on prices B over the aligned window.
type HedgeRatio struct {
	Slope     float64 `json:"slope"` // units of B per unit of A
	Intercept float64 `json:"intercept"`
}

// SpreadPoint is one observation of the spread and its z-score.
type SpreadPoint struct {
	Date   string  `json:"date"`
	Spread float64 `json:"spread"` // priceA - slope*priceB
	ZScore float64 `json:"z_score"`
}

// SpreadSeries is the spread between an aligned pair, with full-window
// statistics. HalfLifeDays is 0 when the AR(1) fit is not mean-reverting.
type SpreadSeries struct {
	Points       []SpreadPoint `json:"points"`
	Mean         float64       `json:"mean"`
	StdDev       float64       `json:"std_dev"`
	HalfLifeDays float64       `json:"half_life_days"`
}

// LatestZScore returns the z-score of the most recent observation.
func (s SpreadSeries) LatestZScore() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].ZScore
}

// Direction is the side of an open spread position.
type Direction string

const (
	// LongSpread means long A / short B, entered when the spread is
	// unusually low.
	LongSpread Direction = "LONG_SPREAD"
	// ShortSpread means short A / long B, entered when the spread is
	// unusually high.
	ShortSpread Direction = "SHORT_SPREAD"
)

// Trade is one completed round trip of the simulated strategy.
// Immutable once closed.
type Trade struct {
	EntryDate        string    `json:"entry_date"`
	ExitDate         string    `json:"exit_date"`
	Direction        Direction `json:"direction"`
	EntryZ           float64   `json:"entry_z"`
	ExitZ            float64   `json:"exit_z"`
	EntrySpread      float64   `json:"entry_spread"`
	ExitSpread       float64   `json:"exit_spread"`
	Return           float64   `json:"return"` // realized, signed
	AdverseExcursion float64   `json:"adverse_excursion"`
	DurationDays     int       `json:"duration_days"`
	ForcedClose      bool      `json:"forced_close"` // closed at series end
}

// MetricsReport is the fixed 18-entry risk/performance report.
// All undefined ratios report 0 (never NaN or Inf) so the report stays
// JSON-serializable.
type MetricsReport struct {
	CumulativeReturn float64 `json:"cumulative_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	SortinoRatio     float64 `json:"sortino_ratio"`
	CalmarRatio      float64 `json:"calmar_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	VaR95            float64 `json:"var_95"`
	CVaR95           float64 `json:"cvar_95"`
	ProfitFactor     float64 `json:"profit_factor"`
	MAE              float64 `json:"mae"` // mean adverse excursion of closed trades
	ADFStatistic     float64 `json:"adf_statistic"`
	PValue           float64 `json:"p_value"` // cointegration ADF p-value
	HedgeRatio       float64 `json:"hedge_ratio"`
	HalfLifeDays     float64 `json:"half_life_days"`
	NumberOfTrades   float64 `json:"number_of_trades"`
	WinRate          float64 `json:"win_rate"`
	MeanDuration     float64 `json:"mean_duration"` // days
	ZScore           float64 `json:"z_score"`       // latest
}

// ChartPoint is one display row of the aligned window, consumed by the
// presentation layer.
type ChartPoint struct {
	Date   string  `json:"date"`
	PriceA float64 `json:"price_a"`
	PriceB float64 `json:"price_b"`
}

// PairResult is the outcome of evaluating one explicit pair.
type PairResult struct {
	TickerA   string        `json:"ticker_a"`
	TickerB   string        `json:"ticker_b"`
	Metrics   MetricsReport `json:"metrics"`
	ChartData []ChartPoint  `json:"chart_data"`
}

// BestPairResult is the winner of a screening run.
type BestPairResult struct {
	PairResult
	CandidatesTried   int `json:"candidates_tried"`
	CandidatesSkipped int `json:"candidates_skipped"`
}
