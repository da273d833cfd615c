package pairs

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/statarb/internal/domain"
)

func TestCalculateMetrics_NoTrades(t *testing.T) {
	sim := SimulationResult{DailyReturns: make([]float64, 50)}
	spread := domain.SpreadSeries{HalfLifeDays: 3.5}
	hedge := domain.HedgeRatio{Slope: 1.2}
	adf := ADFResult{Statistic: -3.1, PValue: 0.025}

	report := CalculateMetrics(sim, spread, hedge, adf)

	// Trade statistics stay at the 0 sentinel
	assert.Equal(t, 0.0, report.NumberOfTrades)
	assert.Equal(t, 0.0, report.WinRate)
	assert.Equal(t, 0.0, report.ProfitFactor)
	assert.Equal(t, 0.0, report.MeanDuration)
	assert.Equal(t, 0.0, report.MAE)

	// Return statistics of a flat series are all zero
	assert.Equal(t, 0.0, report.CumulativeReturn)
	assert.Equal(t, 0.0, report.SharpeRatio)
	assert.Equal(t, 0.0, report.CalmarRatio)
	assert.Equal(t, 0.0, report.MaxDrawdown)

	// Statistical fields pass through
	assert.Equal(t, -3.1, report.ADFStatistic)
	assert.Equal(t, 0.025, report.PValue)
	assert.Equal(t, 1.2, report.HedgeRatio)
	assert.Equal(t, 3.5, report.HalfLifeDays)
}

func TestCalculateMetrics_TradeStats(t *testing.T) {
	sim := SimulationResult{
		Trades: []domain.Trade{
			{Return: 0.10, DurationDays: 4, AdverseExcursion: 0.02},
			{Return: -0.05, DurationDays: 2, AdverseExcursion: 0.06},
			{Return: 0.02, DurationDays: 6, AdverseExcursion: 0.0},
		},
		DailyReturns: []float64{0.01, -0.02, 0.03, 0.0, 0.01, -0.01},
	}

	report := CalculateMetrics(sim, domain.SpreadSeries{}, domain.HedgeRatio{}, ADFResult{})

	assert.Equal(t, 3.0, report.NumberOfTrades)
	assert.InDelta(t, 2.0/3.0, report.WinRate, 1e-9)
	assert.InDelta(t, 0.12/0.05, report.ProfitFactor, 1e-9)
	assert.InDelta(t, 4.0, report.MeanDuration, 1e-9)
	assert.InDelta(t, 0.08/3.0, report.MAE, 1e-9)
}

func TestCalculateMetrics_ProfitFactorNoLosses(t *testing.T) {
	sim := SimulationResult{
		Trades: []domain.Trade{
			{Return: 0.10, DurationDays: 1},
			{Return: 0.05, DurationDays: 1},
		},
		DailyReturns: []float64{0.05, 0.05, 0.05},
	}

	report := CalculateMetrics(sim, domain.SpreadSeries{}, domain.HedgeRatio{}, ADFResult{})

	// All winners: the ratio is undefined, sentinel 0
	assert.Equal(t, 0.0, report.ProfitFactor)
	assert.Equal(t, 1.0, report.WinRate)
}

func TestCalculateMetrics_NeverNaNOrInf(t *testing.T) {
	cases := []SimulationResult{
		{},
		{DailyReturns: []float64{0}},
		{DailyReturns: []float64{-1.0}}, // total loss in one day
		{
			Trades:       []domain.Trade{{Return: -0.5, DurationDays: 1}},
			DailyReturns: []float64{-0.25, -0.25},
		},
	}

	for _, sim := range cases {
		report := CalculateMetrics(sim, domain.SpreadSeries{}, domain.HedgeRatio{}, ADFResult{})

		raw, err := json.Marshal(report)
		require.NoError(t, err, "report must serialize: %+v", report)

		var fields map[string]float64
		require.NoError(t, json.Unmarshal(raw, &fields))
		for name, v := range fields {
			assert.False(t, math.IsNaN(v), "field %s is NaN", name)
			assert.False(t, math.IsInf(v, 0), "field %s is Inf", name)
		}
	}
}

func TestCalculateMetrics_ReportShape(t *testing.T) {
	report := CalculateMetrics(SimulationResult{DailyReturns: []float64{0.01, -0.01}},
		domain.SpreadSeries{}, domain.HedgeRatio{}, ADFResult{})

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))

	want := []string{
		"cumulative_return", "annualized_return", "sharpe_ratio", "sortino_ratio",
		"calmar_ratio", "max_drawdown", "var_95", "cvar_95",
		"adf_statistic", "p_value", "hedge_ratio", "half_life_days",
		"number_of_trades", "win_rate", "profit_factor", "mean_duration",
		"mae", "z_score",
	}
	assert.Len(t, fields, len(want))
	for _, key := range want {
		assert.Contains(t, fields, key)
	}
}
