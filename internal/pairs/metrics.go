package pairs

import (
	"github.com/aristath/statarb/internal/domain"
	"github.com/aristath/statarb/pkg/formulas"
)

const (
	// TradingDaysPerYear is used to annualize daily statistics.
	TradingDaysPerYear = 252.0
	// RiskConfidence is the confidence level for VaR/CVaR.
	RiskConfidence = 0.95
)

// CalculateMetrics assembles the fixed 18-entry report from the simulated
// strategy returns, the trade list and the pair's statistical fits.
//
// Sentinel policy: every statistic whose denominator is zero (Calmar with no
// drawdown, profit factor with no losses, trade statistics with no trades)
// reports 0. NaN and Inf never appear in a report.
func CalculateMetrics(
	sim SimulationResult,
	spread domain.SpreadSeries,
	hedge domain.HedgeRatio,
	adf ADFResult,
) domain.MetricsReport {
	returns := sim.DailyReturns

	cumulative := formulas.CumulativeReturn(returns)
	annualized := formulas.AnnualizedReturn(returns, TradingDaysPerYear)
	maxDrawdown := formulas.MaxDrawdownFromReturns(returns)

	calmar := 0.0
	if maxDrawdown > 0 {
		calmar = annualized / maxDrawdown
	}

	report := domain.MetricsReport{
		CumulativeReturn: cumulative,
		AnnualizedReturn: annualized,
		SharpeRatio:      formulas.SharpeRatio(returns, TradingDaysPerYear),
		SortinoRatio:     formulas.SortinoRatio(returns, TradingDaysPerYear),
		CalmarRatio:      calmar,
		MaxDrawdown:      maxDrawdown,
		VaR95:            formulas.VaR(returns, RiskConfidence),
		CVaR95:           formulas.CVaR(returns, RiskConfidence),
		ADFStatistic:     adf.Statistic,
		PValue:           adf.PValue,
		HedgeRatio:       hedge.Slope,
		HalfLifeDays:     spread.HalfLifeDays,
		ZScore:           spread.LatestZScore(),
	}

	fillTradeStats(&report, sim.Trades)

	return report
}

// fillTradeStats derives the trade-level entries of the report. With zero
// trades everything stays at the 0 sentinel.
func fillTradeStats(report *domain.MetricsReport, trades []domain.Trade) {
	report.NumberOfTrades = float64(len(trades))
	if len(trades) == 0 {
		return
	}

	var (
		wins          int
		grossProfit   float64
		grossLoss     float64
		totalDuration float64
		totalAdverse  float64
	)
	for _, t := range trades {
		if t.Return > 0 {
			wins++
			grossProfit += t.Return
		} else {
			grossLoss += -t.Return
		}
		totalDuration += float64(t.DurationDays)
		totalAdverse += t.AdverseExcursion
	}

	report.WinRate = float64(wins) / float64(len(trades))
	report.MeanDuration = totalDuration / float64(len(trades))
	report.MAE = totalAdverse / float64(len(trades))
	if grossLoss > 0 {
		report.ProfitFactor = grossProfit / grossLoss
	}
}
