package formulas

import (
	"math"
)

// SharpeRatio calculates the annualized Sharpe ratio from periodic returns.
//
// Sharpe Ratio Formula:
//
//	Sharpe = mean(returns) / stddev(returns)
//	Annualized: Sharpe × sqrt(periodsPerYear)
//
// Returns 0 when there are fewer than two observations or the standard
// deviation is zero.
func SharpeRatio(returns []float64, periodsPerYear float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	stdDev := StdDev(returns)
	if stdDev == 0 {
		return 0
	}

	return Mean(returns) / stdDev * math.Sqrt(periodsPerYear)
}

// SortinoRatio calculates the annualized Sortino ratio: like Sharpe, but the
// denominator is the downside deviation (stddev of negative returns only).
//
// Returns 0 when there are no negative returns or the downside deviation
// is zero.
func SortinoRatio(returns []float64, periodsPerYear float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) < 2 {
		// Not enough losing days to estimate downside risk
		return 0
	}

	downsideDev := StdDev(downside)
	if downsideDev == 0 {
		return 0
	}

	return Mean(returns) / downsideDev * math.Sqrt(periodsPerYear)
}
