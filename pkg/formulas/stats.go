package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// CumulativeReturn compounds a series of periodic returns.
// Formula: (1+r1)*(1+r2)*...*(1+rN) - 1
func CumulativeReturn(returns []float64) float64 {
	cumulative := 1.0
	for _, r := range returns {
		cumulative *= 1 + r
	}
	return cumulative - 1
}

// AnnualizedReturn calculates the compound annual growth rate from daily returns.
//
// Formula: ((1+r1)*(1+r2)*...*(1+rN))^(252/N) - 1
//
// Args:
//
//	returns: Daily returns as decimals (e.g., 0.01 = 1%)
//	periodsPerYear: Number of periods per year (252 for daily)
//
// Returns:
//
//	Annualized return as decimal (e.g., 0.15 = 15% annual return)
func AnnualizedReturn(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	cumulative := 1.0 + CumulativeReturn(returns)
	if cumulative <= 0 {
		// Total loss or worse; compounding formula is undefined
		return -1
	}

	years := float64(len(returns)) / periodsPerYear
	return math.Pow(cumulative, 1.0/years) - 1
}

// EquityCurve builds a cumulative equity curve from periodic returns,
// starting at 1.0. The result has len(returns)+1 points.
func EquityCurve(returns []float64) []float64 {
	curve := make([]float64, len(returns)+1)
	curve[0] = 1.0
	for i, r := range returns {
		curve[i+1] = curve[i] * (1 + r)
	}
	return curve
}
