package formulas

import (
	"math"
	"sort"
)

// VaR calculates historical Value at Risk at the specified confidence level.
// For 95% confidence this is the 5th percentile of the return distribution
// (negative for losses).
func VaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	tailProbability := 1.0 - confidence
	idx := int(math.Ceil(float64(len(sorted))*tailProbability)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return sorted[idx]
}

// CVaR calculates Conditional Value at Risk (expected shortfall) at the
// specified confidence level: the mean of the returns at or below the VaR
// threshold.
//
// Args:
//   - returns: Historical returns (negative for losses)
//   - confidence: Confidence level (e.g., 0.95 for 95%)
func CVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	if len(returns) == 1 {
		return returns[0]
	}

	// Sort returns in ascending order (worst first)
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	tailProbability := 1.0 - confidence
	tailCount := int(math.Ceil(float64(len(sorted)) * tailProbability))
	if tailCount == 0 {
		tailCount = 1
	}
	if tailCount > len(sorted) {
		tailCount = len(sorted)
	}

	sum := 0.0
	for _, r := range sorted[:tailCount] {
		sum += r
	}

	return sum / float64(tailCount)
}
