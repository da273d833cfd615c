package formulas

// MaxDrawdown calculates the maximum peak-to-trough decline of an equity
// curve.
//
// Drawdown Formula:
//
//	Drawdown = (Peak Value - Current Value) / Peak Value
//	Max Drawdown = Maximum of all drawdowns
//
// Returns the drawdown as a positive fraction (0.25 = 25% loss from peak),
// or 0 for curves shorter than two points.
func MaxDrawdown(curve []float64) float64 {
	if len(curve) < 2 {
		return 0
	}

	maxDrawdown := 0.0
	peak := curve[0]

	for _, value := range curve {
		if value > peak {
			peak = value
		}

		if peak > 0 {
			drawdown := (peak - value) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}

// MaxDrawdownFromReturns builds an equity curve from periodic returns and
// returns its maximum drawdown.
func MaxDrawdownFromReturns(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return MaxDrawdown(EquityCurve(returns))
}
