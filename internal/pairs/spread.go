package pairs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/statarb/internal/domain"
	"github.com/aristath/statarb/pkg/formulas"
)

// BuildSpread combines an aligned pair and a hedge ratio into a spread
// series with full-window z-scores and the AR(1) mean-reversion half-life.
//
// spread = priceA - slope*priceB. Z-scores use the full-sample mean and
// standard deviation; the same policy is applied everywhere so explicit-pair
// and screening results stay comparable.
func BuildSpread(pair domain.AlignedPair, hedge domain.HedgeRatio) (domain.SpreadSeries, error) {
	n := pair.Len()
	if n < MinObservations {
		return domain.SpreadSeries{}, fmt.Errorf("%w: %d aligned observations",
			domain.ErrInsufficientData, n)
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = pair.PricesA[i] - hedge.Slope*pair.PricesB[i]
	}

	mean := formulas.Mean(values)
	stdDev := formulas.StdDev(values)
	if stdDev < math.Sqrt(zeroVarianceTol) {
		return domain.SpreadSeries{}, fmt.Errorf("%w: standard deviation %g",
			domain.ErrDegenerateSpread, stdDev)
	}

	points := make([]domain.SpreadPoint, n)
	for i := 0; i < n; i++ {
		points[i] = domain.SpreadPoint{
			Date:   pair.Dates[i],
			Spread: values[i],
			ZScore: (values[i] - mean) / stdDev,
		}
	}

	return domain.SpreadSeries{
		Points:       points,
		Mean:         mean,
		StdDev:       stdDev,
		HalfLifeDays: halfLife(values),
	}, nil
}

// halfLife fits an AR(1) decay to the spread: regress spread[t]-spread[t-1]
// on spread[t-1] and convert the slope to a half-life in trading days.
// Returns the 0 sentinel when the fit is not mean-reverting (slope outside
// (-1, 0)), rather than a misleading finite number.
func halfLife(values []float64) float64 {
	n := len(values)
	if n < 3 {
		return 0
	}

	lagged := make([]float64, n-1)
	delta := make([]float64, n-1)
	for i := 1; i < n; i++ {
		lagged[i-1] = values[i-1]
		delta[i-1] = values[i] - values[i-1]
	}

	if formulas.Variance(lagged) < zeroVarianceTol {
		return 0
	}

	_, slope := stat.LinearRegression(lagged, delta, nil, false)
	if slope <= -1 || slope >= 0 {
		return 0
	}

	return -math.Ln2 / math.Log(1+slope)
}
