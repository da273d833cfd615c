package pairs

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/statarb/internal/domain"
	"github.com/aristath/statarb/pkg/formulas"
)

// zeroVarianceTol is the variance below which a regressor is treated as
// constant.
const zeroVarianceTol = 1e-12

// FitHedgeRatio computes the ordinary-least-squares slope and intercept of
// dependent on independent. The slope is the hedge ratio: units of the
// independent instrument offsetting one unit of the dependent one.
func FitHedgeRatio(dependent, independent []float64) (domain.HedgeRatio, error) {
	if len(dependent) != len(independent) {
		return domain.HedgeRatio{}, fmt.Errorf("series length mismatch: %d vs %d",
			len(dependent), len(independent))
	}
	if len(dependent) < 2 {
		return domain.HedgeRatio{}, fmt.Errorf("%w: %d observations",
			domain.ErrInsufficientData, len(dependent))
	}

	if formulas.Variance(independent) < zeroVarianceTol {
		return domain.HedgeRatio{}, fmt.Errorf("%w: %s", domain.ErrDegenerateRegression,
			"independent series is constant")
	}

	intercept, slope := stat.LinearRegression(independent, dependent, nil, false)

	return domain.HedgeRatio{Slope: slope, Intercept: intercept}, nil
}
