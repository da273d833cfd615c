package pairs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/statarb/internal/domain"
)

// ADFResult holds the outcome of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
}

// ADFTest runs an Augmented Dickey-Fuller unit-root test with a constant
// term on the given series. The null hypothesis is that the series has a
// unit root (is non-stationary); small p-values indicate stationarity.
//
// The regression is:
//
//	Δy[t] = α + γ·y[t-1] + Σ φ[i]·Δy[t-i] + ε[t]
//
// with the lag order derived from the series length as floor(cbrt(n)).
// The reported statistic is the t-statistic of γ; the p-value comes from
// the MacKinnon approximation for the constant-only case.
func ADFTest(series []float64) (ADFResult, error) {
	n := len(series)
	if n < MinObservations {
		return ADFResult{}, fmt.Errorf("%w: %d observations, need at least %d",
			domain.ErrInsufficientData, n, MinObservations)
	}

	lags := int(math.Floor(math.Cbrt(float64(n))))

	// First differences: diff[i] = y[i+1] - y[i]
	diff := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		diff[i] = series[i+1] - series[i]
	}

	// One row per usable observation: dependent is the current difference,
	// regressors are a constant, the lagged level, and lagged differences.
	nObs := len(diff) - lags
	k := 2 + lags
	if nObs <= k+1 {
		return ADFResult{}, fmt.Errorf("%w: %d usable observations for %d regressors",
			domain.ErrInsufficientData, nObs, k)
	}

	X := mat.NewDense(nObs, k, nil)
	y := mat.NewVecDense(nObs, nil)
	for row := 0; row < nObs; row++ {
		t := row + lags
		y.SetVec(row, diff[t])
		X.Set(row, 0, 1)
		X.Set(row, 1, series[t]) // y[t-1] relative to Δy[t] = y[t+1]-y[t]
		for j := 1; j <= lags; j++ {
			X.Set(row, 2+j-1, diff[t-j])
		}
	}

	beta, se, err := olsWithStdErr(X, y)
	if err != nil {
		return ADFResult{}, fmt.Errorf("%w: %v", domain.ErrDegenerateRegression, err)
	}

	if se[1] == 0 || math.IsNaN(se[1]) {
		return ADFResult{}, fmt.Errorf("%w: zero standard error for lagged level",
			domain.ErrDegenerateRegression)
	}

	tStat := beta[1] / se[1]

	return ADFResult{
		Statistic: tStat,
		PValue:    mackinnonPValue(tStat),
		Lags:      lags,
	}, nil
}

// olsWithStdErr solves the least-squares problem y = X·β and returns the
// coefficient vector and per-coefficient standard errors.
func olsWithStdErr(X *mat.Dense, y *mat.VecDense) ([]float64, []float64, error) {
	nObs, k := X.Dims()

	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())

	var qr mat.QR
	qr.Factorize(X)

	var betaVec mat.VecDense
	if err := qr.SolveVecTo(&betaVec, false, y); err != nil {
		return nil, nil, err
	}

	// Residual variance
	var fitted mat.VecDense
	fitted.MulVec(X, &betaVec)
	rss := 0.0
	for i := 0; i < nObs; i++ {
		r := y.AtVec(i) - fitted.AtVec(i)
		rss += r * r
	}
	sigma2 := rss / float64(nObs-k)

	// Covariance of β is σ²·(XᵀX)⁻¹
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, nil, err
	}

	beta := make([]float64, k)
	se := make([]float64, k)
	for i := 0; i < k; i++ {
		beta[i] = betaVec.AtVec(i)
		se[i] = math.Sqrt(sigma2 * xtxInv.At(i, i))
	}

	return beta, se, nil
}

// MacKinnon (1994) approximate asymptotic p-value for the ADF t-statistic,
// constant-only regression. Matches what statsmodels' adfuller reports for
// regression="c". The polynomial in the statistic is mapped through the
// standard normal CDF.
var (
	tauStarC   = -1.61
	tauMinC    = -18.83
	tauMaxC    = 2.74
	tauCSmallP = []float64{2.1659, 1.4412, 3.8269e-2}
	tauCLargeP = []float64{1.7339, 9.3202e-1, -1.2745e-1, -1.0368e-2}
)

func mackinnonPValue(stat float64) float64 {
	if stat > tauMaxC {
		return 1.0
	}
	if stat < tauMinC {
		return 0.0
	}

	coeffs := tauCLargeP
	if stat <= tauStarC {
		coeffs = tauCSmallP
	}

	return distuv.Normal{Mu: 0, Sigma: 1}.CDF(polyval(coeffs, stat))
}

// polyval evaluates a polynomial with coefficients in ascending order.
func polyval(coeffs []float64, x float64) float64 {
	sum := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		sum = sum*x + coeffs[i]
	}
	return sum
}
