package domain

import "errors"

// Engine error taxonomy. All are recoverable-by-caller conditions; the
// transport layer maps each to a distinct stable code. Wrap with
// fmt.Errorf("...: %w", err) to add context, test with errors.Is.
var (
	// ErrInsufficientData means too few aligned observations remain for
	// regression and statistical testing to be meaningful.
	ErrInsufficientData = errors.New("insufficient aligned observations")

	// ErrDegenerateRegression means the independent price series has zero
	// variance, so no hedge ratio exists.
	ErrDegenerateRegression = errors.New("degenerate regression: zero-variance regressor")

	// ErrDegenerateSpread means the spread is constant, so z-scores are
	// undefined.
	ErrDegenerateSpread = errors.New("degenerate spread: zero variance")

	// ErrNoCandidatePair means every pair combination was skipped during
	// screening.
	ErrNoCandidatePair = errors.New("no viable candidate pair")
)

// ErrorCode returns the stable machine-readable code for an engine error,
// or "internal_error" for anything outside the taxonomy.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrDegenerateRegression):
		return "degenerate_regression"
	case errors.Is(err, ErrDegenerateSpread):
		return "degenerate_spread"
	case errors.Is(err, ErrNoCandidatePair):
		return "no_candidate_pair"
	default:
		return "internal_error"
	}
}
