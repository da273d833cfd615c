// Package pairs implements the pair-screening and risk-metrics engine:
// price alignment, hedge-ratio regression, stationarity testing, spread
// construction, trade simulation and the fixed-schema metrics report.
package pairs

import (
	"fmt"
	"sort"

	"github.com/aristath/statarb/internal/domain"
)

// MinObservations is the smallest aligned window the engine accepts.
// Below this, regression and the ADF test are statistically meaningless.
const MinObservations = 30

// Align restricts each input series to the dates present in every series,
// in ascending date order. Pure function of its inputs.
func Align(series ...domain.PriceSeries) ([]domain.PriceSeries, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no series provided", domain.ErrInsufficientData)
	}

	// Count date occurrences across all series; a date is common when it
	// appears in every one. Input series have no duplicate dates.
	counts := make(map[string]int)
	for _, s := range series {
		for _, p := range s.Points {
			counts[p.Date]++
		}
	}

	common := make(map[string]bool)
	for date, n := range counts {
		if n == len(series) {
			common[date] = true
		}
	}

	if len(common) < MinObservations {
		return nil, fmt.Errorf("%w: %d common dates, need at least %d",
			domain.ErrInsufficientData, len(common), MinObservations)
	}

	aligned := make([]domain.PriceSeries, len(series))
	for i, s := range series {
		out := domain.PriceSeries{Symbol: s.Symbol}
		for _, p := range s.Points {
			if common[p.Date] {
				out.Points = append(out.Points, p)
			}
		}
		sort.Slice(out.Points, func(a, b int) bool {
			return out.Points[a].Date < out.Points[b].Date
		})
		aligned[i] = out
	}

	return aligned, nil
}

// AlignPair aligns exactly two series onto their common dates.
func AlignPair(a, b domain.PriceSeries) (domain.AlignedPair, error) {
	aligned, err := Align(a, b)
	if err != nil {
		return domain.AlignedPair{}, err
	}

	return domain.AlignedPair{
		SymbolA: a.Symbol,
		SymbolB: b.Symbol,
		Dates:   aligned[0].Dates(),
		PricesA: aligned[0].Prices(),
		PricesB: aligned[1].Prices(),
	}, nil
}
