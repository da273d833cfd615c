package pairs

import (
	"github.com/aristath/statarb/internal/domain"
)

// EntryThreshold is the |z| level at which the simulator opens a position.
const EntryThreshold = 2.0

// simState is the simulator's position state.
type simState int

const (
	stateFlat simState = iota
	stateLongSpread
	stateShortSpread
)

// SimulationResult is the output of one strategy simulation: the closed
// trades and a synthetic daily return series aligned with the spread series
// (0 while flat, mark-to-market spread P&L while in a position).
type SimulationResult struct {
	Trades       []domain.Trade
	DailyReturns []float64
}

// Simulate walks the spread's z-score series through the entry/exit state
// machine. Entries open at |z| >= EntryThreshold, positions close when the
// z-score crosses back through zero, and any open position is force-closed
// on the last date. One transition is evaluated per date, so an exit and a
// fresh entry never share a date. Deterministic: identical input always
// yields an identical trade list.
//
// Returns are normalized by the gross notional at entry
// (priceA + |slope|*priceB), making daily P&L a compoundable fraction of
// deployed capital.
func Simulate(pair domain.AlignedPair, hedge domain.HedgeRatio, spread domain.SpreadSeries) SimulationResult {
	n := len(spread.Points)
	result := SimulationResult{
		DailyReturns: make([]float64, n),
	}
	if n == 0 {
		return result
	}

	state := stateFlat
	var (
		entryIdx  int
		notional  float64
		worstPnL  float64 // most negative open P&L fraction seen this trade
		direction domain.Direction
	)

	closeTrade := func(exitIdx int, forced bool) {
		entry := spread.Points[entryIdx]
		exit := spread.Points[exitIdx]

		move := exit.Spread - entry.Spread
		if direction == domain.ShortSpread {
			move = -move
		}

		adverse := 0.0
		if worstPnL < 0 {
			adverse = -worstPnL
		}

		result.Trades = append(result.Trades, domain.Trade{
			EntryDate:        entry.Date,
			ExitDate:         exit.Date,
			Direction:        direction,
			EntryZ:           entry.ZScore,
			ExitZ:            exit.ZScore,
			EntrySpread:      entry.Spread,
			ExitSpread:       exit.Spread,
			Return:           move / notional,
			AdverseExcursion: adverse,
			DurationDays:     exitIdx - entryIdx,
			ForcedClose:      forced,
		})
		state = stateFlat
	}

	openTrade := func(idx int, dir domain.Direction) {
		entryIdx = idx
		direction = dir
		worstPnL = 0
		notional = pair.PricesA[idx] + abs(hedge.Slope)*pair.PricesB[idx]
		if dir == domain.LongSpread {
			state = stateLongSpread
		} else {
			state = stateShortSpread
		}
	}

	for i := 0; i < n; i++ {
		z := spread.Points[i].ZScore

		// Mark-to-market while a position is held over the (i-1, i] step
		if state != stateFlat && i > entryIdx {
			step := spread.Points[i].Spread - spread.Points[i-1].Spread
			if state == stateShortSpread {
				step = -step
			}
			result.DailyReturns[i] = step / notional

			openPnL := spread.Points[i].Spread - spread.Points[entryIdx].Spread
			if state == stateShortSpread {
				openPnL = -openPnL
			}
			if openPnL/notional < worstPnL {
				worstPnL = openPnL / notional
			}
		}

		switch state {
		case stateFlat:
			if z <= -EntryThreshold {
				openTrade(i, domain.LongSpread)
			} else if z >= EntryThreshold {
				openTrade(i, domain.ShortSpread)
			}
		case stateLongSpread:
			if z >= 0 {
				closeTrade(i, false)
			}
		case stateShortSpread:
			if z <= 0 {
				closeTrade(i, false)
			}
		}
	}

	// Force-close any position still open at series end
	if state != stateFlat {
		closeTrade(n-1, true)
	}

	return result
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
