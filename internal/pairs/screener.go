package pairs

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/aristath/statarb/internal/domain"
)

// pValueTolerance decides when two candidate p-values count as equal and the
// |z|-proximity tie-break applies.
const pValueTolerance = 1e-9

// candidateOutcome is the tagged result of evaluating one pair combination:
// either an evaluation or a skip reason, never both.
type candidateOutcome struct {
	tickerA string
	tickerB string
	eval    *pairEvaluation
	skip    error
}

// FindBestPair screens every unordered 2-combination of the given tickers
// over [start, end] and returns the most cointegrated pair: lowest ADF
// p-value, with ties broken by the smaller absolute current z-score.
//
// Candidates that fail with an engine error are skipped, not fatal; only
// when every combination is skipped does the screen fail with
// ErrNoCandidatePair. Pairs are enumerated in input order and reduced by a
// pure min-by comparison, so results are identical across repeated calls
// and worker counts. Cancellation is honored between candidate evaluations.
func (s *Service) FindBestPair(ctx context.Context, tickers []string, start, end string) (domain.BestPairResult, error) {
	if len(tickers) < 2 {
		return domain.BestPairResult{}, fmt.Errorf("need at least 2 tickers, got %d", len(tickers))
	}
	if err := validateTickers(tickers); err != nil {
		return domain.BestPairResult{}, err
	}

	// Fetch each series once; combinations share them. A ticker whose fetch
	// fails knocks out only the combinations containing it.
	series := make(map[string]*domain.PriceSeries, len(tickers))
	fetchErrs := make(map[string]error)
	for _, t := range tickers {
		if err := ctx.Err(); err != nil {
			return domain.BestPairResult{}, err
		}
		ps, err := s.prices.GetPriceSeries(ctx, t, start, end)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", t).Msg("Failed to fetch prices, skipping ticker")
			fetchErrs[t] = err
			continue
		}
		series[t] = &ps
	}

	// Enumerate unordered combinations in input order
	type combo struct{ a, b string }
	var combos []combo
	for i := 0; i < len(tickers); i++ {
		for j := i + 1; j < len(tickers); j++ {
			combos = append(combos, combo{tickers[i], tickers[j]})
		}
	}

	outcomes := make([]candidateOutcome, len(combos))

	evaluate := func(c combo) candidateOutcome {
		out := candidateOutcome{tickerA: c.a, tickerB: c.b}
		sa, okA := series[c.a]
		sb, okB := series[c.b]
		if !okA {
			out.skip = fetchErrs[c.a]
			return out
		}
		if !okB {
			out.skip = fetchErrs[c.b]
			return out
		}
		eval, err := evaluatePair(*sa, *sb)
		if err != nil {
			out.skip = err
			return out
		}
		out.eval = eval
		return out
	}

	if err := s.screenCandidates(ctx, len(combos), func(i int) {
		outcomes[i] = evaluate(combos[i])
	}); err != nil {
		return domain.BestPairResult{}, err
	}

	// Pure reduction: min by p-value, tie-break on |latest z|. Iterating the
	// ordered outcome slice keeps the result independent of worker timing.
	var best *candidateOutcome
	skipped := 0
	for i := range outcomes {
		o := &outcomes[i]
		if o.eval == nil {
			skipped++
			s.log.Debug().
				Str("ticker_a", o.tickerA).
				Str("ticker_b", o.tickerB).
				AnErr("reason", o.skip).
				Msg("Skipped candidate pair")
			continue
		}
		if best == nil || betterCandidate(o.eval, best.eval) {
			best = o
		}
	}

	if best == nil {
		return domain.BestPairResult{}, fmt.Errorf("%w: all %d combinations skipped",
			domain.ErrNoCandidatePair, len(combos))
	}

	s.log.Info().
		Str("ticker_a", best.tickerA).
		Str("ticker_b", best.tickerB).
		Float64("p_value", best.eval.adf.PValue).
		Int("candidates", len(combos)).
		Int("skipped", skipped).
		Msg("Selected best cointegrated pair")

	return domain.BestPairResult{
		PairResult:        best.eval.toPairResult(),
		CandidatesTried:   len(combos),
		CandidatesSkipped: skipped,
	}, nil
}

// betterCandidate reports whether a should be preferred over b.
func betterCandidate(a, b *pairEvaluation) bool {
	if math.Abs(a.adf.PValue-b.adf.PValue) > pValueTolerance {
		return a.adf.PValue < b.adf.PValue
	}
	// Equal p-values: prefer the pair currently closer to its mean
	return math.Abs(a.spread.LatestZScore()) < math.Abs(b.spread.LatestZScore())
}

// screenCandidates runs fn(i) for every candidate index across the worker
// pool. Each candidate is independent; correctness does not depend on
// parallel execution. Cancellation is checked at the per-candidate loop
// boundary in every worker.
func (s *Service) screenCandidates(ctx context.Context, numJobs int, fn func(i int)) error {
	if numJobs == 0 {
		return nil
	}

	workers := s.workers
	if numJobs < workers {
		workers = numJobs
	}

	jobs := make(chan int, numJobs)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				fn(i)
			}
		}()
	}

	for i := 0; i < numJobs; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return ctx.Err()
}
