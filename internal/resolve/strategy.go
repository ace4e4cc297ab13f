package resolve

import (
	"context"
	"errors"

	"github.com/varscout/varscout/internal/model"
)

// errNotApplicable marks a strategy that does not apply to the input shape
// (e.g. the recoder strategy for a notation without a colon). Skipped
// strategies are not recorded as failures.
var errNotApplicable = errors.New("strategy not applicable")

// strategy is one step of a fallback chain: it either produces coordinates
// or a reason for trying the next step. Strategies run sequentially and are
// never retried with different parameters; transport-level retries live in
// the upstream client.
type strategy struct {
	name string
	run  func(ctx context.Context) (*model.GenomicCoordinates, error)
}

// runStrategies consumes an ordered chain: first success wins, every failure
// is collected. A nil coordinates return means the whole chain failed.
func runStrategies(ctx context.Context, strategies []strategy) (*model.GenomicCoordinates, []model.StrategyAttempt) {
	var attempts []model.StrategyAttempt

	for _, s := range strategies {
		coords, err := s.run(ctx)
		if err == nil && coords != nil {
			return coords, attempts
		}
		if errors.Is(err, errNotApplicable) {
			continue
		}
		reason := "no result"
		if err != nil {
			reason = err.Error()
		}
		attempts = append(attempts, model.StrategyAttempt{Strategy: s.name, Reason: reason})
	}

	return nil, attempts
}
