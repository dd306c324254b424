// Package backtest replays a strategy over a candle history.
//
// A run clones the agent with a fresh ledger, walks the history from the
// strategy's lookback onwards and fills every order at the candle close.
// It performs no I/O and is deterministic for a given agent and history.
package backtest

import (
	"context"

	"github.com/rxtech-lab/dionysus/internal/agent"
	"github.com/rxtech-lab/dionysus/internal/types"
)

// DefaultStartingCapital is the free capital of the cloned agent.
const DefaultStartingCapital = 1000.0

// ProgressCallback is called after each replayed sample.
type ProgressCallback func(current, total int)

type options struct {
	startingCapital float64
	progress        ProgressCallback
}

// Option configures a run.
type Option func(*options)

// WithStartingCapital replaces DefaultStartingCapital.
func WithStartingCapital(capital float64) Option {
	return func(o *options) {
		o.startingCapital = capital
	}
}

// WithProgress registers a progress callback.
func WithProgress(callback ProgressCallback) Option {
	return func(o *options) {
		o.progress = callback
	}
}

// Run replays history against a clone of a. The agent itself is left untouched.
// A history no longer than the strategy's lookback produces no orders.
func Run(ctx context.Context, a *agent.Chrysus, history []types.Sample, opts ...Option) Result {
	o := options{startingCapital: DefaultStartingCapital}
	for _, opt := range opts {
		opt(&o)
	}

	clone := a.Clone(o.startingCapital)
	source := newReplay(history)
	stats := newStatsAccumulator()

	var orders []types.Order

	start := clone.Strategy.RequiredSamples()
	total := max(0, len(history)-start)

	for i := start; i < len(history); i++ {
		sample := history[i]
		source.seek(i)

		book := types.SingleLevelBook(clone.Token, sample.Close)
		for _, order := range clone.Decide(ctx, book, source) {
			order = order.WithDate(sample.Time)

			if order.Side == types.SideSell && order.PositionIndex.IsSome() {
				if position, ok := clone.Ledger.Positions[order.PositionIndex.Unwrap()]; ok {
					stats.record(position, order)
				}
			}

			clone.Realize(order)
			orders = append(orders, order)
		}

		if o.progress != nil {
			o.progress(i-start+1, total)
		}
	}

	var resolution types.Resolution
	if len(history) > 0 {
		resolution = history[0].Resolution
	}

	return Result{
		Token:           clone.Token,
		Strategy:        clone.Strategy.Name(),
		StartingCapital: o.startingCapital,
		CurrencyBalance: clone.Ledger.Capital,
		SymbolBalance:   clone.Ledger.Balance,
		Orders:          orders,
		Period:          types.NewTimeWindow(resolution, len(history)),
		Stats:           stats.build(),
	}
}
