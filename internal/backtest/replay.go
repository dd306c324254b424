package backtest

import (
	"context"

	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// replay serves a fixed history up to a cursor. Samples at or after the cursor
// are not visible yet.
type replay struct {
	samples []types.Sample
	cursor  int
}

func newReplay(samples []types.Sample) *replay {
	return &replay{samples: samples}
}

func (r *replay) seek(cursor int) {
	r.cursor = cursor
}

func (r *replay) Append(_ context.Context, _ types.Token, _ types.Sample) error {
	return errors.NotImplemented("append")
}

func (r *replay) FetchLast(_ context.Context, _ types.Token, _ types.TimeWindow) error {
	return errors.NotImplemented("fetch_last")
}

func (r *replay) GetLast(_ context.Context, _ types.Token, window types.TimeWindow) ([]types.Sample, error) {
	start := max(0, r.cursor-window.Count)

	return r.samples[start:r.cursor], nil
}
