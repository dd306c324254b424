package history

import (
	"context"

	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// Local serves a Series without any remote refresh.
type Local struct {
	series Series
}

// NewLocal creates a source reading and appending to series.
func NewLocal(series Series) *Local {
	return &Local{series: series}
}

// Append implements Source.
func (l *Local) Append(ctx context.Context, token types.Token, sample types.Sample) error {
	return appendKnown(ctx, l.series, token, sample)
}

// FetchLast implements Source. Local data is never refreshed.
func (l *Local) FetchLast(_ context.Context, _ types.Token, _ types.TimeWindow) error {
	return errors.NotImplemented("fetch_last")
}

// GetLast implements Source.
func (l *Local) GetLast(ctx context.Context, token types.Token, window types.TimeWindow) ([]types.Sample, error) {
	return l.series.Read(ctx, token, window.Resolution, window.Count)
}

// appendKnown writes sample to an existing series.
func appendKnown(ctx context.Context, series Series, token types.Token, sample types.Sample) error {
	ok, err := series.Contains(ctx, token, sample.Resolution)
	if err != nil {
		return err
	}

	if !ok {
		return seriesNotFound(token, sample.Resolution)
	}

	return series.Write(ctx, token, sample.Resolution, []types.Sample{sample})
}

// merge writes a refreshed window, dropping the samples already superseded.
func merge(ctx context.Context, series Series, token types.Token, resolution types.Resolution, samples []types.Sample) error {
	last, err := series.Last(ctx, token, resolution)
	if err != nil {
		return err
	}

	return series.Write(ctx, token, resolution, newerThan(last, samples))
}
