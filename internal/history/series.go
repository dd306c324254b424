package history

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// Series stores candles per token and resolution.
//
// Every implementation applies the same write policy to a batch:
//   - the batch must be strictly increasing in time, otherwise it is rejected whole
//   - a batch starting before the stored last sample is rejected whole
//   - a batch starting at the stored last sample overwrites that sample
//   - anything newer is appended
//
// Rejected batches fail with errors.OutOfBounds and leave the series unchanged.
type Series interface {
	// Write stores samples following the write policy. Writing a non-empty batch
	// creates the series.
	Write(ctx context.Context, token types.Token, resolution types.Resolution, samples []types.Sample) error
	// Read returns up to count most recent samples, oldest first.
	Read(ctx context.Context, token types.Token, resolution types.Resolution, count int) ([]types.Sample, error)
	// Last returns the most recent sample, if any.
	Last(ctx context.Context, token types.Token, resolution types.Resolution) (optional.Option[types.Sample], error)
	// Contains reports whether the series holds at least one sample.
	Contains(ctx context.Context, token types.Token, resolution types.Resolution) (bool, error)
}

// checkBatch validates samples against the stored last sample. It reports
// whether the first sample replaces the stored last one.
func checkBatch(last optional.Option[types.Sample], samples []types.Sample) (bool, error) {
	for i := 1; i < len(samples); i++ {
		if !samples[i].Time.After(samples[i-1].Time) {
			return false, errors.OutOfBounds("batch is not strictly increasing at %s", samples[i].Time)
		}
	}

	if last.IsNone() || len(samples) == 0 {
		return false, nil
	}

	stored := last.Unwrap().Time
	first := samples[0].Time

	switch {
	case first.Before(stored):
		return false, errors.OutOfBounds("sample at %s is older than the last stored sample at %s", first, stored)
	case first.Equal(stored):
		return true, nil
	default:
		return false, nil
	}
}

// newerThan drops the samples strictly older than the stored last sample.
// Sources use it to merge an overlapping refresh into a series.
func newerThan(last optional.Option[types.Sample], samples []types.Sample) []types.Sample {
	if last.IsNone() {
		return samples
	}

	stored := last.Unwrap().Time
	for i, s := range samples {
		if !s.Time.Before(stored) {
			return samples[i:]
		}
	}

	return nil
}

func seriesNotFound(token types.Token, resolution types.Resolution) error {
	return errors.NotFound("no samples for %s at %s", token.Name(), resolution.Name())
}
