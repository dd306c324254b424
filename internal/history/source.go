// Package history provides candle histories to agents: an in-memory cache and a
// DuckDB store behind one write policy, plus exchange, polygon and synthetic sources.
package history

import (
	"context"

	"github.com/rxtech-lab/dionysus/internal/types"
)

// Source is the historical data interface consumed by agents.
//
// Implementations answer with errors.NotFound when nothing is cached for the
// token and resolution, and errors.NotImplemented for operations they do not support.
type Source interface {
	// Append adds one freshly observed sample. It fails when the token and
	// resolution are unknown to the source.
	Append(ctx context.Context, token types.Token, sample types.Sample) error
	// FetchLast refreshes the most recent window.Count samples and makes them
	// available to GetLast.
	FetchLast(ctx context.Context, token types.Token, window types.TimeWindow) error
	// GetLast returns the most recent window.Count samples at window.Resolution.
	GetLast(ctx context.Context, token types.Token, window types.TimeWindow) ([]types.Sample, error)
}
