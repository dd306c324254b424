package history

import (
	"context"
	"slices"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"go.uber.org/zap"
)

// AggsIterator is the iterator returned by the polygon aggregates endpoint.
type AggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// ListAggsFunc lists aggregates. The polygon client satisfies it through NewPolygonSource.
type ListAggsFunc func(ctx context.Context, params *models.ListAggsParams) AggsIterator

// PolygonSource is a one-shot historical provider backed by polygon aggregates.
// It has no live updates, so Append is not supported.
type PolygonSource struct {
	listAggs ListAggsFunc
	series   Series
	now      func() time.Time
	logger   *logger.Logger
}

// NewPolygonSource creates a source using the polygon REST API.
func NewPolygonSource(apiKey string, series Series, log *logger.Logger) (*PolygonSource, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon api key is required")
	}

	client := polygon.New(apiKey)
	listAggs := func(ctx context.Context, params *models.ListAggsParams) AggsIterator {
		return client.ListAggs(ctx, params)
	}

	return newPolygonSourceWithFunc(listAggs, series, time.Now, log), nil
}

func newPolygonSourceWithFunc(listAggs ListAggsFunc, series Series, now func() time.Time, log *logger.Logger) *PolygonSource {
	return &PolygonSource{
		listAggs: listAggs,
		series:   series,
		now:      now,
		logger:   log,
	}
}

// Append implements Source.
func (p *PolygonSource) Append(_ context.Context, _ types.Token, _ types.Sample) error {
	return errors.NotImplemented("append")
}

// FetchLast implements Source. It downloads the aggregates covering the window
// ending now and keeps the last window.Count of them.
func (p *PolygonSource) FetchLast(ctx context.Context, token types.Token, window types.TimeWindow) error {
	timespan, err := PolygonTimespan(window.Resolution.Unit)
	if err != nil {
		return err
	}

	end := p.now()
	start := end.Add(-window.Duration())

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     PolygonTicker(token),
		Multiplier: window.Resolution.Frequency,
		Timespan:   timespan,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := p.listAggs(ctx, params)

	var samples []types.Sample
	for iter.Next() {
		agg := iter.Item()
		samples = append(samples, types.Sample{
			Resolution: window.Resolution,
			Time:       time.Time(agg.Timestamp).UTC(),
			Open:       agg.Open,
			High:       agg.High,
			Low:        agg.Low,
			Close:      agg.Close,
			Volume:     uint64(agg.Volume),
		})
	}

	if iter.Err() != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, iter.Err(), "failed to list polygon aggregates for %s", token.Name())
	}

	slices.SortFunc(samples, func(a, b types.Sample) int {
		return a.Time.Compare(b.Time)
	})

	if len(samples) > window.Count {
		samples = samples[len(samples)-window.Count:]
	}

	p.logger.Debug("Fetched polygon aggregates",
		zap.String("token", token.Name()),
		zap.Int("count", len(samples)),
	)

	return merge(ctx, p.series, token, window.Resolution, samples)
}

// GetLast implements Source.
func (p *PolygonSource) GetLast(ctx context.Context, token types.Token, window types.TimeWindow) ([]types.Sample, error) {
	return p.series.Read(ctx, token, window.Resolution, window.Count)
}

// PolygonTicker maps a token to a polygon ticker: "X:BTCUSD" for pairs, the symbol otherwise.
func PolygonTicker(token types.Token) string {
	if token.IsPair() {
		return "X:" + token.Key()
	}

	return token.Key()
}

// PolygonTimespan maps a time unit to a polygon timespan.
func PolygonTimespan(unit types.TimeUnit) (models.Timespan, error) {
	switch unit {
	case types.TimeUnitMin:
		return models.Minute, nil
	case types.TimeUnitHour:
		return models.Hour, nil
	case types.TimeUnitDay:
		return models.Day, nil
	case types.TimeUnitWeek:
		return models.Week, nil
	case types.TimeUnitMonth:
		return models.Month, nil
	case types.TimeUnitYear:
		return models.Year, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidResolution, "unsupported polygon timespan: %s", unit)
	}
}
