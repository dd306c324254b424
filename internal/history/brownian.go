package history

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rxtech-lab/dionysus/internal/types"
)

const (
	// minutesPerYear scales the per-year drift and volatility to one quote per minute.
	minutesPerYear = 365 * 24 * 60

	DefaultBrownianDrift      = 0.2
	DefaultBrownianVolatility = 0.4
	DefaultBrownianPrice      = 500.0
)

// Tick is one synthetic quote.
type Tick struct {
	Time  time.Time
	Price float64
}

// BrownianSource generates candles from a geometric Brownian motion quoted once
// per minute. Each FetchLast continues the walk from the last stored sample.
type BrownianSource struct {
	series     Series
	drift      float64
	volatility float64
	price      float64
	now        func() time.Time

	rng   *rand.Rand
	mutex sync.Mutex
}

// BrownianOption configures a BrownianSource.
type BrownianOption func(*BrownianSource)

// WithDrift sets the yearly drift.
func WithDrift(mu float64) BrownianOption {
	return func(b *BrownianSource) {
		b.drift = mu
	}
}

// WithVolatility sets the yearly volatility.
func WithVolatility(sigma float64) BrownianOption {
	return func(b *BrownianSource) {
		b.volatility = sigma
	}
}

// WithStartPrice sets the price of a series without history.
func WithStartPrice(price float64) BrownianOption {
	return func(b *BrownianSource) {
		b.price = price
	}
}

// WithBrownianClock sets the clock bounding the generated history.
func WithBrownianClock(now func() time.Time) BrownianOption {
	return func(b *BrownianSource) {
		b.now = now
	}
}

// NewBrownianSource creates a deterministic source for seed.
func NewBrownianSource(series Series, seed int64, opts ...BrownianOption) *BrownianSource {
	b := &BrownianSource{
		series:     series,
		drift:      DefaultBrownianDrift,
		volatility: DefaultBrownianVolatility,
		price:      DefaultBrownianPrice,
		now:        time.Now,
		rng:        rand.New(rand.NewSource(seed)),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Append implements Source.
func (b *BrownianSource) Append(ctx context.Context, token types.Token, sample types.Sample) error {
	return appendKnown(ctx, b.series, token, sample)
}

// FetchLast implements Source. Without history it generates window.Count candles
// ending now; otherwise it fills the gap between the last stored candle and now.
func (b *BrownianSource) FetchLast(ctx context.Context, token types.Token, window types.TimeWindow) error {
	last, err := b.series.Last(ctx, token, window.Resolution)
	if err != nil {
		return err
	}

	step := window.Resolution.Duration()
	end := b.now().Truncate(step)

	start := end.Add(-window.Duration())
	price := b.price

	if last.IsSome() {
		start = last.Unwrap().Time.Add(step)
		price = last.Unwrap().Close
	}

	if !start.Before(end) {
		return nil
	}

	b.mutex.Lock()
	ticks := b.walk(start, end, price)
	b.mutex.Unlock()

	return b.series.Write(ctx, token, window.Resolution, SampleTicks(ticks, window.Resolution))
}

// GetLast implements Source.
func (b *BrownianSource) GetLast(ctx context.Context, token types.Token, window types.TimeWindow) ([]types.Sample, error) {
	return b.series.Read(ctx, token, window.Resolution, window.Count)
}

// walk quotes one price per minute in [start, end).
func (b *BrownianSource) walk(start, end time.Time, price float64) []Tick {
	dt := 1.0 / minutesPerYear
	drift := (b.drift - b.volatility*b.volatility/2) * dt
	diffusion := b.volatility * math.Sqrt(dt)

	ticks := make([]Tick, 0, int(end.Sub(start)/time.Minute))
	for at := start; at.Before(end); at = at.Add(time.Minute) {
		ticks = append(ticks, Tick{Time: at, Price: price})
		price *= math.Exp(drift + diffusion*b.rng.NormFloat64())
	}

	return ticks
}

// SampleTicks aggregates ticks into candles of resolution. Ticks must be in time
// order. The volume of a candle is its number of ticks.
func SampleTicks(ticks []Tick, resolution types.Resolution) []types.Sample {
	step := resolution.Duration()
	if step <= 0 {
		return nil
	}

	var samples []types.Sample

	for _, tick := range ticks {
		bucket := tick.Time.Truncate(step)

		if n := len(samples); n > 0 && samples[n-1].Time.Equal(bucket) {
			current := &samples[n-1]
			current.High = max(current.High, tick.Price)
			current.Low = min(current.Low, tick.Price)
			current.Close = tick.Price
			current.Volume++

			continue
		}

		samples = append(samples, types.Sample{
			Resolution: resolution,
			Time:       bucket,
			Open:       tick.Price,
			High:       tick.Price,
			Low:        tick.Price,
			Close:      tick.Price,
			Volume:     1,
		})
	}

	return samples
}
