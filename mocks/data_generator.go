package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/dionysus/internal/types"
)

// SampleGenerator generates candle histories for tests.
type SampleGenerator struct {
	rng *rand.Rand
}

// NewSampleGenerator creates a new SampleGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewSampleGenerator(seed int64) *SampleGenerator {
	return &SampleGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how samples are generated.
type GeneratorConfig struct {
	// Resolution of every generated candle
	Resolution types.Resolution
	// StartTime is the open time of the first candle
	StartTime time.Time
	// Count is the number of candles to generate
	Count int
	// InitialPrice is the open of the first candle
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per candle)
	Volatility float64
	// Trend is the drift over the whole series
	Trend float64
	// VolumeBase is the average volume per candle
	VolumeBase uint64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Resolution:   types.Hour(),
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:        500,
		InitialPrice: 100.0,
		Volatility:   0.01,
		Trend:        0.0,
		VolumeBase:   10000,
	}
}

// Generate creates candles following a geometric Brownian motion.
func (g *SampleGenerator) Generate(config GeneratorConfig) []types.Sample {
	samples := make([]types.Sample, config.Count)
	price := config.InitialPrice
	at := config.StartTime
	step := config.Resolution.Duration()

	for i := range config.Count {
		open := price

		// Box-Muller
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		high := math.Max(open, closePrice) + g.rng.Float64()*config.Volatility*open*0.5

		low := math.Min(open, closePrice) - g.rng.Float64()*config.Volatility*open*0.5
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		samples[i] = types.Sample{
			Resolution: config.Resolution,
			Time:       at,
			Open:       roundToDecimals(open, 4),
			High:       roundToDecimals(high, 4),
			Low:        roundToDecimals(low, 4),
			Close:      roundToDecimals(closePrice, 4),
			Volume:     config.VolumeBase/2 + uint64(g.rng.Int63n(int64(config.VolumeBase)+1)),
		}

		price = closePrice
		at = at.Add(step)
	}

	return samples
}

// Generate500 generates 500 hourly candles with a fixed seed.
func Generate500() []types.Sample {
	return NewSampleGenerator(42).Generate(DefaultConfig())
}

// FlatSamples returns count candles whose every price is price.
func FlatSamples(resolution types.Resolution, start time.Time, count int, price float64) []types.Sample {
	samples := make([]types.Sample, count)
	for i := range samples {
		samples[i] = types.Sample{
			Resolution: resolution,
			Time:       start.Add(time.Duration(i) * resolution.Duration()),
			Open:       price,
			High:       price,
			Low:        price,
			Close:      price,
		}
	}

	return samples
}

// SamplesFromCloses returns one candle per close, each opening at the previous close.
func SamplesFromCloses(resolution types.Resolution, start time.Time, closes ...float64) []types.Sample {
	samples := make([]types.Sample, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		samples[i] = types.Sample{
			Resolution: resolution,
			Time:       start.Add(time.Duration(i) * resolution.Duration()),
			Open:       open,
			High:       math.Max(open, c),
			Low:        math.Min(open, c),
			Close:      c,
		}
	}

	return samples
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
