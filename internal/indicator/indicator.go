// Package indicator computes technical indicators over candle histories.
//
// Indicators are recipes: small comparable values such as EMA(9) or MACD(12, 26, 9).
// A strategy declares the indicators it needs as values and computes them on demand:
//
//	data, err := indicator.BollingerBands(20, 2).Compute(history)
//	bands, err := data.AsMatrix() // [[lower], [mid], [upper]]
package indicator

import (
	"fmt"
	"strconv"

	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// Kind names an indicator family.
type Kind string

const (
	KindEMA             Kind = "ema"
	KindSMA             Kind = "sma"
	KindStdDev          Kind = "sdev"
	KindRSI             Kind = "rsi"
	KindBollingerBands  Kind = "bbands"
	KindMACD            Kind = "macd"
	KindSupportLines    Kind = "support-lines"
	KindResistanceLines Kind = "resistance-lines"
)

// Domain hints how the indicator values relate to prices when charted.
type Domain string

const (
	DomainPrice     Domain = "price"
	DomainPercent   Domain = "percent"
	DomainCartesian Domain = "cartesian"
)

// linesLookback is the number of candles needed to find one local extremum.
const linesLookback = 3

// Indicator is an indicator recipe. Only the fields used by Kind are set.
type Indicator struct {
	Kind   Kind    `yaml:"kind" json:"kind"`
	Period int     `yaml:"period,omitempty" json:"period,omitempty"`
	Fast   int     `yaml:"fast,omitempty" json:"fast,omitempty"`
	Slow   int     `yaml:"slow,omitempty" json:"slow,omitempty"`
	Signal int     `yaml:"signal,omitempty" json:"signal,omitempty"`
	Width  float64 `yaml:"width,omitempty" json:"width,omitempty"`
}

// EMA is the exponential moving average of the close price.
func EMA(period int) Indicator {
	return Indicator{Kind: KindEMA, Period: period}
}

// SMA is the simple moving average of the close price.
func SMA(period int) Indicator {
	return Indicator{Kind: KindSMA, Period: period}
}

// StdDev is the population standard deviation of the close price.
func StdDev(period int) Indicator {
	return Indicator{Kind: KindStdDev, Period: period}
}

// RSI is the relative strength index.
func RSI(period int) Indicator {
	return Indicator{Kind: KindRSI, Period: period}
}

// BollingerBands are the SMA plus and minus width standard deviations.
func BollingerBands(period int, width float64) Indicator {
	return Indicator{Kind: KindBollingerBands, Period: period, Width: width}
}

// MACD is the moving average convergence divergence line and its signal line.
func MACD(fast, slow, signal int) Indicator {
	return Indicator{Kind: KindMACD, Fast: fast, Slow: slow, Signal: signal}
}

// SupportLines are horizontal levels clustered from local lows of the candle bodies.
func SupportLines(width float64) Indicator {
	return Indicator{Kind: KindSupportLines, Width: width}
}

// ResistanceLines are horizontal levels clustered from local highs of the candle bodies.
func ResistanceLines(width float64) Indicator {
	return Indicator{Kind: KindResistanceLines, Width: width}
}

// Lookback returns the minimum number of samples Compute and ComputeSeries need.
func (i Indicator) Lookback() int {
	switch i.Kind {
	case KindEMA, KindSMA, KindStdDev, KindRSI, KindBollingerBands:
		return i.Period
	case KindMACD:
		return i.Slow
	case KindSupportLines, KindResistanceLines:
		return linesLookback
	default:
		return 0
	}
}

// Validate checks the recipe parameters.
func (i Indicator) Validate() error {
	switch i.Kind {
	case KindEMA, KindSMA, KindStdDev, KindRSI:
		if i.Period <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "%s period must be a positive integer, got %d", i.Kind, i.Period)
		}
	case KindBollingerBands:
		if i.Period <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "bollinger bands period must be a positive integer, got %d", i.Period)
		}

		if i.Width <= 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "bollinger bands width must be positive, got %v", i.Width)
		}
	case KindMACD:
		if i.Fast <= 0 || i.Slow <= 0 || i.Signal <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "macd periods must be positive integers, got %d %d %d", i.Fast, i.Slow, i.Signal)
		}

		if i.Fast >= i.Slow {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "macd fast period %d must be lower than slow period %d", i.Fast, i.Slow)
		}
	case KindSupportLines, KindResistanceLines:
		if i.Width < 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "line width must not be negative, got %v", i.Width)
		}
	default:
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "unknown indicator %q", i.Kind)
	}

	return nil
}

// Domain returns the charting domain of the indicator values.
func (i Indicator) Domain() Domain {
	switch i.Kind {
	case KindRSI:
		return DomainPercent
	case KindStdDev, KindMACD:
		return DomainCartesian
	default:
		return DomainPrice
	}
}

// String returns the text form accepted by Parse.
func (i Indicator) String() string {
	switch i.Kind {
	case KindEMA:
		return fmt.Sprintf("EMA %d", i.Period)
	case KindSMA:
		return fmt.Sprintf("SMA %d", i.Period)
	case KindStdDev:
		return fmt.Sprintf("SDEV %d", i.Period)
	case KindRSI:
		return fmt.Sprintf("RSI %d", i.Period)
	case KindBollingerBands:
		return fmt.Sprintf("BBANDS %d %s", i.Period, formatFloat(i.Width))
	case KindMACD:
		return fmt.Sprintf("MACD %d %d %d", i.Fast, i.Slow, i.Signal)
	case KindSupportLines:
		return "SL " + formatFloat(i.Width)
	case KindResistanceLines:
		return "RL " + formatFloat(i.Width)
	default:
		return string(i.Kind)
	}
}

// Compute returns the current value of the indicator over the last Lookback samples.
func (i Indicator) Compute(samples []types.Sample) (Data, error) {
	if err := i.check(samples); err != nil {
		return Data{}, err
	}

	closes := types.Closes(samples)
	tail := closes[len(closes)-i.Lookback():]

	switch i.Kind {
	case KindEMA:
		return Scalar(last(emaSeries(i.Period, tail))), nil
	case KindSMA:
		return Scalar(last(smaSeries(i.Period, tail))), nil
	case KindStdDev:
		return Scalar(last(stdDevSeries(i.Period, tail))), nil
	case KindRSI:
		return Scalar(last(rsiSeries(i.Period, tail))), nil
	case KindBollingerBands:
		lower, mid, upper := bollingerSeries(i.Period, i.Width, tail)

		return Matrix([][]float64{{last(lower)}, {last(mid)}, {last(upper)}}), nil
	case KindMACD:
		macd, signal := macdSeries(i.Fast, i.Slow, i.Signal, tail)

		return Matrix([][]float64{{last(macd)}, {last(signal)}}), nil
	case KindSupportLines, KindResistanceLines:
		levels := lineLevels(i.Width, i.Kind == KindSupportLines, samples)

		rows := make([][]float64, len(levels))
		for r, level := range levels {
			rows[r] = []float64{level}
		}

		return Matrix(rows), nil
	}

	return Data{}, errors.Newf(errors.ErrCodeIndicatorNotFound, "unknown indicator %q", i.Kind)
}

// ComputeSeries returns one indicator value per input sample.
func (i Indicator) ComputeSeries(samples []types.Sample) (Data, error) {
	if err := i.check(samples); err != nil {
		return Data{}, err
	}

	closes := types.Closes(samples)

	switch i.Kind {
	case KindEMA:
		return Vector(emaSeries(i.Period, closes)), nil
	case KindSMA:
		return Vector(smaSeries(i.Period, closes)), nil
	case KindStdDev:
		return Vector(stdDevSeries(i.Period, closes)), nil
	case KindRSI:
		return Vector(rsiSeries(i.Period, closes)), nil
	case KindBollingerBands:
		lower, mid, upper := bollingerSeries(i.Period, i.Width, closes)

		return Matrix([][]float64{lower, mid, upper}), nil
	case KindMACD:
		macd, signal := macdSeries(i.Fast, i.Slow, i.Signal, closes)

		return Matrix([][]float64{macd, signal}), nil
	case KindSupportLines, KindResistanceLines:
		levels := lineLevels(i.Width, i.Kind == KindSupportLines, samples)

		rows := make([][]float64, len(levels))
		for r, level := range levels {
			rows[r] = make([]float64, len(samples))
			for c := range rows[r] {
				rows[r][c] = level
			}
		}

		return Matrix(rows), nil
	}

	return Data{}, errors.Newf(errors.ErrCodeIndicatorNotFound, "unknown indicator %q", i.Kind)
}

func (i Indicator) check(samples []types.Sample) error {
	if err := i.Validate(); err != nil {
		return err
	}

	if len(samples) < i.Lookback() {
		return errors.NewInsufficientDataErrorf(i.Lookback(), len(samples), "",
			"%s requires %d samples, got %d", i, i.Lookback(), len(samples))
	}

	return nil
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return values[len(values)-1]
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
