// Package counselor implements the advisory rules that turn a quote and a candle
// history into trade advice.
//
// A Counselor is a closed set of rules selected by Kind. Every consumer switches
// on Kind exhaustively, so adding a rule is a change to this package only.
package counselor

import (
	"fmt"

	"github.com/rxtech-lab/dionysus/internal/indicator"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

type Kind string

const (
	KindTrace         Kind = "trace"
	KindMeanReversion Kind = "mean-reversion"
	KindMACDCrossover Kind = "macd-crossover"
	KindMACDZeroCross Kind = "macd-zero-cross"
	KindEMACross      Kind = "ema-cross"
)

// bandWidth is the number of standard deviations used by mean reversion.
const bandWidth = 2.0

// Counselor is one advisory rule and its parameters. Only the fields used by Kind are set.
type Counselor struct {
	Kind   Kind `yaml:"kind" json:"kind" jsonschema:"required,enum=trace,enum=mean-reversion,enum=macd-crossover,enum=macd-zero-cross,enum=ema-cross" validate:"required,oneof=trace mean-reversion macd-crossover macd-zero-cross ema-cross"`
	Period int  `yaml:"period,omitempty" json:"period,omitempty" jsonschema:"description=Bollinger bands period used by mean-reversion"`
	Fast   int  `yaml:"fast,omitempty" json:"fast,omitempty" jsonschema:"description=Fast moving average period"`
	Slow   int  `yaml:"slow,omitempty" json:"slow,omitempty" jsonschema:"description=Slow moving average period"`
	Signal int  `yaml:"signal,omitempty" json:"signal,omitempty" jsonschema:"description=MACD signal line period"`
}

// Trace never trades. It reports the current ask as stop price.
func Trace() Counselor {
	return Counselor{Kind: KindTrace}
}

// MeanReversion buys below the lower and sells above the upper Bollinger band of period n.
func MeanReversion(n int) Counselor {
	return Counselor{Kind: KindMeanReversion, Period: n}
}

// MACDCrossover trades crossings of the MACD line and its signal line.
func MACDCrossover(fast, slow, signal int) Counselor {
	return Counselor{Kind: KindMACDCrossover, Fast: fast, Slow: slow, Signal: signal}
}

// MACDZeroCross trades crossings of the MACD line and zero.
func MACDZeroCross(fast, slow, signal int) Counselor {
	return Counselor{Kind: KindMACDZeroCross, Fast: fast, Slow: slow, Signal: signal}
}

// EMACross trades crossings of a fast and a slow EMA.
func EMACross(fast, slow int) Counselor {
	return Counselor{Kind: KindEMACross, Fast: fast, Slow: slow}
}

// RequiredSamples is the minimum history length Run needs.
func (c Counselor) RequiredSamples() int {
	switch c.Kind {
	case KindTrace:
		return 0
	case KindMeanReversion:
		return c.Period
	case KindMACDCrossover, KindMACDZeroCross, KindEMACross:
		return c.Slow
	default:
		return 0
	}
}

// Indicators returns the indicators the rule computes, for charting and prefetching.
func (c Counselor) Indicators() []indicator.Indicator {
	switch c.Kind {
	case KindMeanReversion:
		return []indicator.Indicator{indicator.BollingerBands(c.Period, bandWidth)}
	case KindMACDCrossover, KindMACDZeroCross:
		return []indicator.Indicator{indicator.MACD(c.Fast, c.Slow, c.Signal)}
	case KindEMACross:
		return []indicator.Indicator{indicator.EMA(c.Fast), indicator.EMA(c.Slow)}
	default:
		return nil
	}
}

// Name is the stable display name, e.g. "macd-crossover(12, 26, 9)".
func (c Counselor) Name() string {
	switch c.Kind {
	case KindTrace:
		return "trace"
	case KindMeanReversion:
		return fmt.Sprintf("mean-reversion(%d)", c.Period)
	case KindMACDCrossover:
		return fmt.Sprintf("macd-crossover(%d, %d, %d)", c.Fast, c.Slow, c.Signal)
	case KindMACDZeroCross:
		return fmt.Sprintf("macd-zero-cross(%d, %d, %d)", c.Fast, c.Slow, c.Signal)
	case KindEMACross:
		return fmt.Sprintf("ema-cross(%d, %d)", c.Fast, c.Slow)
	default:
		return string(c.Kind)
	}
}

// Validate checks the rule parameters.
func (c Counselor) Validate() error {
	switch c.Kind {
	case KindTrace:
		return nil
	case KindMeanReversion:
		if c.Period <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "%s: period must be a positive integer", c.Name())
		}
	case KindMACDCrossover, KindMACDZeroCross:
		if c.Fast <= 0 || c.Slow <= 0 || c.Signal <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "%s: periods must be positive integers", c.Name())
		}

		if c.Fast >= c.Slow {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "%s: fast period must be lower than slow period", c.Name())
		}
	case KindEMACross:
		if c.Fast <= 0 || c.Slow <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "%s: periods must be positive integers", c.Name())
		}

		if c.Fast >= c.Slow {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "%s: fast period must be lower than slow period", c.Name())
		}
	default:
		return errors.Newf(errors.ErrCodeUnsupportedCounselor, "unsupported counselor %q", c.Kind)
	}

	return nil
}

// Run evaluates the rule. It fails when the history is too short, not resolution
// homogeneous, or when an indicator returns an unexpected shape.
func (c Counselor) Run(quote types.Quote, history []types.Sample) (Advice, error) {
	if err := c.Validate(); err != nil {
		return NoAdvice(), err
	}

	if err := checkHistory(history, c.RequiredSamples()); err != nil {
		return NoAdvice(), err
	}

	var (
		advice Advice
		err    error
	)

	switch c.Kind {
	case KindTrace:
		advice = runTrace(quote)
	case KindMeanReversion:
		advice, err = runMeanReversion(c.Period, quote, history)
	case KindMACDCrossover:
		advice, err = runMACDCrossover(c.Fast, c.Slow, c.Signal, history)
	case KindMACDZeroCross:
		advice, err = runMACDZeroCross(c.Fast, c.Slow, c.Signal, history)
	case KindEMACross:
		advice, err = runEMACross(c.Fast, c.Slow, history)
	}

	if err != nil {
		return NoAdvice(), errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "%s", c.Name())
	}

	return advice, nil
}

// RunSeries evaluates the rule at every sample, quoting the sample close and using the
// history up to and including it. The first RequiredSamples entries are NoAdvice.
func (c Counselor) RunSeries(samples []types.Sample) ([]Advice, error) {
	advices := make([]Advice, len(samples))
	for i := range advices {
		advices[i] = NoAdvice()
	}

	for i := c.RequiredSamples(); i < len(samples); i++ {
		advice, err := c.Run(types.QuoteFromSample(types.NoToken, samples[i]), samples[:i+1])
		if err != nil {
			return nil, err
		}

		advices[i] = advice
	}

	return advices, nil
}

func checkHistory(history []types.Sample, required int) error {
	if len(history) < required {
		return errors.NewInsufficientDataErrorf(required, len(history), "",
			"history has %d samples, %d required", len(history), required)
	}

	if len(history) == 0 {
		return nil
	}

	for _, sample := range history[1:] {
		if sample.Resolution != history[0].Resolution {
			return errors.Newf(errors.ErrCodeInvalidResolution,
				"history mixes %s and %s samples", history[0].Resolution, sample.Resolution)
		}
	}

	return nil
}
