// Package strategy holds the serialisable trading configuration of an agent:
// an oracle, its counselors and the history window they read.
package strategy

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/dionysus/internal/counselor"
	"github.com/rxtech-lab/dionysus/internal/indicator"
	"github.com/rxtech-lab/dionysus/internal/oracle"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/samber/lo"
)

// DefaultCount is the number of candles a new strategy reads.
const DefaultCount = 200

// Strategy is the configuration half of an agent. It carries no runtime state.
type Strategy struct {
	Oracle     oracle.Oracle         `yaml:"oracle" json:"oracle" jsonschema:"required,enum=delphi,enum=dodona" validate:"required"`
	Counselors []counselor.Counselor `yaml:"counselors" json:"counselors" jsonschema:"required" validate:"dive"`
	Window     types.TimeWindow      `yaml:"window" json:"window" jsonschema:"required"`
}

// New creates a strategy.
func New(o oracle.Oracle, window types.TimeWindow, counselors ...counselor.Counselor) Strategy {
	return Strategy{Oracle: o, Counselors: counselors, Window: window}
}

// Default is the strategy given to new agents: Delphi over 200 daily candles with mean reversion.
func Default() Strategy {
	return New(oracle.Delphi, types.Days(DefaultCount), counselor.MeanReversion(20))
}

// Run asks the oracle for a decision.
func (s Strategy) Run(quote types.Quote, history []types.Sample) (oracle.Decision, error) {
	return s.Oracle.See(quote, history, s.Counselors)
}

// Name is the display name, e.g. "Delphi 1h".
func (s Strategy) Name() string {
	return fmt.Sprintf("%s %s", s.Oracle.Name(), s.Window.Resolution.Name())
}

// RequiredSamples is the largest lookback among the counselors.
func (s Strategy) RequiredSamples() int {
	return lo.Max(lo.Map(s.Counselors, func(c counselor.Counselor, _ int) int {
		return c.RequiredSamples()
	}))
}

// Indicators collects the indicators of every counselor without duplicates.
func (s Strategy) Indicators() indicator.Registry {
	registry := indicator.NewRegistry()
	for _, c := range s.Counselors {
		for _, ind := range c.Indicators() {
			registry.Add(ind)
		}
	}

	return registry
}

// Validate checks the oracle, the counselors and that the window covers every lookback.
func (s Strategy) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy", err)
	}

	if err := s.Oracle.Validate(); err != nil {
		return err
	}

	for _, c := range s.Counselors {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	if s.Window.Resolution.IsZero() {
		return errors.New(errors.ErrCodeStrategyConfigError, "strategy window has no resolution")
	}

	if required := s.RequiredSamples(); s.Window.Count < required {
		return errors.Newf(errors.ErrCodeStrategyConfigError,
			"strategy window of %d candles is shorter than the %d its counselors need", s.Window.Count, required)
	}

	return nil
}
