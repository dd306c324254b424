// Package oracle resolves the advice of several counselors into one decision.
package oracle

import (
	"strings"

	"github.com/rxtech-lab/dionysus/internal/counselor"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// Oracle is an aggregation policy.
type Oracle string

const (
	// Delphi lets the first counselor with a signal decide.
	Delphi Oracle = "delphi"
	// Dodona is reserved for a future policy and refuses to decide.
	Dodona Oracle = "dodona"
)

// delphiAllocation is the fraction of free capital Delphi commits on a buy.
const delphiAllocation = 1.0

// Decision is an advice plus the fraction of free capital to commit on a buy.
type Decision struct {
	Advice counselor.Advice `yaml:"advice" json:"advice"`
	Pct    float64          `yaml:"pct" json:"pct"`
}

// NoDecision is the default "no trade" decision.
func NoDecision() Decision {
	return Decision{Advice: counselor.NoAdvice()}
}

// Name is the display name of the policy.
func (o Oracle) Name() string {
	switch o {
	case Delphi:
		return "Delphi"
	case Dodona:
		return "Dodona"
	default:
		return string(o)
	}
}

// Validate rejects unknown policies. Dodona is a known policy even though See refuses it.
func (o Oracle) Validate() error {
	switch o {
	case Delphi, Dodona:
		return nil
	default:
		return errors.Newf(errors.ErrCodeUnsupportedOracle, "unknown oracle %q", o)
	}
}

// See runs the counselors over the quote and history and returns one decision.
// Counselor failures are skipped.
func (o Oracle) See(quote types.Quote, history []types.Sample, counselors []counselor.Counselor) (Decision, error) {
	switch o {
	case Delphi:
		for _, c := range counselors {
			advice, err := c.Run(quote, history)
			if err != nil {
				continue
			}

			if advice.HasSignal() {
				return Decision{Advice: advice, Pct: delphiAllocation}, nil
			}
		}

		return NoDecision(), nil
	case Dodona:
		return NoDecision(), errors.New(errors.ErrCodeUnsupportedOracle, "the Dodona oracle is not supported yet")
	default:
		return NoDecision(), errors.Newf(errors.ErrCodeUnsupportedOracle, "unknown oracle %q", o)
	}
}

// Parse reads an oracle name, case-insensitively.
func Parse(name string) (Oracle, error) {
	o := Oracle(strings.ToLower(strings.TrimSpace(name)))
	if err := o.Validate(); err != nil {
		return "", err
	}

	return o, nil
}
