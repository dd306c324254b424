package counselor

import (
	"strconv"
	"strings"

	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// Parse reads the text form of a counselor: "TRACE", "MEAN-REVERSION 20",
// "MACD-CROSSOVER 12 26 9", "MACD-ZERO-CROSS 12 26 9" or "EMA-CROSS 9 21".
func Parse(text string) (Counselor, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return Counselor{}, errors.New(errors.ErrCodeMissingParameter, "empty counselor")
	}

	keyword := strings.ToUpper(words[0])
	args := words[1:]

	var arity int

	switch keyword {
	case "TRACE":
		arity = 0
	case "MEAN-REVERSION":
		arity = 1
	case "EMA-CROSS":
		arity = 2
	case "MACD-CROSSOVER", "MACD-ZERO-CROSS":
		arity = 3
	default:
		return Counselor{}, errors.Newf(errors.ErrCodeUnsupportedCounselor, "unsupported counselor %q", words[0])
	}

	if len(args) != arity {
		return Counselor{}, errors.Newf(errors.ErrCodeMissingParameter, "%s expects %d arguments, got %d", keyword, arity, len(args))
	}

	values := make([]int, arity)
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return Counselor{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s: invalid argument %q", keyword, arg)
		}

		values[i] = v
	}

	var c Counselor

	switch keyword {
	case "TRACE":
		c = Trace()
	case "MEAN-REVERSION":
		c = MeanReversion(values[0])
	case "EMA-CROSS":
		c = EMACross(values[0], values[1])
	case "MACD-CROSSOVER":
		c = MACDCrossover(values[0], values[1], values[2])
	case "MACD-ZERO-CROSS":
		c = MACDZeroCross(values[0], values[1], values[2])
	}

	if err := c.Validate(); err != nil {
		return Counselor{}, err
	}

	return c, nil
}
