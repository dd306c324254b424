package indicator

import (
	"strconv"
	"strings"

	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// Parse reads the text form of an indicator, e.g. "EMA 9", "MACD 12 26 9", "BBANDS 20" or "RL 0.01".
// The keyword is case-insensitive. Bollinger bands default to a width of 2.
func Parse(text string) (Indicator, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return Indicator{}, errors.New(errors.ErrCodeMissingParameter, "empty indicator")
	}

	args := words[1:]

	var (
		ind Indicator
		err error
	)

	switch strings.ToUpper(words[0]) {
	case "EMA":
		ind, err = parsePeriod(args, EMA)
	case "SMA":
		ind, err = parsePeriod(args, SMA)
	case "SDEV":
		ind, err = parsePeriod(args, StdDev)
	case "RSI":
		ind, err = parsePeriod(args, RSI)
	case "BBANDS":
		ind, err = parseBollingerBands(args)
	case "MACD":
		var periods []int

		periods, err = parseInts(args, 3)
		if err == nil {
			ind = MACD(periods[0], periods[1], periods[2])
		}
	case "RL":
		ind, err = parseWidth(args, ResistanceLines)
	case "SL":
		ind, err = parseWidth(args, SupportLines)
	default:
		return Indicator{}, errors.Newf(errors.ErrCodeIndicatorNotFound, "unknown indicator %q", words[0])
	}

	if err != nil {
		return Indicator{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid indicator %q", text)
	}

	if err := ind.Validate(); err != nil {
		return Indicator{}, err
	}

	return ind, nil
}

func parsePeriod(args []string, build func(int) Indicator) (Indicator, error) {
	values, err := parseInts(args, 1)
	if err != nil {
		return Indicator{}, err
	}

	return build(values[0]), nil
}

func parseWidth(args []string, build func(float64) Indicator) (Indicator, error) {
	if len(args) != 1 {
		return Indicator{}, errors.Newf(errors.ErrCodeMissingParameter, "expected 1 argument, got %d", len(args))
	}

	width, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return Indicator{}, err
	}

	return build(width), nil
}

func parseBollingerBands(args []string) (Indicator, error) {
	if len(args) == 0 || len(args) > 2 {
		return Indicator{}, errors.Newf(errors.ErrCodeMissingParameter, "expected 1 or 2 arguments, got %d", len(args))
	}

	period, err := strconv.Atoi(args[0])
	if err != nil {
		return Indicator{}, err
	}

	width := 2.0
	if len(args) == 2 {
		width, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return Indicator{}, err
		}
	}

	return BollingerBands(period, width), nil
}

func parseInts(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, errors.Newf(errors.ErrCodeMissingParameter, "expected %d arguments, got %d", n, len(args))
	}

	values := make([]int, n)
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}

		values[i] = v
	}

	return values, nil
}
