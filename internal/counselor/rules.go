package counselor

import (
	"cmp"

	"github.com/rxtech-lab/dionysus/internal/crossover"
	"github.com/rxtech-lab/dionysus/internal/indicator"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

func runTrace(quote types.Quote) Advice {
	advice := NoAdvice()
	advice.StopPrice = -1

	if quote.Ask.IsSome() {
		advice.StopPrice = quote.Ask.Unwrap()
	}

	return advice
}

func runMeanReversion(n int, quote types.Quote, history []types.Sample) (Advice, error) {
	data, err := indicator.BollingerBands(n, bandWidth).Compute(history)
	if err != nil {
		return NoAdvice(), err
	}

	bands, err := data.AsMatrix()
	if err != nil {
		return NoAdvice(), err
	}

	if len(bands) != 3 || len(bands[0]) == 0 || len(bands[2]) == 0 {
		return NoAdvice(), errors.Newf(errors.ErrCodeUnexpectedShape, "expected 3 bollinger bands, got %d", len(bands))
	}

	if quote.Ask.IsNone() {
		return NoAdvice(), nil
	}

	ask := quote.Ask.Unwrap()
	lower := bands[0][0]
	upper := bands[2][0]

	advice := NoAdvice()

	switch {
	case ask < lower:
		advice.Signal = types.SignalBuy
		advice.StopPrice = lower
		advice.StopLoss = lower
	case ask > upper:
		advice.Signal = types.SignalSell
		advice.StopPrice = upper
		advice.StopLoss = upper
	}

	return advice, nil
}

func macdLines(fast, slow, signal int, history []types.Sample) ([]float64, []float64, error) {
	data, err := indicator.MACD(fast, slow, signal).ComputeSeries(history)
	if err != nil {
		return nil, nil, err
	}

	lines, err := data.AsMatrix()
	if err != nil {
		return nil, nil, err
	}

	if len(lines) != 2 {
		return nil, nil, errors.Newf(errors.ErrCodeUnexpectedShape, "expected macd and signal lines, got %d", len(lines))
	}

	return lines[0], lines[1], nil
}

// adviseOnCross turns a crossing into a buy at the last high or a sell at the last low.
func adviseOnCross(c crossover.Crossover, last types.Sample) Advice {
	switch c {
	case crossover.CrossingUp:
		return buyFrom(last.High, last.Low)
	case crossover.CrossingDown:
		return sellFrom(last.Low, last.High)
	default:
		return NoAdvice()
	}
}

func runMACDCrossover(fast, slow, signal int, history []types.Sample) (Advice, error) {
	macd, signals, err := macdLines(fast, slow, signal, history)
	if err != nil {
		return NoAdvice(), err
	}

	c, ok := crossover.Compute(macd, signals, cmp.Compare[float64])
	if !ok {
		return NoAdvice(), nil
	}

	return adviseOnCross(c, history[len(history)-1]), nil
}

func runMACDZeroCross(fast, slow, signal int, history []types.Sample) (Advice, error) {
	macd, _, err := macdLines(fast, slow, signal, history)
	if err != nil {
		return NoAdvice(), err
	}

	c, ok := crossover.ComputeZero(macd)
	if !ok {
		return NoAdvice(), nil
	}

	return adviseOnCross(c, history[len(history)-1]), nil
}

func emaLine(period int, history []types.Sample) ([]float64, error) {
	data, err := indicator.EMA(period).ComputeSeries(history)
	if err != nil {
		return nil, err
	}

	return data.AsVector()
}

func runEMACross(fast, slow int, history []types.Sample) (Advice, error) {
	fastEMA, err := emaLine(fast, history)
	if err != nil {
		return NoAdvice(), err
	}

	slowEMA, err := emaLine(slow, history)
	if err != nil {
		return NoAdvice(), err
	}

	c, ok := crossover.Compute(fastEMA, slowEMA, cmp.Compare[float64])
	if !ok {
		return NoAdvice(), nil
	}

	last := history[len(history)-1]
	stopLoss := slowEMA[len(slowEMA)-1]

	switch c {
	case crossover.CrossingUp:
		return buyFrom(last.High, stopLoss), nil
	case crossover.CrossingDown:
		return sellFrom(last.Low, stopLoss), nil
	default:
		return NoAdvice(), nil
	}
}
