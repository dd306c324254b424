package indicator

// macdSeries returns the MACD line, EMA(fast) - EMA(slow), and its EMA(signal) line.
func macdSeries(fast, slow, signal int, values []float64) ([]float64, []float64) {
	fastEMA := newEMA(fast)
	slowEMA := newEMA(slow)
	signalEMA := newEMA(signal)

	macd := make([]float64, len(values))
	signals := make([]float64, len(values))

	for i, v := range values {
		macd[i] = fastEMA.next(v) - slowEMA.next(v)
		signals[i] = signalEMA.next(macd[i])
	}

	return macd, signals
}
