package indicator

// ema is a streaming exponential moving average seeded with its first input.
type ema struct {
	k      float64
	value  float64
	seeded bool
}

func newEMA(period int) *ema {
	return &ema{k: 2.0 / float64(period+1)}
}

// next feeds one value: EMA = k * x + (1 - k) * EMA_prev.
func (e *ema) next(x float64) float64 {
	if !e.seeded {
		e.value = x
		e.seeded = true

		return e.value
	}

	e.value = e.k*x + (1-e.k)*e.value

	return e.value
}

func emaSeries(period int, values []float64) []float64 {
	e := newEMA(period)

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = e.next(v)
	}

	return out
}
