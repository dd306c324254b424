package indicator

// neutralRSI is reported while gains and losses are both zero.
const neutralRSI = 50.0

type rsi struct {
	gains   *ema
	losses  *ema
	prev    float64
	started bool
}

func newRSI(period int) *rsi {
	return &rsi{gains: newEMA(period), losses: newEMA(period)}
}

func (r *rsi) next(x float64) float64 {
	gain, loss := 0.0, 0.0
	if r.started {
		if x > r.prev {
			gain = x - r.prev
		} else {
			loss = r.prev - x
		}
	}

	r.prev = x
	r.started = true

	up := r.gains.next(gain)
	down := r.losses.next(loss)

	if up+down == 0 {
		return neutralRSI
	}

	return 100 * up / (up + down)
}

func rsiSeries(period int, values []float64) []float64 {
	r := newRSI(period)

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = r.next(v)
	}

	return out
}
