package indicator

// bollingerSeries returns the lower, middle and upper bands for every value.
func bollingerSeries(period int, width float64, values []float64) ([]float64, []float64, []float64) {
	w := newWindow(period)

	lower := make([]float64, len(values))
	mid := make([]float64, len(values))
	upper := make([]float64, len(values))

	for i, v := range values {
		w.push(v)

		mean := w.mean()
		deviation := w.deviation()

		lower[i] = mean - width*deviation
		mid[i] = mean
		upper[i] = mean + width*deviation
	}

	return lower, mid, upper
}
