package indicator

import "math"

// window keeps the last size values pushed into it.
type window struct {
	size   int
	values []float64
}

func newWindow(size int) *window {
	return &window{size: size, values: make([]float64, 0, size)}
}

func (w *window) push(x float64) {
	if len(w.values) == w.size {
		copy(w.values, w.values[1:])
		w.values = w.values[:w.size-1]
	}

	w.values = append(w.values, x)
}

// mean averages the values seen so far, at most size of them.
func (w *window) mean() float64 {
	if len(w.values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range w.values {
		sum += v
	}

	return sum / float64(len(w.values))
}

// deviation is the population standard deviation of the window.
func (w *window) deviation() float64 {
	if len(w.values) == 0 {
		return 0
	}

	mean := w.mean()

	sum := 0.0
	for _, v := range w.values {
		sum += (v - mean) * (v - mean)
	}

	return math.Sqrt(sum / float64(len(w.values)))
}

func smaSeries(period int, values []float64) []float64 {
	w := newWindow(period)

	out := make([]float64, len(values))
	for i, v := range values {
		w.push(v)
		out[i] = w.mean()
	}

	return out
}

func stdDevSeries(period int, values []float64) []float64 {
	w := newWindow(period)

	out := make([]float64, len(values))
	for i, v := range values {
		w.push(v)
		out[i] = w.deviation()
	}

	return out
}
