// Package crossover classifies the ordering between two series over time.
//
// Classifications are produced lazily as an iter.Seq and can be iterated any
// number of times:
//
//	for c := range crossover.Series(macd, signal, cmp.Compare[float64]) {
//		...
//	}
package crossover

import (
	"cmp"
	"iter"
)

// Crossover is the relation of a series to another at one point in time.
type Crossover string

const (
	Below        Crossover = "below"
	Above        Crossover = "above"
	Equal        Crossover = "equal"
	CrossingUp   Crossover = "crossing-up"
	CrossingDown Crossover = "crossing-down"
)

// Signal ranks the crossover: Above +1, Below -1, Equal 0, CrossingUp +2, CrossingDown -2.
func (c Crossover) Signal() int {
	switch c {
	case Above:
		return 1
	case Below:
		return -1
	case CrossingUp:
		return 2
	case CrossingDown:
		return -2
	default:
		return 0
	}
}

// First classifies the first point of a series, which has no predecessor.
func First(ordering int) Crossover {
	if ordering > 0 {
		return Above
	}

	return Below
}

// FromOrdering combines the current and previous orderings (as returned by cmp.Compare).
func FromOrdering(curr, prev int) Crossover {
	switch {
	case prev > 0:
		if curr > 0 {
			return Above
		}

		return CrossingDown
	case prev == 0:
		switch {
		case curr > 0:
			return CrossingUp
		case curr == 0:
			return Equal
		default:
			return CrossingDown
		}
	default:
		if curr < 0 {
			return Below
		}

		return CrossingUp
	}
}

// Classify turns a sequence of orderings into a sequence of crossovers.
func Classify(orderings iter.Seq[int]) iter.Seq[Crossover] {
	return func(yield func(Crossover) bool) {
		var prev int

		started := false
		for curr := range orderings {
			c := First(curr)
			if started {
				c = FromOrdering(curr, prev)
			}

			if !yield(c) {
				return
			}

			prev = curr
			started = true
		}
	}
}

// Series classifies a against b point by point using compare. Only the first
// min(len(a), len(b)) points are classified.
func Series[T any](a, b []T, compare func(T, T) int) iter.Seq[Crossover] {
	n := min(len(a), len(b))

	return Classify(func(yield func(int) bool) {
		for i := range n {
			if !yield(compare(a[i], b[i])) {
				return
			}
		}
	})
}

// ZeroCross classifies a curve against the zero constant.
func ZeroCross(curve []float64) iter.Seq[Crossover] {
	return Classify(func(yield func(int) bool) {
		for _, v := range curve {
			if !yield(cmp.Compare(v, 0)) {
				return
			}
		}
	})
}

// Last reduces a sequence to its final element. ok is false for an empty sequence.
func Last(seq iter.Seq[Crossover]) (last Crossover, ok bool) {
	for c := range seq {
		last = c
		ok = true
	}

	return last, ok
}

// Compute returns the current crossover of a against b.
func Compute[T any](a, b []T, compare func(T, T) int) (Crossover, bool) {
	return Last(Series(a, b, compare))
}

// ComputeZero returns the current crossover of a curve against zero.
func ComputeZero(curve []float64) (Crossover, bool) {
	return Last(ZeroCross(curve))
}
