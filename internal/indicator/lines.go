package indicator

import (
	"math"
	"sort"

	"github.com/rxtech-lab/dionysus/internal/types"
)

type cluster struct {
	sum   float64
	count int
}

func (c cluster) level() float64 {
	return c.sum / float64(c.count)
}

// extremum reports the body bottom (support) or top (resistance) of b when it is
// a local extremum between a and c.
func extremum(a, b, c types.Sample, support bool) (float64, bool) {
	if support {
		t0 := math.Min(a.Open, a.Close)
		t1 := math.Min(b.Open, b.Close)
		t2 := math.Min(c.Open, c.Close)

		return t1, t1 <= t0 && t1 <= t2
	}

	t0 := math.Max(a.Open, a.Close)
	t1 := math.Max(b.Open, b.Close)
	t2 := math.Max(c.Open, c.Close)

	return t1, t1 >= t0 && t1 >= t2
}

// lineLevels clusters local extrema whose relative distance to a cluster mean is
// at most width. Levels are sorted from highest to lowest.
func lineLevels(width float64, support bool, samples []types.Sample) []float64 {
	var clusters []cluster

	for i := 1; i+1 < len(samples); i++ {
		value, ok := extremum(samples[i-1], samples[i], samples[i+1], support)
		if !ok {
			continue
		}

		found := false
		for c := range clusters {
			if value != 0 && math.Abs((clusters[c].level()-value)/value) <= width {
				clusters[c].sum += value
				clusters[c].count++
				found = true

				break
			}
		}

		if !found {
			clusters = append(clusters, cluster{sum: value, count: 1})
		}
	}

	levels := make([]float64, len(clusters))
	for i, c := range clusters {
		levels[i] = c.level()
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(levels)))

	return levels
}
