package bench

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stats describes the distribution of retained sample durations.
// A single average hides bimodal behavior (cache hit vs miss, fast path vs
// slow path); the quantiles make it visible.
type Stats struct {
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
}

// summarize reduces per-sample durations (nanoseconds) to a Stats.
// The input slice is sorted in place.
func summarize(ns []float64) *Stats {
	if len(ns) == 0 {
		return nil
	}
	sort.Float64s(ns)

	s := &Stats{
		Min:  nsToDuration(ns[0]),
		Max:  nsToDuration(ns[len(ns)-1]),
		Mean: nsToDuration(stat.Mean(ns, nil)),
		P50:  nsToDuration(stat.Quantile(0.50, stat.Empirical, ns, nil)),
		P95:  nsToDuration(stat.Quantile(0.95, stat.Empirical, ns, nil)),
		P99:  nsToDuration(stat.Quantile(0.99, stat.Empirical, ns, nil)),
	}
	if len(ns) > 1 {
		s.StdDev = nsToDuration(stat.StdDev(ns, nil))
	}
	return s
}

func nsToDuration(ns float64) time.Duration {
	if math.IsNaN(ns) || ns < 0 {
		return 0
	}
	return time.Duration(math.Round(ns))
}
