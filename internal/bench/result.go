package bench

import "time"

// Result is the outcome of one measurement session.
//
// Time is the overhead-inclusive average latency per retained sample.
// Overhead is the calibrated cost of the counter-reading pair itself; the
// caller subtracts it to estimate net cost. Both are derived from cycle
// counts through the calibrated cycles-per-nanosecond ratio.
type Result struct {
	Time     time.Duration
	Overhead time.Duration

	// Attempts counts every measurement taken in the measurement phase,
	// including discarded ones. The discard counters say why a sample was
	// thrown away: the executing core changed between the reads, the end
	// read did not advance past the start read, or the duration was at or
	// below the overhead floor and indistinguishable from noise.
	Attempts   int
	Migrations int
	Inversions int
	BelowFloor int

	// Stats summarizes the retained samples. Only present when
	// Settings.CollectStats was set.
	Stats *Stats
}
