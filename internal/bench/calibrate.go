package bench

import (
	"fmt"
	"math"
	"time"

	"github.com/randomizedcoder/tscbench/internal/tsc"
)

const (
	defaultCalibrationCycles = 100

	// Stabilized calibration stops after this percentage of the iteration
	// budget passes without improving the minimum.
	defaultStabilizedPercent = 10

	// Attempts bound per requested sample, applied to calibration and to
	// Run. An operation that never yields a valid sample hits the bound
	// instead of looping forever.
	defaultAttemptsFactor = 100

	// rateSampleInterval is how long the wall-clock comparison runs when
	// calibrating the cycles-per-nanosecond ratio.
	rateSampleInterval = 10 * time.Millisecond
)

// Calibration operations: pure stateless functions with no captured state.
// noop times the bare counter-reading pair; readSystemClock times the pair
// around the cheapest system clock call available.
func noop() {}

func readSystemClock() { _ = nanotime() }

// minLatency times op n times and keeps the minimum observed duration.
//
// The minimum, not the mean, is the best estimate of pure overhead: any
// contending event (interrupt, cache miss, preemption) can only inflate a
// sample, never deflate it below the true floor. Samples that fail the
// migration or monotonicity checks do not count toward n.
func (b *Benchmark) minLatency(n int, op func()) (tsc.Timestamp, error) {
	min := tsc.Timestamp(math.MaxUint64)
	attempts := 0
	for i := 0; i < n; {
		if attempts >= n*defaultAttemptsFactor {
			return 0, fmt.Errorf("%w: %d valid of %d after %d attempts",
				ErrNoValidSamples, i, n, attempts)
		}
		attempts++

		start, end, sameCore := b.measure(op)
		if !sameCore || end <= start {
			continue
		}
		if d := end - start; d < min {
			min = d
		}
		i++
	}
	return min, nil
}

// stabilizedMinLatency is minLatency with early stopping: once threshold
// consecutive valid samples fail to beat the current minimum, the floor is
// considered stable and calibration ends. Trades a little estimation
// confidence for faster initialization.
func (b *Benchmark) stabilizedMinLatency(n, threshold int, op func()) (tsc.Timestamp, error) {
	min := tsc.Timestamp(math.MaxUint64)
	streak := 0
	attempts := 0
	for i := 0; i < n && streak < threshold; {
		if attempts >= n*defaultAttemptsFactor {
			return 0, fmt.Errorf("%w: %d valid of %d after %d attempts",
				ErrNoValidSamples, i, n, attempts)
		}
		attempts++

		start, end, sameCore := b.measure(op)
		if !sameCore || end <= start {
			continue
		}

		if d := end - start; d < min {
			min = d
			streak = 0
		}
		streak++
		i++
	}
	return min, nil
}

// calibrateOverhead computes the CalibrationState: the counter-reading
// floor and, separately, the marginal cost of a system clock call above
// that floor.
func (b *Benchmark) calibrateOverhead() error {
	measureMin := b.minLatency
	if b.stabilized {
		threshold := b.calibrationCycles * defaultStabilizedPercent / 100
		if threshold < 1 {
			threshold = 1
		}
		measureMin = func(n int, op func()) (tsc.Timestamp, error) {
			return b.stabilizedMinLatency(n, threshold, op)
		}
	}

	counter, err := measureMin(b.calibrationCycles, noop)
	if err != nil {
		return fmt.Errorf("bench: counter overhead calibration: %w", err)
	}
	clock, err := measureMin(b.calibrationCycles, readSystemClock)
	if err != nil {
		return fmt.Errorf("bench: clock overhead calibration: %w", err)
	}

	b.counterOverhead = counter
	if clock < counter {
		// Expected counter <= clock; a violation is an anomaly worth
		// surfacing, not a fatal condition.
		b.log.Debug().
			Uint64("counter_cycles", counter).
			Uint64("clock_cycles", clock).
			Msg("system clock floor below counter floor; clock overhead clamped to zero")
		b.clockOverhead = 0
	} else {
		b.clockOverhead = clock - counter
	}
	return nil
}

// calibrateRate measures cycles per nanosecond against the wall clock.
//
// The ratio is approximate and can vary with frequency scaling, power
// states, and thermal throttling; on invariant-rate counters it is stable.
func (b *Benchmark) calibrateRate() float64 {
	// Warm the read path so the first timed read is not a cold miss.
	b.clock.Start()
	b.clock.End()

	start := b.clock.Start()
	t1 := time.Now()
	time.Sleep(rateSampleInterval)
	end := b.clock.End()
	t2 := time.Now()

	cycles := float64(end - start)
	nanos := float64(t2.Sub(t1).Nanoseconds())

	return cycles / nanos
}
