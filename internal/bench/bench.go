// Package bench measures the wall-clock cost of short code sections using
// the CPU cycle counter, corrected for the cost of the measurement
// machinery itself.
//
// A Benchmark is constructed once (hardware capability is validated there),
// initialized once (overhead floors and the cycles-per-nanosecond ratio are
// calibrated, best-effort OS tuning is applied), and then runs any number
// of independent measurement sessions.
//
// The engine is strictly single-threaded: one thread calibrates and
// measures, and a Benchmark must not be shared between concurrent sessions.
// Interleaved execution would corrupt both the minimum-latency calibration
// and per-sample accuracy.
package bench

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/randomizedcoder/tscbench/internal/sched"
	"github.com/randomizedcoder/tscbench/internal/tsc"
)

var (
	// ErrNotInitialized is returned by Run before Initialize has computed
	// the calibration state.
	ErrNotInitialized = errors.New("bench: Initialize must be called before Run")

	// ErrNoValidSamples is returned when the attempts bound is exhausted
	// before the requested number of valid samples was collected.
	ErrNoValidSamples = errors.New("bench: could not collect requested valid samples")
)

// Benchmark owns a hardware clock, its calibration state, and the
// diagnostic channel. Not safe for concurrent use.
type Benchmark struct {
	clock          *tsc.Clock
	checkMigration bool
	stabilized     bool

	calibrationCycles int
	log               zerolog.Logger

	// Calibration state, computed once by Initialize.
	counterOverhead tsc.Timestamp // cycles
	clockOverhead   tsc.Timestamp // cycles, marginal over counterOverhead
	cyclesPerNs     float64
	initialized     bool
}

// New validates hardware capability and constructs a Benchmark.
//
// Missing cycle-counter support, or missing read-and-identify support when
// the policy or migration detection requires it, are fatal: the Benchmark
// refuses construction. A counter without an invariant rate only draws a
// warning; measurements remain valid but may vary across power states.
func New(opts ...Option) (*Benchmark, error) {
	cfg := config{
		barrier:           tsc.SerializeOnce,
		calibrationCycles: defaultCalibrationCycles,
		log:               zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clock, err := tsc.New(cfg.barrier)
	if err != nil {
		return nil, err
	}
	if cfg.checkMigration && !tsc.SupportsReadAndIdentify() {
		return nil, fmt.Errorf("bench: migration detection: %w", tsc.ErrReadAndIdentifyNotSupported)
	}

	if !tsc.InvariantRate() {
		cfg.log.Warn().Msg("invariant cycle counter not supported; durations may vary across power states")
	}

	return &Benchmark{
		clock:             clock,
		checkMigration:    cfg.checkMigration,
		stabilized:        cfg.stabilized,
		calibrationCycles: cfg.calibrationCycles,
		log:               cfg.log,
	}, nil
}

// Initialize applies best-effort OS tuning and computes the calibration
// state. Call once before Run; calling it again recalibrates.
//
// Realtime scheduling and page locking are attempted only with elevated
// privilege; failures degrade measurement stability, never abort.
func (b *Benchmark) Initialize() error {
	if os.Geteuid() == 0 {
		if err := sched.RealtimePriority(); err != nil {
			b.log.Warn().Err(err).Msg("failed to switch to realtime scheduling class")
		} else {
			b.log.Info().Msg("scheduling policy changed to realtime class with max priority")
		}
		if err := sched.LockMemoryPages(); err != nil {
			b.log.Warn().Err(err).Msg("failed to lock process pages")
		} else {
			b.log.Info().Msg("all process pages locked, paging disabled")
		}
	} else {
		b.log.Warn().Msg("running without root; default scheduler and priority")
	}

	b.cyclesPerNs = b.calibrateRate()
	if err := b.calibrateOverhead(); err != nil {
		return err
	}
	b.initialized = true

	b.log.Debug().
		Uint64("counter_overhead_cycles", b.counterOverhead).
		Uint64("clock_overhead_cycles", b.clockOverhead).
		Float64("cycles_per_ns", b.cyclesPerNs).
		Msg("calibration complete")
	return nil
}

// measure takes one start/end reading pair around op.
//
// With migration detection enabled, the identifying read variant is used
// and sameCore reports whether both reads executed on one core; otherwise
// sameCore is always true.
func (b *Benchmark) measure(op func()) (start, end tsc.Timestamp, sameCore bool) {
	if b.checkMigration {
		var c0, c1 tsc.CoreID
		start, c0 = b.clock.StartCore()
		op()
		end, c1 = b.clock.EndCore()
		return start, end, c0 == c1
	}
	start = b.clock.Start()
	op()
	end = b.clock.End()
	return start, end, true
}

// Run measures op until settings.Cycles valid samples are accumulated and
// returns their overhead-inclusive average.
//
// The executing thread is locked and pinned to settings.Core for the
// session; pinning failure is logged and measurement proceeds on whatever
// core the scheduler assigns. Samples are discarded (and retried, without
// counting toward Cycles) when the core changed mid-measurement, the reads
// inverted, or the duration was at or below the calibrated overhead floor:
// such samples carry no information about the true cost of op and must not
// shrink the effective sample size. The retry budget is bounded by
// settings.MaxAttempts.
func (b *Benchmark) Run(op func(), settings Settings) (Result, error) {
	if err := settings.Validate(); err != nil {
		return Result{}, err
	}
	if !b.initialized {
		return Result{}, ErrNotInitialized
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := sched.PinThread(settings.Core); err != nil {
		b.log.Warn().Err(err).Int("core", settings.Core).Msg("failed to pin thread")
	}

	// Warm-up: measured and discarded. Exists to populate caches and
	// branch predictors and to take one-time page-fault costs out of the
	// measured window. Migration during warm-up needs no special handling,
	// everything here is discarded anyway.
	for i := 0; i < settings.Warmup; i++ {
		_, _, _ = b.measure(op)
	}

	res := Result{Overhead: b.cyclesToDuration(float64(b.counterOverhead))}
	maxAttempts := settings.maxAttempts()

	var samples []float64
	if settings.CollectStats {
		samples = make([]float64, 0, settings.Cycles)
	}

	var sum tsc.Timestamp
	valid := 0
	for valid < settings.Cycles {
		if res.Attempts >= maxAttempts {
			return res, fmt.Errorf("%w: %d valid of %d after %d attempts",
				ErrNoValidSamples, valid, settings.Cycles, res.Attempts)
		}
		res.Attempts++

		start, end, sameCore := b.measure(op)
		if !sameCore {
			res.Migrations++
			continue
		}
		if end <= start {
			res.Inversions++
			continue
		}
		d := end - start
		if d <= b.counterOverhead {
			res.BelowFloor++
			continue
		}

		sum += d
		if samples != nil {
			samples = append(samples, b.cyclesToNanos(float64(d)))
		}
		valid++
	}

	res.Time = b.cyclesToDuration(float64(sum) / float64(settings.Cycles))
	if res.Time <= res.Overhead {
		// Every retained duration exceeds the floor, so this only happens
		// when the counter resolution is too coarse relative to overhead.
		b.log.Warn().
			Dur("time", res.Time).
			Dur("overhead", res.Overhead).
			Msg("average at or below overhead floor; counter resolution may be too coarse")
	}
	if settings.CollectStats {
		res.Stats = summarize(samples)
	}
	return res, nil
}

// MeasureTime is the minimal-overhead path: one start read, one execution,
// one end read, raw difference in cycles.
//
// No warm-up, no filtering, no averaging, no migration handling; for call
// sites where the loop control and branching of Run would be comparable to
// the thing being measured. The result includes counter-reading overhead;
// subtract CounterOverhead for a net estimate.
func (b *Benchmark) MeasureTime(op func()) tsc.Timestamp {
	start := b.clock.Start()
	op()
	end := b.clock.End()
	return end - start
}

// CounterOverhead returns the calibrated floor of the counter-reading
// pair, in cycles. Zero before Initialize.
func (b *Benchmark) CounterOverhead() tsc.Timestamp {
	return b.counterOverhead
}

// ClockOverhead returns the marginal cost of a system clock call above the
// counter-reading floor, in cycles. Zero before Initialize.
func (b *Benchmark) ClockOverhead() tsc.Timestamp {
	return b.clockOverhead
}

// CyclesPerNanosecond returns the calibrated counter rate. Zero before
// Initialize.
func (b *Benchmark) CyclesPerNanosecond() float64 {
	return b.cyclesPerNs
}

// Barrier returns the clock's barrier policy.
func (b *Benchmark) Barrier() tsc.Barrier {
	return b.clock.Barrier()
}

// CyclesToDuration converts a raw cycle count (e.g. from MeasureTime) to a
// duration using the calibrated rate.
func (b *Benchmark) CyclesToDuration(cycles tsc.Timestamp) time.Duration {
	return b.cyclesToDuration(float64(cycles))
}

func (b *Benchmark) cyclesToNanos(cycles float64) float64 {
	if b.cyclesPerNs <= 0 {
		return 0
	}
	return cycles / b.cyclesPerNs
}

func (b *Benchmark) cyclesToDuration(cycles float64) time.Duration {
	return time.Duration(b.cyclesToNanos(cycles))
}
