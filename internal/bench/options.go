package bench

import (
	"github.com/rs/zerolog"

	"github.com/randomizedcoder/tscbench/internal/tsc"
)

type config struct {
	barrier           tsc.Barrier
	checkMigration    bool
	stabilized        bool
	calibrationCycles int
	log               zerolog.Logger
}

// Option configures a Benchmark at construction. The barrier policy and
// migration-detection flag are fixed for the Benchmark's lifetime; they
// cannot be changed per Run.
type Option func(*config)

// WithBarrier selects the instruction-ordering policy for every timestamp
// read this Benchmark performs. Default is tsc.SerializeOnce.
func WithBarrier(b tsc.Barrier) Option {
	return func(c *config) { c.barrier = b }
}

// WithMigrationCheck enables core-migration detection: every sample is read
// with the identifying variant and discarded if the start and end core
// differ. Requires read-and-identify support.
func WithMigrationCheck(enabled bool) Option {
	return func(c *config) { c.checkMigration = enabled }
}

// WithStabilizedCalibration switches overhead calibration to the
// early-stopping variant: calibration ends once a streak of iterations
// fails to improve the minimum. Slightly less confident floor, faster
// initialization.
func WithStabilizedCalibration(enabled bool) Option {
	return func(c *config) { c.stabilized = enabled }
}

// WithCalibrationCycles sets the number of calibration iterations.
// Default is 100. Values below 1 are ignored.
func WithCalibrationCycles(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.calibrationCycles = n
		}
	}
}

// WithLogger sets the diagnostic channel for degraded-accuracy warnings
// (failed pinning, missing invariant rate, failed realtime setup).
// Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}
