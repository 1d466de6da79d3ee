//go:build amd64

package bench_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/tscbench/internal/bench"
	"github.com/randomizedcoder/tscbench/internal/tsc"
)

func TestInitializeComputesCalibrationState(t *testing.T) {
	b := newInitialized(t)

	assert.Greater(t, b.CounterOverhead(), tsc.Timestamp(0),
		"a serialized counter read pair cannot be free")

	// Sanity range for cycles/ns: 100MHz to 10GHz equivalent.
	rate := b.CyclesPerNanosecond()
	assert.Greater(t, rate, 0.1)
	assert.Less(t, rate, 10.0)
}

// Calibration is idempotent in distribution: two floors computed on the
// same hardware agree within a modest factor. On an idle system they land
// within ~20% of each other; shared test machines are not idle, so the
// tolerance here is looser.
func TestCalibrationIdempotent(t *testing.T) {
	first := newInitialized(t)
	second := newInitialized(t)

	a := float64(first.CounterOverhead())
	b := float64(second.CounterOverhead())
	require.Greater(t, a, 0.0)
	require.Greater(t, b, 0.0)

	ratio := a / b
	assert.Greater(t, ratio, 1.0/3)
	assert.Less(t, ratio, 3.0)
}

func TestStabilizedCalibration(t *testing.T) {
	plain := newInitialized(t)
	stabilized := newInitialized(t, bench.WithStabilizedCalibration(true))

	require.Greater(t, stabilized.CounterOverhead(), tsc.Timestamp(0))

	// The early-stopped floor trades confidence for speed but must stay in
	// the same neighborhood as the full calibration.
	ratio := float64(stabilized.CounterOverhead()) / float64(plain.CounterOverhead())
	assert.Greater(t, ratio, 0.1)
	assert.Less(t, ratio, 10.0)
}

func TestCalibrationCyclesOption(t *testing.T) {
	b := newInitialized(t, bench.WithCalibrationCycles(500))
	assert.Greater(t, b.CounterOverhead(), tsc.Timestamp(0))

	// Values below 1 fall back to the default instead of breaking the
	// min-of-N loop.
	fallback := newInitialized(t, bench.WithCalibrationCycles(0))
	assert.Greater(t, fallback.CounterOverhead(), tsc.Timestamp(0))
}
