//go:build linux

package sched_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/randomizedcoder/tscbench/internal/sched"
)

func TestPinThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// Remember the original mask so the test thread can be restored.
	var orig unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &orig))
	defer func() { _ = unix.SchedSetaffinity(0, &orig) }()

	// Pin to the first core the thread may already run on; cpusets in
	// containers do not always include core 0.
	core := -1
	for i := 0; i < 1024; i++ {
		if orig.IsSet(i) {
			core = i
			break
		}
	}
	require.NotEqual(t, -1, core, "no usable core in affinity mask")

	require.NoError(t, sched.PinThread(core))

	var set unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &set))
	require.Equal(t, 1, set.Count(), "affinity mask should hold exactly one core")
	require.True(t, set.IsSet(core), "affinity mask should hold the pinned core")
}

func TestPinThreadNegativeCore(t *testing.T) {
	require.Error(t, sched.PinThread(-1))
}

func TestPinThreadOutOfRangeCore(t *testing.T) {
	// A core index far beyond the machine must fail, not silently pin.
	require.Error(t, sched.PinThread(1<<20))
}

func TestCoreCount(t *testing.T) {
	n := sched.CoreCount()
	require.GreaterOrEqual(t, n, 1)
	require.LessOrEqual(t, n, runtime.NumCPU())
}
