//go:build linux

package sched

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// PinThread binds the calling thread to the given core.
//
// pid 0 means the calling thread, which is why the caller must have locked
// the goroutine to its OS thread first.
func PinThread(core int) error {
	if core < 0 {
		return fmt.Errorf("sched: core must be >= 0, got %d", core)
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(core)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("sched: pin thread to core %d: %w", core, err)
	}
	return nil
}

// schedParam mirrors struct sched_param for sched_setscheduler(2).
type schedParam struct {
	Priority int32
}

// RealtimePriority moves the calling thread into the SCHED_FIFO class at
// the maximum priority. Requires CAP_SYS_NICE (typically root).
//
// x/sys/unix carries the syscall numbers but no typed wrappers for the
// scheduler-class calls, so these go through Syscall directly.
func RealtimePriority() error {
	max, _, errno := unix.Syscall(unix.SYS_SCHED_GET_PRIORITY_MAX, uintptr(unix.SCHED_FIFO), 0, 0)
	if errno != 0 {
		return fmt.Errorf("sched: sched_get_priority_max: %w", errno)
	}

	param := schedParam{Priority: int32(max)}
	_, _, errno = unix.Syscall(
		unix.SYS_SCHED_SETSCHEDULER,
		0, // calling thread
		uintptr(unix.SCHED_FIFO),
		uintptr(unsafe.Pointer(&param)),
	)
	if errno != 0 {
		return fmt.Errorf("sched: sched_setscheduler(SCHED_FIFO, %d): %w", param.Priority, errno)
	}
	return nil
}

// LockMemoryPages locks all current and future pages of the process into
// RAM, taking page faults out of measured windows. Requires CAP_IPC_LOCK.
func LockMemoryPages() error {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return fmt.Errorf("sched: mlockall: %w", err)
	}
	return nil
}

// CoreCount returns the number of cores the thread may run on.
func CoreCount() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		if n := set.Count(); n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}
