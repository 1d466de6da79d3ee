//go:build !linux

package sched

import "runtime"

// PinThread is unavailable off Linux; the benchmark runs wherever the
// scheduler puts it.
func PinThread(core int) error { return ErrUnsupported }

// RealtimePriority is unavailable off Linux.
func RealtimePriority() error { return ErrUnsupported }

// LockMemoryPages is unavailable off Linux.
func LockMemoryPages() error { return ErrUnsupported }

// CoreCount returns the number of usable cores.
func CoreCount() int { return runtime.NumCPU() }
