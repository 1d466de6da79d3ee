package bench

import (
	_ "unsafe" // Required for go:linkname
)

// nanotime returns the runtime's monotonic clock in nanoseconds.
//
// The calibrator times this call as its representative system-clock
// operation: it is the cheapest clock read Go offers (a single int64, no
// time.Time construction), so the measured floor is the marginal cost of a
// clock call rather than of struct assembly.
//
// Note: go:linkname into the runtime may break in future Go versions,
// though this particular symbol has been stable.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64
