//go:build !amd64

package tsc

// Stub for architectures without a supported cycle counter.
// New always fails, so the read functions are never reachable.

// Supported reports whether the CPU has a time stamp counter.
func Supported() bool { return false }

// SupportsReadAndIdentify reports whether the CPU implements a combined
// read-and-identify instruction.
func SupportsReadAndIdentify() bool { return false }

// InvariantRate reports whether the counter rate is invariant.
func InvariantRate() bool { return false }

func bindReaders(c *Clock, b Barrier) error {
	return ErrNotSupported
}
