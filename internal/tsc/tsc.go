// Package tsc reads the CPU's time stamp counter with configurable
// instruction-ordering barriers.
//
// This package offers five read strategies, selected once at construction:
//   - SerializeOnce: CPUID before each read (default, cheapest serialization)
//   - LoadFence: LFENCE before the end read, CPUID after it
//   - StoreFence: MFENCE after the end read
//   - ReadAndIdentify: RDTSCP end read with trailing CPUID (vendor recommended)
//   - SerializeTwice: CPUID on both sides of every read
//
// The start read is always preceded by a serializing instruction so the code
// under test cannot begin executing before the measurement does. The policies
// differ only in how much of the code under test is guaranteed retired before
// the end read completes; none is correct in an absolute sense, only
// appropriate to a stated accuracy requirement.
package tsc

import (
	"errors"
	"fmt"
)

// Timestamp is a raw cycle count read from the time stamp counter.
//
// Differences between two timestamps taken on the same core are a valid
// cycle duration. Differences across cores are meaningless: counters are
// not guaranteed synchronized between cores.
type Timestamp = uint64

// CoreID identifies the logical core a timestamp was read on.
// Only the read-and-identify variants (StartCore/EndCore) capture it.
type CoreID = uint32

// coreIDMask keeps the core-identifying bits of IA32_TSC_AUX.
const coreIDMask = 0xFFFFFF

// Barrier selects where serializing and fencing instructions are inserted
// relative to the counter read. Fixed for the lifetime of a Clock.
type Barrier int

const (
	// SerializeOnce issues a single CPUID before each read.
	// Good balance of accuracy and overhead.
	SerializeOnce Barrier = iota

	// LoadFence issues LFENCE before the end read and CPUID after it,
	// preventing later loads from retiring before the end read.
	LoadFence

	// StoreFence issues MFENCE after the end read, preventing any memory
	// operation from retiring before the end read.
	StoreFence

	// ReadAndIdentify uses RDTSCP for the end read; the instruction itself
	// waits for prior instructions to retire, and a trailing CPUID stops
	// later instructions from issuing early.
	ReadAndIdentify

	// SerializeTwice issues CPUID on both sides of every read.
	// Maximum ordering guarantee, highest overhead.
	SerializeTwice
)

// String returns the barrier name.
func (b Barrier) String() string {
	switch b {
	case SerializeOnce:
		return "serialize-once"
	case LoadFence:
		return "load-fence"
	case StoreFence:
		return "store-fence"
	case ReadAndIdentify:
		return "read-and-identify"
	case SerializeTwice:
		return "serialize-twice"
	default:
		return fmt.Sprintf("barrier(%d)", int(b))
	}
}

// Barriers lists every policy, in declaration order.
func Barriers() []Barrier {
	return []Barrier{SerializeOnce, LoadFence, StoreFence, ReadAndIdentify, SerializeTwice}
}

var (
	// ErrNotSupported is returned when the host has no usable cycle counter.
	ErrNotSupported = errors.New("tsc: cycle counter not supported on this CPU/architecture")

	// ErrReadAndIdentifyNotSupported is returned when RDTSCP is required
	// but the CPU does not implement it.
	ErrReadAndIdentifyNotSupported = errors.New("tsc: rdtscp not supported on this CPU")

	// ErrUnknownBarrier is returned for a Barrier value outside the closed set.
	ErrUnknownBarrier = errors.New("tsc: unknown barrier policy")
)

// Clock reads paired start/end cycle timestamps under one barrier policy.
//
// The read sequences are bound once at construction, so each call is a
// single indirect call into an assembly function. A Clock is not safe for
// concurrent use; interleaved measurement would corrupt sample accuracy.
type Clock struct {
	barrier Barrier

	start func() Timestamp
	end   func() Timestamp

	startCore func() (Timestamp, uint32)
	endCore   func() (Timestamp, uint32)
}

// New returns a Clock using the given barrier policy.
//
// It fails if the host lacks a cycle counter, or if the policy requires the
// read-and-identify instruction and the CPU does not implement it. The
// core-capturing variants always use read-and-identify, so CPUs without it
// are limited to Start/End (New still succeeds for the other policies;
// StartCore/EndCore must not be used on such hardware, and the owning
// benchmark object checks this before enabling migration detection).
func New(b Barrier) (*Clock, error) {
	if !Supported() {
		return nil, ErrNotSupported
	}
	if b == ReadAndIdentify && !SupportsReadAndIdentify() {
		return nil, ErrReadAndIdentifyNotSupported
	}

	c := &Clock{barrier: b}
	if err := bindReaders(c, b); err != nil {
		return nil, err
	}
	return c, nil
}

// Barrier returns the policy the Clock was constructed with.
func (c *Clock) Barrier() Barrier {
	return c.barrier
}

// Start returns a cycle timestamp to open a measurement.
func (c *Clock) Start() Timestamp {
	return c.start()
}

// End returns a cycle timestamp to close a measurement.
func (c *Clock) End() Timestamp {
	return c.end()
}

// StartCore returns a cycle timestamp and the core it was read on.
func (c *Clock) StartCore() (Timestamp, CoreID) {
	t, aux := c.startCore()
	return t, aux & coreIDMask
}

// EndCore returns a cycle timestamp and the core it was read on.
func (c *Clock) EndCore() (Timestamp, CoreID) {
	t, aux := c.endCore()
	return t, aux & coreIDMask
}
