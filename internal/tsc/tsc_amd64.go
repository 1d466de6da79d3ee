//go:build amd64

package tsc

// Composed read sequences, implemented in tsc_amd64.s. Each function is one
// uninterrupted instruction sequence so no fence/read pair straddles a Go
// call boundary. Naming follows instruction order.

func cpuidRdtsc() uint64
func cpuidRdtscCpuid() uint64
func lfenceRdtscCpuid() uint64
func cpuidRdtscMfence() uint64
func rdtscpCpuid() uint64

func cpuidRdtscp() (uint64, uint32)
func cpuidRdtscpCpuid() (uint64, uint32)
func lfenceRdtscpCpuid() (uint64, uint32)
func cpuidRdtscpMfence() (uint64, uint32)
func rdtscpCpuidAux() (uint64, uint32)

// cpuid executes the CPUID instruction for the given leaf and subleaf.
func cpuid(leaf, sub uint32) (eax, ebx, ecx, edx uint32)

// CPUID feature bits and leaves.
const (
	leaf1TSCBit       = 1 << 4  // leaf 1, EDX: TSC present
	extLeaf1RdtscpBit = 1 << 27 // leaf 0x80000001, EDX: RDTSCP present
	extLeaf7InvTSCBit = 1 << 8  // leaf 0x80000007, EDX: invariant TSC

	extLeafBase      = 0x80000000
	extLeafFeatures  = 0x80000001
	extLeafPowerMgmt = 0x80000007
)

// Supported reports whether the CPU has a time stamp counter.
func Supported() bool {
	_, _, _, edx := cpuid(1, 0)
	return edx&leaf1TSCBit != 0
}

// SupportsReadAndIdentify reports whether the CPU implements RDTSCP.
func SupportsReadAndIdentify() bool {
	maxExt, _, _, _ := cpuid(extLeafBase, 0)
	if maxExt < extLeafFeatures {
		return false
	}
	_, _, _, edx := cpuid(extLeafFeatures, 0)
	return edx&extLeaf1RdtscpBit != 0
}

// InvariantRate reports whether the counter ticks at a constant rate across
// power states. Without it, measurements remain valid but cycle durations
// may vary with frequency scaling.
func InvariantRate() bool {
	maxExt, _, _, _ := cpuid(extLeafBase, 0)
	if maxExt < extLeafPowerMgmt {
		return false
	}
	_, _, _, edx := cpuid(extLeafPowerMgmt, 0)
	return edx&extLeaf7InvTSCBit != 0
}

// bindReaders installs the read sequences for the chosen policy.
//
// Sequence table (start is always opened with a serializing instruction):
//
//	SerializeOnce:   start CPUID;read          end CPUID;read
//	LoadFence:       start CPUID;read          end LFENCE;read;CPUID
//	StoreFence:      start CPUID;read          end CPUID;read;MFENCE
//	ReadAndIdentify: start CPUID;read          end RDTSCP;CPUID
//	SerializeTwice:  start CPUID;read;CPUID    end CPUID;read;CPUID
//
// Core-capturing variants substitute RDTSCP for the read so the core id
// comes from the same instruction as the timestamp.
func bindReaders(c *Clock, b Barrier) error {
	switch b {
	case SerializeOnce:
		c.start, c.end = cpuidRdtsc, cpuidRdtsc
		c.startCore, c.endCore = cpuidRdtscp, cpuidRdtscp
	case LoadFence:
		c.start, c.end = cpuidRdtsc, lfenceRdtscCpuid
		c.startCore, c.endCore = cpuidRdtscp, lfenceRdtscpCpuid
	case StoreFence:
		c.start, c.end = cpuidRdtsc, cpuidRdtscMfence
		c.startCore, c.endCore = cpuidRdtscp, cpuidRdtscpMfence
	case ReadAndIdentify:
		c.start, c.end = cpuidRdtsc, rdtscpCpuid
		c.startCore, c.endCore = cpuidRdtscp, rdtscpCpuidAux
	case SerializeTwice:
		c.start, c.end = cpuidRdtscCpuid, cpuidRdtscCpuid
		c.startCore, c.endCore = cpuidRdtscpCpuid, cpuidRdtscpCpuid
	default:
		return ErrUnknownBarrier
	}
	return nil
}
