package bench

import "fmt"

// DefaultCycles is the number of valid samples a Run collects when the
// caller does not say otherwise.
const DefaultCycles = 100

// Settings configures a single measurement session. Immutable once passed
// to Run.
type Settings struct {
	// Cycles is the number of valid samples to accumulate. Must be >= 1.
	Cycles int

	// Core is the core to pin the measuring thread to. Pinning failure is
	// a degraded-accuracy warning, not an error.
	Core int

	// Warmup is the number of measured-and-discarded executions before the
	// measurement phase, to populate caches and branch predictors.
	Warmup int

	// MaxAttempts bounds the total number of measurement attempts,
	// including discarded ones. Zero means Cycles * 100. An operation that
	// migrates on every attempt exhausts the bound instead of looping
	// forever.
	MaxAttempts int

	// CollectStats retains per-sample durations and attaches a Stats
	// summary to the Result.
	CollectStats bool
}

// DefaultSettings returns a Settings with DefaultCycles samples on core 0
// and no warm-up.
func DefaultSettings() Settings {
	return Settings{Cycles: DefaultCycles}
}

// Validate checks the settings against their documented ranges.
func (s Settings) Validate() error {
	if s.Cycles < 1 {
		return fmt.Errorf("bench: Cycles must be >= 1, got %d", s.Cycles)
	}
	if s.Core < 0 {
		return fmt.Errorf("bench: Core must be >= 0, got %d", s.Core)
	}
	if s.Warmup < 0 {
		return fmt.Errorf("bench: Warmup must be >= 0, got %d", s.Warmup)
	}
	if s.MaxAttempts < 0 {
		return fmt.Errorf("bench: MaxAttempts must be >= 0, got %d", s.MaxAttempts)
	}
	if s.MaxAttempts > 0 && s.MaxAttempts < s.Cycles {
		return fmt.Errorf("bench: MaxAttempts (%d) cannot be below Cycles (%d)",
			s.MaxAttempts, s.Cycles)
	}
	return nil
}

// maxAttempts resolves the attempts bound, applying the default factor.
func (s Settings) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return s.Cycles * defaultAttemptsFactor
}
