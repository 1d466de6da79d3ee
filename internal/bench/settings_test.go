package bench_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randomizedcoder/tscbench/internal/bench"
)

func TestDefaultSettings(t *testing.T) {
	s := bench.DefaultSettings()
	assert.Equal(t, bench.DefaultCycles, s.Cycles)
	assert.Equal(t, 0, s.Core)
	assert.Equal(t, 0, s.Warmup)
	assert.NoError(t, s.Validate())
}

func TestSettingsValidate(t *testing.T) {
	cases := []struct {
		name     string
		settings bench.Settings
		wantErr  bool
	}{
		{"minimal", bench.Settings{Cycles: 1}, false},
		{"full", bench.Settings{Cycles: 1000, Core: 3, Warmup: 100, MaxAttempts: 5000}, false},
		{"attempts equal cycles", bench.Settings{Cycles: 10, MaxAttempts: 10}, false},
		{"zero cycles", bench.Settings{}, true},
		{"negative core", bench.Settings{Cycles: 1, Core: -2}, true},
		{"negative warmup", bench.Settings{Cycles: 1, Warmup: -5}, true},
		{"negative attempts", bench.Settings{Cycles: 1, MaxAttempts: -1}, true},
		{"attempts below cycles", bench.Settings{Cycles: 100, MaxAttempts: 99}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.settings.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
