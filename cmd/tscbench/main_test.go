package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randomizedcoder/tscbench/internal/tsc"
)

func TestParseBarrier(t *testing.T) {
	for _, b := range tsc.Barriers() {
		got, err := parseBarrier(b.String())
		assert.NoError(t, err)
		assert.Equal(t, b, got)
	}

	_, err := parseBarrier("no-such-barrier")
	assert.Error(t, err)
}

func TestMigrationCheck(t *testing.T) {
	cases := []struct {
		name        string
		requested   bool
		hardwareOK  bool
		wantEnabled bool
		wantNotice  bool
	}{
		{"not requested", false, true, false, false},
		{"not requested, no rdtscp", false, false, false, false},
		{"requested, supported", true, true, true, false},
		{"requested, no rdtscp", true, false, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enabled, notice := migrationCheck(tc.requested, tc.hardwareOK)
			assert.Equal(t, tc.wantEnabled, enabled)
			if tc.wantNotice {
				assert.NotEmpty(t, notice)
			} else {
				assert.Empty(t, notice)
			}
		})
	}
}
