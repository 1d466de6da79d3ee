package tsc_test

import (
	"testing"

	"github.com/randomizedcoder/tscbench/internal/tsc"
)

func TestBarrierString(t *testing.T) {
	want := map[tsc.Barrier]string{
		tsc.SerializeOnce:   "serialize-once",
		tsc.LoadFence:       "load-fence",
		tsc.StoreFence:      "store-fence",
		tsc.ReadAndIdentify: "read-and-identify",
		tsc.SerializeTwice:  "serialize-twice",
	}
	for b, s := range want {
		if b.String() != s {
			t.Errorf("Barrier(%d).String() = %q, want %q", int(b), b.String(), s)
		}
	}

	if got := tsc.Barrier(99).String(); got != "barrier(99)" {
		t.Errorf("unknown barrier String() = %q", got)
	}
}

func TestBarriersCoversAllPolicies(t *testing.T) {
	all := tsc.Barriers()
	if len(all) != 5 {
		t.Fatalf("Barriers() returned %d policies, want 5", len(all))
	}
	seen := make(map[tsc.Barrier]bool, len(all))
	for _, b := range all {
		if seen[b] {
			t.Errorf("Barriers() lists %v twice", b)
		}
		seen[b] = true
	}
}
