//go:build amd64

package bench_test

import (
	"testing"

	"github.com/randomizedcoder/tscbench/internal/bench"
	"github.com/randomizedcoder/tscbench/internal/tsc"
)

var sinkCycles tsc.Timestamp

func BenchmarkMeasureTime(b *testing.B) {
	bm, err := bench.New()
	if err != nil {
		b.Fatal(err)
	}
	if err := bm.Initialize(); err != nil {
		b.Fatal(err)
	}
	op := func() {}
	b.ReportAllocs()
	b.ResetTimer()

	var c tsc.Timestamp
	for i := 0; i < b.N; i++ {
		c = bm.MeasureTime(op)
	}
	sinkCycles = c
}

// Full-stack cost of one Run per barrier policy: clock construction aside,
// this captures the loop control and filtering branches on top of the raw
// read cost.
func BenchmarkRun(b *testing.B) {
	for _, barrier := range tsc.Barriers() {
		barrier := barrier
		b.Run(barrier.String(), func(b *testing.B) {
			bm, err := bench.New(bench.WithBarrier(barrier))
			if err != nil {
				b.Skipf("New(%v): %v", barrier, err)
			}
			if err := bm.Initialize(); err != nil {
				b.Fatal(err)
			}
			settings := bench.Settings{Cycles: 10}
			op := func() {}
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := bm.Run(op, settings); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRunMigrationCheck(b *testing.B) {
	if !tsc.SupportsReadAndIdentify() {
		b.Skip("rdtscp not supported")
	}
	bm, err := bench.New(bench.WithMigrationCheck(true))
	if err != nil {
		b.Fatal(err)
	}
	if err := bm.Initialize(); err != nil {
		b.Fatal(err)
	}
	settings := bench.Settings{Cycles: 10}
	op := func() {}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := bm.Run(op, settings); err != nil {
			b.Fatal(err)
		}
	}
}
