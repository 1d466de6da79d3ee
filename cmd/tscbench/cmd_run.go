package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/tscbench/internal/bench"
)

var flagWorkload string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark built-in workloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		barrier, err := parseBarrier(flagBarrier)
		if err != nil {
			return err
		}
		b, err := newBenchmark(barrier, flagMigration)
		if err != nil {
			return err
		}
		settings := settingsFromFlags()

		workloads := builtinWorkloads()
		if flagWorkload != "" {
			w, ok := findWorkload(flagWorkload)
			if !ok {
				return fmt.Errorf("unknown workload %q", flagWorkload)
			}
			workloads = []workload{w}
		}

		fmt.Printf("Benchmarking %d workload(s): barrier=%s cycles=%d warmup=%d core=%d migration-check=%v\n",
			len(workloads), b.Barrier(), settings.Cycles, settings.Warmup, settings.Core, flagMigration)
		fmt.Println("─────────────────────────────────────────────────────────────────────")

		for _, w := range workloads {
			res, err := b.Run(w.op, settings)
			if err != nil {
				return fmt.Errorf("workload %s: %w", w.name, err)
			}

			fmt.Printf("  %-12s %10v  net %10v  overhead %8v  attempts %d",
				w.name, res.Time, netDuration(res), res.Overhead, res.Attempts)
			if discarded := res.Migrations + res.Inversions + res.BelowFloor; discarded > 0 {
				fmt.Printf("  discarded %d (migration %d, inversion %d, below-floor %d)",
					discarded, res.Migrations, res.Inversions, res.BelowFloor)
			}
			fmt.Println()

			if res.Stats != nil {
				s := res.Stats
				fmt.Printf("               min %v  p50 %v  p95 %v  p99 %v  max %v  stddev %v\n",
					s.Min, s.P50, s.P95, s.P99, s.Max, s.StdDev)
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagWorkload, "workload", "", "run a single workload by name")
}

// netDuration subtracts the calibrated overhead floor, clamping at zero.
func netDuration(res bench.Result) time.Duration {
	if res.Time < res.Overhead {
		return 0
	}
	return res.Time - res.Overhead
}
