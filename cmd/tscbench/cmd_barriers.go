package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/tscbench/internal/tsc"
)

var barriersCmd = &cobra.Command{
	Use:   "barriers",
	Short: "Compare all five instruction-ordering policies on one workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, ok := findWorkload("arith")
		if !ok {
			return errors.New("arith workload missing")
		}
		settings := settingsFromFlags()
		migrate, notice := migrationCheck(flagMigration, tsc.SupportsReadAndIdentify())

		fmt.Printf("Comparing barrier policies on %q (%s), cycles=%d\n",
			w.name, w.desc, settings.Cycles)
		if notice != "" {
			fmt.Println(notice)
		}
		fmt.Println("─────────────────────────────────────────────────────────────")

		for _, barrier := range tsc.Barriers() {
			b, err := newBenchmark(barrier, migrate)
			if err != nil {
				// Only the read-and-identify policy itself needs rdtscp here;
				// the migration gate above already cleared the other rows.
				if errors.Is(err, tsc.ErrReadAndIdentifyNotSupported) {
					fmt.Printf("  %-20s skipped: %v\n", barrier, err)
					continue
				}
				return err
			}

			res, err := b.Run(w.op, settings)
			if err != nil {
				return fmt.Errorf("barrier %s: %w", barrier, err)
			}

			fmt.Printf("  %-20s %10v  net %10v  overhead %8v (%d cycles)\n",
				barrier, res.Time, netDuration(res), res.Overhead, b.CounterOverhead())
		}

		fmt.Println("\nNote: policies trade read latency against how much of the measured")
		fmt.Println("code is guaranteed retired before the end read; higher overhead does")
		fmt.Println("not mean a worse policy.")
		return nil
	},
}
