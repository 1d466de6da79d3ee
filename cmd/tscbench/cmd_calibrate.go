package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Measure the harness's own overhead floors",
	RunE: func(cmd *cobra.Command, args []string) error {
		barrier, err := parseBarrier(flagBarrier)
		if err != nil {
			return err
		}
		b, err := newBenchmark(barrier, flagMigration)
		if err != nil {
			return err
		}

		rate := b.CyclesPerNanosecond()
		fmt.Printf("Barrier policy:      %s\n", b.Barrier())
		fmt.Printf("Counter rate:        %.3f cycles/ns (%.2f GHz equivalent)\n", rate, rate)
		fmt.Printf("Counter overhead:    %d cycles (%v)\n",
			b.CounterOverhead(), b.CyclesToDuration(b.CounterOverhead()))
		fmt.Printf("Clock call overhead: %d cycles (%v, marginal over counter)\n",
			b.ClockOverhead(), b.CyclesToDuration(b.ClockOverhead()))
		return nil
	},
}
