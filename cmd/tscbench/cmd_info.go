package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/tscbench/internal/sched"
	"github.com/randomizedcoder/tscbench/internal/tsc"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Report cycle-counter capabilities of this host",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Architecture:        %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Printf("Cycle counter:       %s\n", yesNo(tsc.Supported()))
		fmt.Printf("Read-and-identify:   %s\n", yesNo(tsc.SupportsReadAndIdentify()))
		fmt.Printf("Invariant rate:      %s\n", yesNo(tsc.InvariantRate()))
		fmt.Printf("Usable cores:        %d\n", sched.CoreCount())

		if !tsc.Supported() {
			fmt.Println("\nThis host cannot run cycle-counter benchmarks.")
		} else if !tsc.InvariantRate() {
			fmt.Println("\nNote: without an invariant rate, cycle durations vary with power states.")
		}
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
