// Command tscbench demonstrates cycle-counter benchmarking of short code
// sections.
//
// Usage:
//
//	tscbench info
//	tscbench calibrate [--barrier load-fence]
//	tscbench run [--cycles 1000] [--warmup 100] [--workload arith] [--stats]
//	tscbench barriers [--cycles 1000]
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/tscbench/internal/bench"
	"github.com/randomizedcoder/tscbench/internal/tsc"
)

var (
	flagBarrier     string
	flagCycles      int
	flagWarmup      int
	flagCore        int
	flagMaxAttempts int
	flagMigration   bool
	flagStats       bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "tscbench",
	Short:         "Cycle-counter micro-benchmarking harness",
	Long:          "tscbench measures short code sections with the CPU cycle counter,\ncorrecting for the cost of the measurement machinery itself.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBarrier, "barrier", tsc.SerializeOnce.String(), "instruction-ordering policy: serialize-once, load-fence, store-fence, read-and-identify, serialize-twice")
	pf.IntVar(&flagCycles, "cycles", 1000, "valid samples to collect per measurement")
	pf.IntVar(&flagWarmup, "warmup", 100, "measured-and-discarded executions before measuring")
	pf.IntVar(&flagCore, "core", 0, "core to pin the measuring thread to")
	pf.IntVar(&flagMaxAttempts, "max-attempts", 0, "cap on total attempts, 0 = 100x cycles")
	pf.BoolVar(&flagMigration, "migration-check", false, "discard samples that straddle a core migration")
	pf.BoolVar(&flagStats, "stats", false, "collect per-sample distribution statistics")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug-level diagnostics")

	rootCmd.AddCommand(infoCmd, calibrateCmd, runCmd, barriersCmd)
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func parseBarrier(name string) (tsc.Barrier, error) {
	for _, b := range tsc.Barriers() {
		if b.String() == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown barrier %q", name)
}

// migrationCheck resolves the --migration-check flag against hardware
// capability. When the flag was requested on hardware without rdtscp it
// returns false plus a one-line notice, so commands that sweep several
// policies can say so once instead of failing per policy.
func migrationCheck(requested, hardwareOK bool) (bool, string) {
	if requested && !hardwareOK {
		return false, "migration detection unavailable: rdtscp not supported; continuing without it"
	}
	return requested, ""
}

func newBenchmark(barrier tsc.Barrier, migrate bool) (*bench.Benchmark, error) {
	b, err := bench.New(
		bench.WithBarrier(barrier),
		bench.WithMigrationCheck(migrate),
		bench.WithLogger(newLogger()),
	)
	if err != nil {
		return nil, err
	}
	if err := b.Initialize(); err != nil {
		return nil, err
	}
	return b, nil
}

func settingsFromFlags() bench.Settings {
	return bench.Settings{
		Cycles:       flagCycles,
		Core:         flagCore,
		Warmup:       flagWarmup,
		MaxAttempts:  flagMaxAttempts,
		CollectStats: flagStats,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
