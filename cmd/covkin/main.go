package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/covkin/internal/experiment"
	"github.com/san-kum/covkin/internal/logging"
	"github.com/san-kum/covkin/internal/telemetry"
)

var (
	logLevel    string
	dumpMetrics bool

	log       = logging.NewNop()
	collector = telemetry.New()
	registry  = experiment.NewRegistry()
)

// main registers the covkin commands and executes the root command,
// exiting with status 1 when it fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "covkin",
		Short:         "covalent EGFR inhibition kinetics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log = logging.New(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&dumpMetrics, "metrics", false, "print Prometheus metrics to stderr on exit")

	rootCmd.AddCommand(newRunCmd(), newCompareCmd(), newSweepCmd(),
		newInhibitorsCmd(), newVariantsCmd(), newPresetsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if dumpMetrics {
		if werr := collector.WriteText(os.Stderr); werr != nil {
			fmt.Fprintln(os.Stderr, "metrics:", werr)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
