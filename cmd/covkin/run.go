package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/covkin/internal/config"
	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/experiment"
	"github.com/san-kum/covkin/internal/export"
	"github.com/san-kum/covkin/internal/viz"
)

func newRunCmd() *cobra.Command {
	var f scenarioFlags
	cmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "integrate one model variant",
		Long: "Integrate one variant (basic, basic-reordered, redox-turnover) over the time\n" +
			"domain and print the sampled concentrations.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.load(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				s.Variant = args[0]
			}
			return runSingle(cmd, &f, s)
		},
	}
	f.register(cmd)
	return cmd
}

func runSingle(cmd *cobra.Command, f *scenarioFlags, s *config.Scenario) error {
	cfg, err := s.Experiment()
	if err != nil {
		return err
	}

	log.Info("integrating", "variant", cfg.Variant, "integrator", cfg.Integrator,
		"t_end", cfg.Domain.End, "samples", cfg.Domain.Samples)

	e := experiment.New(cfg)
	start := time.Now()
	var tr *dynamo.Trajectory
	if err = e.Setup(registry); err == nil {
		tr, err = e.Run(cmd.Context())
	}
	elapsed := time.Since(start)
	collector.ObserveRun(cfg.Variant, elapsed, tr, err)
	if err != nil {
		return err
	}
	log.Info("integration done", "steps", tr.Stats.Accepted, "switches", tr.Stats.Switches, "elapsed", elapsed)

	w := cmd.OutOrStdout()
	switch f.format {
	case "csv":
		return export.WriteCSV(w, tr, speciesOnly(tr, f.species)...)
	case "json":
		return export.WriteJSON(w, export.NewDocument(cfg.Variant, cfg.Integrator, tr))
	case "table":
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}

	names := f.observables(cfg.Variant)
	fmt.Fprintln(w, viz.Title.Render(fmt.Sprintf("%s · %s", cfg.Variant, describe(s))))
	fmt.Fprintln(w)
	table, err := viz.Summary(tr, names, 13)
	if err != nil {
		return err
	}
	fmt.Fprint(w, table)
	fmt.Fprintln(w)

	if f.plot {
		chart, err := viz.Plot(tr, names, viz.PlotOptions{Normalize: f.normalize})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, chart)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, viz.Stats(tr.Stats))
	fmt.Fprintf(w, "%s %v\n", viz.MetricLabel.Render("elapsed"), elapsed.Round(time.Microsecond))
	printMetrics(w, tr.Metrics)
	return nil
}

func describe(s *config.Scenario) string {
	switch {
	case s.Inhibitor != "":
		return s.Inhibitor
	case s.Name != "":
		return s.Name
	}
	return "reference constants"
}

// speciesOnly drops derived observables, which CSV output does not carry.
func speciesOnly(tr *dynamo.Trajectory, names []string) []string {
	var out []string
	for _, n := range names {
		if _, ok := tr.Index(n); ok {
			out = append(out, n)
		}
	}
	return out
}

func printMetrics(w io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s %s\n", viz.MetricLabel.Render(fmt.Sprintf("%-22s", name)),
			viz.MetricValue.Render(fmt.Sprintf("%.6g", metrics[name])))
	}
}
