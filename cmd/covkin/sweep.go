package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/covkin/internal/analysis"
	"github.com/san-kum/covkin/internal/config"
	"github.com/san-kum/covkin/internal/experiment"
	"github.com/san-kum/covkin/internal/export"
	"github.com/san-kum/covkin/internal/logging"
	"github.com/san-kum/covkin/internal/sweep"
	"github.com/san-kum/covkin/internal/viz"
)

type sweepFlags struct {
	scenarioFlags
	workers    int
	live       bool
	variant    string
	values     []float64
	targets    []string
	inhibitors []string
}

func (f *sweepFlags) register(cmd *cobra.Command) {
	f.scenarioFlags.register(cmd)
	cmd.Flags().IntVar(&f.workers, "workers", 1, "cases integrated concurrently")
	cmd.Flags().BoolVar(&f.live, "live", false, "show live progress")
	cmd.Flags().StringVar(&f.variant, "variant", "", "model variant")
}

func newCompareCmd() *cobra.Command {
	var f sweepFlags
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "compare the profiled inhibitors",
		Long: "Integrate the basic model once per inhibitor profile, sharing kon and the\n" +
			"initial state, and compare one observable (default P) across compounds.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("preset") && f.configFile == "" {
				f.preset = "inhibitors"
			}
			s, err := f.load(cmd)
			if err != nil {
				return err
			}
			s.Sweep = &config.SweepConfig{Mode: config.ModeInhibitors, Inhibitors: f.inhibitors}
			return runSweep(cmd, &f, s, "inhibitor comparison")
		},
	}
	f.register(cmd)
	cmd.Flags().StringSliceVar(&f.inhibitors, "inhibitors", nil, "restrict to these compounds")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var f sweepFlags
	cmd := &cobra.Command{
		Use:   "sweep [parameter]",
		Short: "single-parameter sensitivity sweep",
		Long: "Integrate once per value of one rate constant. k_turnover sets k_syn_E,\n" +
			"k_deg_E, k_syn_EI_cov and k_deg_EI_cov together.\n\n" +
			"  covkin sweep --preset kinact\n" +
			"  covkin sweep k_sulfen --variant redox-turnover --values 5e-5,1.1e-4,2e-4",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.load(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				s.Sweep = &config.SweepConfig{Mode: config.ModeParameter, Parameter: args[0]}
			}
			if s.Sweep == nil || s.Sweep.Mode != config.ModeParameter {
				return fmt.Errorf("name a parameter or a sweep preset (%v)", config.ListPresets())
			}
			if cmd.Flags().Changed("values") {
				s.Sweep.Values = f.values
			}
			if cmd.Flags().Changed("targets") {
				s.Sweep.Targets = f.targets
			}
			if err := s.Sweep.Validate(); err != nil {
				return err
			}
			return runSweep(cmd, &f, s, fmt.Sprintf("%s sweep", s.Sweep.Parameter))
		},
	}
	f.register(cmd)
	cmd.Flags().Float64SliceVar(&f.values, "values", nil, "parameter values")
	cmd.Flags().StringSliceVar(&f.targets, "targets", nil, "rate constants set by the parameter (default: the parameter itself)")
	return cmd
}

func runSweep(cmd *cobra.Command, f *sweepFlags, s *config.Scenario, title string) error {
	if cmd.Flags().Changed("variant") {
		s.Variant = f.variant
	}
	workers := s.Workers
	if cmd.Flags().Changed("workers") || workers == 0 {
		workers = f.workers
	}

	base, err := s.Experiment()
	if err != nil {
		return err
	}
	cases, err := s.Cases(base)
	if err != nil {
		return err
	}
	log.Info("sweep starting", "title", title, "variant", base.Variant, "cases", len(cases), "workers", workers)

	opts := []sweep.Option{
		sweep.WithWorkers(workers),
		sweep.WithRecorder(collector),
		sweep.WithLogger(log),
		sweep.WithRegistry(registry),
	}
	var report *sweep.Report
	if f.live {
		report, err = runLive(cmd.Context(), base, cases, opts, title)
	} else {
		report = sweep.NewRunner(base, opts...).Run(cmd.Context(), cases)
	}
	if err != nil {
		return err
	}

	if perr := printReport(cmd.OutOrStdout(), f, base, report, title); perr != nil {
		return perr
	}
	return report.Err()
}

// runLive drives the sweep from a goroutine while a Bubble Tea program on
// stderr shows progress. Quitting the program cancels the remaining cases.
func runLive(ctx context.Context, base experiment.Config, cases []sweep.Case, opts []sweep.Option, title string) (*sweep.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	labels := make([]string, len(cases))
	for i, c := range cases {
		labels[i] = c.Label
	}
	prog := tea.NewProgram(viz.NewProgress(title, labels), tea.WithOutput(os.Stderr))

	opts = append(opts,
		sweep.WithLogger(logging.NewNop()),
		sweep.WithObserver(func(ev sweep.Event) { prog.Send(viz.EventMsg(ev)) }),
	)
	runner := sweep.NewRunner(base, opts...)

	var report *sweep.Report
	done := make(chan struct{})
	go func() {
		defer close(done)
		report = runner.Run(ctx, cases)
		prog.Send(viz.FinishedMsg{})
	}()

	final, err := prog.Run()
	if p, ok := final.(viz.Progress); err != nil || (ok && p.Canceled()) {
		cancel()
	}
	<-done
	return report, err
}

func printReport(w io.Writer, f *sweepFlags, base experiment.Config, report *sweep.Report, title string) error {
	species := "P"
	if len(f.species) > 0 {
		species = f.species[0]
	}

	labels := make([]string, len(report.Outcomes))
	for i, o := range report.Outcomes {
		labels[i] = o.Label
	}
	trs := report.Trajectories()

	switch f.format {
	case "csv":
		return export.WriteComparisonCSV(w, species, labels, trs)
	case "json":
		docs := make([]export.Document, len(report.Outcomes))
		for i, o := range report.Outcomes {
			tr := o.Trajectory
			if tr == nil {
				tr = o.Partial
			}
			docs[i] = export.NewCaseDocument(o.Label, base.Variant, base.Integrator, tr, o.Err)
		}
		return export.WriteJSON(w, docs)
	case "table":
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}

	fmt.Fprintln(w, viz.Title.Render(fmt.Sprintf("%s · %s · %s", title, base.Variant, species)))
	fmt.Fprintln(w)

	var (
		series  [][]float64
		plotted []string
		finals  []float64
	)
	for i, tr := range trs {
		if tr == nil {
			continue
		}
		s, err := analysis.Observable(tr, species)
		if err != nil {
			return err
		}
		series = append(series, s)
		plotted = append(plotted, labels[i])
		finals = append(finals, s[len(s)-1])
	}
	if len(series) > 0 {
		fmt.Fprintln(w, viz.PlotSeries(series, plotted, viz.PlotOptions{
			Normalize: f.normalize,
			Caption:   fmt.Sprintf("%s (µM) over %g min", species, base.Domain.End/60),
		}))
		fmt.Fprintln(w)
		fmt.Fprint(w, viz.Legend(plotted, finals))
	}

	fmt.Fprintln(w, viz.Separator(60))
	for _, o := range report.Failed() {
		fmt.Fprintf(w, "%s %s: %v\n", viz.StatusFailed.Render("✗"), o.Label, o.Err)
	}
	fmt.Fprintf(w, "\n%d/%d cases succeeded\n", report.Succeeded(), len(report.Outcomes))
	return nil
}
