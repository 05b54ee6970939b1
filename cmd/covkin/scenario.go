package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/san-kum/covkin/internal/config"
	"github.com/san-kum/covkin/internal/kinetics"
)

// scenarioFlags are shared by every command that integrates something.
type scenarioFlags struct {
	preset     string
	configFile string
	inhibitor  string
	set        []string
	initial    []string
	samples    int
	tEnd       float64
	integrator string
	relTol     float64
	absTol     float64
	maxSteps   int
	timeout    string
	species    []string
	format     string
	plot       bool
	normalize  bool
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "start from a named preset")
	cmd.Flags().StringVar(&f.configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&f.inhibitor, "inhibitor", "", "apply an inhibitor profile")
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "override a rate constant, name=value")
	cmd.Flags().StringArrayVar(&f.initial, "initial", nil, "override an initial concentration, species=value (µM)")
	cmd.Flags().IntVar(&f.samples, "samples", 0, "report times (default per variant)")
	cmd.Flags().Float64Var(&f.tEnd, "t-end", config.DefaultEnd, "end time in seconds")
	cmd.Flags().StringVar(&f.integrator, "integrator", config.DefaultIntegrator, "integrator (auto, rk45, rosenbrock)")
	cmd.Flags().Float64Var(&f.relTol, "rtol", 0, "relative tolerance")
	cmd.Flags().Float64Var(&f.absTol, "atol", 0, "absolute tolerance")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "step budget per integration")
	cmd.Flags().StringVar(&f.timeout, "timeout", "", "wall-clock limit per integration, e.g. 30s")
	cmd.Flags().StringSliceVar(&f.species, "species", nil, "species or derived observables to print (e.g. P,active,EI_cov)")
	cmd.Flags().StringVar(&f.format, "format", "table", "output format (table, csv, json)")
	cmd.Flags().BoolVar(&f.plot, "plot", false, "draw an ascii chart")
	cmd.Flags().BoolVar(&f.normalize, "normalize", false, "scale each plotted curve to its maximum")
}

// load resolves preset, then config file, then flags, later sources winning.
func (f *scenarioFlags) load(cmd *cobra.Command) (*config.Scenario, error) {
	s := &config.Scenario{}
	if f.preset != "" {
		s = config.GetPreset(f.preset)
		if s == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		s = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("inhibitor") {
		s.Inhibitor = f.inhibitor
	}
	if flags.Changed("samples") {
		s.Time.Samples = f.samples
	}
	if flags.Changed("t-end") {
		s.Time.End = f.tEnd
	}
	if flags.Changed("integrator") {
		s.Integrator = f.integrator
	}
	if flags.Changed("rtol") {
		s.Solver.RelTol = f.relTol
	}
	if flags.Changed("atol") {
		s.Solver.AbsTol = f.absTol
	}
	if flags.Changed("max-steps") {
		s.Solver.MaxSteps = f.maxSteps
	}
	if flags.Changed("timeout") {
		s.Timeout = f.timeout
	}

	if len(f.set) > 0 && s.Params == nil {
		s.Params = make(map[string]any)
	}
	for _, kv := range f.set {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want name=value", kv)
		}
		s.Params[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if len(f.initial) > 0 && s.Initial == nil {
		s.Initial = make(map[string]float64)
	}
	for _, kv := range f.initial {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--initial %q: want species=value", kv)
		}
		v, err := cast.ToFloat64E(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("--initial %q: %w", kv, err)
		}
		s.Initial[strings.TrimSpace(name)] = v
	}
	return s, s.Validate()
}

// observables picks what to print when --species is not given.
func (f *scenarioFlags) observables(variant string) []string {
	if len(f.species) > 0 {
		return f.species
	}
	if variant == kinetics.RedoxTurnover.Name {
		return []string{"P", "active", "EI_cov", "EI_sulfen", "EI_sulfin", "E_ox"}
	}
	return []string{"P", "active", "EI_cov"}
}
