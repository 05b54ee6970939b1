// Package config reads scenario files and holds the named presets that
// reproduce the reference experiments.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/experiment"
	"github.com/san-kum/covkin/internal/integrators"
	"github.com/san-kum/covkin/internal/kinetics"
	"github.com/san-kum/covkin/internal/sweep"
)

const (
	DefaultVariant    = "basic"
	DefaultIntegrator = "auto"
	DefaultEnd        = 7200.0
)

// Sweep modes.
const (
	ModeInhibitors = "inhibitors"
	ModeParameter  = "parameter"
)

type Scenario struct {
	Name       string              `yaml:"name"`
	Variant    string              `yaml:"variant"`
	Integrator string              `yaml:"integrator,omitempty"`
	Inhibitor  string              `yaml:"inhibitor,omitempty"`
	Time       dynamo.TimeDomain   `yaml:"time"`
	Params     map[string]any      `yaml:"params,omitempty"`
	Initial    map[string]float64  `yaml:"initial,omitempty"`
	Solver     integrators.Options `yaml:"solver,omitempty"`
	Sweep      *SweepConfig        `yaml:"sweep,omitempty"`
	Workers    int                 `yaml:"workers,omitempty"`
	Timeout    string              `yaml:"timeout,omitempty"`
}

type SweepConfig struct {
	Mode       string    `yaml:"mode"`
	Parameter  string    `yaml:"parameter,omitempty"`
	Targets    []string  `yaml:"targets,omitempty"`
	Values     []float64 `yaml:"values,omitempty"`
	Inhibitors []string  `yaml:"inhibitors,omitempty"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario, rejecting unknown keys.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	s := &Scenario{}
	if err := dec.Decode(s); err != nil && err != io.EOF {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteYAML encodes s, e.g. to print a preset as a starting point for a file.
func (s *Scenario) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func (s *Scenario) Validate() error {
	if s.Variant != "" {
		if _, err := kinetics.LookupVariant(s.Variant); err != nil {
			return err
		}
	}
	if s.Inhibitor != "" {
		if _, err := kinetics.LookupInhibitor(s.Inhibitor); err != nil {
			return err
		}
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", s.Workers)
	}
	if _, err := s.timeout(); err != nil {
		return err
	}
	if s.Sweep != nil {
		return s.Sweep.Validate()
	}
	return nil
}

func (c *SweepConfig) Validate() error {
	switch c.Mode {
	case ModeInhibitors:
		for _, name := range c.Inhibitors {
			if _, err := kinetics.LookupInhibitor(name); err != nil {
				return err
			}
		}
	case ModeParameter:
		if c.Parameter == "" {
			return fmt.Errorf("sweep: parameter mode needs a parameter name")
		}
		if len(c.Values) == 0 {
			return fmt.Errorf("sweep: no values for %s", c.Parameter)
		}
	default:
		return fmt.Errorf("sweep: unknown mode %q", c.Mode)
	}
	return nil
}

func (s *Scenario) timeout() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	return d, nil
}

// Clone returns a deep copy.
func (s *Scenario) Clone() *Scenario {
	out := *s
	if s.Params != nil {
		out.Params = make(map[string]any, len(s.Params))
		for k, v := range s.Params {
			out.Params[k] = v
		}
	}
	if s.Initial != nil {
		out.Initial = make(map[string]float64, len(s.Initial))
		for k, v := range s.Initial {
			out.Initial[k] = v
		}
	}
	if s.Sweep != nil {
		sw := *s.Sweep
		sw.Targets = append([]string(nil), s.Sweep.Targets...)
		sw.Values = append([]float64(nil), s.Sweep.Values...)
		sw.Inhibitors = append([]string(nil), s.Sweep.Inhibitors...)
		out.Sweep = &sw
	}
	return &out
}

// Experiment resolves the scenario against its variant's reference values.
// Constants are layered baseline, then inhibitor profile, then params;
// initial concentrations overlay the variant defaults.
func (s *Scenario) Experiment() (experiment.Config, error) {
	name := s.Variant
	if name == "" {
		name = DefaultVariant
	}
	v, err := kinetics.LookupVariant(name)
	if err != nil {
		return experiment.Config{}, err
	}

	overrides, err := kinetics.ParseParams(s.Params)
	if err != nil {
		return experiment.Config{}, err
	}
	params := v.Baseline()
	if s.Inhibitor != "" {
		inh, err := kinetics.LookupInhibitor(s.Inhibitor)
		if err != nil {
			return experiment.Config{}, err
		}
		params = inh.Apply(params)
	}
	params = params.Merge(overrides)

	initial := v.DefaultInitial()
	set, err := kinetics.ParseConcentrations(s.Initial)
	if err != nil {
		return experiment.Config{}, err
	}
	for sp, c := range set {
		initial[sp] = c
	}

	domain := s.Time
	if domain.End == 0 {
		domain.End = DefaultEnd
	}
	if domain.Samples == 0 {
		domain.Samples = v.Samples
	}

	integ := s.Integrator
	if integ == "" {
		integ = DefaultIntegrator
	}
	timeout, err := s.timeout()
	if err != nil {
		return experiment.Config{}, err
	}

	return experiment.Config{
		Variant:    v.Name,
		Integrator: integ,
		Params:     params,
		Initial:    initial,
		Domain:     domain,
		Solver:     s.Solver,
		Timeout:    timeout,
	}, nil
}

// Cases expands the sweep block against the resolved base configuration.
func (s *Scenario) Cases(base experiment.Config) ([]sweep.Case, error) {
	if s.Sweep == nil {
		return nil, fmt.Errorf("scenario %q has no sweep", s.Name)
	}
	switch s.Sweep.Mode {
	case ModeInhibitors:
		table := kinetics.Inhibitors()
		if len(s.Sweep.Inhibitors) > 0 {
			table = table[:0]
			for _, name := range s.Sweep.Inhibitors {
				inh, err := kinetics.LookupInhibitor(name)
				if err != nil {
					return nil, err
				}
				table = append(table, inh)
			}
		}
		return sweep.InhibitorCases(base.Params, base.Initial, table), nil
	case ModeParameter:
		p := sweep.LookupParameter(s.Sweep.Parameter)
		if len(s.Sweep.Targets) > 0 {
			p.Targets = append([]string(nil), s.Sweep.Targets...)
		}
		return sweep.SensitivityCases(base.Params, base.Initial, p, s.Sweep.Values), nil
	}
	return nil, fmt.Errorf("sweep: unknown mode %q", s.Sweep.Mode)
}
