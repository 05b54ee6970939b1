package sweep

import (
	"fmt"

	"github.com/san-kum/covkin/internal/kinetics"
)

// Case is one parameter variation. Params and Initial are owned by the case;
// the runner clones them again before handing them to an experiment.
type Case struct {
	Label   string
	Value   float64
	Params  kinetics.Params
	Initial kinetics.Concentrations
}

// Parameter is a swept name and the rate constants it sets.
type Parameter struct {
	Name    string
	Targets []string
}

// Single sweeps one rate constant directly.
func Single(name string) Parameter {
	return Parameter{Name: name, Targets: []string{name}}
}

// TurnoverProxy sets every synthesis and degradation constant to one value.
var TurnoverProxy = Parameter{
	Name:    "k_turnover",
	Targets: []string{"k_syn_E", "k_deg_E", "k_syn_EI_cov", "k_deg_EI_cov"},
}

// LookupParameter resolves proxy names, falling back to Single.
func LookupParameter(name string) Parameter {
	if name == TurnoverProxy.Name {
		return Parameter{Name: TurnoverProxy.Name, Targets: append([]string(nil), TurnoverProxy.Targets...)}
	}
	return Single(name)
}

// Apply returns a copy of base with every target set to v.
func (p Parameter) Apply(base kinetics.Params, v float64) kinetics.Params {
	out := base.Clone()
	for _, name := range p.Targets {
		out[name] = v
	}
	return out
}

func cloneInitial(c kinetics.Concentrations) kinetics.Concentrations {
	if c == nil {
		return nil
	}
	out := make(kinetics.Concentrations, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// InhibitorCases builds one case per profile, in table order. kon and the
// initial state are taken from base and initial.
func InhibitorCases(base kinetics.Params, initial kinetics.Concentrations, table []kinetics.Inhibitor) []Case {
	cases := make([]Case, len(table))
	for i, inh := range table {
		cases[i] = Case{
			Label:   inh.Name,
			Value:   inh.KInact,
			Params:  inh.Apply(base),
			Initial: cloneInitial(initial),
		}
	}
	return cases
}

// SensitivityCases builds one case per value, in order.
func SensitivityCases(base kinetics.Params, initial kinetics.Concentrations, p Parameter, values []float64) []Case {
	cases := make([]Case, len(values))
	for i, v := range values {
		cases[i] = Case{
			Label:   fmt.Sprintf("%s=%g", p.Name, v),
			Value:   v,
			Params:  p.Apply(base, v),
			Initial: cloneInitial(initial),
		}
	}
	return cases
}
