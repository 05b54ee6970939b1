package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/integrators"
	"github.com/san-kum/covkin/internal/kinetics"
	"github.com/san-kum/covkin/internal/metrics"
)

type Registry struct {
	variants    map[string]kinetics.Variant
	integrators map[string]func(integrators.Options) dynamo.AdaptiveIntegrator
}

func NewRegistry() *Registry {
	r := &Registry{
		variants:    make(map[string]kinetics.Variant),
		integrators: make(map[string]func(integrators.Options) dynamo.AdaptiveIntegrator),
	}

	for _, v := range kinetics.Variants() {
		r.variants[v.Name] = v
	}

	r.integrators["auto"] = func(o integrators.Options) dynamo.AdaptiveIntegrator { return integrators.NewAuto(o) }
	r.integrators["rk45"] = func(o integrators.Options) dynamo.AdaptiveIntegrator { return integrators.NewRK45(o) }
	r.integrators["rosenbrock"] = func(o integrators.Options) dynamo.AdaptiveIntegrator { return integrators.NewRosenbrock(o) }

	return r
}

func (r *Registry) GetVariant(name string) (kinetics.Variant, error) {
	v, ok := r.variants[name]
	if !ok {
		return kinetics.Variant{}, fmt.Errorf("unknown variant: %s", name)
	}
	return v, nil
}

// GetIntegrator returns a fresh integrator; integrators must not be shared between runs.
func (r *Registry) GetIntegrator(name string, opts integrators.Options) (dynamo.AdaptiveIntegrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return fn(opts), nil
}

func (r *Registry) ListVariants() []string {
	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics builds a fresh observer set for one run of m.
func (r *Registry) DefaultMetrics(m *kinetics.Model) []dynamo.Metric {
	out := []dynamo.Metric{metrics.NewMinConcentration()}
	layout := m.Layout()
	if idx, ok := layout.Index(kinetics.P); ok {
		out = append(out, metrics.NewFinal(kinetics.P.String(), idx))
	}
	if idx, ok := layout.Index(kinetics.EI); ok {
		out = append(out, metrics.NewPeak(kinetics.EI.String(), idx))
	}
	if idx, ok := layout.Index(kinetics.EISulfen); ok {
		out = append(out, metrics.NewPeak(kinetics.EISulfen.String(), idx))
	}
	for _, d := range metrics.PoolDrifts(m) {
		out = append(out, d)
	}
	return out
}
