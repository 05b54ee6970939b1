// Package integrators implements adaptive ODE solvers for stiff and
// non-stiff reaction networks.
//
// Available methods:
//   - rk45: explicit Dormand-Prince 5(4)
//   - rosenbrock: linearly implicit Rosenbrock 2(3), L-stable
//   - auto: rk45 with automatic switching to rosenbrock under stiffness
package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/covkin/internal/dynamo"
)

type factory func(Options) dynamo.AdaptiveIntegrator

var registry = map[string]factory{
	"auto":       func(o Options) dynamo.AdaptiveIntegrator { return NewAuto(o) },
	"rk45":       func(o Options) dynamo.AdaptiveIntegrator { return NewRK45(o) },
	"rosenbrock": func(o Options) dynamo.AdaptiveIntegrator { return NewRosenbrock(o) },
}

// New returns a fresh integrator. Integrators are stateful; build one per run.
func New(name string, opts Options) (dynamo.AdaptiveIntegrator, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator %q (have %v)", name, Names())
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return f(opts), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
