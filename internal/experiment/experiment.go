package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/integrators"
	"github.com/san-kum/covkin/internal/kinetics"
	"github.com/san-kum/covkin/internal/sim"
)

// Config describes one integrator invocation. Zero fields fall back to the
// variant's reference values.
type Config struct {
	Variant    string
	Integrator string
	Params     kinetics.Params
	Initial    kinetics.Concentrations
	Domain     dynamo.TimeDomain
	Solver     integrators.Options
	Timeout    time.Duration
}

// Clone deep-copies the parameter and concentration maps.
func (c Config) Clone() Config {
	out := c
	if c.Params != nil {
		out.Params = c.Params.Clone()
	}
	if c.Initial != nil {
		out.Initial = make(kinetics.Concentrations, len(c.Initial))
		for k, v := range c.Initial {
			out.Initial[k] = v
		}
	}
	return out
}

type Experiment struct {
	cfg       Config
	variant   kinetics.Variant
	model     *kinetics.Model
	simulator *sim.Simulator
	x0        dynamo.State
}

// New takes an owned snapshot of cfg.
func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

// Setup resolves names against reg and builds the model, integrator and simulator.
func (e *Experiment) Setup(reg *Registry) error {
	if e.cfg.Variant == "" {
		e.cfg.Variant = kinetics.Basic.Name
	}
	if e.cfg.Integrator == "" {
		e.cfg.Integrator = "auto"
	}
	v, err := reg.GetVariant(e.cfg.Variant)
	if err != nil {
		return err
	}
	e.variant = v

	if e.cfg.Params == nil {
		e.cfg.Params = v.Baseline()
	}
	if e.cfg.Initial == nil {
		e.cfg.Initial = v.DefaultInitial()
	}
	if e.cfg.Domain == (dynamo.TimeDomain{}) {
		e.cfg.Domain = dynamo.TimeDomain{Start: 0, End: 7200, Samples: v.Samples}
	}
	e.cfg.Solver = integrators.DefaultOptions().Merge(e.cfg.Solver)

	model, err := kinetics.NewModel(v, e.cfg.Params)
	if err != nil {
		return err
	}
	x0, err := v.Layout.State(e.cfg.Initial)
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(e.cfg.Integrator, e.cfg.Solver)
	if err != nil {
		return err
	}

	e.model = model
	e.x0 = x0
	e.simulator = sim.New(model, integ,
		sim.WithMaxSteps(e.cfg.Solver.MaxSteps),
		sim.WithTimeout(e.cfg.Timeout),
	)
	for _, m := range reg.DefaultMetrics(model) {
		e.simulator.AddMetric(m)
	}
	return nil
}

// Run integrates the configured model. Partial trajectories attached to
// errors carry the same parameter snapshot as a successful result.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Trajectory, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	traj, err := e.simulator.Run(ctx, e.x0.Clone(), e.cfg.Domain)
	if err != nil {
		var ierr *dynamo.IntegrationError
		var verr *dynamo.InvariantError
		switch {
		case errors.As(err, &ierr):
			e.annotate(ierr.Partial)
		case errors.As(err, &verr):
			e.annotate(verr.Partial)
		}
		return nil, err
	}
	e.annotate(traj)
	return traj, nil
}

func (e *Experiment) annotate(traj *dynamo.Trajectory) {
	if traj == nil {
		return
	}
	traj.Params = e.model.Params()
	traj.Species = e.model.Labels()
}

// Config returns the resolved configuration after Setup.
func (e *Experiment) Config() Config { return e.cfg.Clone() }

func (e *Experiment) Model() *kinetics.Model { return e.model }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

// Run builds and runs a single experiment with the default registry.
func Run(ctx context.Context, cfg Config) (*dynamo.Trajectory, error) {
	e := New(cfg)
	if err := e.Setup(NewRegistry()); err != nil {
		return nil, err
	}
	return e.Run(ctx)
}
