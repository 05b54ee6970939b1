package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/integrators"
)

// Simulator drives one system with one adaptive integrator over a time
// domain, reporting the solution at the domain's sample times.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.AdaptiveIntegrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	cfg        Config
}

func New(dyn dynamo.System, integrator dynamo.AdaptiveIntegrator, opts ...Option) *Simulator {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		cfg:        cfg,
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// run holds the per-invocation bookkeeping.
type run struct {
	s       *Simulator
	traj    *dynamo.Trajectory
	labels  []string
	negTol  float64
	pools   []dynamo.Invariant
	totals  []float64
	limits  []float64
	steps   int
	samples []float64
}

// Run integrates from x0 over domain. On failure the returned error is an
// *dynamo.IntegrationError or *dynamo.InvariantError whose Partial field
// holds every sample reached; the trajectory return value is then nil.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, domain dynamo.TimeDomain) (*dynamo.Trajectory, error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: initial state has %d entries, system needs %d",
			dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return nil, dynamo.ErrInvalidState
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	r := s.newRun(x0, domain)
	for _, m := range s.metrics {
		m.Reset()
	}
	s.integrator.Reset()

	if err := r.record(domain.Start, x0.Clone()); err != nil {
		return nil, err
	}

	x := x0.Clone()
	t, tEnd := domain.Start, domain.End
	f := s.dyn.Derive(x, t)
	h := s.integrator.InitialStep(s.dyn, t, x, f, tEnd)
	next := 1

	for next < len(r.samples) {
		select {
		case <-ctx.Done():
			return nil, r.fail(t, x, fmt.Errorf("%w: %w", dynamo.ErrCanceled, ctx.Err()))
		default:
		}
		if r.steps >= s.cfg.MaxSteps {
			return nil, r.fail(t, x, fmt.Errorf("%w: %d steps without reaching t=%g", dynamo.ErrMaxSteps, r.steps, tEnd))
		}

		step, err := s.integrator.Advance(s.dyn, t, x, f, h, tEnd)
		if err != nil {
			return nil, r.fail(t, x, err)
		}
		r.steps++
		if !step.X.IsValid() {
			return nil, r.fail(t, x, dynamo.ErrInvalidState)
		}

		tNew := step.T + step.H
		if integrators.Reached(tNew, tEnd) {
			tNew = tEnd
		}
		for _, obs := range s.observers {
			obs.OnStep(step)
		}
		if err := r.checkNegative(tNew, step.X); err != nil {
			return nil, err
		}

		for next < len(r.samples) && r.samples[next] <= tNew {
			ts := r.samples[next]
			var xs dynamo.State
			if ts == tNew {
				xs = step.X.Clone()
			} else {
				xs = integrators.Hermite(t, tNew, x, f, step.X, step.F, ts)
			}
			if err := r.record(ts, xs); err != nil {
				return nil, err
			}
			next++
		}

		t, x, f, h = tNew, step.X, step.F, step.Next
	}

	r.finish()
	return r.traj, nil
}

func (s *Simulator) newRun(x0 dynamo.State, domain dynamo.TimeDomain) *run {
	samples := domain.Times()
	r := &run{
		s:       s,
		samples: samples,
		negTol:  s.cfg.NegativeTolerance * math.Max(x0.MaxAbs(), 1e-300),
		traj: &dynamo.Trajectory{
			Times:   make([]float64, 0, len(samples)),
			States:  make([]dynamo.State, 0, len(samples)),
			Initial: x0.Clone(),
			Metrics: make(map[string]float64),
		},
	}
	if l, ok := s.dyn.(dynamo.Labeled); ok {
		r.labels = l.Labels()
	}
	r.traj.Species = r.labels

	if c, ok := s.dyn.(dynamo.Conserved); ok && s.cfg.DriftTolerance > 0 {
		for _, inv := range c.Invariants() {
			total := x0.Dot(inv.Weights)
			r.pools = append(r.pools, inv)
			r.totals = append(r.totals, total)
			r.limits = append(r.limits, s.cfg.DriftTolerance*math.Max(math.Abs(total), x0.MaxAbs()))
		}
	}
	return r
}

func (r *run) label(i int) string {
	if i < len(r.labels) {
		return r.labels[i]
	}
	return fmt.Sprintf("x[%d]", i)
}

func (r *run) checkNegative(t float64, x dynamo.State) error {
	if r.s.cfg.NegativeTolerance <= 0 {
		return nil
	}
	for i, v := range x {
		if v < -r.negTol {
			r.finish()
			return &dynamo.InvariantError{
				Kind:     dynamo.InvariantNegative,
				Quantity: r.label(i),
				Time:     t,
				Value:    v,
				Limit:    r.negTol,
				Partial:  r.traj,
			}
		}
	}
	return nil
}

func (r *run) checkDrift(t float64, x dynamo.State) error {
	for i, inv := range r.pools {
		dev := x.Dot(inv.Weights) - r.totals[i]
		if math.Abs(dev) > r.limits[i] {
			r.finish()
			return &dynamo.InvariantError{
				Kind:     dynamo.InvariantDrift,
				Quantity: inv.Name,
				Time:     t,
				Value:    dev,
				Limit:    r.limits[i],
				Partial:  r.traj,
			}
		}
	}
	return nil
}

// record appends a sample after checking it against the invariants.
func (r *run) record(t float64, x dynamo.State) error {
	if err := r.checkNegative(t, x); err != nil {
		return err
	}
	if err := r.checkDrift(t, x); err != nil {
		return err
	}
	r.traj.Times = append(r.traj.Times, t)
	r.traj.States = append(r.traj.States, x)
	for _, m := range r.s.metrics {
		m.Observe(x, t)
	}
	return nil
}

func (r *run) fail(t float64, x dynamo.State, cause error) error {
	r.finish()
	return &dynamo.IntegrationError{
		Step:    r.steps,
		Time:    t,
		State:   x.Clone(),
		Partial: r.traj,
		Wrapped: cause,
	}
}

func (r *run) finish() {
	r.traj.Stats = r.s.integrator.Stats()
	for _, m := range r.s.metrics {
		r.traj.Metrics[m.Name()] = m.Value()
	}
}
