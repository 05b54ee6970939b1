// Package sweep repeats an experiment across parameter variations.
//
// Every case gets its own parameter snapshot, state, model, integrator and
// simulator, so cases may run concurrently without sharing anything mutable.
// Results are stored by case index and a failing case never aborts the rest.
package sweep

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/experiment"
	"github.com/san-kum/covkin/internal/logging"
	"github.com/san-kum/covkin/internal/telemetry"
)

type Runner struct {
	template experiment.Config
	workers  int
	log      *slog.Logger
	recorder *telemetry.Collector
	registry *experiment.Registry

	mu       sync.Mutex
	observer func(Event)
}

type Option func(*Runner)

// WithWorkers bounds concurrent cases. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.workers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func WithRecorder(c *telemetry.Collector) Option {
	return func(r *Runner) { r.recorder = c }
}

// WithObserver receives progress events. Calls are serialized.
func WithObserver(fn func(Event)) Option {
	return func(r *Runner) { r.observer = fn }
}

func WithRegistry(reg *experiment.Registry) Option {
	return func(r *Runner) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// NewRunner snapshots template. Each case overrides its Params and Initial.
func NewRunner(template experiment.Config, opts ...Option) *Runner {
	r := &Runner{
		template: template.Clone(),
		workers:  1,
		log:      logging.NewNop(),
		registry: experiment.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Workers() int { return r.workers }

// Run executes every case and returns their outcomes in case order.
func (r *Runner) Run(ctx context.Context, cases []Case) *Report {
	report := &Report{Outcomes: make([]Outcome, len(cases))}

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, c := range cases {
		g.Go(func() error {
			report.Outcomes[i] = r.runCase(ctx, i, c)
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (r *Runner) runCase(ctx context.Context, idx int, c Case) Outcome {
	cfg := r.template.Clone()
	if c.Params != nil {
		cfg.Params = c.Params.Clone()
	}
	if c.Initial != nil {
		cfg.Initial = cloneInitial(c.Initial)
	}

	out := Outcome{Index: idx, Label: c.Label, Value: c.Value, Params: cfg.Params.Clone()}
	r.emit(Event{Index: idx, Label: c.Label, Status: StatusStarted})
	r.log.Debug("case started", "index", idx, "case", c.Label)

	start := time.Now()
	e := experiment.New(cfg)
	traj, err := r.execute(ctx, e)
	out.Elapsed = time.Since(start)

	if r.recorder != nil {
		r.recorder.ObserveRun(e.Config().Variant, out.Elapsed, traj, err)
	}

	if err != nil {
		out.Err = err
		out.Partial = partialOf(err)
		r.log.Warn("case failed", "index", idx, "case", c.Label, "error", err)
		r.emit(Event{Index: idx, Label: c.Label, Status: StatusFailed, Err: err, Elapsed: out.Elapsed})
		return out
	}

	out.Trajectory = traj
	r.log.Info("case done", "index", idx, "case", c.Label,
		"steps", traj.Stats.Accepted, "switches", traj.Stats.Switches, "elapsed", out.Elapsed)
	r.emit(Event{Index: idx, Label: c.Label, Status: StatusDone, Elapsed: out.Elapsed})
	return out
}

func (r *Runner) execute(ctx context.Context, e *experiment.Experiment) (*dynamo.Trajectory, error) {
	if err := e.Setup(r.registry); err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

func (r *Runner) emit(ev Event) {
	if r.observer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer(ev)
}

func partialOf(err error) *dynamo.Trajectory {
	var ierr *dynamo.IntegrationError
	if errors.As(err, &ierr) {
		return ierr.Partial
	}
	var verr *dynamo.InvariantError
	if errors.As(err, &verr) {
		return verr.Partial
	}
	return nil
}
