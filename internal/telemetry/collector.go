// Package telemetry counts integrations and solver work with Prometheus
// collectors and renders them in the text exposition format.
package telemetry

import (
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/san-kum/covkin/internal/dynamo"
)

// Outcome labels recorded on covkin_integrations_total.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeInvariant    = "invariant"
	OutcomeMaxSteps     = "max_steps"
	OutcomeStepTooSmall = "step_too_small"
	OutcomeSingular     = "singular"
	OutcomeCanceled     = "canceled"
	OutcomeError        = "error"
)

// Collector holds the integration metrics of one process.
type Collector struct {
	registry     *prometheus.Registry
	integrations *prometheus.CounterVec
	steps        *prometheus.HistogramVec
	rejected     *prometheus.CounterVec
	evaluations  *prometheus.CounterVec
	switches     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New registers a fresh set of collectors on a private registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		integrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "covkin_integrations_total",
				Help: "Integrator invocations by model variant and outcome",
			},
			[]string{"variant", "outcome"},
		),
		steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "covkin_accepted_steps",
				Help:    "Accepted solver steps per integration",
				Buckets: prometheus.ExponentialBuckets(16, 4, 8),
			},
			[]string{"variant"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "covkin_rejected_steps_total",
				Help: "Steps rejected by error control",
			},
			[]string{"variant"},
		),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "covkin_rate_evaluations_total",
				Help: "Rate law evaluations",
			},
			[]string{"variant"},
		),
		switches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "covkin_stiffness_switches_total",
				Help: "Switches between the explicit and implicit solver",
			},
			[]string{"variant"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "covkin_integration_duration_seconds",
				Help:    "Wall time of one integration",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"variant"},
		),
	}
	c.registry.MustRegister(c.integrations, c.steps, c.rejected, c.evaluations, c.switches, c.duration)
	return c
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveRun records one integration. Solver statistics are taken from the
// trajectory, or from the partial trajectory attached to err.
func (c *Collector) ObserveRun(variant string, elapsed time.Duration, traj *dynamo.Trajectory, err error) {
	c.integrations.WithLabelValues(variant, Classify(err)).Inc()
	c.duration.WithLabelValues(variant).Observe(elapsed.Seconds())

	if traj == nil {
		traj = partial(err)
	}
	if traj == nil {
		return
	}
	st := traj.Stats
	c.steps.WithLabelValues(variant).Observe(float64(st.Accepted))
	c.rejected.WithLabelValues(variant).Add(float64(st.Rejected))
	c.evaluations.WithLabelValues(variant).Add(float64(st.Evaluations))
	c.switches.WithLabelValues(variant).Add(float64(st.Switches))
}

// Classify maps an integration error onto an outcome label.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, dynamo.ErrInvalidParameter),
		errors.Is(err, dynamo.ErrInvalidState),
		errors.Is(err, dynamo.ErrInvalidDomain),
		errors.Is(err, dynamo.ErrDimensionMismatch):
		return OutcomeInvalid
	case errors.Is(err, dynamo.ErrInvariant):
		return OutcomeInvariant
	case errors.Is(err, dynamo.ErrCanceled):
		return OutcomeCanceled
	case errors.Is(err, dynamo.ErrMaxSteps):
		return OutcomeMaxSteps
	case errors.Is(err, dynamo.ErrStepTooSmall):
		return OutcomeStepTooSmall
	case errors.Is(err, dynamo.ErrSingularMatrix):
		return OutcomeSingular
	}
	return OutcomeError
}

func partial(err error) *dynamo.Trajectory {
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

// WriteText writes every gathered family in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
