package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/covkin/internal/dynamo"
)

// Options controls error-per-step tolerances shared by every adaptive method.
type Options struct {
	RelTol   float64 `json:"rel_tol" yaml:"rel_tol"`
	AbsTol   float64 `json:"abs_tol" yaml:"abs_tol"`
	MaxSteps int     `json:"max_steps" yaml:"max_steps"`
	// MaxStep caps a single step. Zero leaves it unbounded.
	MaxStep float64 `json:"max_step,omitempty" yaml:"max_step,omitempty"`
	// FirstStep overrides the initial step heuristic when positive.
	FirstStep float64 `json:"first_step,omitempty" yaml:"first_step,omitempty"`
}

func DefaultOptions() Options {
	return Options{
		RelTol:   1e-6,
		AbsTol:   1e-10,
		MaxSteps: 100000,
	}
}

// Merge overlays the non-zero fields of o onto opts.
func (opts Options) Merge(o Options) Options {
	if o.RelTol > 0 {
		opts.RelTol = o.RelTol
	}
	if o.AbsTol > 0 {
		opts.AbsTol = o.AbsTol
	}
	if o.MaxSteps > 0 {
		opts.MaxSteps = o.MaxSteps
	}
	if o.MaxStep > 0 {
		opts.MaxStep = o.MaxStep
	}
	if o.FirstStep > 0 {
		opts.FirstStep = o.FirstStep
	}
	return opts
}

func (opts Options) Validate() error {
	switch {
	case !(opts.RelTol > 0) || math.IsInf(opts.RelTol, 0):
		return &dynamo.ParameterError{Name: "rel_tol", Value: opts.RelTol, Reason: "must be positive"}
	case !(opts.AbsTol > 0) || math.IsInf(opts.AbsTol, 0):
		return &dynamo.ParameterError{Name: "abs_tol", Value: opts.AbsTol, Reason: "must be positive"}
	case opts.MaxSteps <= 0:
		return &dynamo.ParameterError{Name: "max_steps", Value: opts.MaxSteps, Reason: "must be positive"}
	case opts.MaxStep < 0:
		return &dynamo.ParameterError{Name: "max_step", Value: opts.MaxStep, Reason: "must be non-negative"}
	}
	return nil
}

const (
	safety   = 0.9
	minScale = 0.2
	maxScale = 5.0
)

// errNorm is the RMS of err weighted by atol + rtol·max(|x|, |xNew|).
// A non-finite estimate comes back as +Inf so the step is rejected.
func (opts Options) errNorm(errEst, x, xNew dynamo.State) float64 {
	if len(errEst) == 0 {
		return 0
	}
	sum := 0.0
	for i, e := range errEst {
		sc := opts.AbsTol + opts.RelTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		r := e / sc
		sum += r * r
	}
	n := math.Sqrt(sum / float64(len(errEst)))
	if math.IsNaN(n) {
		return math.Inf(1)
	}
	return n
}

// stepFactor maps an accepted or rejected error norm to a step multiplier.
func stepFactor(errNorm float64, order int, rejected bool) float64 {
	if math.IsInf(errNorm, 1) {
		return minScale
	}
	if errNorm == 0 {
		if rejected {
			return 1
		}
		return maxScale
	}
	f := safety * math.Pow(errNorm, -1/float64(order+1))
	f = math.Max(minScale, math.Min(maxScale, f))
	if rejected {
		f = math.Min(1, f)
	}
	return f
}

// minStep is the smallest step distinguishable from t.
func minStep(t float64) float64 {
	const eps = 2.220446049250313e-16
	return 10 * eps * math.Max(math.Abs(t), 1)
}

// Reached reports whether t is within rounding of tEnd.
func Reached(t, tEnd float64) bool {
	return tEnd-t <= minStep(tEnd)
}

// clampStep keeps h within MaxStep and the remaining horizon. A step that
// would leave an unresolvable sliver before tEnd is stretched to reach it.
func (opts Options) clampStep(h, t, tEnd float64) float64 {
	if opts.MaxStep > 0 && h > opts.MaxStep {
		h = opts.MaxStep
	}
	if remaining := tEnd - t; h > remaining || remaining-h < minStep(tEnd) {
		h = remaining
	}
	return h
}

// initialStep picks a first step from the local scale of x and f, following
// Hairer, Nørsett and Wanner.
func (opts Options) initialStep(dyn dynamo.System, t float64, x, f dynamo.State, tEnd float64, order int) (float64, int) {
	if opts.FirstStep > 0 {
		return opts.clampStep(opts.FirstStep, t, tEnd), 0
	}
	n := len(x)
	if n == 0 {
		return tEnd - t, 0
	}
	scale := func(i int) float64 { return opts.AbsTol + opts.RelTol*math.Abs(x[i]) }

	d0, d1 := 0.0, 0.0
	for i := range x {
		d0 += (x[i] / scale(i)) * (x[i] / scale(i))
		d1 += (f[i] / scale(i)) * (f[i] / scale(i))
	}
	d0 = math.Sqrt(d0 / float64(n))
	d1 = math.Sqrt(d1 / float64(n))

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = opts.clampStep(h0, t, tEnd)

	x1 := make(dynamo.State, n)
	for i := range x {
		x1[i] = x[i] + h0*f[i]
	}
	f1 := dyn.Derive(x1, t+h0)

	d2 := 0.0
	for i := range x {
		r := (f1[i] - f[i]) / scale(i)
		d2 += r * r
	}
	d2 = math.Sqrt(d2/float64(n)) / h0

	var h1 float64
	if m := math.Max(d1, d2); m <= 1e-15 || math.IsNaN(m) {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/m, 1/float64(order+1))
	}
	return opts.clampStep(math.Min(100*h0, h1), t, tEnd), 1
}

func stepTooSmall(h, t float64) error {
	return fmt.Errorf("%w: h=%.3g at t=%.6g", dynamo.ErrStepTooSmall, h, t)
}
