package integrators

import (
	"math"

	"github.com/san-kum/covkin/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the explicit Dormand-Prince 5(4) pair with first-same-as-last
// reuse of the final stage. Each accepted step also records Hairer's
// estimate of h·ρ(J), which Auto uses to detect stiffness.
type RK45 struct {
	opts  Options
	stats dynamo.Stats

	// hLambda is h times the dominant eigenvalue estimate of the last accepted step.
	hLambda float64
}

func NewRK45(opts Options) *RK45 {
	return &RK45{opts: opts}
}

func (r *RK45) Name() string { return "rk45" }

func (r *RK45) Reset() {
	r.stats = dynamo.Stats{}
	r.hLambda = 0
}

func (r *RK45) Stats() dynamo.Stats { return r.stats }

func (r *RK45) InitialStep(dyn dynamo.System, t float64, x, f dynamo.State, tEnd float64) float64 {
	h, evals := r.opts.initialStep(dyn, t, x, f, tEnd, 4)
	r.stats.Evaluations += evals
	return h
}

// Advance tries h and shrinks it until the local error passes. f must be
// the derivative at (t, x); the returned Step carries the derivative at its
// end point for the next call.
func (r *RK45) Advance(dyn dynamo.System, t float64, x, f dynamo.State, h, tEnd float64) (dynamo.Step, error) {
	n := len(x)
	k1 := f
	stage := make(dynamo.State, n)
	xNew := make(dynamo.State, n)
	errEst := make(dynamo.State, n)
	rejected := false

	for {
		h = r.opts.clampStep(h, t, tEnd)
		if h < minStep(t) {
			return dynamo.Step{}, stepTooSmall(h, t)
		}

		for i := 0; i < n; i++ {
			stage[i] = x[i] + h*b21*k1[i]
		}
		k2 := dyn.Derive(stage, t+a2*h)

		for i := 0; i < n; i++ {
			stage[i] = x[i] + h*(b31*k1[i]+b32*k2[i])
		}
		k3 := dyn.Derive(stage, t+a3*h)

		for i := 0; i < n; i++ {
			stage[i] = x[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
		}
		k4 := dyn.Derive(stage, t+a4*h)

		for i := 0; i < n; i++ {
			stage[i] = x[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
		}
		k5 := dyn.Derive(stage, t+a5*h)

		for i := 0; i < n; i++ {
			stage[i] = x[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
		}
		k6 := dyn.Derive(stage, t+h)

		for i := 0; i < n; i++ {
			xNew[i] = x[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
		}
		k7 := dyn.Derive(xNew, t+h)
		r.stats.Evaluations += 6

		for i := 0; i < n; i++ {
			errEst[i] = h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		}
		errNorm := r.opts.errNorm(errEst, x, xNew)

		if errNorm <= 1 {
			r.stats.Accepted++
			r.hLambda = stiffnessRatio(h, k7, k6, xNew, stage)
			next := h * stepFactor(errNorm, 4, rejected)
			if r.opts.MaxStep > 0 {
				next = math.Min(next, r.opts.MaxStep)
			}
			return dynamo.Step{T: t, H: h, X: xNew, F: k7, Next: next}, nil
		}

		r.stats.Rejected++
		rejected = true
		h *= stepFactor(errNorm, 4, true)
	}
}

// stiffnessRatio estimates h·|λ| from the last two stages, which are both
// evaluated at t+h.
func stiffnessRatio(h float64, k7, k6, xNew, x6 dynamo.State) float64 {
	num, den := 0.0, 0.0
	for i := range k7 {
		dk := k7[i] - k6[i]
		dx := xNew[i] - x6[i]
		num += dk * dk
		den += dx * dx
	}
	if den <= 0 {
		return 0
	}
	return h * math.Sqrt(num/den)
}
