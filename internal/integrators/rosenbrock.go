package integrators

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/covkin/internal/dynamo"
)

// Rosenbrock 2(3) constants (Shampine and Reichelt).
var (
	rosD   = 1.0 / (2.0 + math.Sqrt2)
	rosE32 = 6.0 + math.Sqrt2
)

// Rosenbrock is the L-stable linearly implicit 2(3) pair. It uses the
// analytic Jacobian when the system provides one and forward differences
// otherwise. Each attempt factorizes W = I - h·d·J once.
type Rosenbrock struct {
	opts  Options
	stats dynamo.Stats

	jac *mat.Dense
	w   *mat.Dense
	lu  mat.LU

	// hJNorm is h·‖J‖∞ of the last accepted step.
	hJNorm float64
}

func NewRosenbrock(opts Options) *Rosenbrock {
	return &Rosenbrock{opts: opts}
}

func (r *Rosenbrock) Name() string { return "rosenbrock" }

func (r *Rosenbrock) Reset() {
	r.stats = dynamo.Stats{}
	r.hJNorm = 0
	r.jac, r.w = nil, nil
}

func (r *Rosenbrock) Stats() dynamo.Stats { return r.stats }

func (r *Rosenbrock) InitialStep(dyn dynamo.System, t float64, x, f dynamo.State, tEnd float64) float64 {
	h, evals := r.opts.initialStep(dyn, t, x, f, tEnd, 2)
	r.stats.Evaluations += evals
	return h
}

func (r *Rosenbrock) ensure(n int) {
	if r.jac == nil || r.jac.RawMatrix().Rows != n {
		r.jac = mat.NewDense(n, n, nil)
		r.w = mat.NewDense(n, n, nil)
	}
}

// jacobian fills r.jac at (t, x).
func (r *Rosenbrock) jacobian(dyn dynamo.System, t float64, x, f dynamo.State) {
	r.stats.Jacobians++
	if js, ok := dyn.(dynamo.JacobianSystem); ok {
		js.Jacobian(x, t, r.jac)
		return
	}
	n := len(x)
	xp := x.Clone()
	for j := 0; j < n; j++ {
		delta := math.Sqrt(2.220446049250313e-16) * math.Max(math.Abs(x[j]), 1)
		xp[j] = x[j] + delta
		fp := dyn.Derive(xp, t)
		for i := 0; i < n; i++ {
			r.jac.Set(i, j, (fp[i]-f[i])/delta)
		}
		xp[j] = x[j]
	}
	r.stats.Evaluations += n
}

// factorize builds W = I - h·d·J and decomposes it.
func (r *Rosenbrock) factorize(h float64) {
	n, _ := r.jac.Dims()
	r.w.Scale(-h*rosD, r.jac)
	for i := 0; i < n; i++ {
		r.w.Set(i, i, r.w.At(i, i)+1)
	}
	r.lu.Factorize(r.w)
	r.stats.Factorizations++
}

func (r *Rosenbrock) solve(dst *mat.VecDense, rhs dynamo.State) error {
	return r.lu.SolveVecTo(dst, false, mat.NewVecDense(len(rhs), rhs))
}

// Advance takes one accepted step. The Jacobian is evaluated once at (t, x)
// and reused across rejected attempts.
func (r *Rosenbrock) Advance(dyn dynamo.System, t float64, x, f dynamo.State, h, tEnd float64) (dynamo.Step, error) {
	n := len(x)
	r.ensure(n)
	r.jacobian(dyn, t, x, f)
	jNorm := mat.Norm(r.jac, math.Inf(1))

	k1 := mat.NewVecDense(n, nil)
	k2 := mat.NewVecDense(n, nil)
	k3 := mat.NewVecDense(n, nil)
	stage := make(dynamo.State, n)
	rhs := make(dynamo.State, n)
	errEst := make(dynamo.State, n)
	rejected := false

	for {
		h = r.opts.clampStep(h, t, tEnd)
		if h < minStep(t) {
			return dynamo.Step{}, stepTooSmall(h, t)
		}

		r.factorize(h)
		if err := r.solve(k1, f); err != nil {
			if h/2 < minStep(t) {
				return dynamo.Step{}, fmt.Errorf("%w: %v (h=%.3g at t=%.6g)", dynamo.ErrSingularMatrix, err, h, t)
			}
			r.stats.Rejected++
			rejected = true
			h /= 2
			continue
		}

		for i := 0; i < n; i++ {
			stage[i] = x[i] + 0.5*h*k1.AtVec(i)
		}
		f1 := dyn.Derive(stage, t+0.5*h)

		for i := 0; i < n; i++ {
			rhs[i] = f1[i] - k1.AtVec(i)
		}
		if err := r.solve(k2, rhs); err != nil {
			return dynamo.Step{}, fmt.Errorf("%w: %v", dynamo.ErrSingularMatrix, err)
		}
		k2.AddVec(k2, k1)

		xNew := make(dynamo.State, n)
		for i := 0; i < n; i++ {
			xNew[i] = x[i] + h*k2.AtVec(i)
		}
		f2 := dyn.Derive(xNew, t+h)
		r.stats.Evaluations += 2

		for i := 0; i < n; i++ {
			rhs[i] = f2[i] - rosE32*(k2.AtVec(i)-f1[i]) - 2*(k1.AtVec(i)-f[i])
		}
		if err := r.solve(k3, rhs); err != nil {
			return dynamo.Step{}, fmt.Errorf("%w: %v", dynamo.ErrSingularMatrix, err)
		}

		for i := 0; i < n; i++ {
			errEst[i] = h / 6 * (k1.AtVec(i) - 2*k2.AtVec(i) + k3.AtVec(i))
		}
		errNorm := r.opts.errNorm(errEst, x, xNew)

		if errNorm <= 1 {
			r.stats.Accepted++
			r.hJNorm = h * jNorm
			next := h * stepFactor(errNorm, 2, rejected)
			if r.opts.MaxStep > 0 {
				next = math.Min(next, r.opts.MaxStep)
			}
			return dynamo.Step{T: t, H: h, X: xNew, F: f2, Next: next, Stiff: true}, nil
		}

		r.stats.Rejected++
		rejected = true
		h *= stepFactor(errNorm, 2, true)
	}
}
