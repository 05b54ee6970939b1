package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// State is a vector of species concentrations in µM.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the largest magnitude in the vector.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// Dot returns the weighted sum of the state.
func (s State) Dot(w []float64) float64 {
	sum := 0.0
	for i := range s {
		if i < len(w) {
			sum += s[i] * w[i]
		}
	}
	return sum
}

// System is an autonomous or time-dependent ODE right-hand side dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Labeled is implemented by systems that name their state entries.
type Labeled interface {
	Labels() []string
}

// JacobianSystem is implemented by systems that can fill ∂f/∂x analytically.
// dst is StateDim x StateDim and is overwritten.
type JacobianSystem interface {
	System
	Jacobian(x State, t float64, dst *mat.Dense)
}

// Invariant is a linear combination of state entries that the system keeps
// constant.
type Invariant struct {
	Name    string
	Weights []float64
}

// Conserved is implemented by systems with linear conservation laws.
type Conserved interface {
	Invariants() []Invariant
}

// Step is one accepted solver step from T to T+H.
type Step struct {
	T, H  float64
	X     State // state at T+H
	F     State // derivative at T+H
	Next  float64
	Stiff bool
}

// AdaptiveIntegrator advances a system by one accepted step, shrinking the
// trial size internally until the error estimate passes.
type AdaptiveIntegrator interface {
	Name() string
	Reset()
	InitialStep(dyn System, t float64, x, f State, tEnd float64) float64
	Advance(dyn System, t float64, x, f State, h, tEnd float64) (Step, error)
	Stats() Stats
}

// Stats counts solver work for one invocation.
type Stats struct {
	Accepted       int `json:"accepted"`
	Rejected       int `json:"rejected"`
	Evaluations    int `json:"evaluations"`
	Jacobians      int `json:"jacobians"`
	Factorizations int `json:"factorizations"`
	StiffSteps     int `json:"stiff_steps"`
	Switches       int `json:"switches"`
}

// Metric observes every reported sample of a run.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Observer is notified of every accepted solver step.
type Observer interface {
	OnStep(step Step)
}
