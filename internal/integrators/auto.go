package integrators

import (
	"github.com/san-kum/covkin/internal/dynamo"
)

const (
	// stiffThreshold bounds h·ρ for Dormand-Prince before stability limits the step.
	stiffThreshold = 3.25
	// nonstiffThreshold is the h·‖J‖∞ bound below which the explicit pair is stable again.
	nonstiffThreshold = 3.3
	switchAfter       = 15
	stiffResetAfter   = 6
)

// Auto starts explicit and switches to Rosenbrock when the step size is
// limited by stability rather than accuracy, and back again when it is not.
type Auto struct {
	opts     Options
	nonstiff *RK45
	stiff    *Rosenbrock

	useStiff      bool
	stiffVotes    int
	nonstiffVotes int
	stiffSteps    int
	switches      int
}

func NewAuto(opts Options) *Auto {
	return &Auto{
		opts:     opts,
		nonstiff: NewRK45(opts),
		stiff:    NewRosenbrock(opts),
	}
}

func (a *Auto) Name() string { return "auto" }

func (a *Auto) Reset() {
	a.nonstiff.Reset()
	a.stiff.Reset()
	a.useStiff = false
	a.stiffVotes, a.nonstiffVotes = 0, 0
	a.stiffSteps, a.switches = 0, 0
}

// Stiff reports which method the next step will use.
func (a *Auto) Stiff() bool { return a.useStiff }

func (a *Auto) Stats() dynamo.Stats {
	ns, st := a.nonstiff.Stats(), a.stiff.Stats()
	return dynamo.Stats{
		Accepted:       ns.Accepted + st.Accepted,
		Rejected:       ns.Rejected + st.Rejected,
		Evaluations:    ns.Evaluations + st.Evaluations,
		Jacobians:      st.Jacobians,
		Factorizations: st.Factorizations,
		StiffSteps:     a.stiffSteps,
		Switches:       a.switches,
	}
}

func (a *Auto) InitialStep(dyn dynamo.System, t float64, x, f dynamo.State, tEnd float64) float64 {
	return a.nonstiff.InitialStep(dyn, t, x, f, tEnd)
}

func (a *Auto) Advance(dyn dynamo.System, t float64, x, f dynamo.State, h, tEnd float64) (dynamo.Step, error) {
	if a.useStiff {
		step, err := a.stiff.Advance(dyn, t, x, f, h, tEnd)
		if err != nil {
			return step, err
		}
		a.stiffSteps++
		if a.stiff.hJNorm <= nonstiffThreshold {
			a.nonstiffVotes++
			if a.nonstiffVotes >= switchAfter {
				a.toggle()
			}
		} else {
			a.nonstiffVotes = 0
		}
		return step, nil
	}

	step, err := a.nonstiff.Advance(dyn, t, x, f, h, tEnd)
	if err != nil {
		return step, err
	}
	if a.nonstiff.hLambda > stiffThreshold {
		a.nonstiffVotes = 0
		a.stiffVotes++
		if a.stiffVotes >= switchAfter {
			a.toggle()
		}
	} else {
		a.nonstiffVotes++
		if a.nonstiffVotes >= stiffResetAfter {
			a.stiffVotes = 0
		}
	}
	return step, nil
}

func (a *Auto) toggle() {
	a.useStiff = !a.useStiff
	a.stiffVotes, a.nonstiffVotes = 0, 0
	a.switches++
}
