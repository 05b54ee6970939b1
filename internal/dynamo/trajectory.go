package dynamo

import (
	"fmt"
	"math"
)

// TimeDomain is the closed interval [Start, End] in seconds together with the
// number of uniformly spaced report times, both ends included.
type TimeDomain struct {
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	Samples int     `json:"samples" yaml:"samples"`
}

// DefaultTimeDomain is the two hour horizon reported at 600 points.
func DefaultTimeDomain() TimeDomain {
	return TimeDomain{Start: 0, End: 7200, Samples: 600}
}

func (d TimeDomain) Validate() error {
	if math.IsNaN(d.Start) || math.IsNaN(d.End) || math.IsInf(d.Start, 0) || math.IsInf(d.End, 0) {
		return fmt.Errorf("%w: non-finite bounds [%g, %g]", ErrInvalidDomain, d.Start, d.End)
	}
	if d.End <= d.Start {
		return fmt.Errorf("%w: end %g must be after start %g", ErrInvalidDomain, d.End, d.Start)
	}
	if d.Samples < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidDomain, d.Samples)
	}
	return nil
}

// Times returns the strictly increasing report times. The last entry is
// exactly End.
func (d TimeDomain) Times() []float64 {
	times := make([]float64, d.Samples)
	span := d.End - d.Start
	last := float64(d.Samples - 1)
	for i := range times {
		times[i] = d.Start + span*float64(i)/last
	}
	times[len(times)-1] = d.End
	return times
}

// Trajectory is the sampled solution of one integrator invocation together
// with the inputs that produced it.
type Trajectory struct {
	Times   []float64          `json:"times"`
	States  []State            `json:"states"`
	Species []string           `json:"species"`
	Params  map[string]float64 `json:"params"`
	Initial State              `json:"initial"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
	Stats   Stats              `json:"stats"`
}

func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.Times)
}

// At returns the time and state of sample i.
func (tr *Trajectory) At(i int) (float64, State) {
	return tr.Times[i], tr.States[i]
}

// Final returns the last reported state, or nil for an empty trajectory.
func (tr *Trajectory) Final() State {
	if tr.Len() == 0 {
		return nil
	}
	return tr.States[len(tr.States)-1]
}

// Index returns the state position of a species name.
func (tr *Trajectory) Index(name string) (int, bool) {
	for i, s := range tr.Species {
		if s == name {
			return i, true
		}
	}
	return -1, false
}

// Series returns the concentration of one species at every sample.
func (tr *Trajectory) Series(name string) ([]float64, error) {
	idx, ok := tr.Index(name)
	if !ok {
		return nil, fmt.Errorf("unknown species %q (have %v)", name, tr.Species)
	}
	out := make([]float64, len(tr.States))
	for i, s := range tr.States {
		out[i] = s[idx]
	}
	return out, nil
}

// Minutes returns the sample times converted for display.
func (tr *Trajectory) Minutes() []float64 {
	out := make([]float64, len(tr.Times))
	for i, t := range tr.Times {
		out[i] = t / 60
	}
	return out
}
