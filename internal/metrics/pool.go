package metrics

import (
	"math"

	"github.com/san-kum/covkin/internal/dynamo"
)

// PoolDrift tracks the largest relative deviation of a linear pool from its
// first observed total.
type PoolDrift struct {
	name     string
	weights  []float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewPoolDrift(inv dynamo.Invariant) *PoolDrift {
	return &PoolDrift{
		name:    "drift_" + inv.Name,
		weights: inv.Weights,
	}
}

// PoolDrifts returns one tracker per conserved pool of dyn, or nil if it has none.
func PoolDrifts(dyn dynamo.System) []*PoolDrift {
	c, ok := dyn.(dynamo.Conserved)
	if !ok {
		return nil
	}
	var out []*PoolDrift
	for _, inv := range c.Invariants() {
		out = append(out, NewPoolDrift(inv))
	}
	return out
}

func (p *PoolDrift) Name() string { return p.name }

func (p *PoolDrift) Observe(x dynamo.State, t float64) {
	total := x.Dot(p.weights)
	if p.samples == 0 {
		p.initial = total
	}
	p.samples++

	if p.initial != 0 {
		drift := math.Abs(total-p.initial) / math.Abs(p.initial)
		p.maxDrift = math.Max(p.maxDrift, drift)
	}
}

func (p *PoolDrift) Value() float64 {
	return p.maxDrift
}

func (p *PoolDrift) Reset() {
	p.initial = 0
	p.maxDrift = 0
	p.samples = 0
}
