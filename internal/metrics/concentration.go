package metrics

import (
	"math"

	"github.com/san-kum/covkin/internal/dynamo"
)

// MinConcentration records the most negative entry seen across all species.
// It stays at zero while every sample is non-negative.
type MinConcentration struct {
	min float64
}

func NewMinConcentration() *MinConcentration { return &MinConcentration{} }

func (m *MinConcentration) Name() string { return "min_concentration" }

func (m *MinConcentration) Observe(x dynamo.State, t float64) {
	for _, v := range x {
		m.min = math.Min(m.min, v)
	}
}

func (m *MinConcentration) Value() float64 { return m.min }
func (m *MinConcentration) Reset()         { m.min = 0 }

// Final keeps the last observed value of one species.
type Final struct {
	name  string
	index int
	value float64
}

func NewFinal(species string, index int) *Final {
	return &Final{name: "final_" + species, index: index}
}

func (f *Final) Name() string { return f.name }

func (f *Final) Observe(x dynamo.State, t float64) {
	if f.index < len(x) {
		f.value = x[f.index]
	}
}

func (f *Final) Value() float64 { return f.value }
func (f *Final) Reset()         { f.value = 0 }

// Peak records the maximum of one species and when it occurred.
type Peak struct {
	name  string
	index int
	peak  float64
	at    float64
	seen  bool
}

func NewPeak(species string, index int) *Peak {
	return &Peak{name: "peak_" + species, index: index}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.index >= len(x) {
		return
	}
	if !p.seen || x[p.index] > p.peak {
		p.peak, p.at, p.seen = x[p.index], t, true
	}
}

func (p *Peak) Value() float64 { return p.peak }

// Time returns when the peak was observed.
func (p *Peak) Time() float64 { return p.at }

func (p *Peak) Reset() {
	p.peak, p.at, p.seen = 0, 0, false
}
