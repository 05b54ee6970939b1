package kinetics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/covkin/internal/dynamo"
)

// Variant selects a state layout and the reaction groups that are active
// over it.
type Variant struct {
	Name        string
	Description string
	Layout      Layout
	Groups      Group
	Samples     int
}

var (
	Basic = Variant{
		Name:        "basic",
		Description: "reversible binding, covalent inactivation, substrate turnover",
		Layout:      BasicLayout,
		Groups:      CoreGroups,
		Samples:     600,
	}
	BasicReordered = Variant{
		Name:        "basic-reordered",
		Description: "basic network in the {E, S, P, I, EI, EI_cov} convention",
		Layout:      ReorderedLayout,
		Groups:      CoreGroups,
		Samples:     800,
	}
	RedoxTurnover = Variant{
		Name:        "redox-turnover",
		Description: "basic network plus sulfenylation, turnover and internalization",
		Layout:      ExtendedLayout,
		Groups:      AllGroups,
		Samples:     800,
	}
)

// Variants lists the shipped variants in display order.
func Variants() []Variant {
	return []Variant{Basic, BasicReordered, RedoxTurnover}
}

func LookupVariant(name string) (Variant, error) {
	for _, v := range Variants() {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown variant %q", name)
}

// RequiredParams lists, sorted, the constants referenced by the active reactions.
func (v Variant) RequiredParams() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range ReactionsIn(v.Groups) {
		if !seen[r.Constant] {
			seen[r.Constant] = true
			keys = append(keys, r.Constant)
		}
	}
	sort.Strings(keys)
	return keys
}

// Baseline returns the reference Neratinib constants for the variant.
func (v Variant) Baseline() Params {
	if v.Groups&^CoreGroups != 0 {
		return RedoxTurnoverParams()
	}
	return NeratinibParams()
}

// DefaultInitial returns the reference initial concentrations for the variant.
func (v Variant) DefaultInitial() Concentrations {
	if v.Name == Basic.Name {
		return ComparisonInitial()
	}
	return SensitivityInitial()
}

type compiled struct {
	k     float64
	in    []int
	out   []int
	coeff []float64
}

// Model is a rate law bound to one variant and one parameter snapshot. It is
// immutable and safe for concurrent use.
type Model struct {
	variant    Variant
	params     Params
	reactions  []Reaction
	rates      []compiled
	invariants []dynamo.Invariant
}

// NewModel validates p against the variant and compiles the active reactions.
// p is copied.
func NewModel(v Variant, p Params) (*Model, error) {
	if err := p.Validate(v.RequiredParams()); err != nil {
		return nil, err
	}
	m := &Model{
		variant:   v,
		params:    p.Clone(),
		reactions: ReactionsIn(v.Groups),
	}
	for _, r := range m.reactions {
		c := compiled{k: m.params[r.Constant]}
		for _, sp := range r.Inputs {
			idx, ok := v.Layout.Index(sp)
			if !ok {
				return nil, fmt.Errorf("variant %s: reaction %s reads untracked species %s", v.Name, r.Name, sp)
			}
			c.in = append(c.in, idx)
		}
		for _, term := range r.Delta {
			idx, ok := v.Layout.Index(term.Species)
			if !ok {
				return nil, fmt.Errorf("variant %s: reaction %s writes untracked species %s", v.Name, r.Name, term.Species)
			}
			c.out = append(c.out, idx)
			c.coeff = append(c.coeff, term.Coeff)
		}
		m.rates = append(m.rates, c)
	}
	m.invariants = conservedPools(v, m.reactions)
	return m, nil
}

func (m *Model) Variant() Variant { return m.variant }
func (m *Model) Layout() Layout   { return m.variant.Layout }
func (m *Model) StateDim() int    { return len(m.variant.Layout) }

// Labels returns the species names in state order.
func (m *Model) Labels() []string { return m.variant.Layout.Names() }

// Params returns a copy of the bound constants.
func (m *Model) Params() Params { return m.params.Clone() }

func (m *Model) rate(c compiled, x dynamo.State) float64 {
	r := c.k
	for _, i := range c.in {
		r *= x[i]
	}
	return r
}

// Derive evaluates dX/dt. The network is autonomous so t is ignored. Negative
// or non-finite inputs produce the plain arithmetic result.
func (m *Model) Derive(x dynamo.State, _ float64) dynamo.State {
	dx := make(dynamo.State, m.StateDim())
	for _, c := range m.rates {
		r := m.rate(c, x)
		for j, i := range c.out {
			dx[i] += c.coeff[j] * r
		}
	}
	return dx
}

// Jacobian fills dst with ∂f/∂x.
func (m *Model) Jacobian(x dynamo.State, _ float64, dst *mat.Dense) {
	dst.Zero()
	for _, c := range m.rates {
		for a, col := range c.in {
			partial := c.k
			for b, i := range c.in {
				if b != a {
					partial *= x[i]
				}
			}
			for j, row := range c.out {
				dst.Set(row, col, dst.At(row, col)+c.coeff[j]*partial)
			}
		}
	}
}

// Flux is the instantaneous rate of one reaction.
type Flux struct {
	Reaction string
	Group    Group
	Rate     float64
}

// Fluxes returns the rate of every active reaction in network order.
func (m *Model) Fluxes(x dynamo.State) []Flux {
	out := make([]Flux, len(m.rates))
	for i, c := range m.rates {
		out[i] = Flux{
			Reaction: m.reactions[i].Name,
			Group:    m.reactions[i].Group,
			Rate:     m.rate(c, x),
		}
	}
	return out
}

// Invariants returns the linear pools the active reactions leave unchanged.
func (m *Model) Invariants() []dynamo.Invariant {
	out := make([]dynamo.Invariant, len(m.invariants))
	for i, inv := range m.invariants {
		out[i] = dynamo.Invariant{Name: inv.Name, Weights: append([]float64(nil), inv.Weights...)}
	}
	return out
}

// Derivative is the pure-function form of Model.Derive.
func Derivative(v Variant, t float64, x dynamo.State, p Params) (dynamo.State, error) {
	m, err := NewModel(v, p)
	if err != nil {
		return nil, err
	}
	if len(x) != m.StateDim() {
		return nil, fmt.Errorf("%w: state has %d entries, %s needs %d", dynamo.ErrDimensionMismatch, len(x), v.Name, m.StateDim())
	}
	return m.Derive(x, t), nil
}
