package kinetics

import "github.com/san-kum/covkin/internal/dynamo"

// Pool is a named sum of species.
type Pool struct {
	Name    string
	Members []Species
}

var (
	TotalEnzyme    = Pool{"total_enzyme", []Species{E, EI, EICov, EISulfen, EISulfin, EInt, EICovInt}}
	TotalInhibitor = Pool{"total_inhibitor", []Species{I, EI, EICov, EISulfen, EISulfin, EICovInt}}
	Substrate      = Pool{"substrate", []Species{S, P}}
	ActiveEnzyme   = Pool{"active", []Species{E, EI}}
)

// Pools returns the candidate conserved pools.
func Pools() []Pool {
	return []Pool{TotalEnzyme, TotalInhibitor, Substrate}
}

// Weights projects the pool onto a layout. Members outside the layout are dropped.
func (p Pool) Weights(l Layout) []float64 {
	w := make([]float64, len(l))
	for _, sp := range p.Members {
		if idx, ok := l.Index(sp); ok {
			w[idx] = 1
		}
	}
	return w
}

// Total sums the pool members present in x.
func (p Pool) Total(l Layout, x dynamo.State) float64 {
	return x.Dot(p.Weights(l))
}

// conservedPools keeps the pools whose weight vector is orthogonal to every
// active stoichiometry.
func conservedPools(v Variant, reactions []Reaction) []dynamo.Invariant {
	var out []dynamo.Invariant
	for _, pool := range Pools() {
		members := make(map[Species]bool, len(pool.Members))
		for _, sp := range pool.Members {
			if _, ok := v.Layout.Index(sp); ok {
				members[sp] = true
			}
		}
		conserved := true
		for _, r := range reactions {
			net := 0.0
			for _, term := range r.Delta {
				if members[term.Species] {
					net += term.Coeff
				}
			}
			if net != 0 {
				conserved = false
				break
			}
		}
		if conserved {
			out = append(out, dynamo.Invariant{Name: pool.Name, Weights: pool.Weights(v.Layout)})
		}
	}
	return out
}

// TurnoverBalance is the net synthesis minus degradation entering the total
// enzyme pool at x.
func TurnoverBalance(m *Model, x dynamo.State) float64 {
	p := m.params
	get := func(sp Species) float64 {
		if idx, ok := m.Layout().Index(sp); ok {
			return x[idx]
		}
		return 0
	}
	if m.variant.Groups&Turnover == 0 {
		return 0
	}
	return p["k_syn_E"] + p["k_syn_EI_cov"] - p["k_deg_E"]*get(E) - p["k_deg_EI_cov"]*get(EICov)
}
