package kinetics

import "strings"

// Group tags reactions so a variant can switch whole mechanisms on or off.
type Group uint8

const (
	Binding Group = 1 << iota
	Inactivation
	Catalysis
	Sulfenylation
	Turnover
	Internalization
	Oxidation

	CoreGroups = Binding | Inactivation | Catalysis
	AllGroups  = CoreGroups | Sulfenylation | Turnover | Internalization | Oxidation
)

var groupNames = []struct {
	g    Group
	name string
}{
	{Binding, "binding"},
	{Inactivation, "inactivation"},
	{Catalysis, "catalysis"},
	{Sulfenylation, "sulfenylation"},
	{Turnover, "turnover"},
	{Internalization, "internalization"},
	{Oxidation, "oxidation"},
}

func (g Group) String() string {
	var parts []string
	for _, gn := range groupNames {
		if g&gn.g != 0 {
			parts = append(parts, gn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Term is one signed stoichiometric coefficient.
type Term struct {
	Species Species
	Coeff   float64
}

// Reaction is a mass-action rate k·Π(inputs) applied with stoichiometry Delta.
// Inputs may name a catalyst that Delta leaves untouched.
type Reaction struct {
	Name     string
	Group    Group
	Constant string
	Inputs   []Species
	Delta    []Term
}

func consume(s Species) Term { return Term{s, -1} }
func produce(s Species) Term { return Term{s, 1} }

var network = []Reaction{
	{"binding", Binding, "kon", []Species{E, I}, []Term{consume(E), consume(I), produce(EI)}},
	{"unbinding", Binding, "koff", []Species{EI}, []Term{consume(EI), produce(E), produce(I)}},
	{"inactivation", Inactivation, "kinact", []Species{EI}, []Term{consume(EI), produce(EICov)}},
	{"catalysis", Catalysis, "ksub", []Species{E, S}, []Term{consume(S), produce(P)}},

	{"sulfenylation", Sulfenylation, "k_sulfen", []Species{EI}, []Term{consume(EI), produce(EISulfen)}},
	{"desulfenylation", Sulfenylation, "k_desulfen", []Species{EISulfen}, []Term{consume(EISulfen), produce(EI)}},
	{"sulfinylation", Sulfenylation, "k_sulfin", []Species{EISulfen}, []Term{consume(EISulfen), produce(EISulfin)}},

	{"synthesis_E", Turnover, "k_syn_E", nil, []Term{produce(E)}},
	{"degradation_E", Turnover, "k_deg_E", []Species{E}, []Term{consume(E)}},
	{"synthesis_EI_cov", Turnover, "k_syn_EI_cov", nil, []Term{produce(EICov)}},
	{"degradation_EI_cov", Turnover, "k_deg_EI_cov", []Species{EICov}, []Term{consume(EICov)}},

	{"internalization_E", Internalization, "k_int_E", []Species{E}, []Term{consume(E), produce(EInt)}},
	{"recycling_E", Internalization, "k_rec", []Species{EInt}, []Term{consume(EInt), produce(E)}},
	{"internalization_EI_cov", Internalization, "k_int_EI", []Species{EICov}, []Term{consume(EICov), produce(EICovInt)}},
	{"recycling_EI_cov", Internalization, "k_rec", []Species{EICovInt}, []Term{consume(EICovInt), produce(EICov)}},

	// E_ox accumulates from the oxidized complexes without draining them.
	{"oxidation_sulfen", Oxidation, "k_deg_E", []Species{EISulfen}, []Term{produce(EOx)}},
	{"oxidation_sulfin", Oxidation, "k_deg_E", []Species{EISulfin}, []Term{produce(EOx)}},
	{"oxidation_reversal", Oxidation, "k_desulfen", []Species{EISulfen}, []Term{consume(EOx)}},
}

// Reactions returns a copy of the full network in evaluation order.
func Reactions() []Reaction {
	out := make([]Reaction, len(network))
	copy(out, network)
	return out
}

// ReactionsIn returns the reactions whose group is enabled in g.
func ReactionsIn(g Group) []Reaction {
	var out []Reaction
	for _, r := range network {
		if g&r.Group != 0 {
			out = append(out, r)
		}
	}
	return out
}
