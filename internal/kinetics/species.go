package kinetics

import (
	"fmt"

	"github.com/san-kum/covkin/internal/dynamo"
)

// Species identifies one chemical pool of the network.
type Species int

const (
	E        Species = iota // free enzyme
	I                       // free inhibitor
	EI                      // reversible complex
	EICov                   // covalent adduct
	S                       // substrate
	P                       // product
	EISulfen                // sulfenylated complex
	EISulfin                // sulfinylated complex
	EOx                     // oxidized enzyme
	EInt                    // internalized free enzyme
	EICovInt                // internalized covalent adduct

	numSpecies
)

var speciesNames = [numSpecies]string{
	E:        "E",
	I:        "I",
	EI:       "EI",
	EICov:    "EI_cov",
	S:        "S",
	P:        "P",
	EISulfen: "EI_sulfen",
	EISulfin: "EI_sulfin",
	EOx:      "E_ox",
	EInt:     "E_int",
	EICovInt: "EI_cov_int",
}

func (s Species) String() string {
	if s < 0 || s >= numSpecies {
		return fmt.Sprintf("Species(%d)", int(s))
	}
	return speciesNames[s]
}

// ParseSpecies maps a canonical name such as "EI_cov" to its Species.
func ParseSpecies(name string) (Species, error) {
	for i, n := range speciesNames {
		if n == name {
			return Species(i), nil
		}
	}
	return 0, fmt.Errorf("unknown species %q", name)
}

// Layout is the ordered species convention of a state vector.
type Layout []Species

var (
	BasicLayout     = Layout{E, I, EI, EICov, S, P}
	ReorderedLayout = Layout{E, S, P, I, EI, EICov}
	ExtendedLayout  = Layout{E, S, P, I, EI, EICov, EISulfen, EISulfin, EOx, EInt, EICovInt}
)

// Index returns the state position of s.
func (l Layout) Index(s Species) (int, bool) {
	for i, sp := range l {
		if sp == s {
			return i, true
		}
	}
	return -1, false
}

func (l Layout) Names() []string {
	names := make([]string, len(l))
	for i, s := range l {
		names[i] = s.String()
	}
	return names
}

// Concentrations assigns initial amounts by species. Missing species start at zero.
type Concentrations map[Species]float64

// State orders c according to the layout. Species outside the layout, and
// negative or non-finite amounts, are rejected.
func (l Layout) State(c Concentrations) (dynamo.State, error) {
	x := make(dynamo.State, len(l))
	for sp, v := range c {
		idx, ok := l.Index(sp)
		if !ok {
			return nil, fmt.Errorf("%w: species %s is not tracked by this layout", dynamo.ErrInvalidState, sp)
		}
		if v < 0 || !(dynamo.State{v}).IsValid() {
			return nil, fmt.Errorf("%w: initial %s = %g", dynamo.ErrInvalidState, sp, v)
		}
		x[idx] = v
	}
	return x, nil
}

// ParseConcentrations converts a name-keyed map, as read from configuration.
func ParseConcentrations(raw map[string]float64) (Concentrations, error) {
	c := make(Concentrations, len(raw))
	for name, v := range raw {
		sp, err := ParseSpecies(name)
		if err != nil {
			return nil, err
		}
		c[sp] = v
	}
	return c, nil
}

// Standard initial conditions from the reference experiments, in µM.
func ComparisonInitial() Concentrations {
	return Concentrations{E: 0.02, I: 0.05, S: 13.0}
}

func SensitivityInitial() Concentrations {
	return Concentrations{E: 0.2, I: 0.5, S: 13.0}
}
