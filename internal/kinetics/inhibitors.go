package kinetics

import (
	"fmt"
	"strings"
)

// SharedKon is the association constant common to every profiled inhibitor, µM⁻¹·s⁻¹.
const SharedKon = 100.0

// Inhibitor holds the compound-specific constants of one covalent drug.
type Inhibitor struct {
	Name   string  `json:"name" yaml:"name"`
	KSub   float64 `json:"ksub" yaml:"ksub"`
	KOff   float64 `json:"koff" yaml:"koff"`
	KInact float64 `json:"kinact" yaml:"kinact"`
}

var inhibitors = []Inhibitor{
	{Name: "CI-1033", KSub: 0.028, KOff: 0.19, KInact: 0.011},
	{Name: "Dacomitinib", KSub: 0.023, KOff: 1.1, KInact: 0.0018},
	{Name: "Afatinib", KSub: 0.017, KOff: 0.3, KInact: 0.0024},
	{Name: "Neratinib", KSub: 0.016, KOff: 0.2, KInact: 0.0011},
	{Name: "CL-387785", KSub: 0.017, KOff: 18, KInact: 0.0020},
	{Name: "WZ-4002", KSub: 0.024, KOff: 23, KInact: 0.0049},
}

// Inhibitors returns the profiled compounds in their reference order.
func Inhibitors() []Inhibitor {
	out := make([]Inhibitor, len(inhibitors))
	copy(out, inhibitors)
	return out
}

// LookupInhibitor matches names case-insensitively.
func LookupInhibitor(name string) (Inhibitor, error) {
	for _, inh := range inhibitors {
		if strings.EqualFold(inh.Name, name) {
			return inh, nil
		}
	}
	return Inhibitor{}, fmt.Errorf("unknown inhibitor %q", name)
}

// Profile returns the three substituted constants.
func (inh Inhibitor) Profile() Params {
	return Params{"ksub": inh.KSub, "koff": inh.KOff, "kinact": inh.KInact}
}

// Apply returns base with the profile substituted. base is not modified.
func (inh Inhibitor) Apply(base Params) Params {
	return base.Merge(inh.Profile())
}
