package config

import (
	"sort"

	"github.com/san-kum/covkin/internal/dynamo"
)

// Presets reproduce the reference experiments.
var Presets = map[string]*Scenario{
	"neratinib": {
		Name: "neratinib", Variant: "basic", Inhibitor: "Neratinib",
		Time:    timeDomain(600),
		Initial: map[string]float64{"E": 0.02, "I": 0.05, "S": 13},
	},
	"inhibitors": {
		Name: "inhibitors", Variant: "basic",
		Time:    timeDomain(600),
		Initial: map[string]float64{"E": 0.02, "I": 0.05, "S": 13},
		Sweep:   &SweepConfig{Mode: ModeInhibitors},
	},
	"kinact": {
		Name: "kinact", Variant: "basic-reordered",
		Time:    timeDomain(800),
		Initial: map[string]float64{"E": 0.2, "I": 0.5, "S": 13},
		Sweep: &SweepConfig{
			Mode: ModeParameter, Parameter: "kinact",
			Values: []float64{0.0005, 0.0011, 0.005, 0.01},
		},
	},
	"redox": {
		Name: "redox", Variant: "redox-turnover",
		Time:    timeDomain(800),
		Initial: map[string]float64{"E": 0.2, "I": 0.5, "S": 13},
	},
	"ksulfen": {
		Name: "ksulfen", Variant: "redox-turnover",
		Time:    timeDomain(800),
		Initial: map[string]float64{"E": 0.2, "I": 0.5, "S": 13},
		Sweep: &SweepConfig{
			Mode: ModeParameter, Parameter: "k_sulfen",
			Values: []float64{5e-5, 1.1e-4, 2e-4, 5e-4},
		},
	},
	"turnover": {
		Name: "turnover", Variant: "redox-turnover",
		Time:    timeDomain(800),
		Initial: map[string]float64{"E": 0.2, "I": 0.5, "S": 13},
		Sweep: &SweepConfig{
			Mode: ModeParameter, Parameter: "k_turnover",
			Values: []float64{3e-6, 6.89e-6, 1.2e-5, 2.5e-5},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Scenario {
	s, ok := Presets[name]
	if !ok {
		return nil
	}
	return s.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func timeDomain(samples int) dynamo.TimeDomain {
	return dynamo.TimeDomain{Start: 0, End: DefaultEnd, Samples: samples}
}
