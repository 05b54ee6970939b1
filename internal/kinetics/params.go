package kinetics

import (
	"errors"
	"math"
	"sort"

	"github.com/spf13/cast"

	"github.com/san-kum/covkin/internal/dynamo"
)

// Params maps rate-constant names to values. Units: µM⁻¹·s⁻¹ for
// bimolecular constants, s⁻¹ for first order, µM·s⁻¹ for synthesis.
//
// A Params value handed to NewModel is copied; later edits never reach a
// running model. Use With to derive variations instead of mutating.
type Params map[string]float64

func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// With returns a copy of p with name set to v.
func (p Params) With(name string, v float64) Params {
	c := p.Clone()
	c[name] = v
	return c
}

// Merge returns a copy of p overlaid with o.
func (p Params) Merge(o Params) Params {
	c := p.Clone()
	for k, v := range o {
		c[k] = v
	}
	return c
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every required constant is present, finite and
// non-negative, and that every present value is as well. All problems are
// reported together.
func (p Params) Validate(required []string) error {
	var errs []error
	for _, name := range required {
		if _, ok := p[name]; !ok {
			errs = append(errs, &dynamo.ParameterError{Name: name, Reason: "missing"})
		}
	}
	for _, name := range p.Keys() {
		v := p[name]
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, &dynamo.ParameterError{Name: name, Value: v, Reason: "must be finite"})
		case v < 0:
			errs = append(errs, &dynamo.ParameterError{Name: name, Value: v, Reason: "must be non-negative"})
		}
	}
	return errors.Join(errs...)
}

// ParseParams converts loosely typed configuration values. Numeric strings
// are accepted; anything else yields a ParameterError.
func ParseParams(raw map[string]any) (Params, error) {
	p := make(Params, len(raw))
	var errs []error
	for name, v := range raw {
		f, err := cast.ToFloat64E(v)
		if err != nil || v == nil {
			errs = append(errs, &dynamo.ParameterError{Name: name, Value: v, Reason: "not numeric"})
			continue
		}
		if _, isBool := v.(bool); isBool {
			errs = append(errs, &dynamo.ParameterError{Name: name, Value: v, Reason: "not numeric"})
			continue
		}
		p[name] = f
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return p, nil
}

// NeratinibParams are the reference constants of the basic model.
func NeratinibParams() Params {
	return Params{
		"kon":    100,
		"koff":   0.2,
		"kinact": 0.0011,
		"ksub":   0.016,
	}
}

// RedoxTurnoverParams extends NeratinibParams with the redox, turnover and
// internalization constants.
func RedoxTurnoverParams() Params {
	return NeratinibParams().Merge(Params{
		"k_sulfen":     1.1e-4,
		"k_desulfen":   1e-6,
		"k_sulfin":     1e-5,
		"k_syn_E":      6.89e-6,
		"k_deg_E":      6.89e-6,
		"k_syn_EI_cov": 2.58e-5,
		"k_deg_EI_cov": 2.58e-5,
		"k_int_E":      3.3e-3,
		"k_int_EI":     2.5e-3,
		"k_rec":        1.7e-4,
	})
}
