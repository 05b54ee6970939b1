package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/kinetics"
)

// Interpolate evaluates the piecewise-linear curve (times, values) at t.
// Times outside the sampled range are clamped to the end values.
func Interpolate(times, values []float64, t float64) float64 {
	n := len(times)
	if n == 0 {
		return 0
	}
	if t <= times[0] {
		return values[0]
	}
	if t >= times[n-1] {
		return values[n-1]
	}
	i := sort.SearchFloat64s(times, t)
	if times[i] == t {
		return values[i]
	}
	t0, t1 := times[i-1], times[i]
	w := (t - t0) / (t1 - t0)
	return values[i-1] + w*(values[i]-values[i-1])
}

// ValueAt returns one species' concentration at time t.
func ValueAt(tr *dynamo.Trajectory, species string, t float64) (float64, error) {
	s, err := tr.Series(species)
	if err != nil {
		return 0, err
	}
	return Interpolate(tr.Times, s, t), nil
}

// Sum adds several species sample by sample, e.g. E+EI for active enzyme.
func Sum(tr *dynamo.Trajectory, species ...string) ([]float64, error) {
	out := make([]float64, tr.Len())
	for _, name := range species {
		s, err := tr.Series(name)
		if err != nil {
			return nil, err
		}
		floats.Add(out, s)
	}
	return out, nil
}

// Weighted returns w·x at every sample.
func Weighted(tr *dynamo.Trajectory, w []float64) []float64 {
	out := make([]float64, tr.Len())
	for i, x := range tr.States {
		out[i] = x.Dot(w)
	}
	return out
}

// Fraction returns num/(num+other) at every sample, zero where both vanish.
func Fraction(num, other []float64) []float64 {
	out := make([]float64, len(num))
	for i := range num {
		if d := num[i] + other[i]; d != 0 {
			out[i] = num[i] / d
		}
	}
	return out
}

// CrossingTime returns the first time the curve reaches level, interpolated
// between samples. ok is false if it never does.
func CrossingTime(times, values []float64, level float64) (t float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	rising := values[0] < level
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1], values[i]
		if (rising && cur >= level) || (!rising && cur <= level) {
			if cur == prev {
				return times[i], true
			}
			w := (level - prev) / (cur - prev)
			return times[i-1] + w*(times[i]-times[i-1]), true
		}
	}
	if values[0] == level {
		return times[0], true
	}
	return 0, false
}

// HalfLife is the time a decaying series first falls to half its initial value.
func HalfLife(times, values []float64) (float64, bool) {
	if len(values) == 0 || values[0] <= 0 {
		return 0, false
	}
	return CrossingTime(times, values, values[0]/2)
}

// MonotoneViolation reports the first sample where the series moves against
// the requested direction by more than tol. It returns -1 when none does.
func MonotoneViolation(values []float64, increasing bool, tol float64) int {
	for i := 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		if increasing && d < -tol {
			return i
		}
		if !increasing && d > tol {
			return i
		}
	}
	return -1
}

// Integral is the trapezoidal quadrature of values over times.
func Integral(times, values []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	return integrate.Trapezoidal(times, values)
}

// BalanceResidual compares the change of a pool with the time integral of
// its net source rate. A rate law with correct bookkeeping leaves a residual
// at the level of quadrature error.
func BalanceResidual(tr *dynamo.Trajectory, pool []float64, rate []float64) (float64, error) {
	if len(rate) != tr.Len() {
		return 0, fmt.Errorf("%w: %d rates for %d samples", dynamo.ErrDimensionMismatch, len(rate), tr.Len())
	}
	totals := Weighted(tr, pool)
	change := totals[len(totals)-1] - totals[0]
	return change - Integral(tr.Times, rate), nil
}

// Extremes returns the smallest and largest entries over every species and sample.
func Extremes(tr *dynamo.Trajectory) (lo, hi float64) {
	for i, x := range tr.States {
		if len(x) == 0 {
			continue
		}
		mn, mx := floats.Min(x), floats.Max(x)
		if i == 0 || mn < lo {
			lo = mn
		}
		if i == 0 || mx > hi {
			hi = mx
		}
	}
	return lo, hi
}

// Derived observables plotted alongside species.
var derived = []kinetics.Pool{kinetics.ActiveEnzyme}

// Observable returns a species series, or a derived pool such as "active"
// (E+EI).
func Observable(tr *dynamo.Trajectory, name string) ([]float64, error) {
	if _, has := tr.Index(name); has {
		return tr.Series(name)
	}
	for _, p := range derived {
		if p.Name != name {
			continue
		}
		parts := make([]string, len(p.Members))
		for i, sp := range p.Members {
			parts[i] = sp.String()
		}
		return Sum(tr, parts...)
	}
	return tr.Series(name)
}
