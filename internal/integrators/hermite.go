package integrators

import "github.com/san-kum/covkin/internal/dynamo"

// Hermite evaluates the cubic interpolant through (t0, x0, f0) and
// (t1, x1, f1) at t. The endpoints are reproduced exactly.
func Hermite(t0, t1 float64, x0, f0, x1, f1 dynamo.State, t float64) dynamo.State {
	if t == t0 {
		return x0.Clone()
	}
	if t == t1 {
		return x1.Clone()
	}
	h := t1 - t0
	s := (t - t0) / h
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	out := make(dynamo.State, len(x0))
	for i := range out {
		out[i] = h00*x0[i] + h10*h*f0[i] + h01*x1[i] + h11*h*f1[i]
	}
	return out
}
