package integrators

import (
	"testing"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/kinetics"
)

func benchmarkNetwork(b *testing.B, name string, v kinetics.Variant) {
	m, err := kinetics.NewModel(v, v.Baseline())
	if err != nil {
		b.Fatal(err)
	}
	x0, err := v.Layout.State(v.DefaultInitial())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ, _ := New(name, DefaultOptions())
		x := x0.Clone()
		now, tEnd := 0.0, 7200.0
		f := m.Derive(x, now)
		h := integ.InitialStep(m, now, x, f, tEnd)
		for !Reached(now, tEnd) {
			var step dynamo.Step
			step, err = integ.Advance(m, now, x, f, h, tEnd)
			if err != nil {
				b.Fatal(err)
			}
			now = step.T + step.H
			x, f, h = step.X, step.F, step.Next
		}
	}
}

func BenchmarkAuto_Basic(b *testing.B)         { benchmarkNetwork(b, "auto", kinetics.Basic) }
func BenchmarkRK45_Basic(b *testing.B)         { benchmarkNetwork(b, "rk45", kinetics.Basic) }
func BenchmarkRosenbrock_Basic(b *testing.B)   { benchmarkNetwork(b, "rosenbrock", kinetics.Basic) }
func BenchmarkAuto_RedoxTurnover(b *testing.B) { benchmarkNetwork(b, "auto", kinetics.RedoxTurnover) }
