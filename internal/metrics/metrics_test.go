package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/kinetics"
)

func TestPoolDrift(t *testing.T) {
	m := NewPoolDrift(dynamo.Invariant{Name: "substrate", Weights: []float64{0, 1, 1}})
	if m.Name() != "drift_substrate" {
		t.Errorf("Name() = %q", m.Name())
	}

	m.Observe(dynamo.State{5, 10, 3}, 0)
	m.Observe(dynamo.State{0, 8, 5}, 1)
	if m.Value() != 0 {
		t.Errorf("conserved pool reported drift %v", m.Value())
	}

	m.Observe(dynamo.State{0, 8, 5.13}, 2)
	if math.Abs(m.Value()-0.01) > 1e-12 {
		t.Errorf("drift = %v, want 0.01", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestPoolDrifts_FromModel(t *testing.T) {
	model, err := kinetics.NewModel(kinetics.Basic, kinetics.NeratinibParams())
	if err != nil {
		t.Fatal(err)
	}
	drifts := PoolDrifts(model)
	if len(drifts) != 3 {
		t.Fatalf("got %d pool trackers, want 3", len(drifts))
	}
	if drifts[0].Name() != "drift_total_enzyme" {
		t.Errorf("first tracker = %q", drifts[0].Name())
	}
}

func TestMinConcentration(t *testing.T) {
	tests := []struct {
		name   string
		states []dynamo.State
		want   float64
	}{
		{"non-negative", []dynamo.State{{1, 0}, {0.5, 0.5}}, 0},
		{"dip", []dynamo.State{{1, 0}, {-1e-9, 1}, {0, -1e-12}}, -1e-9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMinConcentration()
			for i, x := range tt.states {
				m.Observe(x, float64(i))
			}
			if m.Value() != tt.want {
				t.Errorf("Value() = %v, want %v", m.Value(), tt.want)
			}
		})
	}
}

func TestFinalAndPeak(t *testing.T) {
	final := NewFinal("P", 1)
	peak := NewPeak("EI", 0)
	states := []dynamo.State{{0, 0}, {0.3, 1}, {0.7, 2}, {0.2, 3}}
	for i, x := range states {
		final.Observe(x, float64(i)*60)
		peak.Observe(x, float64(i)*60)
	}

	if final.Value() != 3 || final.Name() != "final_P" {
		t.Errorf("%s = %v, want 3", final.Name(), final.Value())
	}
	if peak.Value() != 0.7 || peak.Time() != 120 {
		t.Errorf("peak = %v at %v, want 0.7 at 120", peak.Value(), peak.Time())
	}

	peak.Reset()
	peak.Observe(dynamo.State{-1}, 0)
	if peak.Value() != -1 {
		t.Errorf("peak after reset = %v, want -1", peak.Value())
	}
}
