package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"negative", State{-1e-12, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	src := State{1, 2, 3}
	c := src.Clone()
	c[0] = 99
	if src[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestState_DotAndMaxAbs(t *testing.T) {
	s := State{0.2, -13, 0.5}
	if got := s.Dot([]float64{1, 0, 1}); math.Abs(got-0.7) > 1e-15 {
		t.Errorf("Dot = %v, want 0.7", got)
	}
	if got := s.MaxAbs(); got != 13 {
		t.Errorf("MaxAbs = %v, want 13", got)
	}
}

func TestTimeDomain_Times(t *testing.T) {
	d := TimeDomain{Start: 0, End: 7200, Samples: 600}
	times := d.Times()

	if len(times) != 600 {
		t.Fatalf("expected 600 times, got %d", len(times))
	}
	if times[0] != 0 || times[len(times)-1] != 7200 {
		t.Errorf("endpoints = [%v, %v], want [0, 7200]", times[0], times[len(times)-1])
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Fatalf("times not strictly increasing at %d", i)
		}
	}
	if step := times[1] - times[0]; math.Abs(step-7200.0/599.0) > 1e-9 {
		t.Errorf("spacing = %v, want %v", step, 7200.0/599.0)
	}
}

func TestTimeDomain_Validate(t *testing.T) {
	tests := []struct {
		name string
		d    TimeDomain
	}{
		{"reversed", TimeDomain{Start: 10, End: 0, Samples: 10}},
		{"empty", TimeDomain{Start: 0, End: 0, Samples: 10}},
		{"one sample", TimeDomain{Start: 0, End: 1, Samples: 1}},
		{"nan", TimeDomain{Start: math.NaN(), End: 1, Samples: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.d.Validate(); !errors.Is(err, ErrInvalidDomain) {
				t.Errorf("Validate() = %v, want ErrInvalidDomain", err)
			}
		})
	}

	if err := DefaultTimeDomain().Validate(); err != nil {
		t.Errorf("default domain invalid: %v", err)
	}
}

func TestTrajectory_Series(t *testing.T) {
	tr := &Trajectory{
		Times:   []float64{0, 60, 120},
		States:  []State{{1, 0}, {0.5, 0.5}, {0.25, 0.75}},
		Species: []string{"E", "P"},
	}

	p, err := tr.Series("P")
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if p[2] != 0.75 {
		t.Errorf("P[2] = %v, want 0.75", p[2])
	}
	if _, err := tr.Series("EI"); err == nil {
		t.Error("expected error for unknown species")
	}
	if m := tr.Minutes(); m[2] != 2 {
		t.Errorf("Minutes()[2] = %v, want 2", m[2])
	}
	if f := tr.Final(); f[0] != 0.25 {
		t.Errorf("Final()[0] = %v, want 0.25", f[0])
	}
}

func TestErrorKinds(t *testing.T) {
	perr := &ParameterError{Name: "kinact", Value: -1.0, Reason: "must be non-negative"}
	if !errors.Is(perr, ErrInvalidParameter) {
		t.Error("ParameterError should match ErrInvalidParameter")
	}

	ierr := &IntegrationError{Step: 12, Time: 3.5, Wrapped: ErrMaxSteps}
	if !errors.Is(ierr, ErrIntegration) || !errors.Is(ierr, ErrMaxSteps) {
		t.Error("IntegrationError should match ErrIntegration and its cause")
	}
	expected := "integration failed at step 12 (t=3.5): dynamo: step budget exhausted"
	if ierr.Error() != expected {
		t.Errorf("Error() = %q, want %q", ierr.Error(), expected)
	}

	var target *IntegrationError
	if !errors.As(error(ierr), &target) || target.Step != 12 {
		t.Error("errors.As failed for IntegrationError")
	}

	verr := &InvariantError{Kind: InvariantNegative, Quantity: "EI", Value: -1, Limit: 1e-6}
	if !errors.Is(verr, ErrInvariant) {
		t.Error("InvariantError should match ErrInvariant")
	}
}
