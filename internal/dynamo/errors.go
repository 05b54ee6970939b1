package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a missing, non-numeric, negative or
	// non-finite rate constant.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrIntegration indicates the solver could not reach the end of the time domain.
	ErrIntegration = errors.New("dynamo: integration failed")

	// ErrInvariant indicates a concentration went materially negative or a
	// conserved pool drifted.
	ErrInvariant = errors.New("dynamo: invariant violated")

	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidDomain indicates an empty or malformed time domain.
	ErrInvalidDomain = errors.New("dynamo: invalid time domain")

	// ErrCanceled indicates the integration was interrupted by its context.
	ErrCanceled = errors.New("dynamo: integration canceled")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrMaxSteps indicates the step budget was exhausted.
	ErrMaxSteps = errors.New("dynamo: step budget exhausted")

	// ErrSingularMatrix indicates the implicit iteration matrix could not be factorized.
	ErrSingularMatrix = errors.New("dynamo: singular iteration matrix")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// ParameterError names the offending rate constant.
type ParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("parameter %q: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("parameter %q = %v: %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// IntegrationError wraps a solver failure with the last reached point and
// everything sampled before it.
type IntegrationError struct {
	Step    int
	Time    float64
	State   State
	Partial *Trajectory
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *IntegrationError) Unwrap() []error { return []error{ErrIntegration, e.Wrapped} }

// Invariant kinds.
const (
	InvariantNegative = "negative"
	InvariantDrift    = "drift"
)

// InvariantError reports a concentration below -Limit or a conserved pool
// whose deviation exceeded Limit.
type InvariantError struct {
	Kind     string
	Quantity string
	Time     float64
	Value    float64
	Limit    float64
	Partial  *Trajectory
}

func (e *InvariantError) Error() string {
	switch e.Kind {
	case InvariantNegative:
		return fmt.Sprintf("%s = %.6g at t=%.6g is below -%.3g", e.Quantity, e.Value, e.Time, e.Limit)
	default:
		return fmt.Sprintf("%s drifted by %.6g at t=%.6g (limit %.3g)", e.Quantity, e.Value, e.Time, e.Limit)
	}
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
