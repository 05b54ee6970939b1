// Package dynamo provides core simulation primitives for reaction networks.
//
// The package defines the fundamental interfaces and types shared by the
// rate laws, the solvers and the sweep harness:
//
//   - [State]: vector of species concentrations
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [AdaptiveIntegrator]: error-controlled step interface
//   - [TimeDomain]: integration horizon and report times
//   - [Trajectory]: sampled solution with the inputs that produced it
//
// # Errors
//
// Fallible work reports one of three kinds, matched with [errors.Is]:
// [ErrInvalidParameter] before integration starts, [ErrIntegration] when the
// solver gives up (the [IntegrationError] carries the partial trajectory), and
// [ErrInvariant] when a concentration goes negative or a conserved pool drifts.
//
// # Thread Safety
//
// Integrators and metrics are stateful and must not be shared between
// concurrent runs. Systems built by the kinetics package are immutable.
package dynamo
