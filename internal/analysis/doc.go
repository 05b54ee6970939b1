// Package analysis post-processes sampled trajectories.
//
// The package includes:
//
//   - [ValueAt] and [Interpolate]: concentration between report times
//   - [Sum], [Weighted], [Fraction]: derived observables such as active
//     enzyme (E+EI) or the covalent share EI_cov/(EI+EI_cov)
//   - [CrossingTime], [HalfLife]: when a curve reaches a level
//   - [Observable]: species or derived series by name
//   - [MonotoneViolation]: first sample breaking a monotonicity claim
//   - [BalanceResidual]: pool change against the integral of its sources
//
// # Covalent share at one hour
//
//	ei, _ := analysis.ValueAt(tr, "EI", 3600)
//	cov, _ := analysis.ValueAt(tr, "EI_cov", 3600)
//	share := cov / (ei + cov)
package analysis
