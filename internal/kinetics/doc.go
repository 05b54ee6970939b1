// Package kinetics defines the covalent EGFR inhibition network.
//
// The network is a fixed list of mass-action reactions tagged by group.
// A [Variant] picks a state [Layout] and the groups that are active;
// [NewModel] binds a variant to a copied [Params] snapshot and compiles it
// into a [dynamo.JacobianSystem] that also reports its conserved pools.
//
//	m, err := kinetics.NewModel(kinetics.Basic, kinetics.NeratinibParams())
//	dx := m.Derive(x, 0)
//
// The six profiled inhibitors are available through [Inhibitors]; each
// substitutes ksub, koff and kinact into a base parameter set.
package kinetics
