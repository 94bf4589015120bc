// Package dynamo provides the core state types of the three-body simulation.
//
//   - [Vec3]: cartesian vector in SI units
//   - [Body]: point mass with position and velocity
//   - [System]: the ordered three bodies, passed by value
//   - [ForceLaw]: pairwise force between two bodies
//   - [Integrator]: advances a System by one timestep
//
// # Example
//
//	law := physics.NewGravity()
//	integ := integrators.NewSemiImplicitEuler(law)
//	next, err := integ.Step(sys, 1e5)
//
// # Ownership
//
// System is an array, not a slice, so handing it to a renderer or storing
// it in a trajectory copies it. Only the driver that created a System
// mutates its own copy.
package dynamo
