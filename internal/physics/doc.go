// Package physics provides the gravitational force model for the
// three-body system.
//
//   - [Gravity]: Newtonian pairwise force, implements [dynamo.ForceLaw]
//   - [NetForces]: third-law consistent per-body force sums
//   - [Separations], [Centroid]: geometry helpers for observers and renderers
//
// Coincident bodies are reported as [dynamo.ErrCoincidentBodies] rather than
// producing an infinite force:
//
//	f, err := physics.NewGravity().Force(a, b)
//	if errors.Is(err, dynamo.ErrCoincidentBodies) {
//	    // bodies collided
//	}
package physics
