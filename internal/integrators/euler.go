package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
)

// SemiImplicitEuler updates velocity from the current acceleration, then
// position from the updated velocity, within the same step.
type SemiImplicitEuler struct {
	law dynamo.ForceLaw
}

func NewSemiImplicitEuler(law dynamo.ForceLaw) *SemiImplicitEuler {
	return &SemiImplicitEuler{law: law}
}

func (e *SemiImplicitEuler) Step(s dynamo.System, dt float64) (dynamo.System, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return s, fmt.Errorf("%w: got %g", dynamo.ErrInvalidTimestep, dt)
	}

	forces, err := physics.NetForces(e.law, s)
	if err != nil {
		return s, err
	}

	next := s
	for i := range next {
		next[i] = next[i].ApplyForce(forces[i], dt)
		next[i].Position = next[i].Position.Add(next[i].Velocity.Scale(dt))
	}
	return next, nil
}
