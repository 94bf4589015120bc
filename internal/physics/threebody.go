package physics

import (
	"fmt"

	"github.com/san-kum/threebody/internal/dynamo"
)

// G is the Newtonian gravitational constant in m^3 kg^-1 s^-2.
const G = 6.6743e-11

// Gravity is the inverse-square pairwise force law.
type Gravity struct {
	G float64
}

func NewGravity() *Gravity {
	return &Gravity{G: G}
}

// Force returns the force exerted on `on` by `by`:
//
//	F = G * m_on * m_by * (r_by - r_on) / |r_by - r_on|^3
//
// The mass product is formed before scaling so that Force(b, a) is the exact
// negation of Force(a, b).
func (g *Gravity) Force(on, by dynamo.Body) (dynamo.Vec3, error) {
	r := by.Position.Sub(on.Position)
	d := r.Norm()
	if d == 0 {
		return dynamo.Vec3{}, fmt.Errorf("%w: both at %v", dynamo.ErrCoincidentBodies, on.Position)
	}

	k := g.G * (on.Mass * by.Mass) / (d * d * d)
	f := r.Scale(k)
	if !f.IsFinite() {
		return dynamo.Vec3{}, fmt.Errorf("force at separation %g: %w", d, dynamo.ErrNonFinite)
	}
	return f, nil
}

// NetForces sums the pairwise forces on each body. Each pair is evaluated
// once and applied with opposite signs to its two members.
func NetForces(law dynamo.ForceLaw, s dynamo.System) ([3]dynamo.Vec3, error) {
	f01, err := law.Force(s[0], s[1])
	if err != nil {
		return [3]dynamo.Vec3{}, fmt.Errorf("bodies 0 and 1: %w", err)
	}
	f02, err := law.Force(s[0], s[2])
	if err != nil {
		return [3]dynamo.Vec3{}, fmt.Errorf("bodies 0 and 2: %w", err)
	}
	f12, err := law.Force(s[1], s[2])
	if err != nil {
		return [3]dynamo.Vec3{}, fmt.Errorf("bodies 1 and 2: %w", err)
	}

	return [3]dynamo.Vec3{
		f01.Add(f02),
		f01.Neg().Add(f12),
		f02.Neg().Sub(f12),
	}, nil
}

// Separations returns the pairwise distances |r01|, |r02|, |r12|.
func Separations(s dynamo.System) [3]float64 {
	return [3]float64{
		s[1].Position.Sub(s[0].Position).Norm(),
		s[2].Position.Sub(s[0].Position).Norm(),
		s[2].Position.Sub(s[1].Position).Norm(),
	}
}

// Centroid returns the mass-weighted centre of the system.
func Centroid(s dynamo.System) dynamo.Vec3 {
	var c dynamo.Vec3
	total := 0.0
	for _, b := range s {
		c = c.Add(b.Position.Scale(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return dynamo.Vec3{}
	}
	return c.Scale(1 / total)
}
