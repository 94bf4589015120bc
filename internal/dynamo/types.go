package dynamo

import (
	"fmt"
	"math"
)

// Vec3 is a cartesian 3-vector in SI units.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3            { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Norm() float64        { return math.Sqrt(v.Dot(v)) }

// Axis returns the component selected by i (0=x, 1=y, 2=z).
func (v Vec3) Axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
}

// Body is a point mass. Mass is fixed at construction.
type Body struct {
	Mass     float64
	Position Vec3
	Velocity Vec3
}

// NewBody returns a body, rejecting non-positive or non-finite mass.
func NewBody(mass float64, pos, vel Vec3) (Body, error) {
	b := Body{Mass: mass, Position: pos, Velocity: vel}
	if err := b.Validate(); err != nil {
		return Body{}, err
	}
	return b, nil
}

func (b Body) Validate() error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidMass, b.Mass)
	}
	return nil
}

// ApplyForce returns a copy of b with v += (f/m)*dt. Position is unchanged.
func (b Body) ApplyForce(f Vec3, dt float64) Body {
	b.Velocity = b.Velocity.Add(f.Scale(dt / b.Mass))
	return b
}

func (b Body) IsFinite() bool {
	return b.Position.IsFinite() && b.Velocity.IsFinite()
}

// System is the ordered state of the three bodies. It is a value type:
// assignment and function arguments copy it.
type System [3]Body

func (s System) Positions() [3]Vec3 {
	return [3]Vec3{s[0].Position, s[1].Position, s[2].Position}
}

func (s System) IsFinite() bool {
	for _, b := range s {
		if !b.IsFinite() {
			return false
		}
	}
	return true
}

func (s System) Validate() error {
	for i, b := range s {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}
	return nil
}

// ForceLaw computes the force exerted on one body by another.
type ForceLaw interface {
	Force(on, by Body) (Vec3, error)
}

// Integrator advances a System by dt without mutating its input.
type Integrator interface {
	Step(s System, dt float64) (System, error)
}

// Observer is notified of every state a driver records.
type Observer interface {
	Observe(s System, t float64)
}
