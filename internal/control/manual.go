package control

import (
	"fmt"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Injector turns stimuli into one-shot forces on a single controlled body.
type Injector struct {
	Target int     // index of the controlled body
	Accel  float64 // acceleration magnitude per stimulus, m/s^2
}

func NewInjector(target int, accel float64) (*Injector, error) {
	in := &Injector{Target: target, Accel: accel}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *Injector) Validate() error {
	if in.Target < 0 || in.Target >= len(dynamo.System{}) {
		return fmt.Errorf("%w: controlled body %d not in [0, 3)", dynamo.ErrInvalidConfig, in.Target)
	}
	if in.Accel < 0 {
		return fmt.Errorf("%w: stimulus acceleration must not be negative, got %g", dynamo.ErrInvalidConfig, in.Accel)
	}
	return nil
}

// Force returns the force F = Accel * m * dir for one stimulus on body b.
func (in *Injector) Force(st Stimulus, b dynamo.Body) (dynamo.Vec3, error) {
	if !st.Valid() {
		return dynamo.Vec3{}, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, st)
	}
	return Directions[st].Scale(in.Accel * b.Mass), nil
}

// Apply adds each stimulus to the controlled body's velocity through
// Body.ApplyForce. Other bodies and all positions are untouched.
func (in *Injector) Apply(s dynamo.System, stimuli []Stimulus, dt float64) (dynamo.System, error) {
	if err := in.Validate(); err != nil {
		return s, err
	}
	b := s[in.Target]
	for _, st := range stimuli {
		f, err := in.Force(st, b)
		if err != nil {
			return s, err
		}
		b = b.ApplyForce(f, dt)
	}
	s[in.Target] = b
	return s, nil
}
