package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent, in 1/s, by
// following a copy of s whose body 0 is displaced by perturbation metres
// along x. After each step the separation is measured over all nine
// position coordinates and the copy is pulled back to the initial
// distance. A positive value indicates chaos.
func LyapunovExponent(integ dynamo.Integrator, s dynamo.System, dt float64, steps int, perturbation float64) (float64, error) {
	if !(dt > 0) {
		return 0, fmt.Errorf("%w: dt=%v", dynamo.ErrInvalidTimestep, dt)
	}
	if steps <= 0 || !(perturbation > 0) {
		return 0, fmt.Errorf("%w: steps=%d perturbation=%v", dynamo.ErrInvalidConfig, steps, perturbation)
	}

	x := s
	xp := s
	xp[0].Position.X += perturbation

	sumLog := 0.0
	for i := 0; i < steps; i++ {
		var err error
		if x, err = integ.Step(x, dt); err != nil {
			return 0, &dynamo.SimulationError{Step: i, Time: float64(i) * dt, Wrapped: err}
		}
		if xp, err = integ.Step(xp, dt); err != nil {
			return 0, &dynamo.SimulationError{Step: i, Time: float64(i) * dt, Wrapped: err}
		}

		sep := separation(x, xp)
		if sep == 0 || math.IsInf(sep, 0) || math.IsNaN(sep) {
			return 0, &dynamo.SimulationError{Step: i, Time: float64(i+1) * dt, Wrapped: dynamo.ErrNonFinite}
		}
		sumLog += math.Log(sep / perturbation)

		// Renormalize
		scale := perturbation / sep
		for b := range xp {
			xp[b].Position = x[b].Position.Add(xp[b].Position.Sub(x[b].Position).Scale(scale))
			xp[b].Velocity = x[b].Velocity.Add(xp[b].Velocity.Sub(x[b].Velocity).Scale(scale))
		}
	}

	return sumLog / (float64(steps) * dt), nil
}

func separation(a, b dynamo.System) float64 {
	sum := 0.0
	for i := range a {
		d := b[i].Position.Sub(a[i].Position)
		sum += d.Dot(d)
	}
	return math.Sqrt(sum)
}
