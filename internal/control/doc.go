// Package control maps discrete user input onto the controlled body.
//
//   - [Stimulus]: one of six axis-aligned directions
//   - [Directions]: lookup table from stimulus to unit vector
//   - [Injector]: applies F = accel * m * dir to one body per stimulus
//   - [Queue]: pending stimuli, drained once per frame
//   - [Keys]: keyboard bindings shared by the terminal and window front ends
//
// # Usage
//
//	in, _ := control.NewInjector(0, 5e-3)
//	q := control.NewQueue()
//	q.Push(control.PlusY)
//	sys, err = in.Apply(sys, q.Drain(), dt)
//
// Multiple stimuli in one frame are independent and additive.
package control
