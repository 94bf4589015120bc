// Package live runs the interactive simulation one frame at a time.
//
// Each [Loop.Frame] reads dt from an injected [Clock], drains pending
// stimuli onto the controlled body, advances all bodies with the
// integrator, appends to the bounded trails and returns a [Snapshot].
// Renderers only ever see snapshots.
//
//	loop, _ := live.New(sys, live.Options{
//	    Integrator: integrators.NewSemiImplicitEuler(physics.NewGravity()),
//	    Injector:   injector,
//	    Clock:      live.NewWallClock(1e8),
//	    MaxTrail:   100,
//	})
//	loop.Submit(control.PlusX)
//	snap, err := loop.Frame()
package live
