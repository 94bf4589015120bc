package live

import "time"

// Clock returns the simulated seconds elapsed since its previous call.
// The integrator only ever sees the value; it never reads a clock itself.
type Clock func() float64

// NewWallClock scales real elapsed time by scale simulated seconds per
// wall-clock second. The first call measures from construction.
func NewWallClock(scale float64) Clock {
	return newWallClock(time.Now, scale)
}

func newWallClock(now func() time.Time, scale float64) Clock {
	last := now()
	return func() float64 {
		t := now()
		dt := t.Sub(last).Seconds() * scale
		last = t
		return dt
	}
}

// FixedClock always reports dt, for headless runs and tests.
func FixedClock(dt float64) Clock {
	return func() float64 { return dt }
}

// SecondsClock adapts a renderer-provided frame time (e.g. a window
// library's last-frame duration in seconds) to a Clock.
func SecondsClock(frameTime func() float64, scale float64) Clock {
	return func() float64 { return frameTime() * scale }
}
