package live

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/threebody/internal/control"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/physics"
)

func symmetric() dynamo.System {
	h := math.Sqrt(3) / 2
	r, v := 1.5e11, 3e4
	return dynamo.System{
		{Mass: 2e30, Position: dynamo.Vec3{X: r}, Velocity: dynamo.Vec3{Y: v}},
		{Mass: 2e30, Position: dynamo.Vec3{X: -0.5 * r, Y: h * r}, Velocity: dynamo.Vec3{X: -h * v, Y: -0.5 * v}},
		{Mass: 2e30, Position: dynamo.Vec3{X: -0.5 * r, Y: -h * r}, Velocity: dynamo.Vec3{X: h * v, Y: -0.5 * v}},
	}
}

func newLoop(t *testing.T, clock Clock, maxTrail int) *Loop {
	t.Helper()
	in, err := control.NewInjector(0, 5e-3)
	if err != nil {
		t.Fatal(err)
	}
	l, err := New(symmetric(), Options{
		Integrator: integrators.NewSemiImplicitEuler(physics.NewGravity()),
		Injector:   in,
		Clock:      clock,
		MaxTrail:   maxTrail,
	})
	if err != nil {
		t.Fatalf("new loop: %v", err)
	}
	return l
}

func TestLoop_TrailBound(t *testing.T) {
	const maxTrail = 10
	l := newLoop(t, FixedClock(1e5), maxTrail)

	var history [3][]dynamo.Vec3
	var snap Snapshot
	for i := 0; i < 3*maxTrail+4; i++ {
		var err error
		snap, err = l.Frame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		for b := range history {
			history[b] = append(history[b], snap.Bodies[b].Position)
			if len(snap.Trails[b]) > maxTrail {
				t.Fatalf("frame %d: trail %d has %d points", i, b, len(snap.Trails[b]))
			}
		}
	}

	for b := range history {
		want := history[b][len(history[b])-maxTrail:]
		got := snap.Trails[b]
		if len(got) != maxTrail {
			t.Fatalf("body %d: expected %d points, got %d", b, maxTrail, len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("body %d point %d: expected %v, got %v", b, i, want[i], got[i])
			}
		}
	}
}

func TestLoop_FrameMatchesInjectThenStep(t *testing.T) {
	dt := 2e5
	l := newLoop(t, FixedClock(dt), 5)
	l.Submit(control.PlusY)
	l.Submit(control.MinusZ)

	snap, err := l.Frame()
	if err != nil {
		t.Fatal(err)
	}

	in, _ := control.NewInjector(0, 5e-3)
	s, _ := in.Apply(symmetric(), []control.Stimulus{control.PlusY, control.MinusZ}, dt)
	want, _ := integrators.NewSemiImplicitEuler(physics.NewGravity()).Step(s, dt)

	if snap.Bodies != want {
		t.Errorf("frame state differs from inject-then-step")
	}
	if len(snap.Applied) != 2 {
		t.Errorf("expected 2 applied stimuli, got %v", snap.Applied)
	}
	if snap.Time != dt || snap.Frame != 1 || snap.Dt != dt {
		t.Errorf("unexpected timing t=%v frame=%d dt=%v", snap.Time, snap.Frame, snap.Dt)
	}

	// Stimuli are one-shot.
	next, _ := l.Frame()
	if len(next.Applied) != 0 {
		t.Errorf("stimuli re-applied: %v", next.Applied)
	}
}

func TestLoop_SkipsFrameWithoutElapsedTime(t *testing.T) {
	l := newLoop(t, FixedClock(0), 5)
	l.Submit(control.PlusX)

	snap, err := l.Frame()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Frame != 0 || snap.Bodies != symmetric() || len(snap.Trails[0]) != 0 {
		t.Error("expected an unchanged snapshot")
	}
	if l.queue.Len() != 1 {
		t.Error("stimulus should stay queued until a frame advances")
	}
}

func TestLoop_ErrorKeepsState(t *testing.T) {
	l := newLoop(t, FixedClock(1e5), 5)
	before := l.State()

	l.state[1].Position = l.state[0].Position
	collided := l.State()

	_, err := l.Frame()
	if !errors.Is(err, dynamo.ErrCoincidentBodies) {
		t.Fatalf("expected ErrCoincidentBodies, got %v", err)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimulationError, got %T", err)
	}
	if l.State() != collided || l.State() == before {
		t.Error("state must be left as it was before the failed frame")
	}
}

func TestLoop_ErrorRequeuesStimuli(t *testing.T) {
	l := newLoop(t, FixedClock(1e5), 5)
	l.Submit(control.PlusX)
	l.Submit(control.MinusY)
	l.state[2].Position = l.state[1].Position

	if _, err := l.Frame(); !errors.Is(err, dynamo.ErrCoincidentBodies) {
		t.Fatalf("expected ErrCoincidentBodies, got %v", err)
	}

	got := l.queue.Drain()
	want := []control.Stimulus{control.PlusX, control.MinusY}
	if len(got) != len(want) {
		t.Fatalf("expected %d stimuli back on the queue, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stimulus %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestLoop_SnapshotDoesNotAlias(t *testing.T) {
	l := newLoop(t, FixedClock(1e5), 5)
	snap, _ := l.Frame()

	snap.Bodies[0].Position.X = 42
	snap.Trails[0][0].X = 42

	if l.State()[0].Position.X == 42 {
		t.Error("snapshot bodies alias loop state")
	}
	again := l.snapshot(0, nil)
	if again.Trails[0][0].X == 42 {
		t.Error("snapshot trails alias loop trails")
	}
}

func TestLoop_Reset(t *testing.T) {
	l := newLoop(t, FixedClock(1e5), 5)
	for i := 0; i < 3; i++ {
		if _, err := l.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	l.Submit(control.PlusX)
	l.Reset()

	if l.State() != symmetric() || l.Time() != 0 {
		t.Error("reset did not restore initial state")
	}
	if l.queue.Len() != 0 {
		t.Error("reset did not clear pending stimuli")
	}
	if snap := l.snapshot(0, nil); len(snap.Trails[2]) != 0 {
		t.Error("reset did not clear trails")
	}
}

func TestLoop_RunStopsBetweenFrames(t *testing.T) {
	l := newLoop(t, FixedClock(1e5), 5)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := 0
	err := l.Run(ctx, RenderFunc(func(s Snapshot) error {
		frames++
		if frames == 7 {
			cancel()
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if frames != 7 || l.Time() != 7e5 {
		t.Errorf("expected 7 frames, got %d (t=%v)", frames, l.Time())
	}
}

func TestLoop_RunPropagatesRenderError(t *testing.T) {
	l := newLoop(t, FixedClock(1e5), 5)
	boom := errors.New("window closed")

	err := l.Run(context.Background(), RenderFunc(func(Snapshot) error { return boom }))
	if !errors.Is(err, boom) {
		t.Errorf("expected render error, got %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	integ := integrators.NewSemiImplicitEuler(physics.NewGravity())

	bad := symmetric()
	bad[1].Mass = 0
	if _, err := New(bad, Options{Integrator: integ, Clock: FixedClock(1), MaxTrail: 1}); !errors.Is(err, dynamo.ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
	if _, err := New(symmetric(), Options{Clock: FixedClock(1), MaxTrail: 1}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected missing integrator error, got %v", err)
	}
	if _, err := New(symmetric(), Options{Integrator: integ, Clock: FixedClock(1)}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected trail length error, got %v", err)
	}
	if _, err := New(symmetric(), Options{Integrator: integ, MaxTrail: 1}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected missing clock error, got %v", err)
	}
}

func TestWallClock(t *testing.T) {
	now := time.Unix(0, 0)
	clock := newWallClock(func() time.Time { return now }, 1e5)

	now = now.Add(16 * time.Millisecond)
	if dt := clock(); math.Abs(dt-1600) > 1e-9 {
		t.Errorf("expected dt=1600, got %v", dt)
	}
	if dt := clock(); dt != 0 {
		t.Errorf("expected dt=0 without elapsed time, got %v", dt)
	}
}

func TestSecondsClock(t *testing.T) {
	clock := SecondsClock(func() float64 { return 0.5 }, 4)
	if clock() != 2 {
		t.Error("expected scaled frame time")
	}
}

func TestLoop_DiscardSkipsPausedTime(t *testing.T) {
	now := time.Unix(0, 0)
	l, err := New(symmetric(), Options{
		Integrator: integrators.NewSemiImplicitEuler(physics.NewGravity()),
		Clock:      newWallClock(func() time.Time { return now }, 1e5),
		MaxTrail:   5,
	})
	if err != nil {
		t.Fatal(err)
	}

	now = now.Add(time.Hour)
	l.Discard()
	now = now.Add(10 * time.Millisecond)

	snap, err := l.Frame()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(snap.Dt-1000) > 1e-6 {
		t.Errorf("expected dt=1000 after discard, got %v", snap.Dt)
	}
}
