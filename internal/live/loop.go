package live

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/threebody/internal/control"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/trail"
)

// Snapshot is a value copy of the simulation after one frame. Renderers
// may keep it; nothing in it aliases Loop state.
type Snapshot struct {
	Frame   int
	Time    float64
	Dt      float64
	Bodies  dynamo.System
	Trails  [3][]dynamo.Vec3
	Applied []control.Stimulus
}

// Renderer consumes snapshots. It never touches physics state.
type Renderer interface {
	Render(Snapshot) error
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(Snapshot) error

func (f RenderFunc) Render(s Snapshot) error { return f(s) }

type Options struct {
	Integrator    dynamo.Integrator
	Injector      *control.Injector
	Clock         Clock
	MaxTrail      int
	FrameInterval time.Duration // pacing for Run; zero runs frames back to back
	Logger        *zap.Logger
}

// Loop is the interactive frame loop. It exclusively owns the bodies and
// their trails and is not safe for concurrent use.
type Loop struct {
	integ    dynamo.Integrator
	injector *control.Injector
	clock    Clock
	interval time.Duration
	logger   *zap.Logger

	initial dynamo.System
	state   dynamo.System
	trails  [3]*trail.Trail
	queue   *control.Queue
	t       float64
	frame   int
}

func New(initial dynamo.System, opts Options) (*Loop, error) {
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	if opts.Integrator == nil {
		return nil, fmt.Errorf("%w: integrator is required", dynamo.ErrInvalidConfig)
	}
	if opts.Injector == nil {
		opts.Injector = &control.Injector{}
	}
	if err := opts.Injector.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		return nil, fmt.Errorf("%w: clock is required", dynamo.ErrInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	l := &Loop{
		integ:    opts.Integrator,
		injector: opts.Injector,
		clock:    opts.Clock,
		interval: opts.FrameInterval,
		logger:   opts.Logger,
		initial:  initial,
		state:    initial,
		queue:    control.NewQueue(),
	}
	for i := range l.trails {
		tr, err := trail.New(opts.MaxTrail)
		if err != nil {
			return nil, err
		}
		l.trails[i] = tr
	}
	return l, nil
}

// Submit queues a stimulus for the next frame.
func (l *Loop) Submit(s control.Stimulus) { l.queue.Push(s) }

func (l *Loop) State() dynamo.System { return l.state }
func (l *Loop) Time() float64        { return l.t }
func (l *Loop) Controlled() int      { return l.injector.Target }

// Frame measures dt, applies queued stimuli, integrates one step and
// extends the trails. A frame whose clock did not advance is skipped and
// keeps its stimuli queued. On error the bodies keep their previous state
// and the drained stimuli go back on the queue for the next frame.
func (l *Loop) Frame() (Snapshot, error) {
	dt := l.clock()
	if !(dt > 0) || math.IsInf(dt, 0) {
		return l.snapshot(0, nil), nil
	}

	stimuli := l.queue.Drain()
	s := l.state
	if len(stimuli) > 0 {
		var err error
		s, err = l.injector.Apply(s, stimuli, dt)
		if err != nil {
			l.queue.Requeue(stimuli)
			return l.snapshot(0, nil), l.fail(err)
		}
		l.logger.Debug("stimuli applied",
			zap.Int("body", l.injector.Target),
			zap.Int("count", len(stimuli)),
			zap.Float64("dt", dt),
		)
	}

	next, err := l.integ.Step(s, dt)
	if err == nil && !next.IsFinite() {
		err = dynamo.ErrNonFinite
	}
	if err != nil {
		l.queue.Requeue(stimuli)
		return l.snapshot(0, nil), l.fail(err)
	}

	l.state = next
	l.t += dt
	l.frame++
	for i, b := range l.state {
		l.trails[i].Push(b.Position)
	}
	return l.snapshot(dt, stimuli), nil
}

// Run produces frames until ctx is done, handing each to r. The context is
// only consulted between frames.
func (l *Loop) Run(ctx context.Context, r Renderer) error {
	var tick <-chan time.Time
	if l.interval > 0 {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		snap, err := l.Frame()
		if err != nil {
			return err
		}
		if err := r.Render(snap); err != nil {
			return err
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}
	}
}

// Discard drops the time elapsed since the previous frame, so resuming
// after a pause does not integrate over the paused interval.
func (l *Loop) Discard() { l.clock() }

// Reset restores the initial bodies and clears trails and pending input.
func (l *Loop) Reset() {
	l.state = l.initial
	l.t = 0
	l.frame = 0
	l.queue.Drain()
	for _, tr := range l.trails {
		tr.Reset()
	}
}

func (l *Loop) fail(err error) error {
	l.logger.Error("frame failed", zap.Int("frame", l.frame), zap.Error(err))
	return &dynamo.SimulationError{Step: l.frame, Time: l.t, Wrapped: err}
}

func (l *Loop) snapshot(dt float64, applied []control.Stimulus) Snapshot {
	snap := Snapshot{
		Frame:   l.frame,
		Time:    l.t,
		Dt:      dt,
		Bodies:  l.state,
		Applied: applied,
	}
	for i, tr := range l.trails {
		snap.Trails[i] = tr.Points()
	}
	return snap
}
