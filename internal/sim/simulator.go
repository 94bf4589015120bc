package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/trajectory"
)

// Batch precomputes a whole trajectory with a fixed timestep.
type Batch struct {
	integrator dynamo.Integrator
	logger     *zap.Logger
	metrics    []metrics.Metric
	observers  []dynamo.Observer
}

func New(integrator dynamo.Integrator, logger *zap.Logger) *Batch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batch{
		integrator: integrator,
		logger:     logger,
		metrics:    make([]metrics.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (b *Batch) AddMetric(m metrics.Metric)    { b.metrics = append(b.metrics, m) }
func (b *Batch) AddObserver(o dynamo.Observer) { b.observers = append(b.observers, o) }

// Run seeds index 0 with the initial state and fills the remaining n-1
// slots by repeated integration. On failure the partially filled result is
// returned together with a *dynamo.SimulationError.
func (b *Batch) Run(ctx context.Context, initial dynamo.System, cfg Config) (*Result, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}

	n := Steps(cfg)
	buf, err := trajectory.New(n)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Trajectory: buf,
		Metrics:    make(map[string]float64),
	}
	for _, m := range b.metrics {
		m.Reset()
	}

	b.logger.Info("batch run starting",
		zap.Int("steps", n),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("t_start", cfg.Start),
		zap.Float64("t_end", cfg.End),
	)
	start := time.Now()

	s := initial
	if err := b.record(buf, 0, cfg.Start, s); err != nil {
		return nil, err
	}

	for i := 1; i < n; i++ {
		select {
		case <-ctx.Done():
			b.finish(result, s, start)
			return result, &dynamo.SimulationError{
				Step:    i,
				Time:    stepTime(cfg, i-1),
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()),
			}
		default:
		}

		next, err := b.integrator.Step(s, cfg.Dt)
		if err == nil && !next.IsFinite() {
			err = dynamo.ErrNonFinite
		}
		if err != nil {
			b.finish(result, s, start)
			simErr := &dynamo.SimulationError{Step: i, Time: stepTime(cfg, i-1), Wrapped: err}
			b.logger.Error("batch run failed",
				zap.Int("step", i),
				zap.Float64("t", simErr.Time),
				zap.Error(err),
			)
			return result, simErr
		}

		s = next
		if err := b.record(buf, i, stepTime(cfg, i), s); err != nil {
			return result, err
		}
		result.StepsTaken++
	}

	b.finish(result, s, start)
	b.logger.Info("batch run completed",
		zap.Int("steps", result.StepsTaken),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (b *Batch) record(buf *trajectory.Buffer, i int, t float64, s dynamo.System) error {
	if err := buf.Record(i, t, s); err != nil {
		return err
	}
	for _, m := range b.metrics {
		m.Observe(s, t)
	}
	for _, o := range b.observers {
		o.Observe(s, t)
	}
	return nil
}

func (b *Batch) finish(result *Result, s dynamo.System, start time.Time) {
	result.Final = s
	result.Elapsed = time.Since(start)
	for _, m := range b.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func stepTime(cfg Config, i int) float64 {
	return cfg.Start + float64(i)*cfg.Dt
}

// ValidateConfig rejects windows that cannot produce a trajectory: a
// non-positive or infinite dt, non-finite bounds, an empty range, or more
// than MaxSteps entries.
func ValidateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if math.IsNaN(cfg.Start) || math.IsNaN(cfg.End) || math.IsInf(cfg.End-cfg.Start, 0) {
		return fmt.Errorf("%w: time bounds must be finite", dynamo.ErrInvalidConfig)
	}
	if cfg.End <= cfg.Start {
		return fmt.Errorf("%w: t_end (%g) must be after t_start (%g)", dynamo.ErrInvalidConfig, cfg.End, cfg.Start)
	}
	if q := (cfg.End - cfg.Start) / cfg.Dt; q > MaxSteps {
		return fmt.Errorf("%w: window needs %.4g steps, at most %d allowed", dynamo.ErrInvalidConfig, q, MaxSteps)
	}
	return nil
}
