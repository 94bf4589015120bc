package sim

import (
	"go.uber.org/zap"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Progress logs each time a batch run crosses another fraction of its
// time window.
type Progress struct {
	logger *zap.Logger
	cfg    Config
	every  float64
	next   float64
}

func NewProgress(logger *zap.Logger, cfg Config, every float64) *Progress {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !(every > 0) || every > 1 {
		every = 0.1
	}
	return &Progress{logger: logger, cfg: cfg, every: every, next: every}
}

func (p *Progress) Observe(s dynamo.System, t float64) {
	frac := (t - p.cfg.Start) / (p.cfg.End - p.cfg.Start)
	if frac < p.next {
		return
	}
	for p.next <= frac {
		p.next += p.every
	}
	p.logger.Info("batch progress",
		zap.Float64("percent", 100*frac),
		zap.Float64("t", t),
	)
}
