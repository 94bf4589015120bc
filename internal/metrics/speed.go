package metrics

import (
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
)

// PeakSpeed records the largest body speed seen.
type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(s dynamo.System, t float64) {
	for _, b := range s {
		p.peak = math.Max(p.peak, b.Velocity.Norm())
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// Defaults returns the metrics attached to every batch run.
func Defaults() []Metric {
	return []Metric{NewMinSeparation(), NewMaxSeparation(), NewPeakSpeed()}
}
