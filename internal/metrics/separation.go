package metrics

import (
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
)

// Metric accumulates a scalar over the states of a run.
type Metric interface {
	Name() string
	Observe(s dynamo.System, t float64)
	Value() float64
	Reset()
}

// MinSeparation tracks the closest approach between any two bodies.
type MinSeparation struct {
	min     float64
	samples int
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return "min_separation" }

func (m *MinSeparation) Observe(s dynamo.System, t float64) {
	for _, d := range physics.Separations(s) {
		m.min = math.Min(m.min, d)
	}
	m.samples++
}

func (m *MinSeparation) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.min
}

func (m *MinSeparation) Reset() {
	m.min = math.Inf(1)
	m.samples = 0
}

// MaxSeparation tracks the widest pairwise distance; a growing value
// usually means one body is escaping.
type MaxSeparation struct {
	max float64
}

func NewMaxSeparation() *MaxSeparation { return &MaxSeparation{} }

func (m *MaxSeparation) Name() string { return "max_separation" }

func (m *MaxSeparation) Observe(s dynamo.System, t float64) {
	for _, d := range physics.Separations(s) {
		m.max = math.Max(m.max, d)
	}
}

func (m *MaxSeparation) Value() float64 { return m.max }
func (m *MaxSeparation) Reset()         { m.max = 0 }
