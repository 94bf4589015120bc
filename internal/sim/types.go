package sim

import (
	"math"
	"time"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/trajectory"
)

// MaxSteps caps the trajectory length of a single batch run.
const MaxSteps = 10_000_000

// Config bounds a batch run. All values are in seconds.
type Config struct {
	Start float64
	End   float64
	Dt    float64
}

// Steps returns ceil((End-Start)/Dt). Quotients within rounding noise of an
// integer are taken as that integer, so 0..100 by 10 is 10 and not 11.
func Steps(cfg Config) int {
	q := (cfg.End - cfg.Start) / cfg.Dt
	if r := math.Round(q); math.Abs(q-r) <= 1e-9*math.Max(1, math.Abs(q)) {
		return int(r)
	}
	return int(math.Ceil(q))
}

type Result struct {
	Trajectory *trajectory.Buffer
	Final      dynamo.System
	Metrics    map[string]float64
	StepsTaken int
	Elapsed    time.Duration
}
