// Package trail keeps a bounded history of recent body positions for
// drawing motion paths. It plays no part in the physics.
package trail

import (
	"fmt"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Trail is a fixed-capacity ring of positions; the oldest entry is evicted
// first once it is full.
type Trail struct {
	data []dynamo.Vec3
	pos  int
	full bool
}

func New(max int) (*Trail, error) {
	if max <= 0 {
		return nil, fmt.Errorf("%w: trail length must be positive, got %d", dynamo.ErrInvalidConfig, max)
	}
	return &Trail{data: make([]dynamo.Vec3, max)}, nil
}

func (t *Trail) Push(v dynamo.Vec3) {
	t.data[t.pos] = v
	t.pos++
	if t.pos == len(t.data) {
		t.pos = 0
		t.full = true
	}
}

func (t *Trail) Len() int {
	if t.full {
		return len(t.data)
	}
	return t.pos
}

func (t *Trail) Cap() int { return len(t.data) }

// Points returns the retained positions, oldest first.
func (t *Trail) Points() []dynamo.Vec3 {
	out := make([]dynamo.Vec3, t.Len())
	if t.full {
		n := copy(out, t.data[t.pos:])
		copy(out[n:], t.data[:t.pos])
	} else {
		copy(out, t.data[:t.pos])
	}
	return out
}

func (t *Trail) Reset() {
	t.pos = 0
	t.full = false
}
