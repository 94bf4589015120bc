package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Stimulus is a discrete directional input event.
type Stimulus int

const (
	PlusX Stimulus = iota
	MinusX
	PlusY
	MinusY
	PlusZ
	MinusZ
)

// Directions maps each stimulus to its unit axis vector.
var Directions = map[Stimulus]dynamo.Vec3{
	PlusX:  {X: 1},
	MinusX: {X: -1},
	PlusY:  {Y: 1},
	MinusY: {Y: -1},
	PlusZ:  {Z: 1},
	MinusZ: {Z: -1},
}

var names = [...]string{"+x", "-x", "+y", "-y", "+z", "-z"}

func (s Stimulus) String() string {
	if s < 0 || int(s) >= len(names) {
		return fmt.Sprintf("Stimulus(%d)", int(s))
	}
	return names[s]
}

func (s Stimulus) Valid() bool {
	_, ok := Directions[s]
	return ok
}

func ParseStimulus(name string) (Stimulus, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Stimulus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stimulus %q (want one of %s)", name, strings.Join(names[:], ", "))
}
