package config

import (
	"math"
	"sort"

	"github.com/san-kum/threebody/internal/physics"
)

const (
	presetMass   = 2e30
	presetRadius = 1.5e11
	presetSpeed  = 3e4
)

var Presets = map[string]func() *Config{
	"trisolaris": func() *Config {
		return triangle("trisolaris", [3]float64{0, 1.02, 0.05}, presetSpeed)
	},
	"symmetric": func() *Config {
		return triangle("symmetric", [3]float64{0, 1, 0}, presetSpeed)
	},
	"still": func() *Config {
		return triangle("still", [3]float64{0, 1, 0}, 0)
	},
}

// triangle places three equal masses on an equilateral triangle with
// velocities tangent to it. lead is the direction of body 0.
func triangle(name string, lead [3]float64, speed float64) *Config {
	h := math.Sqrt(3) / 2
	dirs := [3][3]float64{lead, {-h, -0.5, 0}, {h, -0.5, 0}}
	pos := [3][3]float64{
		{presetRadius, 0, 0},
		{-0.5 * presetRadius, h * presetRadius, 0},
		{-0.5 * presetRadius, -h * presetRadius, 0},
	}
	colors := [3]string{"#ff5555", "#55ff55", "#5599ff"}

	cfg := &Config{
		Name:   name,
		G:      physics.G,
		Bodies: make([]BodyConfig, 3),
		Batch:  BatchConfig{Start: 0, End: 3e10, Dt: 1e5},
		Live:   DefaultLive(),
	}
	for i := range cfg.Bodies {
		var v [3]float64
		for k := range v {
			v[k] = dirs[i][k] * speed
		}
		cfg.Bodies[i] = BodyConfig{Mass: presetMass, Position: pos[i], Velocity: v, Color: colors[i]}
	}
	return cfg
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
