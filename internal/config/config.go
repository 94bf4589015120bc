package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
)

const (
	DefaultTimeScale = 1e8
	DefaultMaxTrail  = 100
	DefaultAccel     = 5e-3
	DefaultFPS       = 60
	DefaultScale     = 5e10
)

var validate = validator.New()

type Config struct {
	Name   string       `yaml:"name"`
	G      float64      `yaml:"g" validate:"gt=0"`
	Bodies []BodyConfig `yaml:"bodies" validate:"len=3,dive"`
	Batch  BatchConfig  `yaml:"batch"`
	Live   LiveConfig   `yaml:"live"`
}

type BodyConfig struct {
	Mass     float64    `yaml:"mass" validate:"gt=0"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
	Color    string     `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
}

type BatchConfig struct {
	Start float64 `yaml:"t_start"`
	End   float64 `yaml:"t_end" validate:"gtfield=Start"`
	Dt    float64 `yaml:"dt" validate:"gt=0"`
}

type LiveConfig struct {
	TimeScale  float64 `yaml:"time_scale" validate:"gt=0"`
	MaxTrail   int     `yaml:"max_trail" validate:"gt=0"`
	Accel      float64 `yaml:"accel" validate:"min=0"`
	Controlled int     `yaml:"controlled" validate:"min=0,max=2"`
	FPS        int     `yaml:"fps" validate:"gt=0"`
	Scale      float64 `yaml:"scale" validate:"gt=0"`
}

func DefaultConfig() *Config {
	return GetPreset("trisolaris")
}

func DefaultLive() LiveConfig {
	return LiveConfig{
		TimeScale: DefaultTimeScale,
		MaxTrail:  DefaultMaxTrail,
		Accel:     DefaultAccel,
		FPS:       DefaultFPS,
		Scale:     DefaultScale,
	}
}

// Load reads a YAML file over the defaults, so a file may set only the
// fields it cares about.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, e.g. a preset, and validates the
// result. base is modified in place.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", dynamo.ErrInvalidConfig, formatValidationError(err))
	}
	if err := sim.ValidateConfig(c.BatchConfig()); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	return nil
}

func formatValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))

	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, strings.ToLower(e.Param()))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "len":
		return fmt.Sprintf("%s must have exactly %s entries", field, e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// System builds the initial bodies. Positions and velocities are SI units.
func (c *Config) System() (dynamo.System, error) {
	var s dynamo.System
	if len(c.Bodies) != 3 {
		return s, fmt.Errorf("%w: need 3 bodies, got %d", dynamo.ErrInvalidConfig, len(c.Bodies))
	}
	for i, b := range c.Bodies {
		body, err := dynamo.NewBody(b.Mass, vec(b.Position), vec(b.Velocity))
		if err != nil {
			return s, fmt.Errorf("body %d: %w", i, err)
		}
		s[i] = body
	}
	return s, nil
}

func (c *Config) BatchConfig() sim.Config {
	return sim.Config{Start: c.Batch.Start, End: c.Batch.End, Dt: c.Batch.Dt}
}

func (c *Config) Law() *physics.Gravity {
	return &physics.Gravity{G: c.G}
}

// NewIntegrator returns a semi-implicit Euler stepper over the configured
// gravitational constant.
func (c *Config) NewIntegrator() dynamo.Integrator {
	return integrators.NewSemiImplicitEuler(c.Law())
}

func (c *Config) Colors() [3]string {
	colors := [3]string{"#ff5555", "#55ff55", "#5599ff"}
	for i, b := range c.Bodies {
		if i < 3 && b.Color != "" {
			colors[i] = b.Color
		}
	}
	return colors
}

func vec(a [3]float64) dynamo.Vec3 {
	return dynamo.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
