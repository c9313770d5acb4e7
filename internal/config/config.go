package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/motor"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPoles    = 6
	DefaultRadius   = 160.0
	DefaultInertia  = 0.001
	DefaultTimestep = 0.001

	DefaultCoilLength     = 40.0
	DefaultCoilOffset     = 120.0
	DefaultCoilRadius     = 20.0
	DefaultCoilTurns      = 4
	DefaultCoilResolution = 24

	DefaultPairs            = 2
	DefaultMagnetRadius     = 60.0
	DefaultMagnetDepth      = 6.0
	DefaultMagnetHeight     = 4.0
	DefaultCurrentDensity   = 10.0
	DefaultMagnetResolution = 12

	DefaultDriveMagnitude = 100.0
)

type Config struct {
	Name   string             `yaml:"name"`
	Motor  motor.Config       `yaml:"motor"`
	Coil   motor.StatorConfig `yaml:"coil"`
	Magnet motor.RotorConfig  `yaml:"magnet"`
	Drive  DriveConfig        `yaml:"drive"`
	Grid   grid.Config        `yaml:"grid"`
	Probe  grid.ProbeConfig   `yaml:"probe"`
	Ripple motor.RippleConfig `yaml:"ripple"`
}

// DriveConfig is the α/β current vector applied before a field, force or
// torque evaluation.
type DriveConfig struct {
	Angle     float64 `yaml:"angle"`
	Magnitude float64 `yaml:"magnitude"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		Motor: motor.Config{
			Poles:    DefaultPoles,
			Radius:   DefaultRadius,
			Inertia:  DefaultInertia,
			Timestep: DefaultTimestep,
		},
		Coil: motor.StatorConfig{
			Length:     DefaultCoilLength,
			Offset:     DefaultCoilOffset,
			Radius:     DefaultCoilRadius,
			Turns:      DefaultCoilTurns,
			Resolution: DefaultCoilResolution,
		},
		Magnet: motor.RotorConfig{
			Pairs:          DefaultPairs,
			Radius:         DefaultMagnetRadius,
			Depth:          DefaultMagnetDepth,
			Height:         DefaultMagnetHeight,
			CurrentDensity: DefaultCurrentDensity,
			Resolution:     DefaultMagnetResolution,
		},
		Drive:  DriveConfig{Magnitude: DefaultDriveMagnitude},
		Grid:   grid.DefaultConfig(),
		Probe:  grid.DefaultProbeConfig(),
		Ripple: motor.DefaultRippleConfig(),
	}
}

// Load reads path over DefaultConfig, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

// Validate checks the sections that are not otherwise checked before any
// expensive work starts. Coil and magnet geometry is checked when built.
func (c *Config) Validate() error {
	if err := c.Motor.Validate(); err != nil {
		return fmt.Errorf("config: motor: %w", err)
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("config: grid: %w", err)
	}
	if err := c.Ripple.Validate(); err != nil {
		return fmt.Errorf("config: ripple: %w", err)
	}
	if c.Magnet.Pairs < 0 {
		return fmt.Errorf("config: magnet: %w", field.Invalid("pairs", c.Magnet.Pairs, "must not be negative"))
	}
	if c.Probe.Radius <= 0 {
		return fmt.Errorf("config: probe: %w", field.Invalid("radius", c.Probe.Radius, "must be positive"))
	}
	if c.Probe.Resolution <= 0 {
		return fmt.Errorf("config: probe: %w", field.Invalid("resolution", c.Probe.Resolution, "must be positive"))
	}
	return nil
}

// Build assembles the motor described by c and applies the drive vector.
// A magnet section with zero pairs yields a stator-only bench. Torque work
// shares the grid's worker bound.
func (c *Config) Build(logger *log.Logger) (*motor.Motor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	m, err := motor.New(c.Motor, motor.WithLogger(logger), motor.WithWorkers(c.Grid.Workers))
	if err != nil {
		return nil, err
	}
	if err := m.GenerateCoils(c.Coil); err != nil {
		return nil, err
	}
	if c.Magnet.Pairs > 0 {
		if err := m.GenerateMagnets(c.Magnet); err != nil {
			return nil, err
		}
	}
	m.SetCurrentVector(c.Drive.Angle, c.Drive.Magnitude)
	return m, nil
}
