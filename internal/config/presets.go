package config

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/motor"
)

// Presets are grouped by family. Each entry is complete; fields it leaves
// zero are meant to be zero.
var Presets = map[string]map[string]*Config{
	"bldc": {
		"small": {
			Name:   "bldc/small",
			Motor:  motor.Config{Poles: 3, Radius: 60, Inertia: 0.0005, Timestep: 0.001},
			Coil:   motor.StatorConfig{Length: 12, Offset: 40, Radius: 8, Turns: 3, Resolution: 12},
			Magnet: motor.RotorConfig{Pairs: 1, Radius: 20, Depth: 3, Height: 2, CurrentDensity: 5, Resolution: 8, AngleStep: 0.1},
			Drive:  DriveConfig{Magnitude: 50},
			Grid:   grid.Config{Width: 160, Height: 160, WorldOffset: mgl64.Vec3{-80, -80, 0}},
			Probe:  grid.ProbeConfig{Radius: 1, Resolution: 8, Current: 1},
			Ripple: motor.RippleConfig{Samples: 36, Magnitude: 50, RotorOffset: math.Pi},
		},
		"standard": {
			Name:   "bldc/standard",
			Motor:  motor.Config{Poles: 6, Radius: 160, Inertia: 0.001, Timestep: 0.001},
			Coil:   motor.StatorConfig{Length: 40, Offset: 120, Radius: 20, Turns: 4, Resolution: 24},
			Magnet: motor.RotorConfig{Pairs: 2, Radius: 60, Depth: 6, Height: 4, CurrentDensity: 10, Resolution: 12},
			Drive:  DriveConfig{Magnitude: 100},
			Grid:   grid.DefaultConfig(),
			Probe:  grid.ProbeConfig{Radius: 1, Resolution: 8, Current: 1},
			Ripple: motor.RippleConfig{Samples: 90, Magnitude: 100, RotorOffset: math.Pi},
		},
		"fine": {
			Name:   "bldc/fine",
			Motor:  motor.Config{Poles: 12, Radius: 200, Inertia: 0.002, Timestep: 0.0005},
			Coil:   motor.StatorConfig{Length: 50, Offset: 140, Radius: 16, Turns: 8, Resolution: 32},
			Magnet: motor.RotorConfig{Pairs: 4, Radius: 80, Depth: 9, Height: 6, CurrentDensity: 10, Resolution: 16},
			Drive:  DriveConfig{Magnitude: 100},
			Grid:   grid.Config{Width: 800, Height: 800, WorldOffset: mgl64.Vec3{-400, -400, 0}},
			Probe:  grid.ProbeConfig{Radius: 1, Resolution: 12, Current: 1},
			Ripple: motor.RippleConfig{Samples: 180, Magnitude: 100, RotorOffset: math.Pi},
		},
		"skewed": {
			Name:   "bldc/skewed",
			Motor:  motor.Config{Poles: 6, Radius: 160, Inertia: 0.001, Timestep: 0.001},
			Coil:   motor.StatorConfig{Length: 40, Offset: 120, Radius: 20, Turns: 4, Resolution: 24, Orientation: math.Pi / 12},
			Magnet: motor.RotorConfig{Pairs: 2, Radius: 60, AngularSpan: 1.2, Depth: 6, Height: 4, CurrentDensity: 10, Resolution: 12},
			Drive:  DriveConfig{Magnitude: 100, Angle: math.Pi / 2},
			Grid:   grid.DefaultConfig(),
			Probe:  grid.ProbeConfig{Radius: 1, Resolution: 8, Current: 1},
			Ripple: motor.RippleConfig{Samples: 90, Magnitude: 100, RotorOffset: math.Pi, Lead: math.Pi / 2},
		},
	},
	"bench": {
		"loop": {
			Name:   "bench/loop",
			Motor:  motor.Config{Poles: 1},
			Coil:   motor.StatorConfig{Radius: 100, Turns: 1, Resolution: 250},
			Drive:  DriveConfig{Magnitude: 10000},
			Grid:   grid.Config{Width: 3, Height: 3, WorldOffset: mgl64.Vec3{-1, -1, 0}},
			Probe:  grid.ProbeConfig{Radius: 1, Resolution: 8, Current: 1},
			Ripple: motor.RippleConfig{Samples: 1, Magnitude: 10000},
		},
		"helix": {
			Name:   "bench/helix",
			Motor:  motor.Config{Poles: 1},
			Coil:   motor.StatorConfig{Length: 100, Offset: -50, Radius: 20, Turns: 10, Resolution: 36},
			Drive:  DriveConfig{Magnitude: 1000},
			Grid:   grid.Config{Width: 160, Height: 80, WorldOffset: mgl64.Vec3{-80, -40, 0}},
			Probe:  grid.ProbeConfig{Radius: 1, Resolution: 8, Current: 1},
			Ripple: motor.RippleConfig{Samples: 1, Magnitude: 1000},
		},
	},
}

// GetPreset returns a copy, so callers may apply flag overrides freely.
func GetPreset(family, preset string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Families() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
