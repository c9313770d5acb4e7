package source

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
)

type Polarity int

const (
	South Polarity = -1
	North Polarity = 1
)

func (p Polarity) String() string {
	if p == South {
		return "south"
	}
	return "north"
}

const (
	DefaultAngleStep    = 0.02
	DefaultDepthStep    = 3.0
	DefaultHeightStep   = 2.0
	DefaultDipoleRadius = 1.0
)

// MagnetConfig describes one pole as a lattice of radial dipoles spanning
// AngularSpan from Orientation, Depth outwards from Radius and Height
// upwards from the z = 0 plane.
type MagnetConfig struct {
	Radius         float64  `yaml:"radius"`
	AngularSpan    float64  `yaml:"angular_span"`
	Orientation    float64  `yaml:"orientation"`
	Depth          float64  `yaml:"depth"`
	Height         float64  `yaml:"height"`
	CurrentDensity float64  `yaml:"current_density"`
	Polarity       Polarity `yaml:"polarity"`
	Resolution     int      `yaml:"resolution"`
	DipoleRadius   float64  `yaml:"dipole_radius"`
	AngleStep      float64  `yaml:"angle_step"`
	DepthStep      float64  `yaml:"depth_step"`
	HeightStep     float64  `yaml:"height_step"`
}

func (c *MagnetConfig) applyDefaults() {
	if c.AngleStep == 0 {
		c.AngleStep = DefaultAngleStep
	}
	if c.DepthStep == 0 {
		c.DepthStep = DefaultDepthStep
	}
	if c.HeightStep == 0 {
		c.HeightStep = DefaultHeightStep
	}
	if c.DipoleRadius == 0 {
		c.DipoleRadius = DefaultDipoleRadius
	}
	if c.Polarity == 0 {
		c.Polarity = North
	}
}

func (c MagnetConfig) Validate() error {
	switch {
	case c.Resolution <= 0:
		return field.Invalid("magnet resolution", c.Resolution, "must be positive")
	case c.AngularSpan <= 0:
		return field.Invalid("angular span", c.AngularSpan, "must be positive")
	case c.Depth <= 0:
		return field.Invalid("depth", c.Depth, "must be positive")
	case c.Height <= 0:
		return field.Invalid("height", c.Height, "must be positive")
	case c.Radius < 0:
		return field.Invalid("radius", c.Radius, "must not be negative")
	case c.AngleStep <= 0, c.DepthStep <= 0, c.HeightStep <= 0:
		return field.Invalid("lattice step", fmt.Sprintf("%g/%g/%g", c.AngleStep, c.DepthStep, c.HeightStep), "must be positive")
	case c.DipoleRadius <= 0:
		return field.Invalid("dipole radius", c.DipoleRadius, "must be positive")
	case c.Polarity != North && c.Polarity != South:
		return field.Invalid("polarity", int(c.Polarity), "must be north (1) or south (-1)")
	}
	return nil
}

// Magnet approximates a permanent-magnet pole by a lattice of dipoles.
type Magnet struct {
	cfg        MagnetConfig
	rotorAngle float64
	dipoles    []*Dipole
}

func NewMagnet(cfg MagnetConfig) (*Magnet, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Magnet{cfg: cfg}
	if err := m.Regenerate(0); err != nil {
		return nil, err
	}
	return m, nil
}

// Regenerate rebuilds the whole lattice with the rotor turned to
// rotorAngle. The previous lattice is replaced only on success.
func (m *Magnet) Regenerate(rotorAngle float64) error {
	c := m.cfg
	current := float64(c.Polarity) * c.CurrentDensity

	dipoles := make([]*Dipole, 0, m.LatticeSize())
	for k := 0; float64(k)*c.AngleStep < c.AngularSpan; k++ {
		theta := float64(k) * c.AngleStep
		for d := 0.0; d < c.Depth; d += c.DepthStep {
			for h := 0.0; h < c.Height; h += c.HeightStep {
				dp, err := NewPolarDipole(Polar{
					Offset:      c.Radius + d,
					Height:      h,
					Orientation: c.Orientation + theta + rotorAngle,
				}, current, c.DipoleRadius, c.Resolution)
				if err != nil {
					return fmt.Errorf("magnet dipole %d: %w", len(dipoles), err)
				}
				dipoles = append(dipoles, dp)
			}
		}
	}

	m.dipoles = dipoles
	m.rotorAngle = rotorAngle
	return nil
}

// LatticeSize is the number of dipoles one regeneration produces.
func (m *Magnet) LatticeSize() int {
	c := m.cfg
	return steps(c.AngularSpan, c.AngleStep) * steps(c.Depth, c.DepthStep) * steps(c.Height, c.HeightStep)
}

func steps(span, step float64) int {
	if span <= 0 || step <= 0 {
		return 0
	}
	return int(math.Ceil(span / step))
}

func (m *Magnet) Config() MagnetConfig { return m.cfg }
func (m *Magnet) Polarity() Polarity   { return m.cfg.Polarity }
func (m *Magnet) RotorAngle() float64  { return m.rotorAngle }
func (m *Magnet) Dipoles() []*Dipole   { return m.dipoles }

// Sources returns one view per dipole of the present lattice.
func (m *Magnet) Sources() []field.Source {
	out := make([]field.Source, len(m.dipoles))
	for i, d := range m.dipoles {
		out[i] = d.Source()
	}
	return out
}

func (m *Magnet) FieldAt(p mgl64.Vec3) mgl64.Vec3 {
	var b mgl64.Vec3
	for _, d := range m.dipoles {
		b = b.Add(d.FieldAt(p))
	}
	return b
}
