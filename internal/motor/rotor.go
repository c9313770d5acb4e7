package motor

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/phase"
	"github.com/san-kum/magsim/internal/source"
)

// StatorConfig shapes every stator coil. Coils are spread evenly around the
// motor axis starting at Orientation, each starting Offset from the axis and
// winding outwards. Position shifts the whole stator in the xy plane.
type StatorConfig struct {
	Length      float64    `yaml:"length"`
	Radius      float64    `yaml:"radius"`
	Turns       int        `yaml:"turns"`
	Orientation float64    `yaml:"orientation"`
	Position    mgl64.Vec2 `yaml:"position,flow"`
	Offset      float64    `yaml:"offset"`
	Resolution  int        `yaml:"resolution"`
}

// RotorConfig shapes the rotor magnets. Each of Pairs north/south pairs
// covers 2π/Pairs, split evenly between its two poles. AngularSpan narrows
// each pole below its pitch of π/Pairs when set; zero fills the pitch.
type RotorConfig struct {
	Pairs          int     `yaml:"pairs"`
	Radius         float64 `yaml:"radius"`
	AngularSpan    float64 `yaml:"angular_span"`
	Orientation    float64 `yaml:"orientation"`
	Depth          float64 `yaml:"depth"`
	Height         float64 `yaml:"height"`
	CurrentDensity float64 `yaml:"current_density"`
	Resolution     int     `yaml:"resolution"`
	DipoleRadius   float64 `yaml:"dipole_radius"`
	AngleStep      float64 `yaml:"angle_step"`
	DepthStep      float64 `yaml:"depth_step"`
	HeightStep     float64 `yaml:"height_step"`
}

// GenerateCoils winds one coil per pole at angle i·2π/poles and assigns it
// to phase i mod 3. Nothing is added if any coil fails.
func (m *Motor) GenerateCoils(c StatorConfig) error {
	poles := m.cfg.Poles
	step := 2 * math.Pi / float64(poles)

	coils := make([]*source.Coil, poles)
	for i := range coils {
		coil, err := source.NewCoil(source.CoilConfig{
			Length:      c.Length,
			Radius:      c.Radius,
			Turns:       c.Turns,
			Resolution:  c.Resolution,
			Orientation: c.Orientation + float64(i)*step,
			Position:    c.Position,
			Offset:      c.Offset,
		})
		if err != nil {
			return fmt.Errorf("motor: coil %d: %w", i, err)
		}
		coils[i] = coil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, coil := range coils {
		m.coils = append(m.coils, coil)
		m.phases.Add(phase.PhaseOf(i), coil)
	}
	m.logger.Debug("stator generated", "coils", poles, "segments", poles*len(coils[0].Segments()))
	return nil
}

// GenerateMagnets builds Pairs north/south magnet pairs. Pair i puts its
// north pole at 2i·pitch and its south pole at (2i+1)·pitch, pitch = π/Pairs,
// both turned by Orientation. Nothing is added if any magnet fails.
func (m *Motor) GenerateMagnets(c RotorConfig) error {
	if c.Pairs <= 0 {
		return field.Invalid("pairs", c.Pairs, "must be positive")
	}
	pitch := math.Pi / float64(c.Pairs)
	span := c.AngularSpan
	if span == 0 {
		span = pitch
	}
	if span < 0 || span > pitch {
		return field.Invalid("angular span", span, "must lie within the pole pitch")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	magnets := make([]*source.Magnet, 0, 2*c.Pairs)
	for i := 0; i < c.Pairs; i++ {
		for k, pol := range []source.Polarity{source.North, source.South} {
			mag, err := source.NewMagnet(source.MagnetConfig{
				Radius:         c.Radius,
				AngularSpan:    span,
				Orientation:    c.Orientation + float64(2*i+k)*pitch,
				Depth:          c.Depth,
				Height:         c.Height,
				CurrentDensity: c.CurrentDensity,
				Polarity:       pol,
				Resolution:     c.Resolution,
				DipoleRadius:   c.DipoleRadius,
				AngleStep:      c.AngleStep,
				DepthStep:      c.DepthStep,
				HeightStep:     c.HeightStep,
			})
			if err != nil {
				return fmt.Errorf("motor: magnet %d %s: %w", i, pol, err)
			}
			if m.angle != 0 {
				if err := mag.Regenerate(m.angle); err != nil {
					return fmt.Errorf("motor: magnet %d %s: %w", i, pol, err)
				}
			}
			magnets = append(magnets, mag)
		}
	}

	m.magnets = append(m.magnets, magnets...)
	m.logger.Debug("rotor generated", "magnets", len(magnets), "dipoles", len(magnets)*magnets[0].LatticeSize())
	return nil
}
