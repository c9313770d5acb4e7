package motor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/parallel"
)

// Torque is the z-axis torque the stator field exerts on the rotor: the sum
// over every magnet dipole segment of (position × I·dL×B)_z, with B from the
// coils alone.
func (m *Motor) Torque(ctx context.Context) (float64, error) {
	start := time.Now()
	tau, err := m.Snapshot().Torque(ctx, m.workers)
	if err != nil {
		return 0, fmt.Errorf("motor: torque: %w", err)
	}
	m.logger.Debug("torque", "value", tau, "took", time.Since(start))
	return tau, nil
}

// Torque splits the rotor dipoles across workers; each worker keeps its own
// partial sum.
func (s Snapshot) Torque(ctx context.Context, workers int) (float64, error) {
	if len(s.Coils) == 0 || len(s.Magnets) == 0 {
		return 0, ctx.Err()
	}
	return parallel.Sum(ctx, len(s.Magnets), workers, 8, func(ctx context.Context, start, end int) (float64, error) {
		var tau float64
		for _, dipole := range s.Magnets[start:end] {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			tau += torqueOn(s.Coils, dipole)
		}
		return tau, nil
	})
}

func torqueOn(stator []field.Source, rotor field.Source) float64 {
	var tau float64
	for _, seg := range rotor.Segments {
		b := field.FieldAt(stator, seg.Position)
		tau += field.TorqueZ(seg.Position, field.Force(seg, rotor.Current, b))
	}
	return tau
}

// RippleConfig drives a torque-versus-angle sweep. At sample angle θ the
// rotor sits at θ+RotorOffset and the current vector at θ+Lead.
type RippleConfig struct {
	Samples     int     `yaml:"samples"`
	Magnitude   float64 `yaml:"magnitude"`
	RotorOffset float64 `yaml:"rotor_offset"`
	Lead        float64 `yaml:"lead"`
}

func DefaultRippleConfig() RippleConfig {
	return RippleConfig{
		Samples:     90,
		Magnitude:   1,
		RotorOffset: math.Pi,
	}
}

func (c RippleConfig) Validate() error {
	if c.Samples <= 0 {
		return field.Invalid("ripple samples", c.Samples, "must be positive")
	}
	return nil
}

type TorqueSample struct {
	Angle  float64 `json:"angle"`
	Torque float64 `json:"torque"`
}

// TorqueRipple sweeps one electrical revolution in Samples steps. The rotor
// angle and phase currents in place before the sweep are restored after it,
// also when ctx is cancelled.
func (m *Motor) TorqueRipple(ctx context.Context, c RippleConfig) ([]TorqueSample, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	before := m.Snapshot()
	defer func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := m.regenerate(before.RotorAngle); err != nil {
			m.logger.Warn("restore rotor", "err", err)
		}
		m.phases.SetCurrents(before.Currents)
	}()

	start := time.Now()
	step := 2 * math.Pi / float64(c.Samples)
	out := make([]TorqueSample, 0, c.Samples)
	for k := 0; k < c.Samples; k++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		theta := float64(k) * step
		if err := m.SetRotorAngle(theta + c.RotorOffset); err != nil {
			return out, err
		}
		m.SetCurrentVector(theta+c.Lead, c.Magnitude)

		tau, err := m.Torque(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, TorqueSample{Angle: theta, Torque: tau})
	}
	m.logger.Debug("ripple sweep", "samples", c.Samples, "took", time.Since(start))
	return out, nil
}
