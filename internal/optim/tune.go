// Package optim searches drive parameters for the best torque.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/magsim/internal/analysis"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/motor"
	"gonum.org/v1/gonum/floats"
)

type Objective string

const (
	// MaxMeanTorque prefers the lead with the highest average torque.
	MaxMeanTorque Objective = "mean"
	// MinRipple prefers the lead with the flattest torque curve.
	MinRipple Objective = "ripple"
)

// LeadPoint records the sweep statistics at one lead angle.
type LeadPoint struct {
	Lead  float64              `json:"lead"`
	Stats analysis.RippleStats `json:"stats"`
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Leads returns n lead angles evenly covering one revolution.
func Leads(n int) []float64 {
	if n <= 0 {
		return nil
	}
	return Linspace(0, 2*math.Pi*float64(n-1)/float64(n), n)
}

// TuneLead runs a torque ripple sweep of m for every lead angle and picks
// the best one under obj. The ripple config's own Lead is ignored.
func TuneLead(ctx context.Context, m *motor.Motor, base motor.RippleConfig, leads []float64, obj Objective) (Result, []LeadPoint, error) {
	if obj != MaxMeanTorque && obj != MinRipple {
		return Result{}, nil, field.Invalid("objective", obj, "must be mean or ripple")
	}

	points := make([]LeadPoint, 0, len(leads))
	eval := func(ctx context.Context, params map[string]float64) (float64, error) {
		rc := base
		rc.Lead = params["lead"]
		samples, err := m.TorqueRipple(ctx, rc)
		if err != nil {
			return 0, err
		}
		stats, err := analysis.Summarize(analysis.Torques(samples))
		if err != nil {
			return 0, err
		}
		points = append(points, LeadPoint{Lead: rc.Lead, Stats: stats})

		if obj == MinRipple {
			return stats.Ripple, nil
		}
		return stats.Mean, nil
	}

	gs := NewGridSearch([]string{"lead"}, [][]float64{leads})
	if obj == MaxMeanTorque {
		gs.Maximize()
	}
	res, err := gs.Search(ctx, eval)
	if err != nil {
		return res, points, fmt.Errorf("optim: tune lead: %w", err)
	}
	return res, points, nil
}
