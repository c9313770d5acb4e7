package analysis

import (
	"math"

	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/motor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type RippleStats struct {
	Samples    int     `json:"samples"`
	Mean       float64 `json:"mean"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	PeakToPeak float64 `json:"peak_to_peak"`
	StdDev     float64 `json:"std_dev"`
	RMS        float64 `json:"rms"`
	// Ripple is PeakToPeak/|Mean|, +Inf for a curve that averages to zero.
	Ripple float64 `json:"ripple"`
}

// Torques extracts the torque column of a sweep.
func Torques(samples []motor.TorqueSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Torque
	}
	return out
}

func Summarize(torque []float64) (RippleStats, error) {
	if len(torque) == 0 {
		return RippleStats{}, field.Invalid("torque curve", 0, "needs at least one sample")
	}

	s := RippleStats{
		Samples: len(torque),
		Mean:    stat.Mean(torque, nil),
		Min:     floats.Min(torque),
		Max:     floats.Max(torque),
		RMS:     math.Sqrt(floats.Dot(torque, torque) / float64(len(torque))),
	}
	s.PeakToPeak = s.Max - s.Min
	if len(torque) > 1 {
		_, s.StdDev = stat.PopMeanStdDev(torque, nil)
	}
	switch {
	case s.Mean != 0:
		s.Ripple = s.PeakToPeak / math.Abs(s.Mean)
	case s.PeakToPeak != 0:
		s.Ripple = math.Inf(1)
	}
	return s, nil
}
