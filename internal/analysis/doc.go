// Package analysis characterises torque-versus-angle curves.
//
//   - [Summarize]: mean, extremes, peak-to-peak and ripple factor
//   - [Spectrum]: per-revolution harmonic amplitudes and phases
//   - [Dominant]: the strongest non-constant harmonic
//
// A curve is assumed to cover one full revolution in evenly spaced samples,
// so harmonic order k means k cycles per revolution:
//
//	stats, _ := analysis.Summarize(torques)
//	h := analysis.Dominant(analysis.Spectrum(torques, 12))
package analysis
