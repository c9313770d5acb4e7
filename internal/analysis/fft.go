package analysis

import (
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
)

// Harmonic is one Fourier component of a periodic curve,
// Amplitude·cos(Order·θ + Phase).
type Harmonic struct {
	Order     int     `json:"order"`
	Amplitude float64 `json:"amplitude"`
	Phase     float64 `json:"phase"`
}

// Spectrum returns harmonics 0..maxOrder of a curve sampled evenly over one
// revolution. Orders at or above the Nyquist limit are dropped. Any sample
// count works; it need not be a power of two.
func Spectrum(curve []float64, maxOrder int) []Harmonic {
	n := len(curve)
	if n == 0 || maxOrder < 0 {
		return nil
	}
	if limit := (n - 1) / 2; maxOrder > limit {
		maxOrder = limit
	}

	coeffs := fft.FFTReal(curve)
	out := make([]Harmonic, 0, maxOrder+1)
	for k := 0; k <= maxOrder; k++ {
		amp := cmplx.Abs(coeffs[k]) / float64(n)
		if k > 0 {
			amp *= 2
		}
		out = append(out, Harmonic{Order: k, Amplitude: amp, Phase: cmplx.Phase(coeffs[k])})
	}
	return out
}

// Dominant returns the largest harmonic of order one or more. The zero
// Harmonic is returned when there is none.
func Dominant(h []Harmonic) Harmonic {
	var best Harmonic
	for _, c := range h {
		if c.Order > 0 && c.Amplitude > best.Amplitude {
			best = c
		}
	}
	return best
}

// Strongest returns the n largest harmonics of order one or more, largest
// first.
func Strongest(h []Harmonic, n int) []Harmonic {
	out := make([]Harmonic, 0, len(h))
	for _, c := range h {
		if c.Order > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amplitude > out[j].Amplitude })
	if n < len(out) {
		out = out[:n]
	}
	return out
}
