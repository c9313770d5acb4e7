package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/motor"
)

func curve(n int, f func(theta float64) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(2 * math.Pi * float64(i) / float64(n))
	}
	return out
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	tests := []struct {
		name      string
		got, want float64
	}{
		{"mean", s.Mean, 2.5},
		{"min", s.Min, 1},
		{"max", s.Max, 4},
		{"peak to peak", s.PeakToPeak, 3},
		{"ripple", s.Ripple, 1.2},
		{"rms", s.RMS, math.Sqrt(7.5)},
		{"std dev", s.StdDev, math.Sqrt(1.25)},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-12 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if s.Samples != 4 {
		t.Errorf("samples = %d, want 4", s.Samples)
	}
}

func TestSummarize_EdgeCases(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, field.ErrInvalidConfig) {
		t.Errorf("empty curve error = %v, want ErrInvalidConfig", err)
	}

	s, err := Summarize([]float64{-1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(s.Ripple, 1) {
		t.Errorf("zero-mean ripple = %v, want +Inf", s.Ripple)
	}

	s, _ = Summarize([]float64{0, 0, 0})
	if s.Ripple != 0 {
		t.Errorf("flat zero curve ripple = %v, want 0", s.Ripple)
	}

	s, _ = Summarize([]float64{7})
	if s.StdDev != 0 || s.PeakToPeak != 0 {
		t.Errorf("single sample stats = %+v", s)
	}
}

func TestSpectrum_RecoversHarmonics(t *testing.T) {
	// 36 samples is not a power of two.
	c := curve(36, func(th float64) float64 {
		return 3 + 2*math.Cos(3*th+0.5) + 0.5*math.Cos(5*th)
	})

	h := Spectrum(c, 10)
	if len(h) != 11 {
		t.Fatalf("expected 11 harmonics, got %d", len(h))
	}

	want := map[int]float64{0: 3, 3: 2, 5: 0.5}
	for _, c := range h {
		if math.Abs(c.Amplitude-want[c.Order]) > 1e-9 {
			t.Errorf("order %d amplitude = %v, want %v", c.Order, c.Amplitude, want[c.Order])
		}
	}
	if math.Abs(h[3].Phase-0.5) > 1e-9 {
		t.Errorf("order 3 phase = %v, want 0.5", h[3].Phase)
	}

	if d := Dominant(h); d.Order != 3 {
		t.Errorf("dominant order = %d, want 3", d.Order)
	}
	top := Strongest(h, 2)
	if len(top) != 2 || top[0].Order != 3 || top[1].Order != 5 {
		t.Errorf("Strongest = %+v", top)
	}
}

func TestSpectrum_Limits(t *testing.T) {
	if h := Spectrum(nil, 4); h != nil {
		t.Errorf("empty curve spectrum = %v", h)
	}
	if h := Spectrum(make([]float64, 8), 20); len(h) != 4 {
		t.Errorf("8 samples should yield orders 0..3, got %d", len(h))
	}
	if d := Dominant(Spectrum([]float64{5, 5, 5, 5, 5}, 2)); d.Amplitude > 1e-12 {
		t.Errorf("flat curve dominant = %+v", d)
	}
}

func TestTorques(t *testing.T) {
	got := Torques([]motor.TorqueSample{{Angle: 0, Torque: 1.5}, {Angle: 1, Torque: -2}})
	if len(got) != 2 || got[0] != 1.5 || got[1] != -2 {
		t.Errorf("Torques = %v", got)
	}
}
