package field

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// loop returns an n-gon of radius r in the xy plane, counter-clockwise about +z.
func loop(r float64, n int, z float64) []Segment {
	segs := make([]Segment, n)
	for i := 0; i < n; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(n)
		a1 := 2 * math.Pi * float64(i+1) / float64(n)
		start := mgl64.Vec3{r * math.Cos(a0), r * math.Sin(a0), z}
		end := mgl64.Vec3{r * math.Cos(a1), r * math.Sin(a1), z}
		segs[i] = Segment{Position: start, Direction: end.Sub(start)}
	}
	return segs
}

// wire returns a straight conductor along x from -half to half at height y.
func wire(half float64, n int, y float64) []Segment {
	segs := make([]Segment, n)
	step := 2 * half / float64(n)
	for i := range segs {
		segs[i] = Segment{
			Position:  mgl64.Vec3{-half + float64(i)*step, y, 0},
			Direction: mgl64.Vec3{step, 0, 0},
		}
	}
	return segs
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func vecApprox(a, b mgl64.Vec3, tol float64) bool {
	return approx(a[0], b[0], tol) && approx(a[1], b[1], tol) && approx(a[2], b[2], tol)
}

func TestSegmentField_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
		p    mgl64.Vec3
	}{
		{"zero length", Segment{Position: mgl64.Vec3{1, 2, 3}}, mgl64.Vec3{0, 0, 0}},
		{"coincident point", Segment{Position: mgl64.Vec3{1, 2, 3}, Direction: mgl64.Vec3{0, 1, 0}}, mgl64.Vec3{1, 2, 3}},
		{"point on line", Segment{Position: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}}, mgl64.Vec3{5, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := SegmentField(tt.seg, 100, tt.p)
			if !IsFinite(b) {
				t.Fatalf("SegmentField returned non-finite %v", b)
			}
			if b.Len() != 0 {
				t.Errorf("expected zero contribution, got %v", b)
			}
			agg := FieldAt([]Source{{Segments: []Segment{tt.seg}, Current: 100}}, tt.p)
			if agg.Len() != 0 {
				t.Errorf("FieldAt expected zero contribution, got %v", agg)
			}
		})
	}
}

func TestSegmentField_MatchesSegmentsField(t *testing.T) {
	segs := loop(10, 32, 0)
	p := mgl64.Vec3{3, -2, 4}

	var want mgl64.Vec3
	for _, s := range segs {
		want = want.Add(SegmentField(s, 7, p))
	}
	got := SegmentsField(segs, 7, p)
	if !vecApprox(got, want, 1e-12) {
		t.Errorf("SegmentsField = %v, want %v", got, want)
	}
}

func TestFieldAt_Superposition(t *testing.T) {
	a := Source{Segments: loop(50, 64, 0), Current: 3}
	b := Source{Segments: wire(200, 100, 40), Current: -5}
	points := []mgl64.Vec3{{0, 0, 0}, {10, 20, 5}, {-70, 3, -12}, {0, 40, 1}}

	for _, p := range points {
		both := FieldAt([]Source{a, b}, p)
		sum := FieldAt([]Source{a}, p).Add(FieldAt([]Source{b}, p))
		if !vecApprox(both, sum, 1e-9) {
			t.Errorf("at %v: union %v != sum %v", p, both, sum)
		}
	}
}

func TestFieldAt_CurrentScaling(t *testing.T) {
	src := Source{Segments: loop(30, 48, 2), Current: 1.5}
	p := mgl64.Vec3{4, -9, 11}
	base := FieldAt([]Source{src}, p)

	for _, k := range []float64{-2, 0, 0.5, 10} {
		got := FieldAt([]Source{src.Scaled(k)}, p)
		if !vecApprox(got, base.Mul(k), 1e-9) {
			t.Errorf("k=%v: got %v, want %v", k, got, base.Mul(k))
		}
	}
}

func TestFieldAt_LoopOnAxis(t *testing.T) {
	const (
		r       = 100.0
		current = 10.0
		n       = 250
	)
	src := []Source{{Segments: loop(r, n, 0), Current: current}}

	for _, z := range []float64{0, 25, 50, 150} {
		want := 2 * math.Pi * current * r * r / math.Pow(r*r+z*z, 1.5)
		b := FieldAt(src, mgl64.Vec3{0, 0, z})
		if math.Abs(b[2]-want)/want > 1e-3 {
			t.Errorf("z=%v: Bz = %v, want %v", z, b[2], want)
		}
		if math.Abs(b[0]) > 1e-9 || math.Abs(b[1]) > 1e-9 {
			t.Errorf("z=%v: expected purely axial field, got %v", z, b)
		}
	}
}

func TestForce_SignConvention(t *testing.T) {
	seg := Segment{Direction: mgl64.Vec3{1, 0, 0}}
	f := Force(seg, 2, mgl64.Vec3{0, 3, 0})
	if !vecApprox(f, mgl64.Vec3{0, 0, 6}, 1e-12) {
		t.Errorf("F = I dL x B: got %v, want (0,0,6)", f)
	}
}

func TestForceOnSegment_ParallelWiresAttract(t *testing.T) {
	sources := []Source{{Segments: wire(1000, 2000, 0), Current: 10}}
	probe := Segment{Position: mgl64.Vec3{0, 5, 0}, Direction: mgl64.Vec3{1, 0, 0}}

	f := ForceOnSegment(sources, probe, 10)
	if f[1] >= 0 {
		t.Errorf("expected attraction towards the source wire, got %v", f)
	}

	f = ForceOnSegment(sources, probe, -10)
	if f[1] <= 0 {
		t.Errorf("expected repulsion for antiparallel current, got %v", f)
	}
}

func TestForceOn_SumsProbeSegments(t *testing.T) {
	sources := []Source{{Segments: loop(40, 64, 0), Current: 4}}
	probe := Source{Segments: loop(5, 16, 30), Current: 2}

	var want mgl64.Vec3
	for _, s := range probe.Segments {
		want = want.Add(ForceOnSegment(sources, s, 2))
	}
	got := ForceOn(sources, probe)
	if !vecApprox(got, want, 1e-12) {
		t.Errorf("ForceOn = %v, want %v", got, want)
	}
	// coaxial loops with parallel currents attract along the axis
	if got[2] >= 0 {
		t.Errorf("expected axial attraction, got %v", got)
	}
}

func TestTorqueZ(t *testing.T) {
	if got := TorqueZ(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 3, 0}); got != 6 {
		t.Errorf("TorqueZ = %v, want 6", got)
	}
	if got := TorqueZ(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 3, 0}); got != 0 {
		t.Errorf("TorqueZ of radial force = %v, want 0", got)
	}
}

func TestConfigError(t *testing.T) {
	err := Invalid("resolution", 0, "must be positive")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("ConfigError should unwrap to ErrInvalidConfig")
	}
	expected := "field: invalid resolution (0): must be positive"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	var be error = &BoundsError{X: 5, Y: 1, Width: 3, Height: 3}
	if !errors.Is(be, ErrOutOfBounds) {
		t.Error("BoundsError should unwrap to ErrOutOfBounds")
	}
}
