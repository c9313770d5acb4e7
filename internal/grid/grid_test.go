package grid

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/source"
)

// loopSources is a single loop of radius 100 in the yz plane carrying 10000,
// so its axis runs along x through the origin.
func loopSources(t *testing.T) []field.Source {
	t.Helper()
	coil, err := source.NewCoil(source.CoilConfig{Radius: 100, Turns: 1, Resolution: 250})
	if err != nil {
		t.Fatalf("NewCoil failed: %v", err)
	}
	coil.SetCurrent(10000)
	return []field.Source{coil.Source()}
}

func scenarioSampler(t *testing.T, workers int) *Sampler {
	t.Helper()
	s, err := NewSampler(Config{Width: 3, Height: 3, WorldOffset: mgl64.Vec3{-1, -1, 0}, Workers: workers})
	if err != nil {
		t.Fatalf("NewSampler failed: %v", err)
	}
	return s
}

func TestConfig_World(t *testing.T) {
	c := DefaultConfig()
	c.ZHeight = 4
	if got, want := c.World(0, 0), (mgl64.Vec3{-300, -300, 4}); got != want {
		t.Errorf("World(0,0) = %v, want %v", got, want)
	}
	if got, want := c.World(300, 300), (mgl64.Vec3{0, 0, 4}); got != want {
		t.Errorf("World(300,300) = %v, want %v", got, want)
	}
}

func TestNewSampler_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero width", Config{Width: 0, Height: 3}},
		{"negative height", Config{Width: 3, Height: -1}},
		{"negative workers", Config{Width: 3, Height: 3, Workers: -2}},
		{"nan offset", Config{Width: 3, Height: 3, WorldOffset: mgl64.Vec3{math.NaN(), 0, 0}}},
		{"inf height", Config{Width: 3, Height: 3, ZHeight: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSampler(tt.cfg); !errors.Is(err, field.ErrInvalidConfig) {
				t.Errorf("NewSampler error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestGrid_AtBounds(t *testing.T) {
	g := New(3, 2)
	g.Data[1][2] = mgl64.Vec3{1, 2, 3}

	v, err := g.At(2, 1)
	if err != nil || v != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("At(2,1) = %v, %v", v, err)
	}

	for _, c := range [][2]int{{3, 0}, {0, 2}, {-1, 0}, {0, -1}} {
		_, err := g.At(c[0], c[1])
		if !errors.Is(err, field.ErrOutOfBounds) {
			t.Errorf("At(%d,%d) error = %v, want ErrOutOfBounds", c[0], c[1], err)
		}
		var be *field.BoundsError
		if !errors.As(err, &be) || be.X != c[0] || be.Y != c[1] || be.Width != 3 || be.Height != 2 {
			t.Errorf("At(%d,%d) bounds error = %+v", c[0], c[1], be)
		}
	}

	if _, err := g.Row(2); !errors.Is(err, field.ErrOutOfBounds) {
		t.Errorf("Row(2) error = %v, want ErrOutOfBounds", err)
	}
}

func TestSampleField_LoopScenario(t *testing.T) {
	g, err := scenarioSampler(t, 0).SampleField(context.Background(), loopSources(t))
	if err != nil {
		t.Fatalf("SampleField failed: %v", err)
	}

	centre := g.Data[1][1]
	want := 2 * math.Pi * 10000 / 100.0
	if math.Abs(centre[0]-want)/want > 1e-3 {
		t.Errorf("centre Bx = %v, want %v", centre[0], want)
	}
	if math.Abs(centre[1]) > 1e-9 || math.Abs(centre[2]) > 1e-9 {
		t.Errorf("centre field not axial: %v", centre)
	}

	// Cells on the loop plane x = 0 see a purely axial field.
	for _, y := range []int{0, 2} {
		b := g.Data[y][1]
		if math.Abs(b[1]) > 1e-9*b[0] || math.Abs(b[2]) > 1e-9*b[0] {
			t.Errorf("cell (1,%d) field not axial: %v", y, b)
		}
	}

	// Off the loop plane the field bends away from the axis: By is odd in x.
	right, left := g.Data[2][2], g.Data[2][0]
	if math.Abs(right[1]) < 0.05 {
		t.Errorf("cell (2,2) lacks a transverse component: %v", right)
	}
	if math.Abs(right[1]+left[1]) > 1e-9*math.Abs(right[1]) {
		t.Errorf("By not antisymmetric across the loop plane: %v vs %v", right[1], left[1])
	}
	if math.Abs(right[2]) > 1e-9 {
		t.Errorf("cell (2,2) has Bz in the z = 0 plane: %v", right)
	}

	// Moving along the axis away from the winding weakens the field.
	if g.Data[1][2].Len() >= centre.Len() || g.Data[1][0].Len() >= centre.Len() {
		t.Errorf("axial neighbours should be weaker than the centre: %v %v %v", g.Data[1][0], centre, g.Data[1][2])
	}
}

func TestSampleField_Superposition(t *testing.T) {
	s, err := NewSampler(Config{Width: 5, Height: 4, ZHeight: 2, WorldOffset: mgl64.Vec3{-2, -2, 0}})
	if err != nil {
		t.Fatal(err)
	}

	a, _ := source.NewCoil(source.CoilConfig{Length: 5, Radius: 3, Turns: 2, Resolution: 16, Offset: 6})
	b, _ := source.NewCoil(source.CoilConfig{Length: 5, Radius: 3, Turns: 2, Resolution: 16, Offset: 6, Orientation: 2})
	a.SetCurrent(2)
	b.SetCurrent(-5)

	ctx := context.Background()
	ga, _ := s.SampleField(ctx, []field.Source{a.Source()})
	gb, _ := s.SampleField(ctx, []field.Source{b.Source()})
	gab, err := s.SampleField(ctx, []field.Source{a.Source(), b.Source()})
	if err != nil {
		t.Fatal(err)
	}
	sum, err := ga.Add(gb)
	if err != nil {
		t.Fatal(err)
	}

	for y := range gab.Data {
		for x := range gab.Data[y] {
			if d := gab.Data[y][x].Sub(sum.Data[y][x]).Len(); d > 1e-9*math.Max(1, sum.Data[y][x].Len()) {
				t.Errorf("cell (%d,%d): combined %v, summed %v", x, y, gab.Data[y][x], sum.Data[y][x])
			}
		}
	}
}

func TestSampleField_WorkersAgree(t *testing.T) {
	sources := loopSources(t)
	ctx := context.Background()

	serial, err := scenarioSampler(t, 1).SampleField(ctx, sources)
	if err != nil {
		t.Fatal(err)
	}
	wide, err := scenarioSampler(t, 3).SampleField(ctx, sources)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(serial.Data, wide.Data) {
		t.Error("grids differ between 1 and 3 workers")
	}
}

func TestSampleField_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := scenarioSampler(t, 2).SampleField(ctx, loopSources(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if g != nil {
		t.Error("expected no grid on cancellation")
	}
}

func TestSampleForce_CentreBalanced(t *testing.T) {
	g, err := scenarioSampler(t, 0).SampleForce(context.Background(), loopSources(t), nil)
	if err != nil {
		t.Fatalf("SampleForce failed: %v", err)
	}

	for y, row := range g.Data {
		for x, f := range row {
			if !field.IsFinite(f) {
				t.Errorf("cell (%d,%d) force not finite: %v", x, y, f)
			}
		}
	}

	corner := g.Data[2][2].Len()
	if corner == 0 {
		t.Fatal("expected a net force off the loop plane")
	}
	if centre := g.Data[1][1].Len(); centre > corner*1e-6 {
		t.Errorf("coaxial probe at the centre should feel no net force: %v (corner %v)", centre, corner)
	}
}

func TestSampleForce_ProbeError(t *testing.T) {
	gen := DipoleProbe(ProbeConfig{Radius: 0, Resolution: 8, Current: 1})
	_, err := scenarioSampler(t, 1).SampleForce(context.Background(), loopSources(t), gen)
	if !errors.Is(err, field.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestGrid_PeakAndMagnitudes(t *testing.T) {
	g := New(2, 2)
	g.Data[0][1] = mgl64.Vec3{3, 4, 0}
	g.Data[1][0] = mgl64.Vec3{1, 0, 0}

	v, x, y := g.Peak()
	if v != 5 || x != 1 || y != 0 {
		t.Errorf("Peak = %v at (%d,%d), want 5 at (1,0)", v, x, y)
	}
	if m := g.Magnitudes(); m[0][1] != 5 || m[1][0] != 1 || m[1][1] != 0 {
		t.Errorf("Magnitudes = %v", m)
	}
	if _, err := g.Add(New(3, 2)); !errors.Is(err, field.ErrInvalidConfig) {
		t.Errorf("Add size mismatch error = %v", err)
	}
}
