package export

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/motor"
	"github.com/san-kum/magsim/internal/source"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestTorquePlot(t *testing.T) {
	samples := make([]motor.TorqueSample, 24)
	for i := range samples {
		a := 2 * math.Pi * float64(i) / 24
		samples[i] = motor.TorqueSample{Angle: a, Torque: 1 + 0.2*math.Sin(6*a)}
	}

	p, err := TorquePlot(samples, "ripple")
	if err != nil {
		t.Fatalf("TorquePlot failed: %v", err)
	}
	if p.Title.Text != "ripple" {
		t.Errorf("title = %q", p.Title.Text)
	}
	if p.X.Max < 340 || p.X.Max > 360 {
		t.Errorf("x axis should span degrees, max = %v", p.X.Max)
	}

	var buf bytes.Buffer
	if err := Write(&buf, p, "png"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestFieldPlot(t *testing.T) {
	cfg := grid.Config{Width: 4, Height: 3, WorldOffset: mgl64.Vec3{-2, -1, 0}}
	g := grid.New(4, 3)
	for y := range g.Data {
		for x := range g.Data[y] {
			g.Data[y][x] = mgl64.Vec3{float64(x + y), 0, 0}
		}
	}
	g.Data[1][1] = mgl64.Vec3{1e9, 0, 0}

	p, err := FieldPlot(g, cfg, "|B|", 4)
	if err != nil {
		t.Fatalf("FieldPlot failed: %v", err)
	}
	if p.X.Min > -2 || p.X.Max < 1 {
		t.Errorf("x axis should cover world x, got [%v, %v]", p.X.Min, p.X.Max)
	}
	if p.Y.Max > 1e6 {
		t.Errorf("y axis should be world y, got max %v", p.Y.Max)
	}

	path := filepath.Join(t.TempDir(), "field.png")
	if err := Save(p, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("saved file is not a PNG")
	}
}

func TestFieldPlot_FlatAndMismatched(t *testing.T) {
	cfg := grid.Config{Width: 2, Height: 2}
	p, err := FieldPlot(grid.New(2, 2), cfg, "zero", 4)
	if err != nil {
		t.Fatalf("FieldPlot failed: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, p, "svg"); err != nil {
		t.Fatalf("flat grid should still render: %v", err)
	}

	if _, err := FieldPlot(grid.New(3, 2), cfg, "bad", 0); !errors.Is(err, field.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestGeometryPlot(t *testing.T) {
	coil, err := source.NewCoil(source.CoilConfig{Length: 10, Radius: 3, Turns: 2, Resolution: 8, Offset: 10})
	if err != nil {
		t.Fatal(err)
	}
	dip, err := source.NewPolarDipole(source.Polar{Offset: 5, Orientation: 1}, 1, 1, 6)
	if err != nil {
		t.Fatal(err)
	}

	p, err := GeometryPlot([]field.Source{coil.Source()}, []field.Source{dip.Source(), {}}, "geometry")
	if err != nil {
		t.Fatalf("GeometryPlot failed: %v", err)
	}
	if p.X.Max < 19.9 {
		t.Errorf("x axis should reach the coil end at 20, got %v", p.X.Max)
	}
}
