// Package export renders torque curves, field maps and coil geometry to
// image files with gonum/plot. The output format follows the file
// extension (.png, .svg, .pdf, ...).
package export

import (
	"io"
	"math"
	"sort"

	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/motor"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// TorquePlot draws torque against sweep angle in degrees.
func TorquePlot(samples []motor.TorqueSample, title string) (*plot.Plot, error) {
	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i] = plotter.XY{X: s.Angle * 180 / math.Pi, Y: s.Torque}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "angle (deg)"
	p.Y.Label.Text = "torque"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	return p, nil
}

// magnitudeGrid adapts a sampled grid to plotter.GridXYZ in world units.
type magnitudeGrid struct {
	cfg grid.Config
	mag [][]float64
}

func (m magnitudeGrid) Dims() (c, r int)   { return m.cfg.Width, m.cfg.Height }
func (m magnitudeGrid) Z(c, r int) float64 { return m.mag[r][c] }
func (m magnitudeGrid) X(c int) float64    { return m.cfg.World(c, 0)[0] }
func (m magnitudeGrid) Y(r int) float64    { return m.cfg.World(0, r)[1] }

// FieldPlot draws |B| (or |F| for a force grid) as a heat map. Cells are
// clamped to clip times the median magnitude so the winding singularities
// do not wash out the rest of the map; clip <= 0 disables clamping.
func FieldPlot(g *grid.Grid, cfg grid.Config, title string, clip float64) (*plot.Plot, error) {
	if g.Width != cfg.Width || g.Height != cfg.Height {
		return nil, field.Invalid("grid size", [2]int{g.Width, g.Height}, "must match the sampler window")
	}

	mag := g.Magnitudes()
	if limit := clip * median(mag); limit > 0 {
		for _, row := range mag {
			for i, v := range row {
				if v > limit {
					row[i] = limit
				}
			}
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	hm := plotter.NewHeatMap(magnitudeGrid{cfg: cfg, mag: mag}, palette.Heat(32, 1))
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)
	return p, nil
}

// GeometryPlot projects every source onto the xy plane.
func GeometryPlot(coils, magnets []field.Source, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	add := func(sources []field.Source, shade int) error {
		for _, src := range sources {
			if len(src.Segments) == 0 {
				continue
			}
			pts := make(plotter.XYs, 0, len(src.Segments)+1)
			for _, s := range src.Segments {
				pts = append(pts, plotter.XY{X: s.Position[0], Y: s.Position[1]})
			}
			end := src.Segments[len(src.Segments)-1].End()
			pts = append(pts, plotter.XY{X: end[0], Y: end[1]})

			line, err := plotter.NewLine(pts)
			if err != nil {
				return err
			}
			line.Color = plotutil.Color(shade)
			p.Add(line)
		}
		return nil
	}
	if err := add(coils, 0); err != nil {
		return nil, err
	}
	if err := add(magnets, 1); err != nil {
		return nil, err
	}
	return p, nil
}

func median(rows [][]float64) float64 {
	var flat []float64
	for _, row := range rows {
		for _, v := range row {
			if !math.IsInf(v, 0) && !math.IsNaN(v) {
				flat = append(flat, v)
			}
		}
	}
	if len(flat) == 0 {
		return 0
	}
	sort.Float64s(flat)
	return stat.Quantile(0.5, stat.Empirical, flat, nil)
}

// Save writes p to path in the format its extension names.
func Save(p *plot.Plot, path string) error {
	return p.Save(DefaultWidth, DefaultHeight, path)
}

// Write encodes p in format ("png", "svg", ...) to w.
func Write(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
