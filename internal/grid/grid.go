// Package grid samples fields and probe forces over a rectangular window of
// world space.
//
// A Grid is indexed Data[y][x]. Cell (x, y) sits at world position
// (x, y, ZHeight) + WorldOffset, so the default offset of (-w/2, -h/2, 0)
// centres the window on the motor axis.
package grid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
)

type Grid struct {
	Width  int
	Height int
	Data   [][]mgl64.Vec3
}

// New allocates a zeroed grid backed by one contiguous slice.
func New(width, height int) *Grid {
	backing := make([]mgl64.Vec3, width*height)
	data := make([][]mgl64.Vec3, height)
	for y := range data {
		data[y] = backing[y*width : (y+1)*width : (y+1)*width]
	}
	return &Grid{Width: width, Height: height, Data: data}
}

func (g *Grid) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

func (g *Grid) At(x, y int) (mgl64.Vec3, error) {
	if !g.In(x, y) {
		return mgl64.Vec3{}, &field.BoundsError{X: x, Y: y, Width: g.Width, Height: g.Height}
	}
	return g.Data[y][x], nil
}

func (g *Grid) Row(y int) ([]mgl64.Vec3, error) {
	if y < 0 || y >= g.Height {
		return nil, &field.BoundsError{X: 0, Y: y, Width: g.Width, Height: g.Height}
	}
	return g.Data[y], nil
}

// Magnitudes returns |v| for every cell, indexed like Data.
func (g *Grid) Magnitudes() [][]float64 {
	out := make([][]float64, g.Height)
	for y, row := range g.Data {
		out[y] = make([]float64, g.Width)
		for x, v := range row {
			out[y][x] = v.Len()
		}
	}
	return out
}

// Peak returns the largest finite magnitude and its cell.
func (g *Grid) Peak() (value float64, x, y int) {
	for j, row := range g.Data {
		for i, v := range row {
			if m := v.Len(); m > value && !math.IsInf(m, 0) {
				value, x, y = m, i, j
			}
		}
	}
	return value, x, y
}

// Add returns the cell-wise sum of two grids of equal size.
func (g *Grid) Add(o *Grid) (*Grid, error) {
	if g.Width != o.Width || g.Height != o.Height {
		return nil, field.Invalid("grid size", [2]int{o.Width, o.Height}, "must match")
	}
	out := New(g.Width, g.Height)
	for y := range g.Data {
		for x := range g.Data[y] {
			out.Data[y][x] = g.Data[y][x].Add(o.Data[y][x])
		}
	}
	return out, nil
}
