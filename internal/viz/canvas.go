package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const blank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells. Each cell holds 2x4 sub-pixels, so a
// Width x Height canvas addresses (2*Width) x (4*Height) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set lights the sub-pixel (x, y). Points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Unset clears a sub-pixel.
func (c *Canvas) Unset(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	col, row, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) cell(x, y int) (int, int, bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return col, row, true
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawSources projects every segment onto the xy plane and draws it.
func (c *Canvas) DrawSources(p Projection, sources []field.Source) {
	for _, src := range sources {
		for _, seg := range src.Segments {
			x0, y0 := p.Project(seg.Position)
			x1, y1 := p.Project(seg.End())
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Projection maps world xy onto canvas dots with equal scale on both axes
// and world +y pointing up.
type Projection struct {
	Centre mgl64.Vec2
	Scale  float64 // dots per world unit
	DotsX  int
	DotsY  int
}

// FitProjection centres the bounding box of sources on a canvas and scales it
// to fill the canvas with a one dot margin. An empty or point-like set maps
// one world unit to one dot.
func FitProjection(c *Canvas, sources []field.Source) Projection {
	dx, dy := c.Dots()
	p := Projection{Scale: 1, DotsX: dx, DotsY: dy}

	lo := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, src := range sources {
		for _, seg := range src.Segments {
			for _, pt := range [2]mgl64.Vec3{seg.Position, seg.End()} {
				lo = mgl64.Vec2{math.Min(lo[0], pt[0]), math.Min(lo[1], pt[1])}
				hi = mgl64.Vec2{math.Max(hi[0], pt[0]), math.Max(hi[1], pt[1])}
			}
		}
	}
	if math.IsInf(lo[0], 1) {
		return p
	}
	p.Centre = lo.Add(hi).Mul(0.5)

	span := hi.Sub(lo)
	sx, sy := math.Inf(1), math.Inf(1)
	if span[0] > 0 {
		sx = float64(dx-2) / span[0]
	}
	if span[1] > 0 {
		sy = float64(dy-2) / span[1]
	}
	if s := math.Min(sx, sy); !math.IsInf(s, 1) && s > 0 {
		p.Scale = s
	}
	return p
}

// Project returns the dot that a world point lands on.
func (p Projection) Project(v mgl64.Vec3) (int, int) {
	x := (v[0]-p.Centre[0])*p.Scale + float64(p.DotsX)/2
	y := float64(p.DotsY)/2 - (v[1]-p.Centre[1])*p.Scale
	return int(math.Round(x)), int(math.Round(y))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
