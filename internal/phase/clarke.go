// Package phase converts between three-phase (U/V/W) and two-axis (α/β)
// current representations and drives coil groups from a current vector.
package phase

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// UVW is a three-phase current triple.
type UVW [3]float64

// AlphaBeta is a stationary two-axis current vector.
type AlphaBeta [2]float64

// Sum is zero for a balanced triple.
func (u UVW) Sum() float64 { return u[0] + u[1] + u[2] }

// Angle returns the direction of the vector in radians.
func (ab AlphaBeta) Angle() float64 { return math.Atan2(ab[1], ab[0]) }

// Magnitude returns the vector length.
func (ab AlphaBeta) Magnitude() float64 { return math.Hypot(ab[0], ab[1]) }

// Polar builds an α/β vector of the given magnitude pointing at angle.
func Polar(angle, magnitude float64) AlphaBeta {
	return AlphaBeta{magnitude * math.Cos(angle), magnitude * math.Sin(angle)}
}

var (
	sqrt3 = math.Sqrt(3)

	// (2/3)·[[1, -1/2, -1/2], [0, √3/2, -√3/2]]
	clarkeMat = func() *mat.Dense {
		m := mat.NewDense(2, 3, []float64{
			1, -0.5, -0.5,
			0, sqrt3 / 2, -sqrt3 / 2,
		})
		m.Scale(2.0/3.0, m)
		return m
	}()

	// (3/2)·[[2/3, 0], [-1/3, √3/3], [-1/3, -√3/3]]
	inverseClarkeMat = func() *mat.Dense {
		m := mat.NewDense(3, 2, []float64{
			2.0 / 3.0, 0,
			-1.0 / 3.0, sqrt3 / 3,
			-1.0 / 3.0, -sqrt3 / 3,
		})
		m.Scale(1.5, m)
		return m
	}()
)

// Clarke maps a three-phase triple onto the α/β plane.
func Clarke(u UVW) AlphaBeta {
	var out mat.VecDense
	out.MulVec(clarkeMat, mat.NewVecDense(3, u[:]))
	return AlphaBeta{out.AtVec(0), out.AtVec(1)}
}

// InverseClarke maps an α/β vector onto a balanced three-phase triple.
func InverseClarke(ab AlphaBeta) UVW {
	var out mat.VecDense
	out.MulVec(inverseClarkeMat, mat.NewVecDense(2, ab[:]))
	return UVW{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}
