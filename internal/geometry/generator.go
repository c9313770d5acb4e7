package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
)

// Generate sweeps the winding into an ordered, continuous list of segments.
func Generate(w Winding) ([]field.Segment, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	step := StepTransform(w.StepLength(), w.StepAngle())
	orient := OrientationTransform(w.Orientation, w.Height, w.Position)

	n := w.SegmentCount()
	segs := make([]field.Segment, n)

	end := mgl64.Vec4{w.Offset, w.Radius, 0, 1}
	worldEnd := orient.Mul4x1(end).Vec3()
	for i := 0; i < n; i++ {
		worldStart := worldEnd
		end = step.Mul4x1(end)
		worldEnd = orient.Mul4x1(end).Vec3()

		segs[i] = field.Segment{
			Position:  worldStart,
			Direction: worldEnd.Sub(worldStart),
		}
	}
	return segs, nil
}

// MustGenerate is Generate for windings known to be valid.
func MustGenerate(w Winding) []field.Segment {
	segs, err := Generate(w)
	if err != nil {
		panic(err)
	}
	return segs
}

// Bounds returns the axis-aligned bounding box of a segment list.
func Bounds(segs []field.Segment) (lo, hi mgl64.Vec3) {
	if len(segs) == 0 {
		return
	}
	lo, hi = segs[0].Position, segs[0].Position
	for _, s := range segs {
		for _, p := range []mgl64.Vec3{s.Position, s.End()} {
			for k := 0; k < 3; k++ {
				if p[k] < lo[k] {
					lo[k] = p[k]
				}
				if p[k] > hi[k] {
					hi[k] = p[k]
				}
			}
		}
	}
	return
}
