package field

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SegmentField returns the contribution of one element carrying current at p.
func SegmentField(seg Segment, current float64, p mgl64.Vec3) mgl64.Vec3 {
	r := p.Sub(seg.Position)
	r2 := r.Dot(r)
	if r2 == 0 || seg.Degenerate() {
		return mgl64.Vec3{}
	}
	rLen := math.Sqrt(r2)
	// dL x r̂ / r² == dL x r / r³
	return seg.Direction.Cross(r).Mul(current / (r2 * rLen))
}

// SegmentsField sums the field of every element of one winding at p.
func SegmentsField(segments []Segment, current float64, p mgl64.Vec3) mgl64.Vec3 {
	if current == 0 {
		return mgl64.Vec3{}
	}
	var bx, by, bz float64
	for i := range segments {
		d := segments[i].Direction
		rx := p[0] - segments[i].Position[0]
		ry := p[1] - segments[i].Position[1]
		rz := p[2] - segments[i].Position[2]
		r2 := rx*rx + ry*ry + rz*rz
		if r2 == 0 {
			continue
		}
		cx := d[1]*rz - d[2]*ry
		cy := d[2]*rx - d[0]*rz
		cz := d[0]*ry - d[1]*rx
		inv := 1 / (r2 * math.Sqrt(r2))
		bx += cx * inv
		by += cy * inv
		bz += cz * inv
	}
	return mgl64.Vec3{bx * current, by * current, bz * current}
}

// FieldAt superposes the field of every source at p.
func FieldAt(sources []Source, p mgl64.Vec3) mgl64.Vec3 {
	var b mgl64.Vec3
	for _, s := range sources {
		b = b.Add(SegmentsField(s.Segments, s.Current, p))
	}
	return b
}

// Force is the Lorentz force on an element carrying current in field b.
// The convention is F = I * (dL x B) for every kind of winding.
func Force(seg Segment, current float64, b mgl64.Vec3) mgl64.Vec3 {
	return seg.Direction.Cross(b).Mul(current)
}

// ForceOnSegment evaluates the field of sources at the probe start and
// returns the force on the probe carrying current.
func ForceOnSegment(sources []Source, probe Segment, current float64) mgl64.Vec3 {
	if current == 0 || probe.Degenerate() {
		return mgl64.Vec3{}
	}
	return Force(probe, current, FieldAt(sources, probe.Position))
}

// ForceOn sums the force of sources on every element of probe.
func ForceOn(sources []Source, probe Source) mgl64.Vec3 {
	var f mgl64.Vec3
	for _, seg := range probe.Segments {
		f = f.Add(ForceOnSegment(sources, seg, probe.Current))
	}
	return f
}

// TorqueZ returns the z component of position x force, the torque a force
// applied at position exerts about the z axis.
func TorqueZ(position, force mgl64.Vec3) float64 {
	return position[0]*force[1] - position[1]*force[0]
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
