package field

import "github.com/go-gl/mathgl/mgl64"

// Segment is an oriented differential current element. Direction is the
// full dL vector, so its length is the element length.
type Segment struct {
	Position  mgl64.Vec3
	Direction mgl64.Vec3
}

func (s Segment) Length() float64 { return s.Direction.Len() }

// End returns the point the element runs to.
func (s Segment) End() mgl64.Vec3 { return s.Position.Add(s.Direction) }

// Midpoint returns the centre of the element.
func (s Segment) Midpoint() mgl64.Vec3 { return s.Position.Add(s.Direction.Mul(0.5)) }

// Degenerate reports whether the element has zero length.
func (s Segment) Degenerate() bool {
	return s.Direction.Dot(s.Direction) == 0
}

// Source is a read-only view of a segment list carrying one current.
// Segments is shared with its owner and must not be modified.
type Source struct {
	Segments []Segment
	Current  float64
}

func (s Source) Len() int { return len(s.Segments) }

// Scaled returns the same geometry with the current multiplied by k.
func (s Source) Scaled(k float64) Source {
	return Source{Segments: s.Segments, Current: s.Current * k}
}

// CountSegments returns the total number of elements over all sources.
func CountSegments(sources []Source) int {
	n := 0
	for _, s := range sources {
		n += len(s.Segments)
	}
	return n
}
