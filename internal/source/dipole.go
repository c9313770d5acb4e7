package source

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/geometry"
)

// Polar places a loop at a radial offset from the motor axis, lifted by
// Height and turned about z by Orientation. The loop axis points radially.
type Polar struct {
	Offset      float64
	Height      float64
	Orientation float64
}

// Cartesian centres a loop at Position, with its axis turned about z by
// Orientation.
type Cartesian struct {
	Position    mgl64.Vec3
	Orientation float64
}

// Dipole is a single closed current loop.
type Dipole struct {
	segments    []field.Segment
	current     float64
	radius      float64
	orientation float64
	centre      mgl64.Vec3
}

func NewPolarDipole(p Polar, current, radius float64, resolution int) (*Dipole, error) {
	w := geometry.Loop(radius, resolution)
	w.Offset = p.Offset
	w.Height = p.Height
	w.Orientation = p.Orientation
	return newDipole(w, current, geometry.Apply(
		geometry.OrientationTransform(p.Orientation, p.Height, mgl64.Vec2{}),
		mgl64.Vec3{p.Offset, 0, 0},
	))
}

func NewCartesianDipole(c Cartesian, current, radius float64, resolution int) (*Dipole, error) {
	w := geometry.Loop(radius, resolution)
	w.Orientation = c.Orientation
	w.Height = c.Position[2]
	w.Position = mgl64.Vec2{c.Position[0], c.Position[1]}
	return newDipole(w, current, c.Position)
}

func newDipole(w geometry.Winding, current float64, centre mgl64.Vec3) (*Dipole, error) {
	if w.Radius <= 0 {
		return nil, field.Invalid("dipole radius", w.Radius, "must be positive")
	}
	segs, err := geometry.Generate(w)
	if err != nil {
		return nil, err
	}
	return &Dipole{
		segments:    segs,
		current:     current,
		radius:      w.Radius,
		orientation: w.Orientation,
		centre:      centre,
	}, nil
}

func (d *Dipole) Current() float64          { return d.current }
func (d *Dipole) Radius() float64           { return d.radius }
func (d *Dipole) Orientation() float64      { return d.orientation }
func (d *Dipole) Centre() mgl64.Vec3        { return d.centre }
func (d *Dipole) Segments() []field.Segment { return d.segments }

func (d *Dipole) Source() field.Source {
	return field.Source{Segments: d.segments, Current: d.current}
}

// Axis is the unit normal of the loop plane, the direction of its moment
// for positive current.
func (d *Dipole) Axis() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(d.orientation), math.Sin(d.orientation), 0}
}

// Moment is current × enclosed area × axis.
func (d *Dipole) Moment() mgl64.Vec3 {
	return d.Axis().Mul(d.current * math.Pi * d.radius * d.radius)
}

func (d *Dipole) FieldAt(p mgl64.Vec3) mgl64.Vec3 {
	return field.SegmentsField(d.segments, d.current, p)
}

// ForceOnSegment returns the force this loop's field exerts on a foreign
// element carrying current.
func (d *Dipole) ForceOnSegment(seg field.Segment, current float64) mgl64.Vec3 {
	return field.ForceOnSegment([]field.Source{d.Source()}, seg, current)
}
