package source

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/geometry"
)

type CoilConfig struct {
	Length      float64    `yaml:"length"`
	Radius      float64    `yaml:"radius"`
	Turns       int        `yaml:"turns"`
	Resolution  int        `yaml:"resolution"`
	Orientation float64    `yaml:"orientation"`
	Position    mgl64.Vec2 `yaml:"position,flow"`
	Offset      float64    `yaml:"offset"`
}

func (c CoilConfig) winding() geometry.Winding {
	return geometry.Winding{
		Length:      c.Length,
		Radius:      c.Radius,
		Turns:       c.Turns,
		Resolution:  c.Resolution,
		Orientation: c.Orientation,
		Offset:      c.Offset,
		Position:    c.Position,
	}
}

// Coil is a continuous helical winding. The sign of the current encodes
// both winding sense and current direction.
type Coil struct {
	cfg      CoilConfig
	segments []field.Segment
	current  float64
}

func NewCoil(cfg CoilConfig) (*Coil, error) {
	segs, err := geometry.Generate(cfg.winding())
	if err != nil {
		return nil, err
	}
	return &Coil{cfg: cfg, segments: segs}, nil
}

func (c *Coil) Config() CoilConfig        { return c.cfg }
func (c *Coil) Current() float64          { return c.current }
func (c *Coil) SetCurrent(i float64)      { c.current = i }
func (c *Coil) Orientation() float64      { return c.cfg.Orientation }
func (c *Coil) Segments() []field.Segment { return c.segments }

// Source returns a view of the winding carrying the present current.
func (c *Coil) Source() field.Source {
	return field.Source{Segments: c.segments, Current: c.current}
}

func (c *Coil) FieldAt(p mgl64.Vec3) mgl64.Vec3 {
	return field.SegmentsField(c.segments, c.current, p)
}

// ForceOnSegment returns the force this coil's field exerts on a foreign
// element carrying current.
func (c *Coil) ForceOnSegment(seg field.Segment, current float64) mgl64.Vec3 {
	return field.ForceOnSegment([]field.Source{c.Source()}, seg, current)
}
