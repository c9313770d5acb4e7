// Package geometry discretizes coils and current loops into wire segments.
//
// A winding is swept by repeatedly applying a step transform (advance along
// the local x axis, rotate about it) to a point on its rim, then placing
// every swept point in world space with a fixed orientation transform
// (rotate about z, lift along z, shift in the xy plane).
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
)

// Winding describes a helical coil or, with Turns == 1 and Length == 0,
// a single circular loop. The winding axis is the local x axis.
type Winding struct {
	Length      float64    // axial length of the whole winding
	Radius      float64    // distance of the wire from the axis
	Turns       int        // number of full turns
	Resolution  int        // segments per turn
	Orientation float64    // rotation about world z, radians
	Offset      float64    // start of the winding along the local x axis
	Height      float64    // lift along world z
	Position    mgl64.Vec2 // world xy shift applied after orientation
}

// Loop returns a single-turn winding of the given radius and resolution.
func Loop(radius float64, resolution int) Winding {
	return Winding{Radius: radius, Turns: 1, Resolution: resolution}
}

func (w Winding) Validate() error {
	if w.Resolution <= 0 {
		return field.Invalid("resolution", w.Resolution, "must be positive")
	}
	if w.Turns <= 0 {
		return field.Invalid("turns", w.Turns, "must be positive")
	}
	if w.Radius < 0 || math.IsNaN(w.Radius) {
		return field.Invalid("radius", w.Radius, "must not be negative")
	}
	if w.Length < 0 || math.IsNaN(w.Length) {
		return field.Invalid("length", w.Length, "must not be negative")
	}
	return nil
}

// SegmentCount is turns × resolution.
func (w Winding) SegmentCount() int { return w.Turns * w.Resolution }

// StepLength is the axial advance per segment.
func (w Winding) StepLength() float64 {
	return (w.Length / float64(w.Turns)) / float64(w.Resolution)
}

// StepAngle is the rotation about the winding axis per segment.
func (w Winding) StepAngle() float64 {
	return 2 * math.Pi / float64(w.Resolution)
}
