package geometry

import "github.com/go-gl/mathgl/mgl64"

// StepTransform advances one segment along the local x axis and rotates
// about it.
func StepTransform(step, dTheta float64) mgl64.Mat4 {
	return mgl64.Translate3D(step, 0, 0).Mul4(mgl64.HomogRotate3DX(dTheta))
}

// OrientationTransform rotates about world z by angle, then lifts by height
// and shifts by position.
func OrientationTransform(angle, height float64, position mgl64.Vec2) mgl64.Mat4 {
	return mgl64.Translate3D(position[0], position[1], height).Mul4(mgl64.HomogRotate3DZ(angle))
}

// Apply transforms a point in homogeneous coordinates.
func Apply(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// RotateZ rotates a vector about the world z axis.
func RotateZ(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	return mgl64.Rotate3DZ(angle).Mul3x1(v)
}
