package graphics

import "github.com/go-gl/mathgl/mgl32"

// ComposeTransform builds T * Rz * Ry * Rx * S from a position, a scale and
// Euler rotation angles in degrees. The Z-Y-X order is the one camera
// controllers assume when recombining pitch and yaw; do not reorder.
func ComposeTransform(position, scale, rotationDeg mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Translate3D(position[0], position[1], position[2])
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotationDeg[2])))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotationDeg[1])))
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotationDeg[0])))
	return m.Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// TranslateScale is ComposeTransform without rotation
func TranslateScale(position, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// AxisScale returns the length of each of the transform's first three basis columns
func AxisScale(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
}

// MaxAxisScale is the largest of AxisScale's components
func MaxAxisScale(m mgl32.Mat4) float32 {
	s := AxisScale(m)
	return max(s[0], s[1], s[2])
}

// Translation returns the transform's translation column
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}
