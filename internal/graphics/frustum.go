package graphics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FrustumPlane indexes the six planes of a Frustum
type FrustumPlane int

const (
	PlaneLeft FrustumPlane = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Frustum is the camera view volume as six inward-facing planes (nx, ny, nz, d).
// A point p is on the inner side of a plane when dot(n, p) + d >= 0.
type Frustum struct {
	Planes [6]mgl32.Vec4
}

// NewFrustum extracts the planes of a combined projection*view matrix.
// mgl32 matrices are column-major, so rows are read with Row rather than by index.
func NewFrustum(viewProj mgl32.Mat4) Frustum {
	r0 := viewProj.Row(0)
	r1 := viewProj.Row(1)
	r2 := viewProj.Row(2)
	r3 := viewProj.Row(3)

	var f Frustum
	f.Planes[PlaneLeft] = normalizePlane(r3.Add(r0))
	f.Planes[PlaneRight] = normalizePlane(r3.Sub(r0))
	f.Planes[PlaneBottom] = normalizePlane(r3.Add(r1))
	f.Planes[PlaneTop] = normalizePlane(r3.Sub(r1))
	f.Planes[PlaneNear] = normalizePlane(r3.Add(r2))
	f.Planes[PlaneFar] = normalizePlane(r3.Sub(r2))
	return f
}

// normalizePlane scales the plane to a unit normal. A degenerate plane becomes
// the zero plane, which every point, sphere and box passes.
func normalizePlane(p mgl32.Vec4) mgl32.Vec4 {
	length := math32.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	if length == 0 || math32.IsNaN(length) {
		return mgl32.Vec4{}
	}
	return p.Mul(1 / length)
}

func planeDistance(p mgl32.Vec4, x, y, z float32) float32 {
	return p[0]*x + p[1]*y + p[2]*z + p[3]
}

// PointVisible reports whether the point lies inside or on every plane
func (f *Frustum) PointVisible(point mgl32.Vec3) bool {
	for _, p := range f.Planes {
		if planeDistance(p, point[0], point[1], point[2]) < 0 {
			return false
		}
	}
	return true
}

// SphereVisible reports whether the sphere is not entirely behind any plane.
// Spheres straddling a plane count as visible.
func (f *Frustum) SphereVisible(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if planeDistance(p, center[0], center[1], center[2]) < -radius {
			return false
		}
	}
	return true
}

// AABBVisible tests the box's positive vertex against each plane.
// It may report boxes near frustum corners as visible but never culls a visible box.
func (f *Frustum) AABBVisible(min, max mgl32.Vec3) bool {
	for _, p := range f.Planes {
		px := max[0]
		if p[0] < 0 {
			px = min[0]
		}
		py := max[1]
		if p[1] < 0 {
			py = min[1]
		}
		pz := max[2]
		if p[2] < 0 {
			pz = min[2]
		}
		if planeDistance(p, px, py, pz) < 0 {
			return false
		}
	}
	return true
}
