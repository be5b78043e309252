package graphics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a bare projection. Where it sits comes from a separate transform
// passed to the renderer, and it carries no frustum, so scenes begun with it
// are never culled.
type Camera struct {
	Projection mgl32.Mat4
}

// NewPerspectiveCamera builds a plain camera with a perspective projection
func NewPerspectiveCamera(fovDeg, aspect, near, far float32) Camera {
	return Camera{Projection: mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)}
}

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera3D is a perspective camera that keeps its frustum in sync with its
// view and projection matrices.
type Camera3D struct {
	fov    float32 // degrees
	aspect float32
	near   float32
	far    float32

	position   mgl32.Vec3
	front      mgl32.Vec3
	rotation   mgl32.Vec3 // pitch, yaw, roll in radians
	focalPoint mgl32.Vec3

	projection mgl32.Mat4
	view       mgl32.Mat4
	viewProj   mgl32.Mat4
	frustum    Frustum
}

// NewCamera3D creates a camera at the origin looking down +Z
func NewCamera3D(fovDeg, aspect, near, far float32) *Camera3D {
	c := &Camera3D{
		fov:    fovDeg,
		aspect: aspect,
		near:   near,
		far:    far,
		front:  mgl32.Vec3{0, 0, 1},
	}
	c.recalculateProjection()
	c.recalculateView()
	return c
}

// SetPerspective replaces all projection parameters at once
func (c *Camera3D) SetPerspective(fovDeg, aspect, near, far float32) {
	c.fov, c.aspect, c.near, c.far = fovDeg, aspect, near, far
	c.recalculateProjection()
}

// SetViewport updates the aspect ratio. Zero sizes (minimised windows) are ignored.
func (c *Camera3D) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	c.recalculateProjection()
}

// SetFOV changes the vertical field of view in degrees
func (c *Camera3D) SetFOV(fovDeg float32) {
	c.fov = fovDeg
	c.recalculateProjection()
}

func (c *Camera3D) FOV() float32         { return c.fov }
func (c *Camera3D) AspectRatio() float32 { return c.aspect }
func (c *Camera3D) NearClip() float32    { return c.near }
func (c *Camera3D) FarClip() float32     { return c.far }

func (c *Camera3D) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.recalculateView()
}

func (c *Camera3D) Position() mgl32.Vec3 { return c.position }

// SetRotation sets pitch (x) and yaw (y) in radians and derives the forward
// vector from them. Yaw 0 looks down +Z, positive pitch looks up.
func (c *Camera3D) SetRotation(r mgl32.Vec3) {
	c.rotation = r
	c.front = ForwardFromPitchYaw(r[0], r[1])
	c.recalculateView()
}

func (c *Camera3D) Rotation() mgl32.Vec3 { return c.rotation }

// SetForward points the camera along dir and updates pitch/yaw to match
func (c *Camera3D) SetForward(dir mgl32.Vec3) {
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()
	c.front = dir
	c.rotation = mgl32.Vec3{math32.Asin(dir[1]), math32.Atan2(dir[0], dir[2]), c.rotation[2]}
	c.recalculateView()
}

func (c *Camera3D) Forward() mgl32.Vec3 { return c.front }

// Right is derived from yaw alone when looking straight up or down
func (c *Camera3D) Right() mgl32.Vec3 {
	r := c.front.Cross(worldUp)
	if r.Len() < 1e-6 {
		yaw := c.rotation[1]
		return mgl32.Vec3{-math32.Cos(yaw), 0, math32.Sin(yaw)}
	}
	return r.Normalize()
}

func (c *Camera3D) Up() mgl32.Vec3 { return worldUp }

// SetFocalPoint sets the point orbit controllers circle around
func (c *Camera3D) SetFocalPoint(p mgl32.Vec3) { c.focalPoint = p }
func (c *Camera3D) FocalPoint() mgl32.Vec3     { return c.focalPoint }

func (c *Camera3D) Projection() mgl32.Mat4     { return c.projection }
func (c *Camera3D) View() mgl32.Mat4           { return c.view }
func (c *Camera3D) ViewProjection() mgl32.Mat4 { return c.viewProj }

// Frustum returns the planes for the current view-projection
func (c *Camera3D) Frustum() *Frustum { return &c.frustum }

func (c *Camera3D) PointInFrustum(p mgl32.Vec3) bool { return c.frustum.PointVisible(p) }

func (c *Camera3D) SphereInFrustum(center mgl32.Vec3, radius float32) bool {
	return c.frustum.SphereVisible(center, radius)
}

func (c *Camera3D) AABBInFrustum(min, max mgl32.Vec3) bool { return c.frustum.AABBVisible(min, max) }

func (c *Camera3D) recalculateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
	c.recalculateFrustum()
}

func (c *Camera3D) recalculateView() {
	up := c.Right().Cross(c.front)
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.front), up)
	c.recalculateFrustum()
}

func (c *Camera3D) recalculateFrustum() {
	c.viewProj = c.projection.Mul4(c.view)
	c.frustum = NewFrustum(c.viewProj)
}

// ForwardFromPitchYaw converts pitch/yaw radians to a unit direction
func ForwardFromPitchYaw(pitch, yaw float32) mgl32.Vec3 {
	cp := math32.Cos(pitch)
	return mgl32.Vec3{cp * math32.Sin(yaw), math32.Sin(pitch), cp * math32.Cos(yaw)}.Normalize()
}
