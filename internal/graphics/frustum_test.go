package graphics

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// lookingDownNegZ is a camera at (0, 0, 5) looking at the origin
func lookingDownNegZ() *Camera3D {
	c := NewCamera3D(60, 16.0/9.0, 0.1, 100)
	c.SetPosition(mgl32.Vec3{0, 0, 5})
	c.SetForward(mgl32.Vec3{0, 0, -1})
	return c
}

func TestFrustumPlanesAreNormalized(t *testing.T) {
	cams := []*Camera3D{
		lookingDownNegZ(),
		NewCamera3D(90, 1, 0.5, 50),
		NewCamera3D(30, 4.0/3.0, 1, 1000),
	}
	cams[1].SetRotation(mgl32.Vec3{0.3, 1.2, 0})
	cams[2].SetPosition(mgl32.Vec3{10, -4, 7})

	for _, c := range cams {
		for i, p := range c.Frustum().Planes {
			assert.InDelta(t, 1.0, p.Vec3().Len(), 1e-4, "plane %d", i)
		}
	}
}

func TestIdentityFrustumIsClipCube(t *testing.T) {
	f := NewFrustum(mgl32.Ident4())

	assert.True(t, f.PointVisible(mgl32.Vec3{0.5, -0.5, 0.5}))
	assert.True(t, f.PointVisible(mgl32.Vec3{1, 1, 1}), "boundary counts as inside")
	assert.False(t, f.PointVisible(mgl32.Vec3{1.5, 0, 0}))
	assert.False(t, f.PointVisible(mgl32.Vec3{0, -1.01, 0}))
	assert.False(t, f.PointVisible(mgl32.Vec3{0, 0, 2}))

	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, f.Planes[PlaneLeft])
	assert.Equal(t, mgl32.Vec4{-1, 0, 0, 1}, f.Planes[PlaneRight])
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, f.Planes[PlaneNear])
	assert.Equal(t, mgl32.Vec4{0, 0, -1, 1}, f.Planes[PlaneFar])
}

func TestPointVisibility(t *testing.T) {
	f := lookingDownNegZ().Frustum()

	tests := []struct {
		name    string
		point   mgl32.Vec3
		visible bool
	}{
		{"origin in front", mgl32.Vec3{0, 0, 0}, true},
		{"behind camera", mgl32.Vec3{0, 0, 10}, false},
		{"beyond far plane", mgl32.Vec3{0, 0, -200}, false},
		{"far to the left", mgl32.Vec3{-50, 0, 0}, false},
		{"far above", mgl32.Vec3{0, 50, 0}, false},
		{"slightly off axis", mgl32.Vec3{1, 1, -10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.visible, f.PointVisible(tt.point))
		})
	}
}

func TestZeroRadiusSphereMatchesPoint(t *testing.T) {
	f := lookingDownNegZ().Frustum()
	for x := float32(-30); x <= 30; x += 7.5 {
		for y := float32(-30); y <= 30; y += 7.5 {
			for z := float32(-120); z <= 20; z += 9.5 {
				p := mgl32.Vec3{x, y, z}
				assert.Equal(t, f.PointVisible(p), f.SphereVisible(p, 0), "point %v", p)
			}
		}
	}
}

func TestSphereStraddlingPlaneIsVisible(t *testing.T) {
	f := lookingDownNegZ().Frustum()
	center := mgl32.Vec3{0, 0, 6} // one unit behind the camera
	assert.False(t, f.SphereVisible(center, 0.5))
	assert.True(t, f.SphereVisible(center, 2))
}

func TestAABBVisibility(t *testing.T) {
	f := lookingDownNegZ().Frustum()

	assert.True(t, f.AABBVisible(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))
	assert.False(t, f.AABBVisible(mgl32.Vec3{-1, -1, 8}, mgl32.Vec3{1, 1, 9}), "behind camera")
	assert.True(t, f.AABBVisible(mgl32.Vec3{-1, -1, 4}, mgl32.Vec3{1, 1, 9}), "contains the camera")
	assert.False(t, f.AABBVisible(mgl32.Vec3{100, 0, -1}, mgl32.Vec3{101, 1, 0}), "off to the right")
}

func TestAABBNeverCullsVisiblePoints(t *testing.T) {
	f := lookingDownNegZ().Frustum()
	half := mgl32.Vec3{0.75, 0.75, 0.75}
	for x := float32(-20); x <= 20; x += 2.5 {
		for z := float32(-110); z <= 10; z += 5 {
			c := mgl32.Vec3{x, 0, z}
			if f.PointVisible(c) {
				assert.True(t, f.AABBVisible(c.Sub(half), c.Add(half)), "box around %v", c)
			}
		}
	}
}

func TestDegeneratePlanesDoNotConstrain(t *testing.T) {
	f := NewFrustum(mgl32.Mat4{})
	for _, p := range f.Planes {
		assert.Equal(t, mgl32.Vec4{}, p)
	}
	assert.True(t, f.PointVisible(mgl32.Vec3{1e6, -1e6, 3}))
	assert.True(t, f.SphereVisible(mgl32.Vec3{5, 5, 5}, 0))
	assert.True(t, f.AABBVisible(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))

	// Only the x row is zero: left/right keep working off row 3 alone
	m := mgl32.Ident4()
	m[0] = 0
	g := NewFrustum(m)
	assert.InDelta(t, 0, g.Planes[PlaneLeft].Vec3().Len(), 1e-6)
	assert.False(t, math32.IsNaN(g.Planes[PlaneTop][0]))
	assert.True(t, g.PointVisible(mgl32.Vec3{500, 0, 0}))
}
