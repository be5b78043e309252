package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func apply(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

func TestComposeTransformIdentity(t *testing.T) {
	m := ComposeTransform(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{})
	assert.True(t, m.ApproxEqualThreshold(mgl32.Ident4(), 1e-6))
}

func TestComposeTransformScaleThenTranslate(t *testing.T) {
	m := ComposeTransform(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 2, 2}, mgl32.Vec3{})
	assertVec3(t, mgl32.Vec3{3, 2, 3}, apply(m, mgl32.Vec3{1, 0, 0}))
	assertVec3(t, mgl32.Vec3{1, 2, 3}, Translation(m))
}

func TestComposeTransformRotationOrder(t *testing.T) {
	tests := []struct {
		name string
		rot  mgl32.Vec3
		in   mgl32.Vec3
		want mgl32.Vec3
	}{
		{"z only", mgl32.Vec3{0, 0, 90}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{"y only", mgl32.Vec3{0, 90, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{"x only", mgl32.Vec3{90, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		// X is applied first, then Y: y -> z -> x
		{"x then y", mgl32.Vec3{90, 90, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
		// Y first then Z: z -> x -> y
		{"y then z", mgl32.Vec3{0, 90, 90}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{"all three", mgl32.Vec3{90, 90, 90}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComposeTransform(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, tt.rot)
			assertVec3(t, tt.want, apply(m, tt.in))
		})
	}
}

func TestComposeTransformMatchesExplicitProduct(t *testing.T) {
	pos := mgl32.Vec3{4, -1, 2}
	scale := mgl32.Vec3{1, 2, 3}
	rot := mgl32.Vec3{10, 20, 30}

	want := mgl32.Translate3D(4, -1, 2).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(30))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(20))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(10))).
		Mul4(mgl32.Scale3D(1, 2, 3))
	assert.True(t, want.ApproxEqualThreshold(ComposeTransform(pos, scale, rot), 1e-6))
}

func TestAxisScale(t *testing.T) {
	m := ComposeTransform(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{1, 3, 2}, mgl32.Vec3{33, 71, -12})
	s := AxisScale(m)
	assertVec3(t, mgl32.Vec3{1, 3, 2}, s)
	assert.InDelta(t, 3, MaxAxisScale(m), 1e-5)
	assert.Equal(t, TranslateScale(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 4, 4}),
		ComposeTransform(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 4, 4}, mgl32.Vec3{}))
}
