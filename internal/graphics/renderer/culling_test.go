package renderer

import (
	"testing"

	"forge3d/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeCuller() *Culler {
	c := NewCuller()
	f := *testCamera().Frustum()
	c.SetFrustum(&f)
	return c
}

func TestCullerFailsOpenWithoutFrustum(t *testing.T) {
	c := NewCuller()
	assert.True(t, c.TestVisible(1, behind))
	assert.True(t, c.IsPointVisible(mgl32.Vec3{0, 0, 50}))
	assert.True(t, c.IsSphereVisible(mgl32.Vec3{0, 0, 50}, 1))
	assert.True(t, c.IsAABBVisible(mgl32.Vec3{0, 0, 50}, mgl32.Vec3{1, 1, 51}))
	assert.True(t, c.IsEntityVisible(behind, 1))
	assert.Zero(t, c.TotalMeshCount())
	assert.Empty(t, c.EntityIDs())
}

func TestCullerNegativeIDsAreNotCounted(t *testing.T) {
	c := activeCuller()
	assert.True(t, c.TestVisible(NoEntity, behind))
	assert.Zero(t, c.TotalMeshCount())
	assert.Empty(t, c.EntityIDs())
}

func TestCullerCounts(t *testing.T) {
	c := activeCuller()
	for id := range 3 {
		assert.True(t, c.TestVisible(id, at(float32(id), 0, 0)))
	}
	assert.False(t, c.TestVisible(10, behind))
	assert.False(t, c.TestVisible(11, at(0, 0, 200)))

	assert.Equal(t, 5, c.TotalMeshCount())
	assert.Equal(t, 3, c.VisibleMeshCount())
	assert.Equal(t, 2, c.CulledMeshCount())
	assert.InDelta(t, 40, c.CullingEfficiency(), 1e-4)
	assert.True(t, c.WasVisible(2))
	assert.False(t, c.WasVisible(10))
	assert.Equal(t, []int{0, 1, 2, 10, 11}, c.EntityIDs())

	c.ResetCounts()
	assert.Zero(t, c.TotalMeshCount())
	assert.Zero(t, c.CullingEfficiency())
	assert.Len(t, c.EntityIDs(), 5, "records outlive counts")
}

func TestCullerRadiusCachedFromFirstTransform(t *testing.T) {
	c := activeCuller()
	c.TestVisible(7, graphics.TranslateScale(mgl32.Vec3{}, mgl32.Vec3{2, 1, 1}))

	r, ok := c.Radius(7)
	require.True(t, ok)
	assert.InDelta(t, 2*boundingFactor, r, 1e-5)

	c.TestVisible(7, graphics.TranslateScale(mgl32.Vec3{}, mgl32.Vec3{4, 4, 4}))
	r, _ = c.Radius(7)
	assert.InDelta(t, 2*boundingFactor, r, 1e-5)

	c.RecalculateEntityBounds(7)
	c.TestVisible(7, graphics.TranslateScale(mgl32.Vec3{}, mgl32.Vec3{4, 4, 4}))
	r, _ = c.Radius(7)
	assert.InDelta(t, 4*boundingFactor, r, 1e-5)

	c.ClearCullingData()
	_, ok = c.Radius(7)
	assert.False(t, ok)
}

func TestCullerScaleGrowsEffectiveRadius(t *testing.T) {
	c := activeCuller()
	// Just past the far plane at z = -90
	pos := mgl32.Vec3{0, 0, -91}
	small := graphics.TranslateScale(pos, mgl32.Vec3{1, 1, 1})
	big := graphics.TranslateScale(pos, mgl32.Vec3{4, 4, 4})

	assert.False(t, c.IsEntityVisible(small, boundingFactor))
	assert.True(t, c.IsEntityVisible(big, boundingFactor))
}

func TestCullerLargerRadiusNeverLessVisible(t *testing.T) {
	c := activeCuller()
	positions := []mgl32.Vec3{
		{0, 0, 0}, {0, 0, 12}, {0, 0, -95}, {40, 0, 0}, {0, -30, -20}, {7, 7, 9.5},
	}
	radii := []float32{0, 0.1, 0.5, 1, 2, 5, 20}
	for _, p := range positions {
		seen := false
		for _, r := range radii {
			v := c.IsEntityVisible(mgl32.Translate3D(p[0], p[1], p[2]), r)
			if seen {
				assert.True(t, v, "position %v radius %v", p, r)
			}
			seen = seen || v
		}
	}
}
