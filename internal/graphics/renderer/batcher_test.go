package renderer

import (
	"testing"

	"forge3d/internal/graphics"
	"forge3d/internal/graphics/gpu/gputest"
	"forge3d/internal/graphics/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupItemsPartitionsInSubmissionOrder(t *testing.T) {
	a := &mesh.Mesh{Name: "a"}
	b := &mesh.Mesh{Name: "b"}
	mat := mesh.NewMaterial("m")
	items := []RenderItem{
		{Mesh: a},
		{Mesh: b},
		{Mesh: a, Material: mat},
		{Mesh: a},
		{Mesh: b},
		{Mesh: a, Material: mat},
		{Mesh: a},
	}

	groups := groupItems(items)
	require.Len(t, groups, 3)
	assert.Equal(t, BatchKey{Mesh: a}, groups[0].key)
	assert.Equal(t, []int{0, 3, 6}, groups[0].items)
	assert.Equal(t, BatchKey{Mesh: b}, groups[1].key)
	assert.Equal(t, []int{1, 4}, groups[1].items)
	assert.Equal(t, BatchKey{Mesh: a, Material: mat}, groups[2].key)
	assert.Equal(t, []int{2, 5}, groups[2].items)

	seen := make(map[int]int)
	for _, g := range groups {
		for _, i := range g.items {
			seen[i]++
			assert.Equal(t, g.key, items[i].Key())
		}
	}
	assert.Len(t, seen, len(items))
	for i, n := range seen {
		assert.Equal(t, 1, n, "item %d", i)
	}
}

func TestShouldUseInstancing(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.SetMaxInstances(10)

	tests := []struct {
		n    int
		want bool
	}{
		{1, false},
		{2, false},
		{3, true},
		{10, true},
		{11, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.ShouldUseInstancing(tt.n), "n=%d", tt.n)
	}

	r.EnableAutoInstancing(false)
	assert.False(t, r.ShouldUseInstancing(5))
}

func TestThresholdBoundary(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4} {
		r, dev := newTestRenderer(t)
		r.BeginScene3D(testCamera())
		for i := range n {
			r.DrawCube(at(float32(i), 0, 0), red, i)
		}
		r.EndScene()

		st := r.Stats()
		if n >= 3 {
			assert.Equal(t, 1, dev.Count(gputest.CallDrawInstanced), "n=%d", n)
			assert.Zero(t, dev.Count(gputest.CallDrawIndexed), "n=%d", n)
			assert.Equal(t, n, st.InstancedObjects)
		} else {
			assert.Zero(t, dev.Count(gputest.CallDrawInstanced), "n=%d", n)
			assert.Equal(t, n, dev.Count(gputest.CallDrawIndexed), "n=%d", n)
			assert.Equal(t, n, st.IndividualObjects)
		}
		assert.Equal(t, n, st.ObjectCount())
	}
}

func TestSingletonGroupNeverInstanced(t *testing.T) {
	r, dev := newTestRenderer(t)
	r.SetInstancingThreshold(1)

	r.BeginScene3D(testCamera())
	r.DrawCube(at(0, 0, 0), red, 0)
	r.EndScene()

	assert.Equal(t, 2, r.InstancingThreshold())
	assert.False(t, r.ShouldUseInstancing(1))
	assert.Zero(t, dev.Count(gputest.CallDrawInstanced))
	assert.Equal(t, 1, dev.Count(gputest.CallDrawIndexed))
}

func TestNextBatchFlushesQueueMidScene(t *testing.T) {
	r, dev := newTestRenderer(t)

	r.BeginScene3D(testCamera())
	for i := range 3 {
		r.DrawCube(at(float32(i), 0, 0), red, i)
	}
	r.DrawCube(behind, red, 3)
	r.NextBatch()
	for i := range 2 {
		r.DrawCube(at(float32(i), 2, 0), red, 4+i)
	}
	r.EndScene()

	var draws []gputest.Call
	for _, c := range dev.Calls {
		if c.Kind == gputest.CallDrawInstanced || c.Kind == gputest.CallDrawIndexed {
			draws = append(draws, c)
		}
	}
	require.Len(t, draws, 3)
	assert.Equal(t, gputest.CallDrawInstanced, draws[0].Kind)
	assert.Equal(t, 3, draws[0].InstanceCount)
	assert.Equal(t, gputest.CallDrawIndexed, draws[1].Kind)
	assert.Equal(t, gputest.CallDrawIndexed, draws[2].Kind)

	// culling tallies cover both batches of the scene
	st := r.Stats()
	assert.Equal(t, 6, st.MeshCount)
	assert.Equal(t, 5, st.VisibleMeshCount)
	assert.Equal(t, 1, st.CulledMeshCount)
	assert.Equal(t, 3, st.InstancedObjects)
	assert.Equal(t, 2, st.IndividualObjects)
}

func TestMixedScenePartitionsExactly(t *testing.T) {
	r, dev := newTestRenderer(t)
	mat := mesh.NewMaterial("gold")
	mat.AlbedoColor = mgl32.Vec4{1, 0.8, 0, 1}

	r.BeginScene3D(testCamera())
	for i := range 3 {
		r.DrawCube(at(float32(i), 0, 0), red, i)
	}
	r.DrawSphere(at(0, 2, 0), red, 3)
	r.DrawCubeWithMaterial(at(0, -2, 0), mat, 4)
	r.EndScene()

	st := r.Stats()
	assert.Equal(t, 3, st.DrawCalls)
	assert.Equal(t, 1, st.InstancedDrawCalls)
	assert.Equal(t, 3, st.InstancedObjects)
	assert.Equal(t, 2, st.IndividualDrawCalls)
	assert.Equal(t, 2, st.IndividualObjects)
	assert.Equal(t, 5, st.ObjectCount())
	// 5 calls without instancing, 3 with
	assert.InDelta(t, 40, st.InstancingEfficiency, 1e-4)

	// groups draw in first-submission order
	var draws []gputest.Call
	for _, c := range dev.Calls {
		if c.Kind == gputest.CallDrawInstanced || c.Kind == gputest.CallDrawIndexed {
			draws = append(draws, c)
		}
	}
	require.Len(t, draws, 3)
	assert.Equal(t, gputest.CallDrawInstanced, draws[0].Kind)
	assert.Equal(t, r.SphereMesh().IndexCount(), draws[1].IndexCount)
	assert.Equal(t, "mesh", draws[2].Program)

	mp := dev.Programs["mesh"]
	assert.Equal(t, mat.AlbedoColor, mp.Uniforms["u_MaterialAlbedoColor"])
	assert.Equal(t, int32(4), mp.Uniforms["u_EntityID"])
}

func TestAutoInstancingDisabledDrawsIndividually(t *testing.T) {
	r, dev := newTestRenderer(t)
	r.EnableAutoInstancing(false)

	r.BeginScene3D(testCamera())
	for i := range 10 {
		r.DrawCube(at(0, 0, float32(-i)), red, i)
	}
	r.EndScene()

	assert.Equal(t, 10, dev.Count(gputest.CallDrawIndexed))
	assert.Zero(t, dev.Count(gputest.CallDrawInstanced))
	assert.Zero(t, r.Stats().InstancingEfficiency)
}

func TestGroupOverMaxInstancesDrawsIndividually(t *testing.T) {
	r, dev := newTestRenderer(t)
	r.SetMaxInstances(4)

	r.BeginScene3D(testCamera())
	for i := range 5 {
		r.DrawCube(at(float32(i), 0, 0), red, i)
	}
	r.EndScene()

	assert.Equal(t, 5, dev.Count(gputest.CallDrawIndexed))
	assert.Zero(t, dev.Count(gputest.CallDrawInstanced))
}

func TestInstanceDataPacking(t *testing.T) {
	r, dev := newTestRenderer(t)
	c := mgl32.Vec4{0.1, 0.2, 0.3, 1}

	r.BeginScene(graphics.NewPerspectiveCamera(60, 1, 0.1, 100), mgl32.Ident4())
	for i := range 3 {
		r.DrawCube(at(float32(i), 0, 0), c, 20+i)
	}
	r.EndScene()

	calls := dev.Filter(gputest.CallDrawInstanced)
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0].InstanceCount)
	assert.Equal(t, r.CubeMesh().IndexCount(), calls[0].IndexCount)

	buf := r.instanced.instanceBuffer.(*gputest.VertexBuffer)
	require.Len(t, buf.Data, 3*InstanceFloats)
	second := buf.Data[InstanceFloats : 2*InstanceFloats]
	var transform mgl32.Mat4
	copy(transform[:], second[:16])
	assert.Equal(t, at(1, 0, 0), transform)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 1}, second[16:20])
	def := r.DefaultMaterial()
	assert.Equal(t, []float32{def.Metallic, def.Roughness, 21, 0}, second[20:24])
}

func TestSharedMaterialGroupIsOneInstancedCall(t *testing.T) {
	r, dev := newTestRenderer(t)
	mat := mesh.NewMaterial("shared")

	r.BeginScene3D(testCamera())
	for i := range 5 {
		r.DrawCubeWithMaterial(at(float32(i)-2, 0, 0), mat, i)
	}
	r.EndScene()

	st := r.Stats()
	assert.Equal(t, 1, st.InstancedDrawCalls)
	assert.Equal(t, 5, st.InstancedObjects)
	assert.Zero(t, st.IndividualDrawCalls)
	assert.Equal(t, st.InstancedDrawCalls+st.IndividualDrawCalls, st.DrawCalls)
	assert.Equal(t, 1, dev.Count(gputest.CallDrawInstanced))
}
