package renderer

import (
	"runtime"
	"slices"
	"testing"

	"forge3d/internal/graphics/gpu/gputest"
	"forge3d/internal/graphics/mesh"
	"forge3d/internal/graphics/shaders"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstanced(t *testing.T) (*InstancedRenderer, *gputest.Device) {
	t.Helper()
	dev := gputest.NewDevice()
	prog, err := dev.NewProgram(shaders.Instanced())
	require.NoError(t, err)
	white := dev.NewTexture(1, 1)
	return NewInstancedRenderer(dev, prog, white), dev
}

func instances(n int) []InstanceData {
	out := make([]InstanceData, n)
	for i := range out {
		out[i] = InstanceData{Transform: at(float32(i), 0, 0), Color: red}
	}
	return out
}

func TestChunksSplitsEvenly(t *testing.T) {
	var sizes []int
	for c := range chunks(make([]int, 10), 4) {
		sizes = append(sizes, len(c))
	}
	assert.Equal(t, []int{4, 4, 2}, sizes)

	for range chunks([]int{}, 4) {
		t.Fatal("empty input yields nothing")
	}
}

func TestDrawInstancedSplitsAtMaxInstances(t *testing.T) {
	ir, dev := newTestInstanced(t)
	m := mesh.NewCube(dev, 1)
	ir.SetMaxInstances(4)

	calls := ir.DrawInstanced(m, nil, instances(10))
	assert.Equal(t, 3, calls)

	draws := dev.Filter(gputest.CallDrawInstanced)
	require.Len(t, draws, 3)
	counts := []int{draws[0].InstanceCount, draws[1].InstanceCount, draws[2].InstanceCount}
	assert.Equal(t, []int{4, 4, 2}, counts)
	for _, d := range draws {
		assert.Equal(t, m.IndexCount(), d.IndexCount)
		assert.Equal(t, "instanced", d.Program)
	}

	st := ir.Stats()
	assert.Equal(t, 10, st.TotalInstances)
	assert.Equal(t, 3, st.DrawCalls)
	assert.Equal(t, 3, st.BufferUpdates)
	assert.Equal(t, 1, st.CachedVAOs)

	ir.ResetStats()
	assert.Equal(t, InstancedStats{CachedVAOs: 1}, ir.Stats())
}

func TestDrawInstancedNothingToDraw(t *testing.T) {
	ir, dev := newTestInstanced(t)
	assert.Zero(t, ir.DrawInstanced(nil, nil, instances(3)))
	assert.Zero(t, ir.DrawInstanced(mesh.NewCube(dev, 1), nil, nil))
	assert.Zero(t, dev.Count(gputest.CallDrawInstanced))
}

func TestSetMaxInstancesClamps(t *testing.T) {
	ir, _ := newTestInstanced(t)
	ir.SetMaxInstances(0)
	assert.Equal(t, 1, ir.MaxInstances())
	ir.SetMaxInstances(1 << 30)
	assert.Equal(t, 100000, ir.MaxInstances())
}

func TestInstancedBindsMaterialAlbedo(t *testing.T) {
	ir, dev := newTestInstanced(t)
	m := mesh.NewCube(dev, 1)
	mat := mesh.NewMaterial("tex")
	mat.AlbedoMap = dev.NewTexture(2, 2)

	ir.DrawInstanced(m, mat, instances(3))
	ir.DrawInstanced(m, nil, instances(3))

	binds := dev.Filter(gputest.CallBindTexture)
	require.Len(t, binds, 2)
	assert.Same(t, mat.AlbedoMap, binds[0].Texture)
	assert.Same(t, ir.white, binds[1].Texture)
	assert.Equal(t, uint32(mesh.AlbedoSlot), binds[0].Slot)
}

func TestVertexArrayCachePerMesh(t *testing.T) {
	ir, dev := newTestInstanced(t)
	cube := mesh.NewCube(dev, 1)
	sphere := mesh.NewSphere(dev, 0.5, 8, 8)

	ir.DrawInstanced(cube, nil, instances(3))
	ir.DrawInstanced(cube, nil, instances(3))
	ir.DrawInstanced(sphere, nil, instances(3))
	assert.Equal(t, 2, ir.Stats().CachedVAOs)

	draws := dev.Filter(gputest.CallDrawInstanced)
	require.Len(t, draws, 3)
	assert.Same(t, draws[0].VertexArray, draws[1].VertexArray)
	assert.NotSame(t, draws[0].VertexArray, draws[2].VertexArray)

	va := draws[0].VertexArray
	require.Len(t, va.Buffers, 2)
	assert.Same(t, cube.VertexBuffer(), va.Buffers[0])
	assert.Same(t, ir.instanceBuffer, va.Buffers[1])
	assert.Same(t, cube.IndexBuffer(), va.Index)

	ir.InvalidateMesh(cube)
	assert.False(t, ir.HasCached(cube))
	assert.True(t, ir.HasCached(sphere))
	assert.True(t, va.Deleted)

	ir.ClearCache()
	assert.False(t, ir.HasCached(sphere))
	assert.Zero(t, ir.Stats().CachedVAOs)
	assert.True(t, draws[2].VertexArray.Deleted)
}

//go:noinline
func drawThrowaway(ir *InstancedRenderer, dev *gputest.Device) {
	ir.DrawInstanced(mesh.NewCube(dev, 1), nil, instances(3))
}

func TestPruneDropsCollectedMeshes(t *testing.T) {
	ir, dev := newTestInstanced(t)
	keep := mesh.NewCube(dev, 1)
	ir.DrawInstanced(keep, nil, instances(3))
	drawThrowaway(ir, dev)
	require.Equal(t, 2, ir.Stats().CachedVAOs)

	runtime.GC()
	assert.Equal(t, 1, ir.Prune())
	assert.True(t, ir.HasCached(keep))
	assert.Equal(t, 1, ir.Stats().CachedVAOs)
	runtime.KeepAlive(keep)
}

func TestInstanceLayoutStride(t *testing.T) {
	l := InstanceLayout()
	assert.Equal(t, InstanceFloats, l.Floats())
	names := make([]string, 0, len(l.Elements))
	for _, e := range l.Elements {
		assert.True(t, e.Instanced)
		names = append(names, e.Name)
	}
	assert.True(t, slices.Equal([]string{"i_Transform", "i_Color", "i_Custom"}, names))

	packed := appendInstance(nil, InstanceData{Transform: mgl32.Ident4(), Color: red, Custom: mgl32.Vec4{1, 2, 3, 4}})
	assert.Len(t, packed, InstanceFloats)
	assert.Equal(t, []float32{1, 2, 3, 4}, packed[20:])
}
