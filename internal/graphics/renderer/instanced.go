package renderer

import (
	"iter"
	"weak"

	"forge3d/internal/config"
	"forge3d/internal/graphics/gpu"
	"forge3d/internal/graphics/mesh"
	"forge3d/internal/logger"

	"go.uber.org/zap"
)

const initialInstanceCapacity = 1024

// InstancedStats counts instanced work since the last ResetStats
type InstancedStats struct {
	TotalInstances int
	CachedVAOs     int
	BufferUpdates  int
	DrawCalls      int
}

// InstancedRenderer draws many copies of one mesh per call. It keeps a vertex
// array per mesh that combines the mesh's own vertex buffer with a shared
// instance buffer. Cache keys are weak, so a cached mesh can still be
// collected; its entry is dropped by Prune.
type InstancedRenderer struct {
	device         gpu.Device
	program        gpu.Program
	instanceBuffer gpu.VertexBuffer
	white          gpu.Texture

	vaos         map[weak.Pointer[mesh.Mesh]]gpu.VertexArray
	scratch      []float32
	maxInstances int
	wireframe    bool

	stats InstancedStats
}

// NewInstancedRenderer uses program for every draw and white for materials without an albedo map
func NewInstancedRenderer(dev gpu.Device, program gpu.Program, white gpu.Texture) *InstancedRenderer {
	ib := dev.NewVertexBuffer(initialInstanceCapacity * InstanceFloats)
	ib.SetLayout(InstanceLayout())

	program.Bind()
	program.SetInt("u_AlbedoMap", int32(mesh.AlbedoSlot))
	program.SetInt("u_Wireframe", 0)

	return &InstancedRenderer{
		device:         dev,
		program:        program,
		instanceBuffer: ib,
		white:          white,
		vaos:           make(map[weak.Pointer[mesh.Mesh]]gpu.VertexArray),
		maxInstances:   config.MaxInstancesLimit,
	}
}

// SetMaxInstances caps the instances sent in one draw call
func (ir *InstancedRenderer) SetMaxInstances(n int) {
	ir.maxInstances = min(max(n, 1), config.MaxInstancesLimit)
}

func (ir *InstancedRenderer) MaxInstances() int { return ir.maxInstances }

// SetWireframe switches the program to flat instance colours
func (ir *InstancedRenderer) SetWireframe(enabled bool) {
	if ir.wireframe == enabled {
		return
	}
	ir.wireframe = enabled
	var v int32
	if enabled {
		v = 1
	}
	ir.program.Bind()
	ir.program.SetInt("u_Wireframe", v)
}

// DrawInstanced uploads instances and draws them with m. Groups over the
// instance limit are split; the number of draw calls issued is returned.
func (ir *InstancedRenderer) DrawInstanced(m *mesh.Mesh, material *mesh.Material, instances []InstanceData) int {
	if m == nil || len(instances) == 0 {
		return 0
	}

	va := ir.vertexArray(m)
	albedo := ir.white
	if material != nil && material.AlbedoMap != nil {
		albedo = material.AlbedoMap
	}

	ir.program.Bind()
	albedo.Bind(mesh.AlbedoSlot)

	calls := 0
	for chunk := range chunks(instances, ir.maxInstances) {
		ir.scratch = ir.scratch[:0]
		for _, d := range chunk {
			ir.scratch = appendInstance(ir.scratch, d)
		}
		ir.instanceBuffer.SetData(ir.scratch)
		ir.stats.BufferUpdates++

		ir.device.DrawIndexedInstanced(va, m.IndexCount(), len(chunk))
		ir.stats.DrawCalls++
		ir.stats.TotalInstances += len(chunk)
		calls++
	}
	return calls
}

// chunks yields consecutive sub-slices of at most n elements
func chunks[T any](s []T, n int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for len(s) > 0 {
			k := min(n, len(s))
			if !yield(s[:k]) {
				return
			}
			s = s[k:]
		}
	}
}

func (ir *InstancedRenderer) vertexArray(m *mesh.Mesh) gpu.VertexArray {
	key := weak.Make(m)
	if va, ok := ir.vaos[key]; ok {
		return va
	}

	va := ir.device.NewVertexArray()
	va.AddVertexBuffer(m.VertexBuffer())
	va.AddVertexBuffer(ir.instanceBuffer)
	va.SetIndexBuffer(m.IndexBuffer())
	ir.vaos[key] = va
	ir.stats.CachedVAOs = len(ir.vaos)

	logger.Log.Debug("instanced vertex array created",
		zap.String("mesh", m.Name), zap.Int("cached", len(ir.vaos)))
	return va
}

// HasCached reports whether m already has an instanced vertex array
func (ir *InstancedRenderer) HasCached(m *mesh.Mesh) bool {
	_, ok := ir.vaos[weak.Make(m)]
	return ok
}

// InvalidateMesh drops the cached vertex array of m. Call it before
// deleting a mesh or replacing its buffers.
func (ir *InstancedRenderer) InvalidateMesh(m *mesh.Mesh) {
	key := weak.Make(m)
	if va, ok := ir.vaos[key]; ok {
		va.Delete()
		delete(ir.vaos, key)
		ir.stats.CachedVAOs = len(ir.vaos)
	}
}

// Prune drops entries whose mesh has been garbage collected
func (ir *InstancedRenderer) Prune() int {
	n := 0
	for key, va := range ir.vaos {
		if key.Value() == nil {
			va.Delete()
			delete(ir.vaos, key)
			n++
		}
	}
	ir.stats.CachedVAOs = len(ir.vaos)
	return n
}

// ClearCache drops every cached vertex array
func (ir *InstancedRenderer) ClearCache() {
	for _, va := range ir.vaos {
		va.Delete()
	}
	clear(ir.vaos)
	ir.stats.CachedVAOs = 0
}

func (ir *InstancedRenderer) Stats() InstancedStats { return ir.stats }

// ResetStats zeroes the per-frame counters; CachedVAOs is kept
func (ir *InstancedRenderer) ResetStats() {
	ir.stats = InstancedStats{CachedVAOs: len(ir.vaos)}
}

// Shutdown releases the cache and the instance buffer
func (ir *InstancedRenderer) Shutdown() {
	ir.ClearCache()
	ir.instanceBuffer.Delete()
}
