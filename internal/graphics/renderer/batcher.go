package renderer

import (
	"forge3d/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// batchGroup is a set of queue indices sharing one BatchKey
type batchGroup struct {
	key   BatchKey
	items []int
}

// groupItems partitions items by BatchKey. Groups come out in the order
// their first item was submitted; every item lands in exactly one group.
func groupItems(items []RenderItem) []batchGroup {
	index := make(map[BatchKey]int)
	var groups []batchGroup
	for i := range items {
		key := items[i].Key()
		g, ok := index[key]
		if !ok {
			g = len(groups)
			index[key] = g
			groups = append(groups, batchGroup{key: key})
		}
		groups[g].items = append(groups[g].items, i)
	}
	return groups
}

// ShouldUseInstancing reports whether a group of n identical draws goes
// through the instanced path under the current settings.
func (r *Renderer) ShouldUseInstancing(n int) bool {
	switch {
	case !r.settings.AutoInstancing:
		return false
	case n < r.settings.InstancingThreshold:
		return false
	case n > r.settings.MaxInstances:
		return false
	}
	return true
}

func (r *Renderer) flushQueue() {
	if len(r.queue) == 0 {
		return
	}
	groups := groupItems(r.queue)

	wireframe := r.settings.Wireframe
	if wireframe {
		r.device.SetWireframe(true)
	}

	instancedGroups := 0
	for _, g := range groups {
		if r.ShouldUseInstancing(len(g.items)) {
			r.drawInstancedGroup(g)
			instancedGroups++
			continue
		}
		for _, i := range g.items {
			r.drawIndividual(&r.queue[i])
		}
	}

	if wireframe {
		r.device.SetWireframe(false)
	}

	logger.Log.Debug("render queue flushed",
		zap.Int("items", len(r.queue)),
		zap.Int("groups", len(groups)),
		zap.Int("instancedGroups", instancedGroups))
	r.queue = r.queue[:0]
}

func (r *Renderer) drawInstancedGroup(g batchGroup) {
	m := g.key.Mesh
	mat := g.key.Material

	r.instanceScratch = r.instanceScratch[:0]
	for _, i := range g.items {
		it := &r.queue[i]
		c := it.Color
		metallic, roughness := r.defaultMaterial.Metallic, r.defaultMaterial.Roughness
		if mat != nil {
			c = mat.AlbedoColor
			metallic, roughness = mat.Metallic, mat.Roughness
		}
		r.instanceScratch = append(r.instanceScratch, InstanceData{
			Transform: it.Transform,
			Color:     c,
			Custom:    mgl32.Vec4{metallic, roughness, float32(it.EntityID), 0},
		})
	}

	calls := r.instanced.DrawInstanced(m, mat, r.instanceScratch)
	// the instanced path binds its own program
	r.bound = nil

	n := len(g.items)
	r.stats.DrawCalls += calls
	r.stats.InstancedDrawCalls += calls
	r.stats.InstancedObjects += n
	r.stats.VertexCount += m.VertexCount() * n
	r.stats.IndexCount += m.IndexCount() * n
}
