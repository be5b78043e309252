package renderer

import (
	"slices"

	"forge3d/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// boundingFactor circumscribes a unit cube: sqrt(3)/2
const boundingFactor = 0.866

type cullingRecord struct {
	radius     float32 // 0 until first computed
	wasVisible bool
}

// Culler answers per-entity visibility against the active frustum and
// caches a bounding radius per entity id across frames.
type Culler struct {
	frustum *graphics.Frustum
	records map[int]*cullingRecord

	total   int
	visible int
}

func NewCuller() *Culler {
	return &Culler{records: make(map[int]*cullingRecord)}
}

// SetFrustum sets the active frustum; nil disables culling
func (c *Culler) SetFrustum(f *graphics.Frustum) {
	c.frustum = f
}

func (c *Culler) Frustum() *graphics.Frustum { return c.frustum }

// ResetCounts clears the tested/visible tallies
func (c *Culler) ResetCounts() {
	c.total = 0
	c.visible = 0
}

// TestVisible reports whether the entity drawn with transform may be visible.
// Without a frustum, or for negative ids, everything is visible and nothing is counted.
func (c *Culler) TestVisible(entityID int, transform mgl32.Mat4) bool {
	if c.frustum == nil || entityID < 0 {
		return true
	}

	rec, ok := c.records[entityID]
	if !ok {
		rec = &cullingRecord{}
		c.records[entityID] = rec
	}
	if rec.radius == 0 {
		rec.radius = graphics.MaxAxisScale(transform) * boundingFactor
	}

	c.total++
	visible := c.IsEntityVisible(transform, rec.radius)
	if visible {
		c.visible++
	}
	rec.wasVisible = visible
	return visible
}

// IsEntityVisible runs the sphere test for a mesh of the given base radius.
// The radius is scaled by the transform's largest axis scale.
func (c *Culler) IsEntityVisible(transform mgl32.Mat4, radius float32) bool {
	if c.frustum == nil {
		return true
	}
	return c.frustum.SphereVisible(graphics.Translation(transform), radius*graphics.MaxAxisScale(transform))
}

func (c *Culler) IsPointVisible(p mgl32.Vec3) bool {
	return c.frustum == nil || c.frustum.PointVisible(p)
}

func (c *Culler) IsSphereVisible(center mgl32.Vec3, radius float32) bool {
	return c.frustum == nil || c.frustum.SphereVisible(center, radius)
}

func (c *Culler) IsAABBVisible(min, max mgl32.Vec3) bool {
	return c.frustum == nil || c.frustum.AABBVisible(min, max)
}

// RecalculateEntityBounds forces the entity's radius to be recomputed on its next test
func (c *Culler) RecalculateEntityBounds(entityID int) {
	if rec, ok := c.records[entityID]; ok {
		rec.radius = 0
	}
}

// ClearCullingData drops every cached record
func (c *Culler) ClearCullingData() {
	clear(c.records)
}

// Radius returns the cached base radius for an entity
func (c *Culler) Radius(entityID int) (float32, bool) {
	rec, ok := c.records[entityID]
	if !ok {
		return 0, false
	}
	return rec.radius, true
}

// WasVisible returns the result of the entity's most recent test
func (c *Culler) WasVisible(entityID int) bool {
	rec, ok := c.records[entityID]
	return ok && rec.wasVisible
}

// EntityIDs returns the ids with a cached record in ascending order
func (c *Culler) EntityIDs() []int {
	ids := make([]int, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (c *Culler) TotalMeshCount() int   { return c.total }
func (c *Culler) VisibleMeshCount() int { return c.visible }
func (c *Culler) CulledMeshCount() int  { return c.total - c.visible }

// CullingEfficiency is the culled percentage of tested entities, 0 when none were tested
func (c *Culler) CullingEfficiency() float32 {
	if c.total == 0 {
		return 0
	}
	return float32(c.total-c.visible) / float32(c.total) * 100
}
