package renderer

import (
	"forge3d/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// TestVisible is the culling gate every queued draw goes through
func (r *Renderer) TestVisible(entityID int, transform mgl32.Mat4) bool {
	if r.culler.Frustum() == nil && entityID >= 0 && r.settings.FrustumCulling && !r.warnedNoCamera {
		r.warnedNoCamera = true
		logger.Log.Warn("no active 3D camera, culling disabled", zap.Int("entity", entityID))
	}
	return r.culler.TestVisible(entityID, transform)
}

// IsPointVisible is true without an active 3D camera
func (r *Renderer) IsPointVisible(p mgl32.Vec3) bool { return r.culler.IsPointVisible(p) }

func (r *Renderer) IsSphereVisible(center mgl32.Vec3, radius float32) bool {
	return r.culler.IsSphereVisible(center, radius)
}

func (r *Renderer) IsAABBVisible(min, max mgl32.Vec3) bool { return r.culler.IsAABBVisible(min, max) }

// IsEntityVisible tests a mesh of base radius under transform without touching
// the culling records
func (r *Renderer) IsEntityVisible(entityID int, transform mgl32.Mat4, radius float32) bool {
	return r.culler.IsEntityVisible(transform, radius)
}

func (r *Renderer) RecalculateEntityBounds(entityID int) { r.culler.RecalculateEntityBounds(entityID) }

func (r *Renderer) ClearCullingData() { r.culler.ClearCullingData() }

// Culler exposes the culling records and per-scene tallies
func (r *Renderer) Culler() *Culler { return r.culler }

const debugCullingEntities = 5

// DebugCulling logs the culling tallies of the current or most recent scene
// and the first few entity records
func (r *Renderer) DebugCulling() {
	c := r.culler
	logger.Log.Info("culling debug",
		zap.Int("total", c.TotalMeshCount()),
		zap.Int("visible", c.VisibleMeshCount()),
		zap.Int("culled", c.CulledMeshCount()),
		zap.Float32("efficiency", c.CullingEfficiency()),
		zap.Bool("sceneCulled", r.sceneCulled),
		zap.Bool("recording", r.state == stateRecording),
		zap.Float32s("cameraPosition", r.cameraPosition[:]))

	ids := c.EntityIDs()
	for _, id := range ids[:min(len(ids), debugCullingEntities)] {
		radius, _ := c.Radius(id)
		logger.Log.Info("culling record",
			zap.Int("entity", id),
			zap.Float32("radius", radius),
			zap.Bool("visible", c.WasVisible(id)))
	}
}
