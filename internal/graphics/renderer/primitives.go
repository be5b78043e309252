package renderer

import (
	"forge3d/internal/graphics"
	"forge3d/internal/graphics/mesh"
	"forge3d/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
)

// submit queues an item that passes the culling gate
func (r *Renderer) submit(item RenderItem) {
	if !r.recording(item.Kind.String()) {
		return
	}
	if item.Mesh == nil {
		logger.Log.Warn("draw with nil mesh ignored")
		return
	}
	if !r.TestVisible(item.EntityID, item.Transform) {
		return
	}
	r.queue = append(r.queue, item)
}

// DrawMesh queues m with a flat colour. Use NoEntity to skip culling.
func (r *Renderer) DrawMesh(transform mgl32.Mat4, m *mesh.Mesh, color mgl32.Vec4, entityID int) {
	r.submit(RenderItem{Transform: transform, Mesh: m, Color: color, EntityID: entityID, Kind: ItemMesh})
}

// DrawMeshWithMaterial queues m with a material; nil means the default material
func (r *Renderer) DrawMeshWithMaterial(transform mgl32.Mat4, m *mesh.Mesh, mat *mesh.Material, entityID int) {
	r.submit(r.materialItem(transform, m, mat, entityID, ItemMesh))
}

func (r *Renderer) DrawMeshTRS(position, scale, rotationDeg mgl32.Vec3, m *mesh.Mesh, color mgl32.Vec4, entityID int) {
	r.DrawMesh(graphics.ComposeTransform(position, scale, rotationDeg), m, color, entityID)
}

func (r *Renderer) DrawMeshTRSWithMaterial(position, scale, rotationDeg mgl32.Vec3, m *mesh.Mesh, mat *mesh.Material, entityID int) {
	r.DrawMeshWithMaterial(graphics.ComposeTransform(position, scale, rotationDeg), m, mat, entityID)
}

func (r *Renderer) materialItem(transform mgl32.Mat4, m *mesh.Mesh, mat *mesh.Material, entityID int, kind ItemKind) RenderItem {
	if mat == nil {
		mat = r.defaultMaterial
	}
	return RenderItem{Transform: transform, Mesh: m, Material: mat, Color: mat.AlbedoColor, EntityID: entityID, Kind: kind}
}

// DrawCube queues the unit cube
func (r *Renderer) DrawCube(transform mgl32.Mat4, color mgl32.Vec4, entityID int) {
	r.submit(RenderItem{Transform: transform, Mesh: r.cube, Color: color, EntityID: entityID, Kind: ItemCube})
}

func (r *Renderer) DrawCubeWithMaterial(transform mgl32.Mat4, mat *mesh.Material, entityID int) {
	r.submit(r.materialItem(transform, r.cube, mat, entityID, ItemCube))
}

// DrawCubeAt queues a cube centred at position with per-axis size
func (r *Renderer) DrawCubeAt(position, size mgl32.Vec3, color mgl32.Vec4, entityID int) {
	r.DrawCube(graphics.ComposeTransform(position, size, mgl32.Vec3{}), color, entityID)
}

func (r *Renderer) DrawCubeAtWithMaterial(position, size mgl32.Vec3, mat *mesh.Material, entityID int) {
	r.DrawCubeWithMaterial(graphics.TranslateScale(position, size), mat, entityID)
}

// DrawSphere queues the unit-diameter sphere
func (r *Renderer) DrawSphere(transform mgl32.Mat4, color mgl32.Vec4, entityID int) {
	r.submit(RenderItem{Transform: transform, Mesh: r.sphere, Color: color, EntityID: entityID, Kind: ItemSphere})
}

func (r *Renderer) DrawSphereWithMaterial(transform mgl32.Mat4, mat *mesh.Material, entityID int) {
	r.submit(r.materialItem(transform, r.sphere, mat, entityID, ItemSphere))
}

// DrawSphereAt queues a sphere of the given radius
func (r *Renderer) DrawSphereAt(position mgl32.Vec3, radius float32, color mgl32.Vec4, entityID int) {
	r.DrawSphere(sphereTransform(position, radius), color, entityID)
}

func (r *Renderer) DrawSphereAtWithMaterial(position mgl32.Vec3, radius float32, mat *mesh.Material, entityID int) {
	r.DrawSphereWithMaterial(sphereTransform(position, radius), mat, entityID)
}

// sphereTransform scales the unit-diameter sphere mesh to radius
func sphereTransform(position mgl32.Vec3, radius float32) mgl32.Mat4 {
	d := radius * 2
	return graphics.TranslateScale(position, mgl32.Vec3{d, d, d})
}

// DrawLine3D appends a segment to the line buffer, flushing first if it is full.
// Lines are never culled or instanced.
func (r *Renderer) DrawLine3D(p0, p1 mgl32.Vec3, color mgl32.Vec4, entityID int) {
	if !r.recording("line") {
		return
	}
	if r.lines.full() {
		r.NextBatch()
	}
	r.lines.add(p0, p1, color, entityID)
}

// DrawBox draws the 12 edges of an axis-aligned box
func (r *Renderer) DrawBox(position, size mgl32.Vec3, color mgl32.Vec4, entityID int) {
	r.DrawBoxTransform(graphics.TranslateScale(position, size), color, entityID)
}

// unitCubeCorners: bottom face 0-3, top face 4-7
var unitCubeCorners = [8]mgl32.Vec3{
	{-0.5, -0.5, -0.5},
	{0.5, -0.5, -0.5},
	{0.5, -0.5, 0.5},
	{-0.5, -0.5, 0.5},
	{-0.5, 0.5, -0.5},
	{0.5, 0.5, -0.5},
	{0.5, 0.5, 0.5},
	{-0.5, 0.5, 0.5},
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawBoxTransform draws the edges of the unit cube under transform
func (r *Renderer) DrawBoxTransform(transform mgl32.Mat4, color mgl32.Vec4, entityID int) {
	var p [8]mgl32.Vec3
	for i, c := range unitCubeCorners {
		p[i] = mgl32.TransformCoordinate(c, transform)
	}
	for _, e := range boxEdges {
		r.DrawLine3D(p[e[0]], p[e[1]], color, entityID)
	}
}

// DrawModel queues every mesh of the model. Each mesh uses the override
// material if set, else its own material, else the default material.
func (r *Renderer) DrawModel(transform mgl32.Mat4, mr mesh.ModelRenderer, entityID int) {
	if mr.Model == nil {
		return
	}
	for _, m := range mr.Model.Meshes {
		mat := mr.OverrideMaterial
		if mat == nil {
			mat = m.Material
		}
		r.submit(r.materialItem(transform, m, mat, entityID, ItemModel))
	}
}
