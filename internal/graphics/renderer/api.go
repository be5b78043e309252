package renderer

import (
	"forge3d/internal/graphics/gpu"
	"forge3d/internal/graphics/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// NoEntity marks draws that opt out of culling and picking
const NoEntity = -1

// ItemKind records which entry point queued a render item
type ItemKind int

const (
	ItemMesh ItemKind = iota
	ItemCube
	ItemSphere
	ItemModel
)

func (k ItemKind) String() string {
	switch k {
	case ItemMesh:
		return "mesh"
	case ItemCube:
		return "cube"
	case ItemSphere:
		return "sphere"
	case ItemModel:
		return "model"
	}
	return "unknown"
}

// RenderItem is one queued draw request
type RenderItem struct {
	Transform mgl32.Mat4
	Mesh      *mesh.Mesh
	// Material may be nil, in which case Color is the albedo
	Material *mesh.Material
	Color    mgl32.Vec4
	EntityID int
	Kind     ItemKind
}

// BatchKey groups items that share the exact same mesh and material objects
type BatchKey struct {
	Mesh     *mesh.Mesh
	Material *mesh.Material
}

func (it *RenderItem) Key() BatchKey {
	return BatchKey{Mesh: it.Mesh, Material: it.Material}
}

// InstanceFloats is the size of one packed InstanceData
const InstanceFloats = 24

// InstanceData is the per-instance attribute record of the instanced program.
// Custom packs metallic, roughness, the entity id as a float, and padding.
type InstanceData struct {
	Transform mgl32.Mat4
	Color     mgl32.Vec4
	Custom    mgl32.Vec4
}

// InstanceLayout describes InstanceData as instanced vertex attributes
func InstanceLayout() gpu.BufferLayout {
	return gpu.NewLayout(
		gpu.LayoutElement{Type: gpu.Mat4, Name: "i_Transform", Instanced: true},
		gpu.LayoutElement{Type: gpu.Float4, Name: "i_Color", Instanced: true},
		gpu.LayoutElement{Type: gpu.Float4, Name: "i_Custom", Instanced: true},
	)
}

// appendInstance packs d in attribute order. mgl32 matrices are column-major,
// matching the column-per-location upload of mat4 attributes.
func appendInstance(dst []float32, d InstanceData) []float32 {
	dst = append(dst, d.Transform[:]...)
	dst = append(dst, d.Color[:]...)
	return append(dst, d.Custom[:]...)
}
