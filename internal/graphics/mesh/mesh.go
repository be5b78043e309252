// Package mesh holds GPU geometry, materials and the primitive shapes the
// renderer draws when asked for cubes and spheres.
package mesh

import (
	"forge3d/internal/graphics/gpu"
)

// FloatsPerVertex is the size of one vertex in the standard layout:
// position, normal, tangent, uv
const FloatsPerVertex = 11

// StandardLayout is the vertex layout shared by every mesh
func StandardLayout() gpu.BufferLayout {
	return gpu.NewLayout(
		gpu.LayoutElement{Type: gpu.Float3, Name: "a_Position"},
		gpu.LayoutElement{Type: gpu.Float3, Name: "a_Normal"},
		gpu.LayoutElement{Type: gpu.Float3, Name: "a_Tangent"},
		gpu.LayoutElement{Type: gpu.Float2, Name: "a_TexCoord"},
	)
}

// Mesh is indexed triangle geometry uploaded to the GPU. Meshes are shared
// between render items by pointer; batching groups items by that pointer.
type Mesh struct {
	Name string
	// Material is used when a draw does not supply one. May be nil.
	Material *Material

	vertexArray  gpu.VertexArray
	vertexBuffer gpu.VertexBuffer
	indexBuffer  gpu.IndexBuffer
	vertexCount  int
	indexCount   int
}

// New uploads interleaved vertices in StandardLayout and triangle indices
func New(dev gpu.Device, name string, vertices []float32, indices []uint32) *Mesh {
	vb := dev.NewVertexBufferWithData(vertices)
	vb.SetLayout(StandardLayout())
	ib := dev.NewIndexBuffer(indices)

	va := dev.NewVertexArray()
	va.AddVertexBuffer(vb)
	va.SetIndexBuffer(ib)

	return &Mesh{
		Name:         name,
		vertexArray:  va,
		vertexBuffer: vb,
		indexBuffer:  ib,
		vertexCount:  len(vertices) / FloatsPerVertex,
		indexCount:   len(indices),
	}
}

func (m *Mesh) VertexArray() gpu.VertexArray   { return m.vertexArray }
func (m *Mesh) VertexBuffer() gpu.VertexBuffer { return m.vertexBuffer }
func (m *Mesh) IndexBuffer() gpu.IndexBuffer   { return m.indexBuffer }
func (m *Mesh) VertexCount() int               { return m.vertexCount }
func (m *Mesh) IndexCount() int                { return m.indexCount }

// Delete releases the mesh's GPU objects. Renderers that cached state for the
// mesh must be told separately.
func (m *Mesh) Delete() {
	m.vertexArray.Delete()
	m.vertexBuffer.Delete()
	m.indexBuffer.Delete()
}
