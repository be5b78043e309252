// Package gpu defines the graphics device abstraction the renderer draws through.
//
// The renderer never calls OpenGL directly. Everything it needs from the driver
// (programs, vertex arrays, buffers, textures, draw submission) goes through a
// Device, so the same batching code runs against the OpenGL backend in
// gpu/opengl and against the call recorder in gpu/gputest.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// DataType is the type of a single vertex attribute
type DataType int

const (
	Float DataType = iota
	Float2
	Float3
	Float4
	Mat4
	Int
)

// Components returns the number of scalar components of the type
func (t DataType) Components() int {
	switch t {
	case Float, Int:
		return 1
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4:
		return 4
	case Mat4:
		return 16
	}
	return 0
}

// Size returns the size of the type in bytes
func (t DataType) Size() int {
	return t.Components() * 4
}

// Locations returns the number of attribute locations the type occupies.
// A mat4 attribute is uploaded as four consecutive vec4 columns.
func (t DataType) Locations() int {
	if t == Mat4 {
		return 4
	}
	return 1
}

// LayoutElement describes one attribute inside an interleaved buffer
type LayoutElement struct {
	Type      DataType
	Name      string
	Normalize bool
	// Instanced attributes advance once per instance instead of once per vertex
	Instanced bool
	Offset    int
}

// BufferLayout is an ordered list of interleaved attributes
type BufferLayout struct {
	Elements []LayoutElement
	Stride   int
}

// NewLayout computes offsets and stride for the given elements
func NewLayout(elements ...LayoutElement) BufferLayout {
	l := BufferLayout{Elements: make([]LayoutElement, len(elements))}
	offset := 0
	for i, e := range elements {
		e.Offset = offset
		offset += e.Type.Size()
		l.Elements[i] = e
	}
	l.Stride = offset
	return l
}

// Floats returns the stride in float32 units
func (l BufferLayout) Floats() int {
	return l.Stride / 4
}

// Program is a linked shader program
type Program interface {
	Bind()
	SetInt(name string, value int32)
	SetFloat(name string, value float32)
	SetFloat3(name string, value mgl32.Vec3)
	SetFloat4(name string, value mgl32.Vec4)
	SetMat4(name string, value mgl32.Mat4)
	Name() string
	Delete()
}

// VertexBuffer holds interleaved vertex or instance data
type VertexBuffer interface {
	Bind()
	// SetData replaces the buffer contents, growing the storage when needed
	SetData(data []float32)
	SetLayout(layout BufferLayout)
	Layout() BufferLayout
	Delete()
}

// IndexBuffer holds uint32 triangle indices
type IndexBuffer interface {
	Bind()
	Count() int
	Delete()
}

// VertexArray binds vertex buffers and an index buffer into one drawable state
type VertexArray interface {
	Bind()
	AddVertexBuffer(vb VertexBuffer)
	SetIndexBuffer(ib IndexBuffer)
	IndexBuffer() IndexBuffer
	Delete()
}

// UniformBuffer is a std140 block bound at a fixed binding point
type UniformBuffer interface {
	SetData(data []float32)
	Binding() uint32
	Delete()
}

// Texture is a 2D RGBA8 texture
type Texture interface {
	Bind(slot uint32)
	SetData(rgba []byte)
	Width() int
	Height() int
	Delete()
}

// ProgramSource is the GLSL source of one program
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
	// Blocks maps uniform block names to their binding points
	Blocks map[string]uint32
}

// Device creates GPU resources and submits draw calls
type Device interface {
	NewProgram(src ProgramSource) (Program, error)
	NewVertexArray() VertexArray
	NewVertexBuffer(capacityFloats int) VertexBuffer
	NewVertexBufferWithData(data []float32) VertexBuffer
	NewIndexBuffer(indices []uint32) IndexBuffer
	NewUniformBuffer(sizeFloats int, binding uint32) UniformBuffer
	NewTexture(width, height int) Texture

	// ConfigureDepth sets the persistent depth test state
	ConfigureDepth()
	// BeginFrame clears the depth buffer and re-enables depth writes
	BeginFrame()
	SetWireframe(enabled bool)
	SetLineWidth(width float32)

	DrawIndexed(va VertexArray, indexCount int)
	DrawIndexedInstanced(va VertexArray, indexCount, instanceCount int)
	DrawLines(va VertexArray, vertexCount int)
}
