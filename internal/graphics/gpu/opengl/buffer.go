package opengl

import (
	"forge3d/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// VertexBuffer is a GL_ARRAY_BUFFER with an attribute layout
type VertexBuffer struct {
	ID       uint32
	capacity int // in floats
	layout   gpu.BufferLayout
}

func (b *VertexBuffer) Bind() {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.ID)
}

// SetData uploads data, reallocating the store only when it outgrows the capacity
func (b *VertexBuffer) SetData(data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.ID)
	if len(data) == 0 {
		return
	}
	if len(data) > b.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
		b.capacity = len(data)
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
}

func (b *VertexBuffer) SetLayout(layout gpu.BufferLayout) { b.layout = layout }
func (b *VertexBuffer) Layout() gpu.BufferLayout          { return b.layout }

func (b *VertexBuffer) Delete() {
	gl.DeleteBuffers(1, &b.ID)
}

// IndexBuffer is a GL_ELEMENT_ARRAY_BUFFER of uint32 indices
type IndexBuffer struct {
	ID    uint32
	count int
}

func (b *IndexBuffer) Bind() {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ID)
}

func (b *IndexBuffer) Count() int { return b.count }

func (b *IndexBuffer) Delete() {
	gl.DeleteBuffers(1, &b.ID)
}

// VertexArray owns attribute bindings for its vertex buffers
type VertexArray struct {
	ID           uint32
	nextLocation uint32
	buffers      []*VertexBuffer
	index        *IndexBuffer
}

func (va *VertexArray) Bind() {
	gl.BindVertexArray(va.ID)
}

// AddVertexBuffer enables the buffer's attributes at the next free locations.
// Mat4 attributes take four locations; instanced attributes get a divisor of 1.
func (va *VertexArray) AddVertexBuffer(vb gpu.VertexBuffer) {
	b, ok := vb.(*VertexBuffer)
	if !ok {
		return
	}
	gl.BindVertexArray(va.ID)
	b.Bind()

	layout := b.layout
	stride := int32(layout.Stride)
	for _, e := range layout.Elements {
		var divisor uint32
		if e.Instanced {
			divisor = 1
		}
		switch e.Type {
		case gpu.Int:
			gl.EnableVertexAttribArray(va.nextLocation)
			gl.VertexAttribIPointerWithOffset(va.nextLocation, 1, gl.INT, stride, uintptr(e.Offset))
			gl.VertexAttribDivisor(va.nextLocation, divisor)
			va.nextLocation++
		case gpu.Mat4:
			for col := 0; col < 4; col++ {
				gl.EnableVertexAttribArray(va.nextLocation)
				gl.VertexAttribPointerWithOffset(va.nextLocation, 4, gl.FLOAT, e.Normalize, stride, uintptr(e.Offset+col*16))
				gl.VertexAttribDivisor(va.nextLocation, divisor)
				va.nextLocation++
			}
		default:
			gl.EnableVertexAttribArray(va.nextLocation)
			gl.VertexAttribPointerWithOffset(va.nextLocation, int32(e.Type.Components()), gl.FLOAT, e.Normalize, stride, uintptr(e.Offset))
			gl.VertexAttribDivisor(va.nextLocation, divisor)
			va.nextLocation++
		}
	}
	va.buffers = append(va.buffers, b)
}

func (va *VertexArray) SetIndexBuffer(ib gpu.IndexBuffer) {
	b, ok := ib.(*IndexBuffer)
	if !ok {
		return
	}
	gl.BindVertexArray(va.ID)
	b.Bind()
	va.index = b
}

func (va *VertexArray) IndexBuffer() gpu.IndexBuffer {
	if va.index == nil {
		return nil
	}
	return va.index
}

// Delete releases the array object only; buffers are owned by their creators
func (va *VertexArray) Delete() {
	gl.DeleteVertexArrays(1, &va.ID)
}

// UniformBuffer is a GL_UNIFORM_BUFFER bound to a fixed binding point
type UniformBuffer struct {
	ID      uint32
	binding uint32
}

func (u *UniformBuffer) SetData(data []float32) {
	gl.BindBuffer(gl.UNIFORM_BUFFER, u.ID)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data)*4, gl.Ptr(data))
}

func (u *UniformBuffer) Binding() uint32 { return u.binding }

func (u *UniformBuffer) Delete() {
	gl.DeleteBuffers(1, &u.ID)
}
