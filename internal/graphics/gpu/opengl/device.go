// Package opengl implements gpu.Device on top of an OpenGL 4.1 core context.
//
// Every call must happen on the goroutine that owns the context; the device
// does no locking of its own.
package opengl

import (
	"fmt"

	"forge3d/internal/graphics/gpu"
	"forge3d/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// Device is the OpenGL implementation of gpu.Device
type Device struct{}

// NewDevice loads the GL function pointers for the current context
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl init: %w", err)
	}
	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return &Device{}, nil
}

func (d *Device) NewProgram(src gpu.ProgramSource) (gpu.Program, error) {
	p, err := newProgram(src)
	if err != nil {
		return nil, err
	}
	for name, binding := range src.Blocks {
		idx := gl.GetUniformBlockIndex(p.ID, gl.Str(name+"\x00"))
		if idx == gl.INVALID_INDEX {
			continue
		}
		gl.UniformBlockBinding(p.ID, idx, binding)
	}
	return p, nil
}

func (d *Device) NewVertexArray() gpu.VertexArray {
	va := &VertexArray{}
	gl.GenVertexArrays(1, &va.ID)
	return va
}

func (d *Device) NewVertexBuffer(capacityFloats int) gpu.VertexBuffer {
	b := &VertexBuffer{capacity: capacityFloats}
	gl.GenBuffers(1, &b.ID)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.ID)
	gl.BufferData(gl.ARRAY_BUFFER, capacityFloats*4, nil, gl.DYNAMIC_DRAW)
	return b
}

func (d *Device) NewVertexBufferWithData(data []float32) gpu.VertexBuffer {
	b := &VertexBuffer{capacity: len(data)}
	gl.GenBuffers(1, &b.ID)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.ID)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	return b
}

func (d *Device) NewIndexBuffer(indices []uint32) gpu.IndexBuffer {
	b := &IndexBuffer{count: len(indices)}
	gl.GenBuffers(1, &b.ID)
	// Bind through ARRAY_BUFFER so no VAO's element binding is disturbed
	gl.BindBuffer(gl.ARRAY_BUFFER, b.ID)
	if len(indices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	return b
}

func (d *Device) NewUniformBuffer(sizeFloats int, binding uint32) gpu.UniformBuffer {
	u := &UniformBuffer{binding: binding}
	gl.GenBuffers(1, &u.ID)
	gl.BindBuffer(gl.UNIFORM_BUFFER, u.ID)
	gl.BufferData(gl.UNIFORM_BUFFER, sizeFloats*4, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, u.ID)
	return u
}

func (d *Device) NewTexture(width, height int) gpu.Texture {
	return newTexture(width, height)
}

// ConfigureDepth enables depth testing and back-face culling
func (d *Device) ConfigureDepth() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.DepthRange(0.0, 1.0)
	gl.ClearDepth(1.0)
	logger.Log.Debug("depth test configured")
}

func (d *Device) BeginFrame() {
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
}

func (d *Device) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (d *Device) SetLineWidth(width float32) {
	gl.LineWidth(width)
}

func (d *Device) DrawIndexed(va gpu.VertexArray, indexCount int) {
	va.Bind()
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil)
}

func (d *Device) DrawIndexedInstanced(va gpu.VertexArray, indexCount, instanceCount int) {
	va.Bind()
	gl.DrawElementsInstanced(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil, int32(instanceCount))
}

func (d *Device) DrawLines(va gpu.VertexArray, vertexCount int) {
	va.Bind()
	gl.DrawArrays(gl.LINES, 0, int32(vertexCount))
}
