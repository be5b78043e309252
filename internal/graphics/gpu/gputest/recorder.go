// Package gputest provides a gpu.Device that records calls instead of talking to a driver.
package gputest

import (
	"fmt"

	"forge3d/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// CallKind identifies a recorded device call
type CallKind int

const (
	CallBindProgram CallKind = iota
	CallBindTexture
	CallBindVertexArray
	CallDrawIndexed
	CallDrawInstanced
	CallDrawLines
	CallWireframe
	CallLineWidth
	CallBeginFrame
)

// Call is one recorded device interaction
type Call struct {
	Kind          CallKind
	Program       string
	Slot          uint32
	Texture       *Texture
	VertexArray   *VertexArray
	IndexCount    int
	InstanceCount int
	VertexCount   int
	Enabled       bool
	Width         float32
}

// Device records every call made through the gpu.Device interface.
// The zero value is not usable; call NewDevice.
type Device struct {
	Calls []Call

	Programs       map[string]*Program
	VertexArrays   []*VertexArray
	VertexBuffers  []*VertexBuffer
	UniformBuffers []*UniformBuffer
	Textures       []*Texture

	// FailPrograms makes NewProgram fail for the named programs
	FailPrograms map[string]error

	DepthConfigured bool
	bound           *Program
	nextID          int
}

// NewDevice creates an empty recorder
func NewDevice() *Device {
	return &Device{
		Programs:     make(map[string]*Program),
		FailPrograms: make(map[string]error),
	}
}

func (d *Device) id() int {
	d.nextID++
	return d.nextID
}

func (d *Device) record(c Call) {
	d.Calls = append(d.Calls, c)
}

// Reset drops recorded calls but keeps created resources
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
}

// Count returns how many calls of the given kind were recorded
func (d *Device) Count(kind CallKind) int {
	n := 0
	for _, c := range d.Calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of the given kind in order
func (d *Device) Filter(kind CallKind) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Bound returns the currently bound program
func (d *Device) Bound() *Program {
	return d.bound
}

func (d *Device) NewProgram(src gpu.ProgramSource) (gpu.Program, error) {
	if err := d.FailPrograms[src.Name]; err != nil {
		return nil, fmt.Errorf("program %s: %w", src.Name, err)
	}
	p := &Program{device: d, name: src.Name, Uniforms: make(map[string]any)}
	d.Programs[src.Name] = p
	return p, nil
}

func (d *Device) NewVertexArray() gpu.VertexArray {
	va := &VertexArray{device: d, ID: d.id()}
	d.VertexArrays = append(d.VertexArrays, va)
	return va
}

func (d *Device) NewVertexBuffer(capacityFloats int) gpu.VertexBuffer {
	vb := &VertexBuffer{ID: d.id(), Capacity: capacityFloats}
	d.VertexBuffers = append(d.VertexBuffers, vb)
	return vb
}

func (d *Device) NewVertexBufferWithData(data []float32) gpu.VertexBuffer {
	vb := &VertexBuffer{ID: d.id(), Capacity: len(data)}
	vb.Data = append([]float32(nil), data...)
	d.VertexBuffers = append(d.VertexBuffers, vb)
	return vb
}

func (d *Device) NewIndexBuffer(indices []uint32) gpu.IndexBuffer {
	return &IndexBuffer{ID: d.id(), Indices: append([]uint32(nil), indices...)}
}

func (d *Device) NewUniformBuffer(sizeFloats int, binding uint32) gpu.UniformBuffer {
	ub := &UniformBuffer{binding: binding, Data: make([]float32, sizeFloats)}
	d.UniformBuffers = append(d.UniformBuffers, ub)
	return ub
}

func (d *Device) NewTexture(width, height int) gpu.Texture {
	t := &Texture{device: d, ID: d.id(), width: width, height: height}
	d.Textures = append(d.Textures, t)
	return t
}

func (d *Device) ConfigureDepth() { d.DepthConfigured = true }

func (d *Device) BeginFrame() { d.record(Call{Kind: CallBeginFrame}) }

func (d *Device) SetWireframe(enabled bool) {
	d.record(Call{Kind: CallWireframe, Enabled: enabled})
}

func (d *Device) SetLineWidth(width float32) {
	d.record(Call{Kind: CallLineWidth, Width: width})
}

func (d *Device) program() string {
	if d.bound == nil {
		return ""
	}
	return d.bound.name
}

func (d *Device) DrawIndexed(va gpu.VertexArray, indexCount int) {
	d.record(Call{Kind: CallDrawIndexed, Program: d.program(), VertexArray: asVA(va), IndexCount: indexCount})
}

func (d *Device) DrawIndexedInstanced(va gpu.VertexArray, indexCount, instanceCount int) {
	d.record(Call{Kind: CallDrawInstanced, Program: d.program(), VertexArray: asVA(va), IndexCount: indexCount, InstanceCount: instanceCount})
}

func (d *Device) DrawLines(va gpu.VertexArray, vertexCount int) {
	d.record(Call{Kind: CallDrawLines, Program: d.program(), VertexArray: asVA(va), VertexCount: vertexCount})
}

func asVA(va gpu.VertexArray) *VertexArray {
	v, _ := va.(*VertexArray)
	return v
}

// Program records the last value written to each uniform
type Program struct {
	device   *Device
	name     string
	Uniforms map[string]any
	Deleted  bool
}

func (p *Program) Bind() {
	p.device.bound = p
	p.device.record(Call{Kind: CallBindProgram, Program: p.name})
}

func (p *Program) SetInt(name string, value int32)         { p.Uniforms[name] = value }
func (p *Program) SetFloat(name string, value float32)     { p.Uniforms[name] = value }
func (p *Program) SetFloat3(name string, value mgl32.Vec3) { p.Uniforms[name] = value }
func (p *Program) SetFloat4(name string, value mgl32.Vec4) { p.Uniforms[name] = value }
func (p *Program) SetMat4(name string, value mgl32.Mat4)   { p.Uniforms[name] = value }
func (p *Program) Name() string                            { return p.name }
func (p *Program) Delete()                                 { p.Deleted = true }

// VertexBuffer keeps a copy of the last uploaded data
type VertexBuffer struct {
	ID       int
	Data     []float32
	Capacity int
	Uploads  int
	Deleted  bool
	layout   gpu.BufferLayout
}

func (b *VertexBuffer) Bind() {}

func (b *VertexBuffer) SetData(data []float32) {
	b.Data = append(b.Data[:0], data...)
	if len(data) > b.Capacity {
		b.Capacity = len(data)
	}
	b.Uploads++
}

func (b *VertexBuffer) SetLayout(layout gpu.BufferLayout) { b.layout = layout }
func (b *VertexBuffer) Layout() gpu.BufferLayout          { return b.layout }
func (b *VertexBuffer) Delete()                           { b.Deleted = true }

// IndexBuffer keeps the uploaded indices
type IndexBuffer struct {
	ID      int
	Indices []uint32
	Deleted bool
}

func (b *IndexBuffer) Bind()      {}
func (b *IndexBuffer) Count() int { return len(b.Indices) }
func (b *IndexBuffer) Delete()    { b.Deleted = true }

// VertexArray records its attached buffers
type VertexArray struct {
	device  *Device
	ID      int
	Buffers []*VertexBuffer
	Index   *IndexBuffer
	Deleted bool
}

func (va *VertexArray) Bind() {
	va.device.record(Call{Kind: CallBindVertexArray, VertexArray: va})
}

func (va *VertexArray) AddVertexBuffer(vb gpu.VertexBuffer) {
	if b, ok := vb.(*VertexBuffer); ok {
		va.Buffers = append(va.Buffers, b)
	}
}

func (va *VertexArray) SetIndexBuffer(ib gpu.IndexBuffer) {
	va.Index, _ = ib.(*IndexBuffer)
}

func (va *VertexArray) IndexBuffer() gpu.IndexBuffer {
	if va.Index == nil {
		return nil
	}
	return va.Index
}

func (va *VertexArray) Delete() { va.Deleted = true }

// UniformBuffer keeps the last uploaded block
type UniformBuffer struct {
	binding uint32
	Data    []float32
	Uploads int
	Deleted bool
}

func (u *UniformBuffer) SetData(data []float32) {
	u.Data = append(u.Data[:0], data...)
	u.Uploads++
}

func (u *UniformBuffer) Binding() uint32 { return u.binding }
func (u *UniformBuffer) Delete()         { u.Deleted = true }

// Texture records binds through the owning device
type Texture struct {
	device  *Device
	ID      int
	Pixels  []byte
	Deleted bool
	width   int
	height  int
}

func (t *Texture) Bind(slot uint32) {
	t.device.record(Call{Kind: CallBindTexture, Slot: slot, Texture: t})
}

func (t *Texture) SetData(rgba []byte) { t.Pixels = append(t.Pixels[:0], rgba...) }
func (t *Texture) Width() int          { return t.width }
func (t *Texture) Height() int         { return t.height }
func (t *Texture) Delete()             { t.Deleted = true }
