package renderer

import (
	"forge3d/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// lineVertexFloats is position(3) + colour(4) + entity id(1)
const lineVertexFloats = 8

// lineBatch accumulates debug line vertices for a single DrawLines call
type lineBatch struct {
	va       gpu.VertexArray
	vb       gpu.VertexBuffer
	vertices []float32
	count    int
	capacity int
}

func newLineBatch(dev gpu.Device, capacity int) *lineBatch {
	vb := dev.NewVertexBuffer(capacity * lineVertexFloats)
	vb.SetLayout(gpu.NewLayout(
		gpu.LayoutElement{Type: gpu.Float3, Name: "a_Position"},
		gpu.LayoutElement{Type: gpu.Float4, Name: "a_Color"},
		gpu.LayoutElement{Type: gpu.Float, Name: "a_EntityID"},
	))
	va := dev.NewVertexArray()
	va.AddVertexBuffer(vb)
	return &lineBatch{va: va, vb: vb, capacity: capacity}
}

// full reports whether another segment would overflow the buffer
func (b *lineBatch) full() bool {
	return b.count+2 > b.capacity
}

func (b *lineBatch) add(p0, p1 mgl32.Vec3, c mgl32.Vec4, entityID int) {
	id := float32(entityID)
	b.vertices = append(b.vertices,
		p0[0], p0[1], p0[2], c[0], c[1], c[2], c[3], id,
		p1[0], p1[1], p1[2], c[0], c[1], c[2], c[3], id)
	b.count += 2
}

func (b *lineBatch) reset() {
	b.vertices = b.vertices[:0]
	b.count = 0
}

// setCapacity only applies between scenes, when the batch is empty
func (b *lineBatch) setCapacity(n int) {
	b.capacity = n
}

func (b *lineBatch) delete() {
	b.va.Delete()
	b.vb.Delete()
}

func (r *Renderer) flushLines() {
	if r.lines.count == 0 {
		return
	}
	r.lines.vb.SetData(r.lines.vertices)
	r.use(r.lineProgram)
	r.device.SetLineWidth(r.settings.LineWidth)
	r.device.DrawLines(r.lines.va, r.lines.count)

	r.stats.DrawCalls++
	r.stats.LineDrawCalls++
	r.stats.VertexCount += r.lines.count
	r.lines.reset()
}
