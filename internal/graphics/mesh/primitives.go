package mesh

import (
	"forge3d/internal/graphics/gpu"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// vertexWriter appends standard-layout vertices
type vertexWriter struct {
	data []float32
}

func (w *vertexWriter) add(pos, normal, tangent mgl32.Vec3, u, v float32) {
	w.data = append(w.data,
		pos[0], pos[1], pos[2],
		normal[0], normal[1], normal[2],
		tangent[0], tangent[1], tangent[2],
		u, v)
}

// CubeData builds a cube of edge size centred on the origin from 8 shared
// corners. Corner normals point away from the centre.
func CubeData(size float32) ([]float32, []uint32) {
	h := size * 0.5
	corners := [8]mgl32.Vec3{
		{-h, -h, h},
		{h, -h, h},
		{h, h, h},
		{-h, h, h},
		{-h, -h, -h},
		{h, -h, -h},
		{h, h, -h},
		{-h, h, -h},
	}

	w := vertexWriter{data: make([]float32, 0, len(corners)*FloatsPerVertex)}
	for _, p := range corners {
		normal := p.Normalize()
		up := mgl32.Vec3{0, 1, 0}
		if math32.Abs(normal[1]) > 0.99 {
			up = mgl32.Vec3{1, 0, 0}
		}
		tangent := up.Cross(normal).Normalize()
		w.add(p, normal, tangent, p[0]/size+0.5, p[1]/size+0.5)
	}

	indices := []uint32{
		0, 1, 2, 2, 3, 0, // front
		1, 5, 6, 6, 2, 1, // right
		5, 4, 7, 7, 6, 5, // back
		4, 0, 3, 3, 7, 4, // left
		4, 5, 1, 1, 0, 4, // bottom
		3, 2, 6, 6, 7, 3, // top
	}
	return w.data, indices
}

// SphereData builds a UV sphere with segX slices around Y and segY stacks
func SphereData(radius float32, segX, segY int) ([]float32, []uint32) {
	segX = max(segX, 3)
	segY = max(segY, 2)

	w := vertexWriter{data: make([]float32, 0, (segX+1)*(segY+1)*FloatsPerVertex)}
	for y := 0; y <= segY; y++ {
		for x := 0; x <= segX; x++ {
			u := float32(x) / float32(segX)
			v := float32(y) / float32(segY)
			theta := u * 2 * math32.Pi
			phi := v * math32.Pi

			n := mgl32.Vec3{
				math32.Cos(theta) * math32.Sin(phi),
				math32.Cos(phi),
				math32.Sin(theta) * math32.Sin(phi),
			}
			tangent := mgl32.Vec3{-math32.Sin(theta), 0, math32.Cos(theta)}
			w.add(n.Mul(radius), n, tangent, u, v)
		}
	}

	indices := make([]uint32, 0, segX*segY*6)
	row := uint32(segX + 1)
	for y := 0; y < segY; y++ {
		for x := 0; x < segX; x++ {
			first := uint32(y)*row + uint32(x)
			second := first + 1
			third := first + row
			fourth := third + 1
			indices = append(indices, first, second, third, second, fourth, third)
		}
	}
	return w.data, indices
}

// PlaneData builds a width x depth quad on the XZ plane facing +Y
func PlaneData(width, depth float32) ([]float32, []uint32) {
	hw, hd := width*0.5, depth*0.5
	up := mgl32.Vec3{0, 1, 0}
	tangent := mgl32.Vec3{1, 0, 0}

	var w vertexWriter
	w.add(mgl32.Vec3{-hw, 0, -hd}, up, tangent, 0, 0)
	w.add(mgl32.Vec3{hw, 0, -hd}, up, tangent, 1, 0)
	w.add(mgl32.Vec3{hw, 0, hd}, up, tangent, 1, 1)
	w.add(mgl32.Vec3{-hw, 0, hd}, up, tangent, 0, 1)
	return w.data, []uint32{1, 0, 2, 2, 0, 3}
}

// CylinderData builds a capped cylinder along Y. Each ring step emits four
// vertices: top cap rim, bottom cap rim, side top, side bottom.
func CylinderData(radius, height float32, segments int) ([]float32, []uint32) {
	segments = max(segments, 3)
	hh := height * 0.5
	up := mgl32.Vec3{0, 1, 0}
	down := mgl32.Vec3{0, -1, 0}
	capTangent := mgl32.Vec3{1, 0, 0}

	w := vertexWriter{data: make([]float32, 0, (2+4*(segments+1))*FloatsPerVertex)}
	w.add(mgl32.Vec3{0, hh, 0}, up, capTangent, 0.5, 0.5)
	w.add(mgl32.Vec3{0, -hh, 0}, down, capTangent, 0.5, 0.5)

	for i := 0; i <= segments; i++ {
		s := float32(i) / float32(segments)
		angle := s * 2 * math32.Pi
		x, z := math32.Cos(angle), math32.Sin(angle)
		capU, capV := (x+1)*0.5, (z+1)*0.5
		side := mgl32.Vec3{x, 0, z}
		sideTangent := mgl32.Vec3{-z, 0, x}

		w.add(mgl32.Vec3{x * radius, hh, z * radius}, up, capTangent, capU, capV)
		w.add(mgl32.Vec3{x * radius, -hh, z * radius}, down, capTangent, capU, capV)
		w.add(mgl32.Vec3{x * radius, hh, z * radius}, side, sideTangent, s, 1)
		w.add(mgl32.Vec3{x * radius, -hh, z * radius}, side, sideTangent, s, 0)
	}

	const (
		topCenter    = 0
		bottomCenter = 1
		topRim       = 2
		bottomRim    = 3
		sideTop      = 4
		sideBottom   = 5
	)
	ring := func(base, i int) uint32 { return uint32(base + i*4) }

	indices := make([]uint32, 0, segments*12)
	for i := 0; i < segments; i++ {
		indices = append(indices, topCenter, ring(topRim, i+1), ring(topRim, i))
	}
	for i := 0; i < segments; i++ {
		indices = append(indices, bottomCenter, ring(bottomRim, i), ring(bottomRim, i+1))
	}
	for i := 0; i < segments; i++ {
		indices = append(indices,
			ring(sideTop, i), ring(sideBottom, i+1), ring(sideBottom, i),
			ring(sideTop, i), ring(sideTop, i+1), ring(sideBottom, i+1))
	}
	return w.data, indices
}

// NewCube uploads CubeData
func NewCube(dev gpu.Device, size float32) *Mesh {
	v, i := CubeData(size)
	return New(dev, "cube", v, i)
}

// NewSphere uploads SphereData
func NewSphere(dev gpu.Device, radius float32, segX, segY int) *Mesh {
	v, i := SphereData(radius, segX, segY)
	return New(dev, "sphere", v, i)
}

// NewPlane uploads PlaneData
func NewPlane(dev gpu.Device, width, depth float32) *Mesh {
	v, i := PlaneData(width, depth)
	return New(dev, "plane", v, i)
}

// NewCylinder uploads CylinderData
func NewCylinder(dev gpu.Device, radius, height float32, segments int) *Mesh {
	v, i := CylinderData(radius, height, segments)
	return New(dev, "cylinder", v, i)
}
