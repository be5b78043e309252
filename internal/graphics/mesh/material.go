package mesh

import (
	"forge3d/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture units used for material maps
const (
	AlbedoSlot uint32 = iota
	NormalSlot
	MetallicSlot
	RoughnessSlot
	MaxMapSlots
)

// Material is a metallic/roughness surface description. Nil maps are
// substituted with a white texture at draw time.
type Material struct {
	Name        string
	AlbedoColor mgl32.Vec4
	Metallic    float32
	Roughness   float32

	AlbedoMap    gpu.Texture
	NormalMap    gpu.Texture
	MetallicMap  gpu.Texture
	RoughnessMap gpu.Texture
}

// NewMaterial returns a white, non-metallic material of medium roughness
func NewMaterial(name string) *Material {
	return &Material{
		Name:        name,
		AlbedoColor: mgl32.Vec4{1, 1, 1, 1},
		Metallic:    0,
		Roughness:   0.5,
	}
}

// Maps returns the texture maps indexed by slot
func (m *Material) Maps() [MaxMapSlots]gpu.Texture {
	return [MaxMapSlots]gpu.Texture{m.AlbedoMap, m.NormalMap, m.MetallicMap, m.RoughnessMap}
}
