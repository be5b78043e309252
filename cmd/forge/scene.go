package main

import (
	"image/color"
	"time"

	"forge3d/internal/graphics"
	"forge3d/internal/graphics/gpu"
	"forge3d/internal/graphics/mesh"
	"forge3d/internal/graphics/renderer"
	"forge3d/internal/logger"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const gridSpacing = 2.5

// scene is the demo content. Grid cubes share the renderer's cube and have
// no material, so they collapse into one instanced group; grid spheres share
// one material; the pillars each own a material and go down the individual path.
type scene struct {
	start     time.Time
	grid      int
	positions []mgl32.Vec3

	sphereMaterial *mesh.Material
	pillars        []*mesh.Material
	pillarTexture  gpu.Texture
	cylinder       *mesh.Mesh
	ground         *mesh.Mesh
	groundTexture  gpu.Texture
	model          *mesh.Model
}

func newScene(dev gpu.Device, grid int, albedoPath string) *scene {
	s := &scene{start: time.Now(), grid: -1}
	s.resize(grid)

	s.sphereMaterial = mesh.NewMaterial("grid-spheres")
	s.sphereMaterial.AlbedoColor = mgl32.Vec4{0.9, 0.75, 0.2, 1}
	s.sphereMaterial.Metallic = 0.8
	s.sphereMaterial.Roughness = 0.3

	for i, c := range []mgl32.Vec4{{0.9, 0.2, 0.2, 1}, {0.2, 0.9, 0.3, 1}, {0.2, 0.4, 0.9, 1}} {
		m := mesh.NewMaterial("pillar")
		m.AlbedoColor = c
		m.Roughness = 0.2 + 0.3*float32(i)
		s.pillars = append(s.pillars, m)
	}
	s.pillarTexture = applyAlbedo(dev, albedoPath, s.pillars)

	s.cylinder = mesh.NewCylinder(dev, 0.5, 1, 24)
	s.ground = mesh.NewPlane(dev, 1, 1)
	s.groundTexture = mesh.NewSolidTexture(dev, color.RGBA{R: 70, G: 74, B: 82, A: 255})
	s.ground.Material = mesh.NewMaterial("ground")
	s.ground.Material.AlbedoMap = s.groundTexture
	s.ground.Material.Roughness = 0.9

	body := mesh.NewCube(dev, 1)
	body.Name = "gizmo-body"
	head := mesh.NewSphere(dev, 0.5, 12, 12)
	head.Name = "gizmo-head"
	s.model = mesh.NewModel("gizmo", body, head)
	return s
}

// applyAlbedo loads path as the albedo map of every material. A load failure
// is logged and leaves the materials untextured.
func applyAlbedo(dev gpu.Device, path string, materials []*mesh.Material) gpu.Texture {
	if path == "" {
		return nil
	}
	tex, err := mesh.LoadTexture(dev, path)
	if err != nil {
		logger.Log.Warn("albedo texture not loaded", zap.String("path", path), zap.Error(err))
		return nil
	}
	for _, m := range materials {
		m.AlbedoMap = tex
	}
	return tex
}

// resize rebuilds the grid positions for an n x n grid
func (s *scene) resize(n int) {
	if n == s.grid {
		return
	}
	s.grid = n
	s.positions = gridPositions(n, gridSpacing)
}

// gridPositions centres an n x n grid of points on the origin in the XZ plane
func gridPositions(n int, spacing float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, n*n)
	offset := float32(n-1) * spacing / 2
	for z := range n {
		for x := range n {
			out = append(out, mgl32.Vec3{float32(x)*spacing - offset, 0, float32(z)*spacing - offset})
		}
	}
	return out
}

func (s *scene) draw(r *renderer.Renderer, c *graphics.CameraController, t float64) {
	r.BeginSceneController(c)
	defer r.EndScene()

	n := len(s.positions)
	size := gridExtent(s.grid)
	r.DrawMeshWithMaterial(graphics.TranslateScale(mgl32.Vec3{0, -0.5, 0}, mgl32.Vec3{size, 1, size}),
		s.ground, s.ground.Material, renderer.NoEntity)

	bob := float32(t)
	for i, p := range s.positions {
		hue := float32(i%7) / 7
		r.DrawCubeAt(p, mgl32.Vec3{1, 1, 1}, mgl32.Vec4{0.3 + 0.7*hue, 0.5, 1 - hue, 1}, i)
		if i%2 == 0 {
			up := p.Add(mgl32.Vec3{0, 1.5 + 0.25*math32.Sin(bob*2+float32(i)), 0})
			r.DrawSphereAtWithMaterial(up, 0.4, s.sphereMaterial, n+i)
		}
	}

	for i, m := range s.pillars {
		pos := mgl32.Vec3{float32(i-1) * 4, 1.5, -size/2 - 3}
		r.DrawMeshTRSWithMaterial(pos, mgl32.Vec3{1, 3, 1}, mgl32.Vec3{}, s.cylinder, m, 2*n+i)
	}

	spin := graphics.ComposeTransform(mgl32.Vec3{0, 4, 0}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, float32(t) * 45, 0})
	r.DrawModel(spin, mesh.ModelRenderer{Model: s.model}, 2*n+len(s.pillars))

	half := size / 2
	r.DrawBox(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{size, 3, size}, mgl32.Vec4{1, 1, 1, 0.5}, renderer.NoEntity)
	r.DrawLine3D(mgl32.Vec3{}, mgl32.Vec3{half, 0, 0}, mgl32.Vec4{1, 0, 0, 1}, renderer.NoEntity)
	r.DrawLine3D(mgl32.Vec3{}, mgl32.Vec3{0, half, 0}, mgl32.Vec4{0, 1, 0, 1}, renderer.NoEntity)
	r.DrawLine3D(mgl32.Vec3{}, mgl32.Vec3{0, 0, half}, mgl32.Vec4{0, 0, 1, 1}, renderer.NoEntity)
}

// gridExtent is the edge length covering an n x n grid plus a margin
func gridExtent(n int) float32 {
	return float32(max(n, 1)) * gridSpacing
}

// delete releases the scene's meshes and drops their instanced vertex arrays
func (s *scene) delete(r *renderer.Renderer) {
	meshes := append([]*mesh.Mesh{s.cylinder, s.ground}, s.model.Meshes...)
	for _, m := range meshes {
		r.Instanced().InvalidateMesh(m)
		m.Delete()
	}
	s.groundTexture.Delete()
	if s.pillarTexture != nil {
		s.pillarTexture.Delete()
	}
}
