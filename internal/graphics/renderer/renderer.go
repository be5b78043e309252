// Package renderer is the 3D batch renderer. Draw requests recorded between
// BeginScene and EndScene are culled per entity against the camera frustum,
// grouped by mesh and material, and drawn either one call per object or as a
// single instanced call per group.
//
// A Renderer is not safe for concurrent use; every call must come from the
// goroutine that owns the graphics context.
package renderer

import (
	"errors"
	"fmt"
	"image/color"

	"forge3d/internal/config"
	"forge3d/internal/graphics"
	"forge3d/internal/graphics/gpu"
	"forge3d/internal/graphics/mesh"
	"forge3d/internal/graphics/shaders"
	"forge3d/internal/logger"
	"forge3d/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ErrNilDevice is returned by New when no device is supplied
var ErrNilDevice = errors.New("renderer: nil device")

type sceneState int

const (
	stateIdle sceneState = iota
	stateRecording
)

// Uniform block sizes in floats (std140)
const (
	cameraBlockFloats = 20 // mat4 viewProjection, vec3 position, pad
	lightBlockFloats  = 8  // vec3 point light, intensity, vec3 ambient, intensity
)

// Renderer records and draws 3D scenes
type Renderer struct {
	device   gpu.Device
	settings config.RenderSettings
	// settings changed while recording, applied at the next BeginScene
	pending *config.RenderSettings

	meshProgram      gpu.Program
	wireframeProgram gpu.Program
	lineProgram      gpu.Program
	instanced        *InstancedRenderer
	bound            gpu.Program

	cameraUBO  gpu.UniformBuffer
	lightUBO   gpu.UniformBuffer
	cameraData [cameraBlockFloats]float32
	lightData  [lightBlockFloats]float32

	white           gpu.Texture
	defaultMaterial *mesh.Material
	cube            *mesh.Mesh
	sphere          *mesh.Mesh

	pointLightPosition  mgl32.Vec3
	pointLightIntensity float32
	ambientColor        mgl32.Vec3
	ambientIntensity    float32

	culler         *Culler
	cameraPosition mgl32.Vec3
	// whether the current or most recent scene had a frustum to cull against
	sceneCulled bool

	state           sceneState
	queue           []RenderItem
	instanceScratch []InstanceData
	lines           *lineBatch
	stats           Statistics

	warnedNoCamera bool
	warnedIdle     bool
}

// New creates the renderer's programs, primitive meshes and uniform blocks.
// Any program that fails to build fails construction.
func New(dev gpu.Device, settings config.RenderSettings) (*Renderer, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	settings.Validate()
	dev.ConfigureDepth()

	r := &Renderer{
		device:              dev,
		settings:            settings,
		culler:              NewCuller(),
		pointLightPosition:  mgl32.Vec3{1, 1, 0},
		pointLightIntensity: 1,
		ambientColor:        mgl32.Vec3{1, 1, 1},
		ambientIntensity:    0,
	}

	programs := []struct {
		dst *gpu.Program
		src gpu.ProgramSource
	}{
		{&r.meshProgram, shaders.Mesh()},
		{&r.wireframeProgram, shaders.Wireframe()},
		{&r.lineProgram, shaders.Line()},
	}
	for _, p := range programs {
		prog, err := dev.NewProgram(p.src)
		if err != nil {
			r.deletePrograms()
			logger.Log.Error("failed to create program", zap.String("program", p.src.Name), zap.Error(err))
			return nil, fmt.Errorf("failed to create %s program: %w", p.src.Name, err)
		}
		*p.dst = prog
	}
	instancedProgram, err := dev.NewProgram(shaders.Instanced())
	if err != nil {
		r.deletePrograms()
		logger.Log.Error("failed to create program", zap.String("program", "instanced"), zap.Error(err))
		return nil, fmt.Errorf("failed to create instanced program: %w", err)
	}

	r.meshProgram.Bind()
	r.meshProgram.SetInt("u_AlbedoMap", int32(mesh.AlbedoSlot))
	r.meshProgram.SetInt("u_NormalMap", int32(mesh.NormalSlot))
	r.meshProgram.SetInt("u_MetallicMap", int32(mesh.MetallicSlot))
	r.meshProgram.SetInt("u_RoughnessMap", int32(mesh.RoughnessSlot))

	r.white = mesh.NewSolidTexture(dev, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	r.defaultMaterial = mesh.NewMaterial("default")
	r.defaultMaterial.AlbedoMap = r.white

	r.cube = mesh.NewCube(dev, 1)
	r.sphere = mesh.NewSphere(dev, 0.5, 16, 16)
	logger.Log.Info("primitive meshes created",
		zap.Int("cubeVertices", r.cube.VertexCount()), zap.Int("cubeIndices", r.cube.IndexCount()),
		zap.Int("sphereVertices", r.sphere.VertexCount()), zap.Int("sphereIndices", r.sphere.IndexCount()))

	r.cameraUBO = dev.NewUniformBuffer(cameraBlockFloats, shaders.CameraBinding)
	r.lightUBO = dev.NewUniformBuffer(lightBlockFloats, shaders.LightBinding)
	r.uploadLight()

	r.instanced = NewInstancedRenderer(dev, instancedProgram, r.white)
	r.lines = newLineBatch(dev, settings.MaxLineVertices)
	r.settingsChanged()

	logger.Log.Info("renderer initialized",
		zap.Int("instancingThreshold", settings.InstancingThreshold),
		zap.Bool("autoInstancing", settings.AutoInstancing),
		zap.Int("maxInstances", settings.MaxInstances))
	return r, nil
}

func (r *Renderer) deletePrograms() {
	for _, p := range []gpu.Program{r.meshProgram, r.wireframeProgram, r.lineProgram} {
		if p != nil {
			p.Delete()
		}
	}
}

// Shutdown releases every GPU object the renderer created. Meshes and
// materials passed in by callers are left alone.
func (r *Renderer) Shutdown() {
	if r.state == stateRecording {
		logger.Log.Warn("renderer shut down while recording a scene")
		r.queue = r.queue[:0]
		r.state = stateIdle
	}
	r.instanced.Shutdown()
	r.instanced.program.Delete()
	r.deletePrograms()
	r.lines.delete()
	r.cube.Delete()
	r.sphere.Delete()
	r.white.Delete()
	r.cameraUBO.Delete()
	r.lightUBO.Delete()
	r.culler.ClearCullingData()
	logger.Log.Info("renderer shut down")
}

// BeginScene starts a scene seen through a plain camera placed by transform.
// Plain cameras carry no frustum, so nothing is culled in this scene.
func (r *Renderer) BeginScene(camera graphics.Camera, transform mgl32.Mat4) {
	viewProj := camera.Projection.Mul4(transform.Inv())
	r.beginScene(viewProj, graphics.Translation(transform), nil)
}

// BeginScene3D starts a scene culled against the camera's frustum
func (r *Renderer) BeginScene3D(camera *graphics.Camera3D) {
	if camera == nil {
		logger.Log.Warn("BeginScene3D called with nil camera")
		r.beginScene(mgl32.Ident4(), mgl32.Vec3{}, nil)
		return
	}
	r.beginScene(camera.ViewProjection(), camera.Position(), camera)
}

// BeginSceneController starts a scene with the controller's camera
func (r *Renderer) BeginSceneController(c *graphics.CameraController) {
	r.BeginScene3D(c.Camera())
}

func (r *Renderer) beginScene(viewProj mgl32.Mat4, position mgl32.Vec3, camera *graphics.Camera3D) {
	if r.state == stateRecording {
		logger.Log.Warn("BeginScene called while a scene is recording; ending it first")
		r.EndScene()
	}
	defer profiling.Track("renderer.BeginScene")()

	r.applyPending()
	r.device.BeginFrame()

	r.cameraPosition = position
	r.uploadCamera(viewProj, position)
	r.uploadLight()

	var frustum *graphics.Frustum
	if camera != nil && r.settings.FrustumCulling {
		f := *camera.Frustum()
		frustum = &f
	}
	r.culler.SetFrustum(frustum)
	r.culler.ResetCounts()
	r.sceneCulled = frustum != nil

	r.state = stateRecording
	r.StartBatch()
}

// EndScene draws everything still queued and finalises the frame statistics
func (r *Renderer) EndScene() {
	if r.state != stateRecording {
		logger.Log.Warn("EndScene called without BeginScene")
		return
	}
	defer profiling.Track("renderer.EndScene")()

	r.stats.MeshCount = r.culler.TotalMeshCount()
	r.stats.VisibleMeshCount = r.culler.VisibleMeshCount()
	r.stats.CulledMeshCount = r.culler.CulledMeshCount()

	r.Flush()
	r.stats.InstancingEfficiency = r.stats.instancingEfficiency()

	if n := r.instanced.Prune(); n > 0 {
		logger.Log.Debug("pruned instanced vertex arrays of collected meshes", zap.Int("count", n))
	}
	r.culler.SetFrustum(nil)
	r.state = stateIdle
}

// StartBatch empties the render queue and the line buffer
func (r *Renderer) StartBatch() {
	r.queue = r.queue[:0]
	r.lines.reset()
	r.bound = nil
}

// Flush draws the queued items and lines
func (r *Renderer) Flush() {
	defer profiling.Track("renderer.Flush")()
	r.flushQueue()
	r.flushLines()
}

// NextBatch flushes what has been recorded so far and keeps the scene open
func (r *Renderer) NextBatch() {
	if !r.recording("NextBatch") {
		return
	}
	r.Flush()
	r.StartBatch()
}

// recording reports whether draws are accepted, warning once if not
func (r *Renderer) recording(op string) bool {
	if r.state == stateRecording {
		return true
	}
	if !r.warnedIdle {
		r.warnedIdle = true
		logger.Log.Warn("draw call outside BeginScene/EndScene ignored", zap.String("op", op))
	}
	return false
}

func (r *Renderer) use(p gpu.Program) {
	if r.bound != p {
		p.Bind()
		r.bound = p
	}
}

func (r *Renderer) uploadCamera(viewProj mgl32.Mat4, position mgl32.Vec3) {
	copy(r.cameraData[:16], viewProj[:])
	copy(r.cameraData[16:19], position[:])
	r.cameraData[19] = 0
	r.cameraUBO.SetData(r.cameraData[:])
}

func (r *Renderer) uploadLight() {
	copy(r.lightData[0:3], r.pointLightPosition[:])
	r.lightData[3] = r.pointLightIntensity
	copy(r.lightData[4:7], r.ambientColor[:])
	r.lightData[7] = r.ambientIntensity
	r.lightUBO.SetData(r.lightData[:])
}

// SetPointLight moves the point light; takes effect at the next BeginScene
func (r *Renderer) SetPointLight(position mgl32.Vec3, intensity float32) {
	r.pointLightPosition = position
	r.pointLightIntensity = intensity
}

// SetAmbientLight sets the ambient term; takes effect at the next BeginScene
func (r *Renderer) SetAmbientLight(c mgl32.Vec3, intensity float32) {
	r.ambientColor = c
	r.ambientIntensity = intensity
}

// CameraPosition is the world position of the current (or last) scene's camera
func (r *Renderer) CameraPosition() mgl32.Vec3 { return r.cameraPosition }

// CubeMesh is the unit cube used by DrawCube
func (r *Renderer) CubeMesh() *mesh.Mesh { return r.cube }

// SphereMesh is the unit-diameter sphere used by DrawSphere
func (r *Renderer) SphereMesh() *mesh.Mesh { return r.sphere }

// DefaultMaterial is used for model meshes without a material
func (r *Renderer) DefaultMaterial() *mesh.Material { return r.defaultMaterial }

// Instanced exposes the instanced path for cache control and its statistics
func (r *Renderer) Instanced() *InstancedRenderer { return r.instanced }
