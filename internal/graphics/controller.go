package graphics

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ControlMode selects how a CameraController moves its camera
type ControlMode int

const (
	ModeFly ControlMode = iota
	ModeOrbit
	ModeFirstPerson
)

func (m ControlMode) String() string {
	switch m {
	case ModeFly:
		return "fly"
	case ModeOrbit:
		return "orbit"
	case ModeFirstPerson:
		return "first-person"
	}
	return "unknown"
}

// Movement is the set of movement keys held this frame
type Movement struct {
	Forward, Backward, Left, Right, Up, Down bool
}

const (
	maxPitchDeg = 89.0
	springFPS   = 60
)

// CameraController drives a Camera3D from mouse and keyboard input.
// Orbit distance and field of view follow their targets through critically
// damped springs so scroll zoom and FOV changes ease in.
type CameraController struct {
	camera *Camera3D
	mode   ControlMode

	MovementSpeed float32
	RotationSpeed float32 // degrees per pixel
	ZoomSpeed     float32

	MouseEnabled bool
	firstMouse   bool
	lastX, lastY float64

	// orbit state, degrees
	pitch    float32
	yaw      float32
	distance float64
	distVel  float64
	distGoal float64

	fov       float64
	fovVel    float64
	fovGoal   float64
	fovSpring harmonica.Spring
	zoom      harmonica.Spring
}

// NewCameraController creates a camera at (0, 2, 5) facing the origin
func NewCameraController(aspect float32, mode ControlMode) *CameraController {
	cam := NewCamera3D(60, aspect, 0.1, 1000)
	c := &CameraController{
		camera:        cam,
		mode:          mode,
		MovementSpeed: 5,
		RotationSpeed: 0.1,
		ZoomSpeed:     0.5,
		MouseEnabled:  true,
		firstMouse:    true,
		pitch:         15,
		yaw:           0,
		distance:      5,
		distGoal:      5,
		fov:           60,
		fovGoal:       60,
		fovSpring:     harmonica.NewSpring(harmonica.FPS(springFPS), 6.0, 1.0),
		zoom:          harmonica.NewSpring(harmonica.FPS(springFPS), 6.0, 1.0),
	}
	cam.SetPosition(mgl32.Vec3{0, 2, 5})
	cam.SetRotation(mgl32.Vec3{mgl32.DegToRad(-15), math32.Pi, 0})
	if mode == ModeOrbit {
		c.updateOrbit()
	}
	return c
}

// Camera returns the controlled camera
func (c *CameraController) Camera() *Camera3D { return c.camera }

func (c *CameraController) Mode() ControlMode { return c.mode }

// SetMode switches control mode; entering orbit mode re-derives the orbit
// angles from the current camera placement.
func (c *CameraController) SetMode(mode ControlMode) {
	if mode == ModeOrbit && c.mode != ModeOrbit {
		offset := c.camera.Position().Sub(c.camera.FocalPoint())
		if d := offset.Len(); d > 0 {
			c.distance = float64(d)
			c.distGoal = c.distance
			c.pitch = mgl32.RadToDeg(math32.Asin(offset[1] / d))
			c.yaw = mgl32.RadToDeg(math32.Atan2(offset[0], offset[2]))
		}
	}
	c.mode = mode
	if mode == ModeOrbit {
		c.updateOrbit()
	}
}

// SetTargetFOV eases the camera's field of view toward fov degrees
func (c *CameraController) SetTargetFOV(fov float32) {
	c.fovGoal = float64(fov)
}

// Update advances springs and applies movement for a frame of dt seconds
func (c *CameraController) Update(dt float32, m Movement) {
	c.fov, c.fovVel = c.fovSpring.Update(c.fov, c.fovVel, c.fovGoal)
	if math32.Abs(float32(c.fov)-c.camera.FOV()) > 1e-4 {
		c.camera.SetFOV(float32(c.fov))
	}

	switch c.mode {
	case ModeFly:
		c.updateFly(dt, m)
	case ModeOrbit:
		c.distance, c.distVel = c.zoom.Update(c.distance, c.distVel, c.distGoal)
		c.updateOrbit()
	case ModeFirstPerson:
		c.updateFirstPerson(dt, m)
	}
}

func (c *CameraController) updateFly(dt float32, m Movement) {
	forward := c.camera.Forward()
	right := c.camera.Right()
	up := c.camera.Up()
	c.move(dt, m, forward, right, up)
}

// updateFirstPerson moves on the horizontal plane; Up/Down change height directly
func (c *CameraController) updateFirstPerson(dt float32, m Movement) {
	forward := c.camera.Forward()
	forward[1] = 0
	if forward.Len() == 0 {
		return
	}
	forward = forward.Normalize()
	c.move(dt, m, forward, c.camera.Right(), worldUp)
}

func (c *CameraController) move(dt float32, m Movement, forward, right, up mgl32.Vec3) {
	pos := c.camera.Position()
	v := c.MovementSpeed * dt
	if m.Forward {
		pos = pos.Add(forward.Mul(v))
	}
	if m.Backward {
		pos = pos.Sub(forward.Mul(v))
	}
	if m.Right {
		pos = pos.Add(right.Mul(v))
	}
	if m.Left {
		pos = pos.Sub(right.Mul(v))
	}
	if m.Up {
		pos = pos.Add(up.Mul(v))
	}
	if m.Down {
		pos = pos.Sub(up.Mul(v))
	}
	if pos != c.camera.Position() {
		c.camera.SetPosition(pos)
	}
}

// updateOrbit places the camera on a sphere around the focal point and aims it inward
func (c *CameraController) updateOrbit() {
	pitch := mgl32.DegToRad(c.pitch)
	yaw := mgl32.DegToRad(c.yaw)
	d := float32(c.distance)

	offset := mgl32.Vec3{
		d * math32.Cos(pitch) * math32.Sin(yaw),
		d * math32.Sin(pitch),
		d * math32.Cos(pitch) * math32.Cos(yaw),
	}
	focal := c.camera.FocalPoint()
	c.camera.SetPosition(focal.Add(offset))
	c.camera.SetForward(focal.Sub(c.camera.Position()))
}

// OnMouseMoved applies a cursor position in window pixels
func (c *CameraController) OnMouseMoved(x, y float64) {
	if !c.MouseEnabled {
		return
	}
	if c.firstMouse {
		c.lastX, c.lastY = x, y
		c.firstMouse = false
		return
	}

	xOffset := float32(c.lastX-x) * c.RotationSpeed
	yOffset := float32(y-c.lastY) * c.RotationSpeed
	c.lastX, c.lastY = x, y

	if c.mode == ModeOrbit {
		c.yaw += xOffset
		c.pitch = mgl32.Clamp(c.pitch-yOffset, -maxPitchDeg, maxPitchDeg)
		c.updateOrbit()
		return
	}

	rot := c.camera.Rotation()
	pitch := mgl32.Clamp(mgl32.RadToDeg(rot[0])-yOffset, -maxPitchDeg, maxPitchDeg)
	yaw := mgl32.RadToDeg(rot[1]) + xOffset
	c.camera.SetRotation(mgl32.Vec3{mgl32.DegToRad(pitch), mgl32.DegToRad(yaw), 0})
}

// ResetMouse forgets the last cursor position, e.g. after re-capturing the cursor
func (c *CameraController) ResetMouse() {
	c.firstMouse = true
}

// OnMouseScrolled zooms: orbit distance in orbit mode, movement speed otherwise
func (c *CameraController) OnMouseScrolled(yOffset float64) {
	zoom := yOffset * float64(c.ZoomSpeed)
	if c.mode == ModeOrbit {
		c.distGoal = max(1.0, c.distGoal-zoom)
		return
	}
	c.MovementSpeed = max(1.0, c.MovementSpeed+float32(zoom))
}

// OnResize updates the camera aspect ratio
func (c *CameraController) OnResize(width, height int) {
	c.camera.SetViewport(width, height)
}

// OrbitDistance returns the current (eased) orbit distance
func (c *CameraController) OrbitDistance() float32 { return float32(c.distance) }
