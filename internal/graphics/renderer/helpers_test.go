package renderer

import (
	"testing"

	"forge3d/internal/config"
	"forge3d/internal/graphics"
	"forge3d/internal/graphics/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

var red = mgl32.Vec4{1, 0, 0, 1}

func newTestRenderer(t *testing.T) (*Renderer, *gputest.Device) {
	t.Helper()
	dev := gputest.NewDevice()
	r, err := New(dev, config.Default())
	require.NoError(t, err)
	t.Cleanup(r.Shutdown)
	dev.Reset()
	return r, dev
}

// testCamera sits at (0, 0, 10) looking down -Z with a far plane of 100
func testCamera() *graphics.Camera3D {
	c := graphics.NewCamera3D(60, 1, 0.1, 100)
	c.SetPosition(mgl32.Vec3{0, 0, 10})
	c.SetForward(mgl32.Vec3{0, 0, -1})
	return c
}

func at(x, y, z float32) mgl32.Mat4 { return mgl32.Translate3D(x, y, z) }

// behind is well behind testCamera's near plane
var behind = at(0, 0, 50)
