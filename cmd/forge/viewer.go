package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forge3d/internal/config"
	"forge3d/internal/graphics"
	"forge3d/internal/graphics/renderer"
	"forge3d/internal/input"
	"forge3d/internal/logger"
	"forge3d/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

type viewer struct {
	window     *glfw.Window
	r          *renderer.Renderer
	scene      *scene
	input      *input.InputManager
	controller *graphics.CameraController
	limiter    *FPSLimiter

	fpsLimit int
	captured bool
	// reapplies command-line overrides to reloaded settings
	reconfigure func(config.RenderSettings) config.RenderSettings
}

func newViewer(window *glfw.Window, r *renderer.Renderer, s *scene, settings config.RenderSettings) *viewer {
	width, height := window.GetFramebufferSize()
	c := graphics.NewCameraController(float32(width)/float32(max(height, 1)), graphics.ModeFly)
	c.Camera().SetFOV(settings.FOV)
	c.SetTargetFOV(settings.FOV)

	v := &viewer{
		window:     window,
		r:          r,
		scene:      s,
		input:      input.NewInputManager(),
		controller: c,
		limiter:    NewFPSLimiter(),
		fpsLimit:   settings.FPSLimit,
		captured:   true,
	}
	v.setupCallbacks()
	resizeViewport(width, height)
	return v
}

func (v *viewer) setupCallbacks() {
	v.input.SetKeyCallback(v.window)
	v.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		v.input.HandleMouseButtonEvent(button, action)
	})
	v.window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if v.captured {
			v.controller.OnMouseMoved(x, y)
		}
	})
	v.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		v.controller.OnMouseScrolled(yoff)
	})
	v.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		resizeViewport(width, height)
		v.controller.OnResize(width, height)
	})
}

func (v *viewer) run(ctx context.Context, reloads <-chan config.RenderSettings) {
	frames := 0
	lastTitle := time.Now()
	lastTime := time.Now()

	for ctx.Err() == nil && !v.window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		select {
		case s, ok := <-reloads:
			if !ok {
				reloads = nil
				break
			}
			v.applySettings(s)
		default:
		}

		v.handleActions()
		func() {
			defer profiling.Track("camera.Update")()
			v.controller.Update(dt, v.movement())
		}()

		v.r.ResetStats()
		clearColor()
		func() {
			defer profiling.Track("scene.Draw")()
			v.scene.draw(v.r, v.controller, now.Sub(v.scene.start).Seconds())
		}()
		frames++

		if time.Since(lastTitle) >= time.Second {
			v.window.SetTitle(title(frames, v.r.Stats().FrameStats, v.controller.Mode()))
			frames = 0
			lastTitle = time.Now()
		}

		v.input.PostUpdate()
		func() { defer profiling.Track("glfw.SwapBuffers")(); v.window.SwapBuffers() }()
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
		v.limiter.Wait(v.fpsLimit, !v.captured)
	}
}

func (v *viewer) movement() graphics.Movement {
	if !v.captured {
		return graphics.Movement{}
	}
	return graphics.Movement{
		Forward:  v.input.IsActive(input.ActionMoveForward),
		Backward: v.input.IsActive(input.ActionMoveBackward),
		Left:     v.input.IsActive(input.ActionMoveLeft),
		Right:    v.input.IsActive(input.ActionMoveRight),
		Up:       v.input.IsActive(input.ActionMoveUp),
		Down:     v.input.IsActive(input.ActionMoveDown),
	}
}

func (v *viewer) handleActions() {
	in := v.input
	if in.JustPressed(input.ActionToggleWireframe) {
		v.r.EnableWireframe(!v.r.IsWireframeEnabled())
		logger.Log.Info("wireframe toggled", zap.Bool("enabled", v.r.IsWireframeEnabled()))
	}
	if in.JustPressed(input.ActionToggleInstancing) {
		v.r.EnableAutoInstancing(!v.r.IsAutoInstancingEnabled())
		logger.Log.Info("auto-instancing toggled", zap.Bool("enabled", v.r.IsAutoInstancingEnabled()))
	}
	if in.JustPressed(input.ActionToggleCulling) {
		v.r.EnableFrustumCulling(!v.r.IsFrustumCullingEnabled())
		logger.Log.Info("frustum culling toggled", zap.Bool("enabled", v.r.IsFrustumCullingEnabled()))
	}
	if in.JustPressed(input.ActionDebugCulling) {
		v.r.DebugCulling()
	}
	if in.JustPressed(input.ActionCycleCameraMode) {
		next := (v.controller.Mode() + 1) % 3
		v.controller.SetMode(next)
		logger.Log.Info("camera mode", zap.Stringer("mode", next))
	}
	if in.JustPressed(input.ActionReleaseMouse) {
		v.setCaptured(!v.captured)
	}
	if !v.captured && in.JustPressed(input.ActionMouseLeft) {
		v.setCaptured(true)
	}
}

func (v *viewer) setCaptured(captured bool) {
	v.captured = captured
	if captured {
		v.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		v.controller.ResetMouse()
		return
	}
	v.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

// applySettings takes a reloaded config file
func (v *viewer) applySettings(s config.RenderSettings) {
	if v.reconfigure != nil {
		s = v.reconfigure(s)
	}
	v.r.ApplySettings(s)
	v.fpsLimit = s.FPSLimit
	v.controller.SetTargetFOV(s.FOV)
	v.scene.resize(s.GridSize)
}

func title(fps int, st renderer.FrameStats, mode graphics.ControlMode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "forge | %d fps | %s | %d draws | %d instanced in %d calls | %d/%d culled",
		fps, mode, st.DrawCalls, st.InstancedObjects, st.InstancedDrawCalls, st.CulledMeshCount, st.MeshCount)
	fmt.Fprintf(&b, " | inst %.0f%% cull %.0f%%", st.InstancingEfficiency, st.CullingEfficiency())
	if top := profiling.TopN(2); top != "" {
		b.WriteString(" | ")
		b.WriteString(top)
	}
	return b.String()
}
