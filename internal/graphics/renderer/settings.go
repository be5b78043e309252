package renderer

import (
	"forge3d/internal/config"
	"forge3d/internal/logger"

	"go.uber.org/zap"
)

// Settings changed while a scene is recording only take effect at the next
// BeginScene, so one scene is always drawn with one configuration. Getters
// report the most recently requested value.

func (r *Renderer) update(fn func(*config.RenderSettings)) {
	if r.state == stateRecording {
		if r.pending == nil {
			p := r.settings
			r.pending = &p
		}
		fn(r.pending)
		r.pending.Validate()
		return
	}
	fn(&r.settings)
	r.settings.Validate()
	r.settingsChanged()
}

func (r *Renderer) requested() *config.RenderSettings {
	if r.pending != nil {
		return r.pending
	}
	return &r.settings
}

func (r *Renderer) applyPending() {
	if r.pending == nil {
		return
	}
	r.settings = *r.pending
	r.pending = nil
	r.settingsChanged()
	logger.Log.Debug("deferred render settings applied")
}

func (r *Renderer) settingsChanged() {
	r.instanced.SetMaxInstances(r.settings.MaxInstances)
	r.instanced.SetWireframe(r.settings.Wireframe)
	r.lines.setCapacity(r.settings.MaxLineVertices)
}

// ApplySettings replaces the whole configuration, e.g. after a config reload
func (r *Renderer) ApplySettings(s config.RenderSettings) {
	r.update(func(dst *config.RenderSettings) { *dst = s })
	logger.Log.Info("render settings updated",
		zap.Int("instancingThreshold", r.requested().InstancingThreshold),
		zap.Bool("autoInstancing", r.requested().AutoInstancing),
		zap.Bool("wireframe", r.requested().Wireframe))
}

// Settings returns the most recently requested configuration
func (r *Renderer) Settings() config.RenderSettings { return *r.requested() }

func (r *Renderer) EnableWireframe(enabled bool) {
	r.update(func(s *config.RenderSettings) { s.Wireframe = enabled })
}

func (r *Renderer) IsWireframeEnabled() bool { return r.requested().Wireframe }

// SetInstancingThreshold sets the smallest group drawn with instancing (at least 2)
func (r *Renderer) SetInstancingThreshold(n int) {
	r.update(func(s *config.RenderSettings) { s.InstancingThreshold = n })
}

func (r *Renderer) InstancingThreshold() int { return r.requested().InstancingThreshold }

func (r *Renderer) EnableAutoInstancing(enabled bool) {
	r.update(func(s *config.RenderSettings) { s.AutoInstancing = enabled })
}

func (r *Renderer) IsAutoInstancingEnabled() bool { return r.requested().AutoInstancing }

// SetMaxInstances sets the largest group drawn with instancing
func (r *Renderer) SetMaxInstances(n int) {
	r.update(func(s *config.RenderSettings) { s.MaxInstances = n })
}

func (r *Renderer) MaxInstances() int { return r.requested().MaxInstances }

// EnableFrustumCulling turns per-entity culling on or off for 3D cameras
func (r *Renderer) EnableFrustumCulling(enabled bool) {
	r.update(func(s *config.RenderSettings) { s.FrustumCulling = enabled })
}

func (r *Renderer) IsFrustumCullingEnabled() bool { return r.requested().FrustumCulling }

func (r *Renderer) SetLineWidth(width float32) {
	r.update(func(s *config.RenderSettings) { s.LineWidth = width })
}
