package config

import (
	"errors"
	"sync"
)

// MaxInstancesLimit is the most instances a single instanced draw may carry
const MaxInstancesLimit = 100000

// MinInstancingThreshold is the smallest group size the instanced path accepts
const MinInstancingThreshold = 2

// ErrUnsupportedFormat is returned by Load for files that are neither TOML nor YAML
var ErrUnsupportedFormat = errors.New("unsupported config format")

// RenderSettings holds render configuration
type RenderSettings struct {
	// Groups smaller than this are drawn one call per object
	InstancingThreshold int  `toml:"instancing_threshold" yaml:"instancing_threshold"`
	AutoInstancing      bool `toml:"auto_instancing" yaml:"auto_instancing"`
	// Groups larger than this fall back to individual draws
	MaxInstances    int     `toml:"max_instances" yaml:"max_instances"`
	Wireframe       bool    `toml:"wireframe" yaml:"wireframe"`
	LineWidth       float32 `toml:"line_width" yaml:"line_width"`
	MaxLineVertices int     `toml:"max_line_vertices" yaml:"max_line_vertices"`
	FrustumCulling  bool    `toml:"frustum_culling" yaml:"frustum_culling"`
	FOV             float32 `toml:"fov" yaml:"fov"`
	FPSLimit        int     `toml:"fps_limit" yaml:"fps_limit"` // 0 = unlimited
	LogLevel        string  `toml:"log_level" yaml:"log_level"`
	GridSize        int     `toml:"grid_size" yaml:"grid_size"`
}

// Default returns the built-in settings
func Default() RenderSettings {
	return RenderSettings{
		InstancingThreshold: 3,
		AutoInstancing:      true,
		MaxInstances:        MaxInstancesLimit,
		Wireframe:           false,
		LineWidth:           2.0,
		MaxLineVertices:     100000,
		FrustumCulling:      true,
		FOV:                 60,
		FPSLimit:            0,
		LogLevel:            "info",
		GridSize:            32,
	}
}

// Validate clamps every field to a usable range
func (s *RenderSettings) Validate() {
	// Singleton groups always take the individual path
	if s.InstancingThreshold < MinInstancingThreshold {
		s.InstancingThreshold = MinInstancingThreshold
	}
	if s.MaxInstances < 1 {
		s.MaxInstances = 1
	}
	if s.MaxInstances > MaxInstancesLimit {
		s.MaxInstances = MaxInstancesLimit
	}
	if s.LineWidth <= 0 {
		s.LineWidth = 1
	}
	// Lines are submitted in pairs
	if s.MaxLineVertices < 2 {
		s.MaxLineVertices = 2
	}
	s.MaxLineVertices -= s.MaxLineVertices % 2
	if s.FOV < 30 {
		s.FOV = 30
	}
	if s.FOV > 120 {
		s.FOV = 120
	}
	if s.FPSLimit < 0 {
		s.FPSLimit = 0
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.GridSize < 0 {
		s.GridSize = 0
	}
}

var (
	mu             sync.RWMutex
	globalSettings = Default()
)

// Get returns the process-wide settings
func Get() RenderSettings {
	mu.RLock()
	defer mu.RUnlock()
	return globalSettings
}

// Set validates and stores the process-wide settings
func Set(s RenderSettings) {
	s.Validate()

	mu.Lock()
	defer mu.Unlock()
	globalSettings = s
}
