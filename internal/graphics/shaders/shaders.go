// Package shaders embeds the GLSL programs used by the 3D renderer.
package shaders

import (
	"embed"

	"forge3d/internal/graphics/gpu"
)

//go:embed glsl/*.vert glsl/*.frag
var files embed.FS

// Uniform block binding points shared by every program
const (
	CameraBinding uint32 = 0
	LightBinding  uint32 = 1
)

var blocks = map[string]uint32{
	"Camera": CameraBinding,
	"Light":  LightBinding,
}

func load(name string) gpu.ProgramSource {
	vert, err := files.ReadFile("glsl/" + name + ".vert")
	if err != nil {
		panic(err)
	}
	frag, err := files.ReadFile("glsl/" + name + ".frag")
	if err != nil {
		panic(err)
	}
	return gpu.ProgramSource{Name: name, Vertex: string(vert), Fragment: string(frag), Blocks: blocks}
}

// Mesh is the lit single-object program
func Mesh() gpu.ProgramSource { return load("mesh") }

// Wireframe draws flat-coloured geometry in line polygon mode
func Wireframe() gpu.ProgramSource { return load("wireframe") }

// Line draws debug line lists
func Line() gpu.ProgramSource { return load("line") }

// Instanced reads transform, colour and material scalars from instance attributes
func Instanced() gpu.ProgramSource { return load("instanced") }
