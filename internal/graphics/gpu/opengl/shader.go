package opengl

import (
	"errors"
	"fmt"
	"strings"

	"forge3d/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrShaderCompile = errors.New("shader compilation failed")
	ErrProgramLink   = errors.New("program link failed")
)

// Program represents an OpenGL shader program
type Program struct {
	ID        uint32
	name      string
	locations map[string]int32
}

func newProgram(src gpu.ProgramSource) (*Program, error) {
	id, err := compileProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", src.Name, err)
	}
	return &Program{ID: id, name: src.Name, locations: make(map[string]int32)}, nil
}

// Bind activates the shader program
func (p *Program) Bind() {
	gl.UseProgram(p.ID)
}

func (p *Program) Name() string { return p.name }

// location caches uniform lookups; missing uniforms resolve to -1 which GL ignores
func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// SetInt sets an integer uniform
func (p *Program) SetInt(name string, value int32) {
	gl.Uniform1i(p.location(name), value)
}

// SetFloat sets a float uniform
func (p *Program) SetFloat(name string, value float32) {
	gl.Uniform1f(p.location(name), value)
}

// SetFloat3 sets a vec3 uniform
func (p *Program) SetFloat3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.location(name), v.X(), v.Y(), v.Z())
}

// SetFloat4 sets a vec4 uniform
func (p *Program) SetFloat4(name string, v mgl32.Vec4) {
	gl.Uniform4f(p.location(name), v.X(), v.Y(), v.Z(), v.W())
}

// SetMat4 sets a 4x4 matrix uniform
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, &m[0])
}

func (p *Program) Delete() {
	gl.DeleteProgram(p.ID)
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("%w: %s", ErrProgramLink, strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("%w: %s", ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
