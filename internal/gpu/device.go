// Package gpu defines the narrow set of GPU commands the glyph renderer
// issues. Backends implement Device over a real context (desktop OpenGL,
// browser WebGL) or record the calls for tests.
package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Stage is a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Capability is a fixed-function state toggled with Enable.
type Capability int

const (
	CullFace Capability = iota
	DepthTest
)

// Shader, Program and Buffer are opaque object handles. Zero is never a
// live object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
)

// Location is a uniform or attribute slot inside a linked program.
type Location int32

// NoLocation marks a uniform or attribute the program does not expose,
// either because it was never declared or because the compiler removed it.
const NoLocation Location = -1

// Valid reports whether l addresses a real slot.
func (l Location) Valid() bool { return l >= 0 }

// Device is the GPU command surface used by the shader builder, the
// geometry uploader and the frame renderer. All calls happen on the
// thread that owns the context.
type Device interface {
	// Preamble returns the dialect header prepended to shader sources of
	// the given stage. It defines VS_IN, VARYING and FRAG_COLOR.
	Preamble(stage Stage) string

	CreateShader(stage Stage) Shader
	ShaderSource(s Shader, source string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)

	UniformLocation(p Program, name string) Location
	AttribLocation(p Program, name string) Location

	CreateBuffer() Buffer
	// BufferData uploads static float data to b.
	BufferData(b Buffer, data []float32)
	DeleteBuffer(b Buffer)
	// VertexAttrib enables loc and points it at b with size floats per
	// vertex, tightly packed.
	VertexAttrib(loc Location, b Buffer, size int32)

	Viewport(x, y, width, height int32)
	ClearColor(c mgl32.Vec4)
	// Clear clears the color and depth buffers.
	Clear()
	Enable(c Capability)

	UniformMatrix4(loc Location, m mgl32.Mat4)
	Uniform4(loc Location, v mgl32.Vec4)
	Uniform3(loc Location, v mgl32.Vec3)

	// DrawTriangles draws count vertices as a triangle list.
	DrawTriangles(first, count int32)

	// Err returns and clears the first pending context error.
	Err() error
}
