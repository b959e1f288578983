// Package glcore implements gpu.Device on a desktop OpenGL 4.1 core
// context through go-gl. The context must be current on the calling
// thread before New is called.
package glcore

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
)

var _ gpu.Device = (*Device)(nil)

// Device issues GL calls against the current context. Core profiles
// refuse attribute setup without a bound vertex array, so one is created
// at start and stays bound.
type Device struct {
	vao uint32
}

// New loads the GL function pointers for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	return d, nil
}

// Version returns the context's GL_VERSION string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Close deletes the device's vertex array.
func (d *Device) Close() {
	if d.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func (d *Device) Preamble(stage gpu.Stage) string { return gpu.Core410Preamble(stage) }

func (d *Device) CreateShader(stage gpu.Stage) gpu.Shader {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == gpu.FragmentStage {
		kind = gl.FRAGMENT_SHADER
	}
	return gpu.Shader(gl.CreateShader(kind))
}

// ShaderSource passes the source as a single NUL-terminated string.
func (d *Device) ShaderSource(s gpu.Shader, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(s), 1, csources, nil)
	free()
}

func (d *Device) CompileShader(s gpu.Shader) { gl.CompileShader(uint32(s)) }

func (d *Device) ShaderCompiled(s gpu.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ShaderInfoLog(s gpu.Shader) string {
	var logLength int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(uint32(s), logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteShader(s gpu.Shader) { gl.DeleteShader(uint32(s)) }

func (d *Device) CreateProgram() gpu.Program { return gpu.Program(gl.CreateProgram()) }

func (d *Device) AttachShader(p gpu.Program, s gpu.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (d *Device) LinkProgram(p gpu.Program) { gl.LinkProgram(uint32(p)) }

func (d *Device) ProgramLinked(p gpu.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ProgramInfoLog(p gpu.Program) string {
	var logLength int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(uint32(p), logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteProgram(p gpu.Program) { gl.DeleteProgram(uint32(p)) }

func (d *Device) UseProgram(p gpu.Program) { gl.UseProgram(uint32(p)) }

func (d *Device) UniformLocation(p gpu.Program, name string) gpu.Location {
	return gpu.Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) AttribLocation(p gpu.Program, name string) gpu.Location {
	return gpu.Location(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) CreateBuffer() gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gpu.Buffer(b)
}

func (d *Device) BufferData(b gpu.Buffer, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) VertexAttrib(loc gpu.Location, b gpu.Buffer, size int32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), size, gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (d *Device) ClearColor(c mgl32.Vec4) { gl.ClearColor(c[0], c[1], c[2], c[3]) }

func (d *Device) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (d *Device) Enable(c gpu.Capability) {
	switch c {
	case gpu.CullFace:
		gl.Enable(gl.CULL_FACE)
	case gpu.DepthTest:
		gl.Enable(gl.DEPTH_TEST)
	}
}

func (d *Device) UniformMatrix4(loc gpu.Location, m mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (d *Device) Uniform4(loc gpu.Location, v mgl32.Vec4) {
	gl.Uniform4fv(int32(loc), 1, &v[0])
}

func (d *Device) Uniform3(loc gpu.Location, v mgl32.Vec3) {
	gl.Uniform3fv(int32(loc), 1, &v[0])
}

func (d *Device) DrawTriangles(first, count int32) {
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (d *Device) Err() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return &gpu.ContextError{Code: code}
	}
	return nil
}
