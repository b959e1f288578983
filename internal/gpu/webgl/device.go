//go:build js && wasm

// Package webgl implements gpu.Device on a browser WebGL 1 context.
package webgl

import (
	"encoding/binary"
	"errors"
	"math"
	"syscall/js"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
)

var _ gpu.Device = (*Device)(nil)

var (
	// ErrNoCanvas is returned when the named canvas element is missing.
	ErrNoCanvas = errors.New("canvas element not found")
	// ErrNoContext is returned when the browser refuses a WebGL context.
	ErrNoContext = errors.New("WebGL not supported")
)

type glConsts struct {
	arrayBuffer    int
	staticDraw     int
	floatType      int
	triangles      int
	colorBufferBit int
	depthBufferBit int
	cullFace       int
	depthTest      int
	compileStatus  int
	linkStatus     int
	vertexShader   int
	fragmentShader int
	noError        int
}

// Device wraps a WebGLRenderingContext. JS objects are kept in handle
// tables so the core only sees integer handles.
type Device struct {
	gl     js.Value
	consts glConsts

	next     uint32
	objects  map[uint32]js.Value
	uniforms map[gpu.Location]uniformSlot
	nextLoc  gpu.Location
}

type uniformSlot struct {
	program uint32
	loc     js.Value
}

// New wraps an existing WebGL context.
func New(gl js.Value) *Device {
	d := &Device{
		gl:       gl,
		objects:  make(map[uint32]js.Value),
		uniforms: make(map[gpu.Location]uniformSlot),
	}
	d.initConsts()
	return d
}

func (d *Device) initConsts() {
	d.consts = glConsts{
		arrayBuffer:    d.gl.Get("ARRAY_BUFFER").Int(),
		staticDraw:     d.gl.Get("STATIC_DRAW").Int(),
		floatType:      d.gl.Get("FLOAT").Int(),
		triangles:      d.gl.Get("TRIANGLES").Int(),
		colorBufferBit: d.gl.Get("COLOR_BUFFER_BIT").Int(),
		depthBufferBit: d.gl.Get("DEPTH_BUFFER_BIT").Int(),
		cullFace:       d.gl.Get("CULL_FACE").Int(),
		depthTest:      d.gl.Get("DEPTH_TEST").Int(),
		compileStatus:  d.gl.Get("COMPILE_STATUS").Int(),
		linkStatus:     d.gl.Get("LINK_STATUS").Int(),
		vertexShader:   d.gl.Get("VERTEX_SHADER").Int(),
		fragmentShader: d.gl.Get("FRAGMENT_SHADER").Int(),
		noError:        d.gl.Get("NO_ERROR").Int(),
	}
}

// Canvas returns the canvas element the context draws into.
func (d *Device) Canvas() js.Value { return d.gl.Get("canvas") }

func (d *Device) store(v js.Value) uint32 {
	if v.IsNull() || v.IsUndefined() {
		return 0
	}
	d.next++
	d.objects[d.next] = v
	return d.next
}

func (d *Device) object(id uint32) js.Value {
	if v, ok := d.objects[id]; ok {
		return v
	}
	return js.Null()
}

func (d *Device) release(id uint32) js.Value {
	v := d.object(id)
	delete(d.objects, id)
	return v
}

func (d *Device) Preamble(stage gpu.Stage) string { return gpu.ES100Preamble(stage) }

func (d *Device) CreateShader(stage gpu.Stage) gpu.Shader {
	kind := d.consts.vertexShader
	if stage == gpu.FragmentStage {
		kind = d.consts.fragmentShader
	}
	return gpu.Shader(d.store(d.gl.Call("createShader", kind)))
}

func (d *Device) ShaderSource(s gpu.Shader, source string) {
	d.gl.Call("shaderSource", d.object(uint32(s)), source)
}

func (d *Device) CompileShader(s gpu.Shader) {
	d.gl.Call("compileShader", d.object(uint32(s)))
}

func (d *Device) ShaderCompiled(s gpu.Shader) bool {
	return d.gl.Call("getShaderParameter", d.object(uint32(s)), d.consts.compileStatus).Truthy()
}

func (d *Device) ShaderInfoLog(s gpu.Shader) string {
	v := d.gl.Call("getShaderInfoLog", d.object(uint32(s)))
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func (d *Device) DeleteShader(s gpu.Shader) {
	d.gl.Call("deleteShader", d.release(uint32(s)))
}

func (d *Device) CreateProgram() gpu.Program {
	return gpu.Program(d.store(d.gl.Call("createProgram")))
}

func (d *Device) AttachShader(p gpu.Program, s gpu.Shader) {
	d.gl.Call("attachShader", d.object(uint32(p)), d.object(uint32(s)))
}

func (d *Device) LinkProgram(p gpu.Program) {
	d.gl.Call("linkProgram", d.object(uint32(p)))
}

func (d *Device) ProgramLinked(p gpu.Program) bool {
	return d.gl.Call("getProgramParameter", d.object(uint32(p)), d.consts.linkStatus).Truthy()
}

func (d *Device) ProgramInfoLog(p gpu.Program) string {
	v := d.gl.Call("getProgramInfoLog", d.object(uint32(p)))
	if v.IsNull() {
		return ""
	}
	return v.String()
}

// DeleteProgram also drops the uniform locations that referenced p; they
// are invalid once the program is gone.
func (d *Device) DeleteProgram(p gpu.Program) {
	for loc, slot := range d.uniforms {
		if slot.program == uint32(p) {
			delete(d.uniforms, loc)
		}
	}
	d.gl.Call("deleteProgram", d.release(uint32(p)))
}

func (d *Device) UseProgram(p gpu.Program) {
	d.gl.Call("useProgram", d.object(uint32(p)))
}

// UniformLocation keeps the WebGLUniformLocation with its program so
// DeleteProgram can purge it.
func (d *Device) UniformLocation(p gpu.Program, name string) gpu.Location {
	v := d.gl.Call("getUniformLocation", d.object(uint32(p)), name)
	if v.IsNull() || v.IsUndefined() {
		return gpu.NoLocation
	}
	loc := d.nextLoc
	d.nextLoc++
	d.uniforms[loc] = uniformSlot{program: uint32(p), loc: v}
	return loc
}

func (d *Device) AttribLocation(p gpu.Program, name string) gpu.Location {
	return gpu.Location(d.gl.Call("getAttribLocation", d.object(uint32(p)), name).Int())
}

func (d *Device) uniform(loc gpu.Location) js.Value {
	if slot, ok := d.uniforms[loc]; ok {
		return slot.loc
	}
	return js.Null()
}

func (d *Device) CreateBuffer() gpu.Buffer {
	return gpu.Buffer(d.store(d.gl.Call("createBuffer")))
}

func (d *Device) BufferData(b gpu.Buffer, data []float32) {
	d.gl.Call("bindBuffer", d.consts.arrayBuffer, d.object(uint32(b)))
	d.gl.Call("bufferData", d.consts.arrayBuffer, float32Array(data), d.consts.staticDraw)
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	d.gl.Call("deleteBuffer", d.release(uint32(b)))
}

func (d *Device) VertexAttrib(loc gpu.Location, b gpu.Buffer, size int32) {
	d.gl.Call("enableVertexAttribArray", int(loc))
	d.gl.Call("bindBuffer", d.consts.arrayBuffer, d.object(uint32(b)))
	d.gl.Call("vertexAttribPointer", int(loc), int(size), d.consts.floatType, false, 0, 0)
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.gl.Call("viewport", x, y, width, height)
}

func (d *Device) ClearColor(c mgl32.Vec4) {
	d.gl.Call("clearColor", c[0], c[1], c[2], c[3])
}

func (d *Device) Clear() {
	d.gl.Call("clear", d.consts.colorBufferBit|d.consts.depthBufferBit)
}

func (d *Device) Enable(c gpu.Capability) {
	switch c {
	case gpu.CullFace:
		d.gl.Call("enable", d.consts.cullFace)
	case gpu.DepthTest:
		d.gl.Call("enable", d.consts.depthTest)
	}
}

func (d *Device) UniformMatrix4(loc gpu.Location, m mgl32.Mat4) {
	d.gl.Call("uniformMatrix4fv", d.uniform(loc), false, float32Array(m[:]))
}

func (d *Device) Uniform4(loc gpu.Location, v mgl32.Vec4) {
	d.gl.Call("uniform4fv", d.uniform(loc), float32Array(v[:]))
}

func (d *Device) Uniform3(loc gpu.Location, v mgl32.Vec3) {
	d.gl.Call("uniform3fv", d.uniform(loc), float32Array(v[:]))
}

func (d *Device) DrawTriangles(first, count int32) {
	d.gl.Call("drawArrays", d.consts.triangles, first, count)
}

func (d *Device) Err() error {
	if code := d.gl.Call("getError").Int(); code != d.consts.noError {
		return &gpu.ContextError{Code: uint32(code)}
	}
	return nil
}

// float32Array copies data into a new JS Float32Array.
func float32Array(data []float32) js.Value {
	buf := make([]byte, 4*len(data))
	for i, f := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	bytes := js.Global().Get("Uint8Array").New(len(buf))
	js.CopyBytesToJS(bytes, buf)
	return js.Global().Get("Float32Array").New(bytes.Get("buffer"))
}
