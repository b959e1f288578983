// Package gputest provides an in-memory gpu.Device that records what the
// renderer asks of the GPU. It parses uniform and attribute declarations
// out of the shader sources, so location lookups behave like a real
// driver: undeclared names resolve to gpu.NoLocation.
package gputest

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
)

var _ gpu.Device = (*Device)(nil)

const (
	invalidValue     = 0x0501
	invalidOperation = 0x0502
)

var (
	uniformDecl = regexp.MustCompile(`\buniform\s+\w+\s+(\w+)\s*;`)
	attribDecl  = regexp.MustCompile(`\bVS_IN\s+\w+\s+(\w+)\s*;`)
)

// Draw is one recorded draw call together with the state it saw.
type Draw struct {
	Program   gpu.Program
	First     int32
	Count     int32
	Viewport  [4]int32
	Clear     mgl32.Vec4
	Cleared   bool
	CullFace  bool
	DepthTest bool

	// Uniforms holds every value the program had at draw time, by GLSL name.
	Uniforms map[string]any
	// Uploaded lists the uniform names written since the previous draw.
	Uploaded []string
	// Attribs maps attribute name to the buffer bound to it.
	Attribs map[string]gpu.Buffer
}

type shaderObj struct {
	stage    gpu.Stage
	source   string
	compiled bool
	log      string
}

type programObj struct {
	shaders  []gpu.Shader
	linked   bool
	log      string
	uniforms []string
	attribs  []string
	values   map[string]any
}

type locationRef struct {
	program gpu.Program
	name    string
}

// Device is a recording gpu.Device. The exported fields inject failures.
type Device struct {
	// CompileFailures makes compilation of the given stage fail with the
	// mapped info log.
	CompileFailures map[gpu.Stage]string
	// LinkFailure, when non-empty, makes every link fail with this log.
	LinkFailure string
	// Omitted lists uniform names the "compiler" optimizes out.
	Omitted map[string]bool
	// PendingErr is returned once by the next Err call.
	PendingErr error
	// DrawPanic, when non-nil, is raised from DrawTriangles.
	DrawPanic any

	Draws []Draw

	// Compiles and Links count attempts, successful or not.
	Compiles int
	Links    int

	next      uint32
	shaders   map[gpu.Shader]*shaderObj
	programs  map[gpu.Program]*programObj
	buffers   map[gpu.Buffer][]float32
	locations map[gpu.Location]locationRef
	nextLoc   gpu.Location

	current    gpu.Program
	bound      map[gpu.Location]gpu.Buffer
	viewport   [4]int32
	clearColor mgl32.Vec4
	cleared    bool
	enabled    map[gpu.Capability]bool
	uploaded   []string
	code       uint32
	stale      int
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		shaders:   make(map[gpu.Shader]*shaderObj),
		programs:  make(map[gpu.Program]*programObj),
		buffers:   make(map[gpu.Buffer][]float32),
		locations: make(map[gpu.Location]locationRef),
		bound:     make(map[gpu.Location]gpu.Buffer),
		enabled:   make(map[gpu.Capability]bool),
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

func (d *Device) fail(code uint32) {
	if d.code == 0 {
		d.code = code
	}
}

func (d *Device) Preamble(stage gpu.Stage) string { return gpu.ES100Preamble(stage) }

func (d *Device) CreateShader(stage gpu.Stage) gpu.Shader {
	s := gpu.Shader(d.id())
	d.shaders[s] = &shaderObj{stage: stage}
	return s
}

func (d *Device) ShaderSource(s gpu.Shader, source string) {
	if obj, ok := d.shaders[s]; ok {
		obj.source = source
		return
	}
	d.fail(invalidValue)
}

func (d *Device) CompileShader(s gpu.Shader) {
	obj, ok := d.shaders[s]
	if !ok {
		d.fail(invalidValue)
		return
	}
	d.Compiles++
	if msg, fail := d.CompileFailures[obj.stage]; fail {
		obj.compiled, obj.log = false, msg
		return
	}
	if !strings.Contains(obj.source, "void main(") {
		obj.compiled, obj.log = false, "ERROR: 0:1: 'main' : function not defined"
		return
	}
	obj.compiled, obj.log = true, ""
}

func (d *Device) ShaderCompiled(s gpu.Shader) bool {
	obj, ok := d.shaders[s]
	return ok && obj.compiled
}

func (d *Device) ShaderInfoLog(s gpu.Shader) string {
	if obj, ok := d.shaders[s]; ok {
		return obj.log
	}
	return ""
}

func (d *Device) DeleteShader(s gpu.Shader) { delete(d.shaders, s) }

func (d *Device) CreateProgram() gpu.Program {
	p := gpu.Program(d.id())
	d.programs[p] = &programObj{values: make(map[string]any)}
	return p
}

func (d *Device) AttachShader(p gpu.Program, s gpu.Shader) {
	prog, ok := d.programs[p]
	if !ok || d.shaders[s] == nil {
		d.fail(invalidValue)
		return
	}
	prog.shaders = append(prog.shaders, s)
}

// LinkProgram requires one compiled shader per stage and collects the
// declared uniforms and vertex attributes.
func (d *Device) LinkProgram(p gpu.Program) {
	prog, ok := d.programs[p]
	if !ok {
		d.fail(invalidValue)
		return
	}
	d.Links++
	prog.linked, prog.uniforms, prog.attribs = false, nil, nil
	if d.LinkFailure != "" {
		prog.log = d.LinkFailure
		return
	}
	stages := map[gpu.Stage]*shaderObj{}
	for _, s := range prog.shaders {
		if obj := d.shaders[s]; obj != nil && obj.compiled {
			stages[obj.stage] = obj
		}
	}
	vs, fs := stages[gpu.VertexStage], stages[gpu.FragmentStage]
	if vs == nil || fs == nil {
		prog.log = "error: program needs a compiled vertex and fragment shader"
		return
	}
	seen := map[string]bool{}
	for _, src := range []string{vs.source, fs.source} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				prog.uniforms = append(prog.uniforms, m[1])
			}
		}
	}
	for _, m := range attribDecl.FindAllStringSubmatch(vs.source, -1) {
		prog.attribs = append(prog.attribs, m[1])
	}
	prog.linked, prog.log = true, ""
}

func (d *Device) ProgramLinked(p gpu.Program) bool {
	prog, ok := d.programs[p]
	return ok && prog.linked
}

func (d *Device) ProgramInfoLog(p gpu.Program) string {
	if prog, ok := d.programs[p]; ok {
		return prog.log
	}
	return ""
}

func (d *Device) DeleteProgram(p gpu.Program) {
	delete(d.programs, p)
	for loc, ref := range d.locations {
		if ref.program == p {
			delete(d.locations, loc)
		}
	}
}

func (d *Device) UseProgram(p gpu.Program) {
	if prog, ok := d.programs[p]; !ok || !prog.linked {
		d.fail(invalidOperation)
		return
	}
	d.current = p
}

func (d *Device) UniformLocation(p gpu.Program, name string) gpu.Location {
	prog, ok := d.programs[p]
	if !ok || !prog.linked || d.Omitted[name] || !slices.Contains(prog.uniforms, name) {
		return gpu.NoLocation
	}
	loc := d.nextLoc
	d.nextLoc++
	d.locations[loc] = locationRef{program: p, name: name}
	return loc
}

func (d *Device) AttribLocation(p gpu.Program, name string) gpu.Location {
	prog, ok := d.programs[p]
	if !ok || !prog.linked {
		return gpu.NoLocation
	}
	for i, a := range prog.attribs {
		if a == name {
			return gpu.Location(i)
		}
	}
	return gpu.NoLocation
}

func (d *Device) CreateBuffer() gpu.Buffer {
	b := gpu.Buffer(d.id())
	d.buffers[b] = nil
	return b
}

func (d *Device) BufferData(b gpu.Buffer, data []float32) {
	if _, ok := d.buffers[b]; !ok {
		d.fail(invalidOperation)
		return
	}
	d.buffers[b] = append([]float32(nil), data...)
}

func (d *Device) DeleteBuffer(b gpu.Buffer) { delete(d.buffers, b) }

func (d *Device) VertexAttrib(loc gpu.Location, b gpu.Buffer, size int32) {
	if !loc.Valid() || size < 1 || size > 4 {
		d.fail(invalidValue)
		return
	}
	if _, ok := d.buffers[b]; !ok {
		d.fail(invalidOperation)
		return
	}
	d.bound[loc] = b
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.viewport = [4]int32{x, y, width, height}
}

func (d *Device) ClearColor(c mgl32.Vec4) { d.clearColor = c }

func (d *Device) Clear() { d.cleared = true }

func (d *Device) Enable(c gpu.Capability) { d.enabled[c] = true }

// upload stores v under the uniform's name. A location that belongs to a
// program other than the current one is an invalid operation, as in GL.
func (d *Device) upload(loc gpu.Location, v any) {
	ref, ok := d.locations[loc]
	if !ok || ref.program != d.current {
		d.stale++
		d.fail(invalidOperation)
		return
	}
	d.programs[ref.program].values[ref.name] = v
	d.uploaded = append(d.uploaded, ref.name)
}

func (d *Device) UniformMatrix4(loc gpu.Location, m mgl32.Mat4) { d.upload(loc, m) }

func (d *Device) Uniform4(loc gpu.Location, v mgl32.Vec4) { d.upload(loc, v) }

func (d *Device) Uniform3(loc gpu.Location, v mgl32.Vec3) { d.upload(loc, v) }

func (d *Device) DrawTriangles(first, count int32) {
	if d.DrawPanic != nil {
		panic(d.DrawPanic)
	}
	prog, ok := d.programs[d.current]
	if !ok {
		d.fail(invalidOperation)
		return
	}
	draw := Draw{
		Program:   d.current,
		First:     first,
		Count:     count,
		Viewport:  d.viewport,
		Clear:     d.clearColor,
		Cleared:   d.cleared,
		CullFace:  d.enabled[gpu.CullFace],
		DepthTest: d.enabled[gpu.DepthTest],
		Uniforms:  make(map[string]any, len(prog.values)),
		Uploaded:  d.uploaded,
		Attribs:   make(map[string]gpu.Buffer),
	}
	for k, v := range prog.values {
		draw.Uniforms[k] = v
	}
	for i, name := range prog.attribs {
		if b, ok := d.bound[gpu.Location(i)]; ok {
			draw.Attribs[name] = b
		}
	}
	d.Draws = append(d.Draws, draw)
	d.uploaded = nil
	d.cleared = false
}

func (d *Device) Err() error {
	if err := d.PendingErr; err != nil {
		d.PendingErr = nil
		return err
	}
	if d.code != 0 {
		code := d.code
		d.code = 0
		return &gpu.ContextError{Code: code}
	}
	return nil
}

// LastDraw returns the most recent draw. It panics if nothing was drawn.
func (d *Device) LastDraw() Draw {
	if len(d.Draws) == 0 {
		panic("gputest: no draw recorded")
	}
	return d.Draws[len(d.Draws)-1]
}

// LivePrograms returns the handles of programs not yet deleted.
func (d *Device) LivePrograms() []gpu.Program {
	out := make([]gpu.Program, 0, len(d.programs))
	for p := range d.programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LiveShaders reports how many shader objects are still allocated.
func (d *Device) LiveShaders() int { return len(d.shaders) }

// BufferContents returns the data last uploaded to b.
func (d *Device) BufferContents(b gpu.Buffer) ([]float32, bool) {
	data, ok := d.buffers[b]
	return data, ok
}

// StaleUploads counts uniform writes through locations that did not
// belong to the current program.
func (d *Device) StaleUploads() int { return d.stale }

// UniformNames returns the uniforms a linked program declares.
func (d *Device) UniformNames(p gpu.Program) []string {
	prog, ok := d.programs[p]
	if !ok {
		return nil
	}
	return append([]string(nil), prog.uniforms...)
}

func (d *Device) String() string {
	return fmt.Sprintf("gputest.Device{programs: %d, shaders: %d, buffers: %d, draws: %d}",
		len(d.programs), len(d.shaders), len(d.buffers), len(d.Draws))
}
