// Package shader builds the GPU programs for the two lighting modes and
// resolves the uniform and attribute slots the renderer writes to.
package shader

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
	"github.com/toxichemicals/GO/holy-glyph/internal/logx"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

var (
	ErrCompile = errors.New("shader compile failed")
	ErrLink    = errors.New("shader program link failed")
	ErrMode    = errors.New("unknown lighting mode")
)

// linkStage marks a BuildError raised while linking.
const linkStage gpu.Stage = -1

// BuildError reports a failed compile or link along with the driver's log.
type BuildError struct {
	Mode  scene.LightingMode
	Stage gpu.Stage
	Log   string
}

// Linking reports whether the error came from the link step.
func (e *BuildError) Linking() bool { return e.Stage == linkStage }

func (e *BuildError) Error() string {
	what := e.Stage.String() + " shader compile"
	if e.Linking() {
		what = "program link"
	}
	msg := strings.TrimSpace(e.Log)
	if msg == "" {
		msg = "no info log"
	}
	return fmt.Sprintf("%s lighting: %s failed: %s", e.Mode, what, msg)
}

func (e *BuildError) Unwrap() error {
	if e.Linking() {
		return ErrLink
	}
	return ErrCompile
}

// Program is a linked shader program plus the slots it exposes. Uniforms
// the driver did not report are kept with gpu.NoLocation.
type Program struct {
	handle   gpu.Program
	mode     scene.LightingMode
	uniforms map[Uniform]gpu.Location
	order    []Uniform
	position gpu.Location
	normal   gpu.Location
}

// Handle returns the linked GPU program.
func (p *Program) Handle() gpu.Program { return p.handle }

// Mode returns the lighting mode the program was built for.
func (p *Program) Mode() scene.LightingMode { return p.mode }

// Uniforms lists the program's logical uniforms in declaration order,
// including ones without a location.
func (p *Program) Uniforms() []Uniform {
	return append([]Uniform(nil), p.order...)
}

// Location returns the slot of u. ok is false when u is not part of this
// program or the driver has no slot for it.
func (p *Program) Location(u Uniform) (gpu.Location, bool) {
	loc, known := p.uniforms[u]
	if !known {
		return gpu.NoLocation, false
	}
	return loc, loc.Valid()
}

// Has reports whether u belongs to the program's uniform set.
func (p *Program) Has(u Uniform) bool {
	_, ok := p.uniforms[u]
	return ok
}

// PositionAttrib returns the program's own a_position slot. Slots can
// differ between programs on some drivers.
func (p *Program) PositionAttrib() gpu.Location { return p.position }

// NormalAttrib returns the program's own a_normal slot.
func (p *Program) NormalAttrib() gpu.Location { return p.normal }

// Builder compiles and links programs on a device.
type Builder struct {
	dev gpu.Device
	log *slog.Logger
}

// NewBuilder returns a builder for dev. A nil log discards output.
func NewBuilder(dev gpu.Device, log *slog.Logger) *Builder {
	return &Builder{dev: dev, log: logx.OrNop(log)}
}

// Build compiles both stages of mode's variant, links them and resolves
// the variant's uniforms. It stops at the first failure and frees
// everything it created on the way.
func (b *Builder) Build(mode scene.LightingMode) (*Program, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("build program: %w: %d", ErrMode, int(mode))
	}
	v, _ := VariantFor(mode)

	vs, err := b.compile(v, gpu.VertexStage)
	if err != nil {
		return nil, err
	}
	fs, err := b.compile(v, gpu.FragmentStage)
	if err != nil {
		b.dev.DeleteShader(vs)
		return nil, err
	}

	handle := b.dev.CreateProgram()
	b.dev.AttachShader(handle, vs)
	b.dev.AttachShader(handle, fs)
	b.dev.LinkProgram(handle)
	b.dev.DeleteShader(vs)
	b.dev.DeleteShader(fs)
	if !b.dev.ProgramLinked(handle) {
		log := b.dev.ProgramInfoLog(handle)
		b.dev.DeleteProgram(handle)
		return nil, &BuildError{Mode: mode, Stage: linkStage, Log: log}
	}

	p := &Program{
		handle:   handle,
		mode:     mode,
		uniforms: make(map[Uniform]gpu.Location, len(v.Uniforms)),
		order:    v.Uniforms,
		position: b.dev.AttribLocation(handle, PositionAttrib),
		normal:   b.dev.AttribLocation(handle, NormalAttrib),
	}
	for _, u := range v.Uniforms {
		loc := b.dev.UniformLocation(handle, u.GLSL())
		if !loc.Valid() {
			b.log.Warn("uniform not active", "uniform", u.GLSL(), "mode", mode)
		}
		p.uniforms[u] = loc
	}
	b.log.Debug("shader program built", "mode", mode, "program", handle)
	return p, nil
}

func (b *Builder) compile(v Variant, stage gpu.Stage) (gpu.Shader, error) {
	s := b.dev.CreateShader(stage)
	b.dev.ShaderSource(s, b.dev.Preamble(stage)+v.Source(stage))
	b.dev.CompileShader(s)
	if !b.dev.ShaderCompiled(s) {
		log := b.dev.ShaderInfoLog(s)
		b.dev.DeleteShader(s)
		return 0, &BuildError{Mode: v.Mode, Stage: stage, Log: log}
	}
	return s, nil
}

// Release deletes p's GPU program. A nil program is ignored.
func (b *Builder) Release(p *Program) {
	if p == nil {
		return
	}
	b.dev.DeleteProgram(p.handle)
	b.log.Debug("shader program released", "mode", p.mode, "program", p.handle)
}

// AmbientFloor is the lowest light factor a fragment receives, so faces
// turned away from the light are dim rather than black.
const AmbientFloor float32 = 0.2

// LightScalar mirrors the fragment stage's light term: the cosine between
// the normalized normal and the reverse light direction, held within
// [AmbientFloor, 1].
func LightScalar(normal, reverseLight mgl32.Vec3) float32 {
	if normal.Len() == 0 {
		return AmbientFloor
	}
	return mgl32.Clamp(normal.Normalize().Dot(reverseLight), AmbientFloor, 1)
}
