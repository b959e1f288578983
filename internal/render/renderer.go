// Package render issues the draw for one frame of the glyph.
package render

import (
	"fmt"
	"log/slog"

	"github.com/toxichemicals/GO/holy-glyph/internal/geometry"
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
	"github.com/toxichemicals/GO/holy-glyph/internal/logx"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
	"github.com/toxichemicals/GO/holy-glyph/internal/shader"
	"github.com/toxichemicals/GO/holy-glyph/internal/transform"
)

// Surface is the drawable the device renders into.
type Surface interface {
	// FramebufferSize returns the current size in pixels.
	FramebufferSize() (width, height int)
	// Present shows the finished frame.
	Present()
}

// DrawError wraps anything that went wrong while drawing a frame.
type DrawError struct {
	Err error
}

func (e *DrawError) Error() string { return "Draw error: " + e.Err.Error() }
func (e *DrawError) Unwrap() error { return e.Err }

// Renderer draws the glyph with whichever program it is handed.
type Renderer struct {
	dev     gpu.Device
	surface Surface
	bufs    *geometry.Buffers
	cfg     scene.Config
	log     *slog.Logger

	frames  int
	skipped int
}

func New(dev gpu.Device, surface Surface, bufs *geometry.Buffers, cfg scene.Config, log *slog.Logger) *Renderer {
	return &Renderer{
		dev:     dev,
		surface: surface,
		bufs:    bufs,
		cfg:     cfg,
		log:     logx.OrNop(log),
	}
}

// Draw renders one frame of in with p. A nil program draws nothing, and
// a surface with no area is skipped without error.
func (r *Renderer) Draw(in scene.Interaction, p *shader.Program) (err error) {
	if p == nil {
		return nil
	}
	width, height := r.surface.FramebufferSize()
	aspect, ok := transform.Aspect(width, height)
	if !ok {
		r.skipped++
		r.log.Debug("frame skipped", "width", width, "height", height)
		return nil
	}

	defer func() {
		if v := recover(); v != nil {
			perr, ok := v.(error)
			if !ok {
				perr = fmt.Errorf("%v", v)
			}
			err = &DrawError{Err: perr}
		}
	}()

	r.dev.Viewport(0, 0, int32(width), int32(height))
	r.dev.ClearColor(r.cfg.Background)
	r.dev.Clear()
	r.dev.Enable(gpu.CullFace)
	r.dev.Enable(gpu.DepthTest)
	r.dev.UseProgram(p.Handle())

	if loc := p.PositionAttrib(); loc.Valid() {
		r.dev.VertexAttrib(loc, r.bufs.Position, 3)
	}
	if loc := p.NormalAttrib(); loc.Valid() {
		r.dev.VertexAttrib(loc, r.bufs.Normal, 3)
	}

	set := transform.Compute(in, r.cfg.Camera, r.cfg.Light, aspect)
	r.upload(p, set)

	r.dev.DrawTriangles(0, r.bufs.Count)
	if gerr := r.dev.Err(); gerr != nil {
		return &DrawError{Err: gerr}
	}
	r.surface.Present()
	r.frames++
	return nil
}

// upload writes every uniform the program declares and has a slot for.
func (r *Renderer) upload(p *shader.Program, set transform.MatrixSet) {
	for _, u := range p.Uniforms() {
		loc, ok := p.Location(u)
		if !ok {
			continue
		}
		switch u {
		case shader.Matrix, shader.WorldViewProjection:
			r.dev.UniformMatrix4(loc, set.WorldViewProjection)
		case shader.World:
			r.dev.UniformMatrix4(loc, set.World)
		case shader.Color:
			r.dev.Uniform4(loc, r.cfg.Material.Color)
		case shader.ReverseLightDirection:
			r.dev.Uniform3(loc, set.ReverseLight)
		default:
			r.log.Warn("no value for uniform", "uniform", u)
		}
	}
}

// Frames counts completed draws.
func (r *Renderer) Frames() int { return r.frames }

// Skipped counts frames dropped because the surface had no area.
func (r *Renderer) Skipped() int { return r.skipped }
