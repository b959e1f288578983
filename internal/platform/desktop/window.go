// Package desktop hosts the viewer in a GLFW window with an OpenGL 4.1
// core context. All functions must be called from the main OS thread.
package desktop

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/toxichemicals/GO/holy-glyph/internal/app"
	"github.com/toxichemicals/GO/holy-glyph/internal/controls"
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu/glcore"
	"github.com/toxichemicals/GO/holy-glyph/internal/logx"
	"github.com/toxichemicals/GO/holy-glyph/internal/render"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

var (
	_ app.Environment = (*Window)(nil)
	_ app.ErrorSink   = (*Window)(nil)
	_ render.Surface  = (*Window)(nil)
)

// Window is the desktop surface. The title bar doubles as the label row
// and the error line.
type Window struct {
	title  string
	win    *glfw.Window
	dev    *glcore.Device
	log    *slog.Logger
	status string
	errMsg string
}

// Open creates the window and makes its context current.
func Open(cfg scene.Surface, log *slog.Logger) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	return &Window{title: cfg.Title, win: win, log: logx.OrNop(log)}, nil
}

// Acquire loads OpenGL for the window's context.
func (w *Window) Acquire() (gpu.Device, render.Surface, error) {
	dev, err := glcore.New()
	if err != nil {
		return nil, nil, &app.EnvironmentError{Message: "OpenGL not supported", Err: err}
	}
	w.dev = dev
	w.log.Info("OpenGL context ready", "version", dev.Version())
	return dev, w, nil
}

func (w *Window) FramebufferSize() (int, int) { return w.win.GetFramebufferSize() }

func (w *Window) Present() { w.win.SwapBuffers() }

// Show puts msg in the title bar.
func (w *Window) Show(msg string) {
	w.errMsg = msg
	w.updateTitle()
}

// BindControls maps keys to the panel and mirrors its labels in the
// title bar.
func (w *Window) BindControls(panel *controls.Panel, limits scene.Controls) {
	keys := newKeymap(panel, limits)
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if keys.handle(key, action) == quit {
			w.win.SetShouldClose(true)
		}
	})
	panel.Subscribe(func(controls.Event) { w.setStatus(panel) })
	w.setStatus(panel)
}

func (w *Window) setStatus(panel *controls.Panel) {
	w.status = strings.Join([]string{
		panel.RotationLabel(),
		panel.ScaleLabel(),
		"fixed lighting " + panel.LightingLabel(),
	}, " | ")
	w.updateTitle()
}

func (w *Window) updateTitle() {
	parts := []string{w.title}
	if w.status != "" {
		parts = append(parts, w.status)
	}
	if w.errMsg != "" {
		parts = append(parts, w.errMsg)
	}
	w.win.SetTitle(strings.Join(parts, " - "))
}

// OnRefresh calls fn whenever the window contents need to be redrawn,
// including after a resize.
func (w *Window) OnRefresh(fn func()) {
	w.win.SetRefreshCallback(func(*glfw.Window) { fn() })
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.log.Debug("framebuffer resized", "width", width, "height", height)
		fn()
	})
}

// Run blocks handling events until the window is closed. Nothing is
// drawn unless an event asks for it.
func (w *Window) Run() {
	for !w.win.ShouldClose() {
		glfw.WaitEvents()
	}
}

// Close destroys the window and shuts GLFW down.
func (w *Window) Close() {
	if w.dev != nil {
		w.dev.Close()
	}
	w.win.Destroy()
	glfw.Terminate()
}
