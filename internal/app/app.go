// Package app wires the controls, the lighting state machine and the
// frame renderer together and owns their GPU resources.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/toxichemicals/GO/holy-glyph/internal/controls"
	"github.com/toxichemicals/GO/holy-glyph/internal/geometry"
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
	"github.com/toxichemicals/GO/holy-glyph/internal/lighting"
	"github.com/toxichemicals/GO/holy-glyph/internal/logx"
	"github.com/toxichemicals/GO/holy-glyph/internal/render"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
	"github.com/toxichemicals/GO/holy-glyph/internal/shader"
)

// Environment provides the GPU device and the surface it draws into.
type Environment interface {
	Acquire() (gpu.Device, render.Surface, error)
}

// App is the running viewer. Until Init succeeds every event and frame
// request is ignored.
type App struct {
	cfg      scene.Config
	env      Environment
	panel    *controls.Panel
	reporter *Reporter
	log      *slog.Logger

	dev      gpu.Device
	bufs     *geometry.Buffers
	machine  *lighting.Machine
	renderer *render.Renderer
	stop     func()
	ready    bool
}

func New(cfg scene.Config, env Environment, panel *controls.Panel, reporter *Reporter, log *slog.Logger) *App {
	log = logx.OrNop(log)
	if reporter == nil {
		reporter = NewReporter(nil, log)
	}
	return &App{
		cfg:      cfg,
		env:      env,
		panel:    panel,
		reporter: reporter,
		log:      log,
	}
}

// Init acquires the device, uploads the glyph, builds the program for the
// panel's current lighting mode, subscribes to the panel and draws the
// first frame. Failures are reported and returned; the app then stays
// idle.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if err := a.init(); err != nil {
		a.reporter.Report(err)
		return err
	}
	a.ready = true
	a.log.Info("viewer initialized", "mode", a.panel.Snapshot().Mode)
	a.RenderFrame()
	return nil
}

func (a *App) init() error {
	dev, surface, err := a.env.Acquire()
	if err != nil {
		var envErr *EnvironmentError
		if !errors.As(err, &envErr) {
			err = &EnvironmentError{Message: "Failed to acquire a rendering context", Err: err}
		}
		return err
	}

	bufs, err := geometry.Upload(dev, geometry.Glyph())
	if err != nil {
		return fmt.Errorf("failed to upload glyph: %w", err)
	}

	machine := lighting.NewMachine(shader.NewBuilder(dev, a.log), a.log)
	if err := machine.Start(a.panel.Snapshot().Mode); err != nil {
		bufs.Release(dev)
		return err
	}

	a.dev = dev
	a.bufs = bufs
	a.machine = machine
	a.renderer = render.New(dev, surface, bufs, a.cfg, a.log)
	a.stop = a.panel.Subscribe(a.Dispatch)
	return nil
}

// Ready reports whether Init completed.
func (a *App) Ready() bool { return a.ready }

// Dispatch handles one control event. A lighting change rebuilds the
// program first; every event then redraws. When the rebuild fails the
// toggle is restored to the mode still installed.
func (a *App) Dispatch(e controls.Event) {
	if !a.ready || e.Kind == controls.LightingModeRestored {
		return
	}
	a.log.Debug("control event", "kind", e.Kind, "rotation", e.State.RotationRadians,
		"scale", e.State.Scale, "mode", e.State.Mode)
	if e.Kind == controls.LightingModeChanged {
		if err := a.machine.Switch(e.State.Mode); err != nil {
			a.reporter.Report(err)
			a.restoreToggle(e.State.Mode)
		}
	}
	a.draw(e.State)
}

func (a *App) restoreToggle(requested scene.LightingMode) {
	mode, err := a.machine.Mode()
	if err != nil || mode.IsFixed() == requested.IsFixed() {
		return
	}
	a.log.Info("lighting toggle restored", "requested", requested, "drawn", mode)
	a.panel.RestoreLighting(mode.IsFixed())
}

// RenderFrame redraws with the panel's current values. Before Init it
// does nothing.
func (a *App) RenderFrame() {
	if !a.ready {
		return
	}
	a.draw(a.panel.Snapshot())
}

func (a *App) draw(in scene.Interaction) {
	if err := a.renderer.Draw(in, a.machine.Current()); err != nil {
		a.reporter.Report(err)
	}
}

// Mode returns the lighting mode of the installed program.
func (a *App) Mode() (scene.LightingMode, error) {
	if a.machine == nil {
		return 0, lighting.ErrNotStarted
	}
	return a.machine.Mode()
}

// Close unsubscribes from the panel and frees GPU resources.
func (a *App) Close() {
	if !a.ready {
		return
	}
	a.stop()
	a.log.Info("viewer closed", "frames", a.renderer.Frames(),
		"skipped", a.renderer.Skipped(), "rebuilds", a.machine.Rebuilds())
	a.machine.Close()
	a.bufs.Release(a.dev)
	a.ready = false
}
