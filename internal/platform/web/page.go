//go:build js && wasm

// Package web hosts the viewer in a browser page: a canvas for WebGL,
// two sliders and a checkbox for the controls, and an error line.
package web

import (
	"errors"
	"log/slog"
	"strconv"
	"syscall/js"

	"github.com/toxichemicals/GO/holy-glyph/internal/app"
	"github.com/toxichemicals/GO/holy-glyph/internal/controls"
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu/webgl"
	"github.com/toxichemicals/GO/holy-glyph/internal/logx"
	"github.com/toxichemicals/GO/holy-glyph/internal/render"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

// Element ids the page must provide.
const (
	rotationSliderID    = "rotationSlider"
	rotationValueID     = "rotationValue"
	scaleSliderID       = "scaleSlider"
	scaleValueID        = "scaleValue"
	lightingToggleID    = "lightingToggle"
	lightingModeTextID  = "lightingModeText"
	fixedLightingInfoID = "fixedLightingInfo"
	errorMessageID      = "errorMessage"
)

var (
	_ app.Environment = (*Page)(nil)
	_ app.ErrorSink   = (*Page)(nil)
)

// Page wraps the document the viewer runs in.
type Page struct {
	doc    js.Value
	canvas string
	log    *slog.Logger
}

func NewPage(cfg scene.Surface, log *slog.Logger) *Page {
	return &Page{
		doc:    js.Global().Get("document"),
		canvas: cfg.Canvas,
		log:    logx.OrNop(log),
	}
}

func (p *Page) element(id string) (js.Value, bool) {
	el := p.doc.Call("getElementById", id)
	return el, !el.IsNull() && !el.IsUndefined()
}

// Acquire opens a WebGL context on the configured canvas.
func (p *Page) Acquire() (gpu.Device, render.Surface, error) {
	dev, canvas, err := webgl.Open(p.doc, p.canvas)
	switch {
	case errors.Is(err, webgl.ErrNoCanvas):
		return nil, nil, &app.EnvironmentError{Message: "Canvas element not found", Err: err}
	case errors.Is(err, webgl.ErrNoContext):
		return nil, nil, &app.EnvironmentError{Message: "WebGL not supported", Err: err}
	case err != nil:
		return nil, nil, err
	}
	return dev, canvas, nil
}

// Show writes msg into the error element and logs it to the console.
func (p *Page) Show(msg string) {
	if el, ok := p.element(errorMessageID); ok {
		el.Set("textContent", msg)
		el.Get("style").Set("display", "block")
	}
	js.Global().Get("console").Call("error", msg)
}

// BindControls wires the sliders and the checkbox to the panel and keeps
// the value labels in sync with it. Missing elements are logged and
// skipped.
func (p *Page) BindControls(panel *controls.Panel) {
	p.listen(rotationSliderID, "input", func(v js.Value) {
		if deg, err := strconv.ParseFloat(v.Get("value").String(), 32); err == nil {
			panel.SetRotationDegrees(float32(deg))
		}
	})
	p.listen(scaleSliderID, "input", func(v js.Value) {
		if s, err := strconv.ParseFloat(v.Get("value").String(), 32); err == nil {
			panel.SetScale(float32(s))
		}
	})
	p.listen(lightingToggleID, "change", func(v js.Value) {
		panel.SetFixedLighting(v.Get("checked").Bool())
	})

	panel.Subscribe(func(controls.Event) { p.updateLabels(panel) })
	p.updateLabels(panel)
}

func (p *Page) listen(id, event string, fn func(target js.Value)) {
	el, ok := p.element(id)
	if !ok {
		p.log.Warn("control element not found", "id", id)
		return
	}
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0].Get("target"))
		return nil
	})
	el.Call("addEventListener", event, f)
}

func (p *Page) updateLabels(panel *controls.Panel) {
	p.setText(rotationValueID, panel.RotationLabel())
	p.setText(scaleValueID, panel.ScaleLabel())
	p.setText(lightingModeTextID, panel.LightingLabel())
	if el, ok := p.element(lightingToggleID); ok {
		el.Set("checked", panel.Fixed())
	}
	if el, ok := p.element(fixedLightingInfoID); ok {
		display := "none"
		if panel.Fixed() {
			display = "block"
		}
		el.Get("style").Set("display", display)
	}
}

func (p *Page) setText(id, text string) {
	if el, ok := p.element(id); ok {
		el.Set("textContent", text)
	}
}

// OnResize calls fn when the browser window changes size.
func (p *Page) OnResize(fn func()) {
	f := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	js.Global().Call("addEventListener", "resize", f)
}
