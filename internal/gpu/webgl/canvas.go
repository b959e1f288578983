//go:build js && wasm

package webgl

import (
	"fmt"
	"syscall/js"
)

// Canvas is the HTML canvas the scene is drawn into.
type Canvas struct {
	el js.Value
}

// Open looks up the canvas with the given element id and creates a
// WebGL context on it.
func Open(doc js.Value, id string) (*Device, *Canvas, error) {
	el := doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, nil, fmt.Errorf("%w: #%s", ErrNoCanvas, id)
	}
	gl := el.Call("getContext", "webgl")
	if gl.IsNull() || gl.IsUndefined() {
		return nil, nil, ErrNoContext
	}
	return New(gl), &Canvas{el: el}, nil
}

// FramebufferSize resizes the drawing buffer to the canvas's displayed
// size and returns it.
func (c *Canvas) FramebufferSize() (int, int) {
	w := c.el.Get("clientWidth").Int()
	h := c.el.Get("clientHeight").Int()
	if c.el.Get("width").Int() != w || c.el.Get("height").Int() != h {
		c.el.Set("width", w)
		c.el.Set("height", h)
	}
	return w, h
}

// Present is a no-op: the browser composites the canvas after each task.
func (c *Canvas) Present() {}
