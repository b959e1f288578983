package desktop

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"github.com/toxichemicals/GO/holy-glyph/internal/controls"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

func TestKeymap(t *testing.T) {
	limits := scene.Default().Controls
	panel := controls.NewPanel(limits)
	keys := newKeymap(panel, limits)
	var events []controls.Kind
	panel.Subscribe(func(e controls.Event) { events = append(events, e.Kind) })

	assert.Equal(t, handled, keys.handle(glfw.KeyRight, glfw.Press))
	assert.Equal(t, handled, keys.handle(glfw.KeyRight, glfw.Repeat))
	assert.InDelta(t, 10, panel.RotationDegrees(), 1e-5)

	keys.handle(glfw.KeyLeft, glfw.Press)
	keys.handle(glfw.KeyLeft, glfw.Press)
	keys.handle(glfw.KeyLeft, glfw.Press)
	assert.InDelta(t, 355, panel.RotationDegrees(), 1e-4)

	keys.handle(glfw.KeyUp, glfw.Press)
	assert.InDelta(t, 1.1, panel.Scale(), 1e-6)
	keys.handle(glfw.KeyDown, glfw.Press)
	keys.handle(glfw.KeyDown, glfw.Press)
	assert.InDelta(t, 0.9, panel.Scale(), 1e-6)

	assert.Equal(t, handled, keys.handle(glfw.KeyL, glfw.Press))
	assert.False(t, panel.Fixed())
	assert.Equal(t, ignored, keys.handle(glfw.KeyL, glfw.Repeat))
	assert.False(t, panel.Fixed())

	assert.Equal(t, ignored, keys.handle(glfw.KeyRight, glfw.Release))
	assert.Equal(t, ignored, keys.handle(glfw.KeyQ, glfw.Press))
	assert.Equal(t, quit, keys.handle(glfw.KeyEscape, glfw.Press))

	assert.Equal(t, []controls.Kind{
		controls.RotationChanged, controls.RotationChanged,
		controls.RotationChanged, controls.RotationChanged, controls.RotationChanged,
		controls.ScaleChanged, controls.ScaleChanged, controls.ScaleChanged,
		controls.LightingModeChanged,
	}, events)
}

func TestKeymapScaleStopsAtRange(t *testing.T) {
	limits := scene.Default().Controls
	panel := controls.NewPanel(limits)
	keys := newKeymap(panel, limits)

	for i := 0; i < 40; i++ {
		keys.handle(glfw.KeyUp, glfw.Repeat)
	}
	assert.Equal(t, limits.ScaleMax, panel.Scale())

	for i := 0; i < 40; i++ {
		keys.handle(glfw.KeyDown, glfw.Repeat)
	}
	assert.Equal(t, limits.ScaleMin, panel.Scale())
}
