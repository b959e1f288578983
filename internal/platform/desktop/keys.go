package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/toxichemicals/GO/holy-glyph/internal/controls"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

type outcome int

const (
	ignored outcome = iota
	handled
	quit
)

// keymap translates key presses into panel changes. Arrow keys repeat
// while held; the lighting toggle only reacts to the initial press.
type keymap struct {
	panel  *controls.Panel
	limits scene.Controls
}

func newKeymap(panel *controls.Panel, limits scene.Controls) keymap {
	return keymap{panel: panel, limits: limits}
}

func (k keymap) handle(key glfw.Key, action glfw.Action) outcome {
	if action == glfw.Release {
		return ignored
	}
	switch key {
	case glfw.KeyLeft:
		k.panel.RotateBy(-k.limits.RotationStepDegrees)
	case glfw.KeyRight:
		k.panel.RotateBy(k.limits.RotationStepDegrees)
	case glfw.KeyUp:
		k.panel.ScaleBy(k.limits.ScaleStep)
	case glfw.KeyDown:
		k.panel.ScaleBy(-k.limits.ScaleStep)
	case glfw.KeyL:
		if action != glfw.Press {
			return ignored
		}
		k.panel.ToggleLighting()
	case glfw.KeyEscape:
		return quit
	default:
		return ignored
	}
	return handled
}
