// Package controls holds the three user-facing values (rotation, scale,
// lighting toggle) and notifies subscribers whenever one of them is set.
package controls

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

// Kind tags a change event.
type Kind int

const (
	RotationChanged Kind = iota
	ScaleChanged
	LightingModeChanged
	// LightingModeRestored reports the toggle was put back to the mode
	// still being drawn. It is not a request to switch.
	LightingModeRestored
)

func (k Kind) String() string {
	switch k {
	case RotationChanged:
		return "rotation"
	case ScaleChanged:
		return "scale"
	case LightingModeChanged:
		return "lighting"
	case LightingModeRestored:
		return "lighting restored"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is published after a value was set. State is the full snapshot
// taken right after the change.
type Event struct {
	Kind  Kind
	State scene.Interaction
}

type subscriber struct {
	id int
	fn func(Event)
}

// Panel owns the live control values. It is not safe for concurrent use;
// every platform drives it from its single UI thread.
type Panel struct {
	limits  scene.Controls
	degrees float32
	scale   float32
	fixed   bool

	subs   []subscriber
	nextID int
}

// NewPanel returns a panel at rotation 0, scale 1 and the configured
// starting lighting mode.
func NewPanel(limits scene.Controls) *Panel {
	in := scene.InitialInteraction(limits)
	return &Panel{
		limits: limits,
		scale:  in.Scale,
		fixed:  in.Mode.IsFixed(),
	}
}

// Subscribe registers fn for every event and returns a function that
// removes it.
func (p *Panel) Subscribe(fn func(Event)) (unsubscribe func()) {
	p.nextID++
	id := p.nextID
	p.subs = append(p.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

// OnRotationChange calls fn with the new angle in radians.
func (p *Panel) OnRotationChange(fn func(radians float32)) func() {
	return p.Subscribe(func(e Event) {
		if e.Kind == RotationChanged {
			fn(e.State.RotationRadians)
		}
	})
}

// OnScaleChange calls fn with the new scale factor.
func (p *Panel) OnScaleChange(fn func(factor float32)) func() {
	return p.Subscribe(func(e Event) {
		if e.Kind == ScaleChanged {
			fn(e.State.Scale)
		}
	})
}

// OnLightingModeChange calls fn with the toggle's checked state.
func (p *Panel) OnLightingModeChange(fn func(isFixed bool)) func() {
	return p.Subscribe(func(e Event) {
		if e.Kind == LightingModeChanged {
			fn(e.State.Mode.IsFixed())
		}
	})
}

func (p *Panel) publish(k Kind) {
	e := Event{Kind: k, State: p.Snapshot()}
	for _, s := range append([]subscriber(nil), p.subs...) {
		s.fn(e)
	}
}

// Snapshot returns the current values.
func (p *Panel) Snapshot() scene.Interaction {
	return scene.Interaction{
		RotationRadians: mgl32.DegToRad(p.degrees),
		Scale:           p.scale,
		Mode:            scene.ModeFromFixed(p.fixed),
	}
}

func (p *Panel) RotationDegrees() float32 { return p.degrees }
func (p *Panel) Scale() float32           { return p.scale }
func (p *Panel) Fixed() bool              { return p.fixed }

// SetRotationDegrees sets the angle as a slider reports it.
func (p *Panel) SetRotationDegrees(deg float32) {
	p.degrees = deg
	p.publish(RotationChanged)
}

// RotateBy turns by delta degrees, wrapping into [0, 360).
func (p *Panel) RotateBy(delta float32) {
	deg := float32(math.Mod(float64(p.degrees+delta), 360))
	if deg < 0 {
		deg += 360
	}
	p.SetRotationDegrees(deg)
}

// SetScale sets the scale factor, clamped to the configured range.
func (p *Panel) SetScale(s float32) {
	p.scale = mgl32.Clamp(s, p.limits.ScaleMin, p.limits.ScaleMax)
	p.publish(ScaleChanged)
}

// ScaleBy adds delta to the scale factor.
func (p *Panel) ScaleBy(delta float32) {
	p.SetScale(p.scale + delta)
}

// SetFixedLighting sets the toggle. Every call publishes, even when the
// value does not change.
func (p *Panel) SetFixedLighting(fixed bool) {
	p.fixed = fixed
	p.publish(LightingModeChanged)
}

// RestoreLighting puts the toggle back without requesting a switch.
// Subscribers see LightingModeRestored, which OnLightingModeChange skips.
func (p *Panel) RestoreLighting(fixed bool) {
	p.fixed = fixed
	p.publish(LightingModeRestored)
}

// ToggleLighting flips the toggle.
func (p *Panel) ToggleLighting() {
	p.SetFixedLighting(!p.fixed)
}

// RotationLabel formats the angle as shown next to the slider, e.g. "45°".
func (p *Panel) RotationLabel() string {
	return strconv.FormatFloat(float64(p.degrees), 'f', -1, 32) + "°"
}

// ScaleLabel formats the scale factor, e.g. "1.50x".
func (p *Panel) ScaleLabel() string {
	return strconv.FormatFloat(float64(p.scale), 'f', 2, 32) + "x"
}

// LightingLabel describes the toggle state.
func (p *Panel) LightingLabel() string {
	if p.fixed {
		return "ON (Fixed)"
	}
	return "OFF (Dynamic)"
}
