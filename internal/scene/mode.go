package scene

// LightingMode selects how the glyph is lit.
type LightingMode int

const (
	// Fixed lights the mesh in its own frame: rotating or scaling the
	// glyph does not change its shading.
	Fixed LightingMode = iota

	// Dynamic transforms normals by the world matrix, so shading follows
	// the glyph's orientation.
	Dynamic
)

// ModeFromFixed maps the lighting toggle's checked state to a mode.
func ModeFromFixed(fixed bool) LightingMode {
	if fixed {
		return Fixed
	}
	return Dynamic
}

// IsFixed reports whether m is Fixed.
func (m LightingMode) IsFixed() bool { return m == Fixed }

// Valid reports whether m is a known mode.
func (m LightingMode) Valid() bool { return m == Fixed || m == Dynamic }

// String returns the mode name.
func (m LightingMode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Interaction is a snapshot of the control surface values. The control
// surface owns the live values; everything downstream reads copies.
type Interaction struct {
	RotationRadians float32
	Scale           float32
	Mode            LightingMode
}

// InitialInteraction is the state the controls start from.
func InitialInteraction(c Controls) Interaction {
	return Interaction{
		RotationRadians: 0,
		Scale:           1,
		Mode:            ModeFromFixed(c.StartFixed),
	}
}
