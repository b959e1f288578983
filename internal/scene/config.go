// Package scene holds the static scene configuration and the
// interaction snapshot the renderer consumes.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Config is the static scene description. It is read-only once the
// application has started.
type Config struct {
	Surface    Surface    `toml:"surface"`
	Camera     Camera     `toml:"camera"`
	Light      Light      `toml:"light"`
	Material   Material   `toml:"material"`
	Background mgl32.Vec4 `toml:"background"`
	Controls   Controls   `toml:"controls"`
}

// Surface describes where the scene is presented.
type Surface struct {
	Canvas string `toml:"canvas"` // element id in the browser build
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// Camera holds the projection and look-at parameters.
type Camera struct {
	FieldOfViewDegrees float32    `toml:"fov"`
	Near               float32    `toml:"near"`
	Far                float32    `toml:"far"`
	Position           mgl32.Vec3 `toml:"position"`
	Target             mgl32.Vec3 `toml:"target"`
	Up                 mgl32.Vec3 `toml:"up"`
}

// FieldOfView returns the vertical field of view in radians.
func (c Camera) FieldOfView() float32 {
	return mgl32.DegToRad(c.FieldOfViewDegrees)
}

// Light holds the fixed reverse light direction. It need not be unit
// length; it is normalized before upload.
type Light struct {
	Direction mgl32.Vec3 `toml:"direction"`
}

// Material is the base color of the glyph.
type Material struct {
	Color mgl32.Vec4 `toml:"color"`
}

// Controls bounds the values the control surface can produce.
type Controls struct {
	RotationStepDegrees float32 `toml:"rotation_step"`
	ScaleStep           float32 `toml:"scale_step"`
	ScaleMin            float32 `toml:"scale_min"`
	ScaleMax            float32 `toml:"scale_max"`
	StartFixed          bool    `toml:"start_fixed"`
}

// Default returns the built-in scene.
func Default() Config {
	return Config{
		Surface: Surface{
			Canvas: "canvas",
			Width:  800,
			Height: 600,
			Title:  "Holy Glyph",
		},
		Camera: Camera{
			FieldOfViewDegrees: 60,
			Near:               1,
			Far:                2000,
			Position:           mgl32.Vec3{100, 150, 200},
			Target:             mgl32.Vec3{0, 35, 0},
			Up:                 mgl32.Vec3{0, 1, 0},
		},
		Light:      Light{Direction: mgl32.Vec3{0.5, 0.7, 1}},
		Material:   Material{Color: mgl32.Vec4{0.2, 1, 0.2, 1}},
		Background: mgl32.Vec4{0.1, 0.1, 0.1, 1},
		Controls: Controls{
			RotationStepDegrees: 5,
			ScaleStep:           0.1,
			ScaleMin:            0,
			ScaleMax:            3,
			StartFixed:          true,
		},
	}
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid scene config")

// Validate checks the values the transform pipeline depends on.
func (c Config) Validate() error {
	cam := c.Camera
	switch {
	case cam.FieldOfViewDegrees <= 0 || cam.FieldOfViewDegrees >= 180:
		return fmt.Errorf("%w: field of view %v out of (0, 180)", ErrInvalid, cam.FieldOfViewDegrees)
	case cam.Near <= 0:
		return fmt.Errorf("%w: near plane %v must be positive", ErrInvalid, cam.Near)
	case cam.Far <= cam.Near:
		return fmt.Errorf("%w: far plane %v must be beyond near plane %v", ErrInvalid, cam.Far, cam.Near)
	case cam.Position.ApproxEqual(cam.Target):
		return fmt.Errorf("%w: camera position equals its target", ErrInvalid)
	case cam.Up.Len() == 0:
		return fmt.Errorf("%w: camera up vector is zero", ErrInvalid)
	case c.Light.Direction.Len() == 0:
		return fmt.Errorf("%w: light direction is zero", ErrInvalid)
	case c.Controls.ScaleMin < 0 || c.Controls.ScaleMax < c.Controls.ScaleMin:
		return fmt.Errorf("%w: scale range [%v, %v]", ErrInvalid, c.Controls.ScaleMin, c.Controls.ScaleMax)
	}
	return nil
}
