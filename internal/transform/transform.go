// Package transform computes the per-frame matrix chain: model to world,
// world to view, view to clip.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

// MatrixSet is everything the shaders need for one frame. It is derived
// fresh per frame and never stored.
type MatrixSet struct {
	World               mgl32.Mat4
	View                mgl32.Mat4
	Projection          mgl32.Mat4
	ViewProjection      mgl32.Mat4
	WorldViewProjection mgl32.Mat4

	// ReverseLight is the unit vector pointing towards the light.
	ReverseLight mgl32.Vec3
}

// World rotates about the vertical axis and then applies the uniform
// scale on top of that rotation: RotateY(angle) × Scale(s, s, s). A zero
// scale collapses the mesh to the origin.
func World(angle, s float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(angle).Mul4(mgl32.Scale3D(s, s, s))
}

// CameraMatrix places a camera at eye looking at target. It maps camera
// space to world space; its inverse is the view matrix.
func CameraMatrix(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	z := eye.Sub(target).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()
	return mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		eye[0], eye[1], eye[2], 1,
	}
}

// Aspect returns width/height, or false when either dimension is not
// positive and no projection can be built.
func Aspect(width, height int) (float32, bool) {
	if width <= 0 || height <= 0 {
		return 0, false
	}
	return float32(width) / float32(height), true
}

// Compute derives the matrix set for one frame.
func Compute(in scene.Interaction, cam scene.Camera, light scene.Light, aspect float32) MatrixSet {
	var m MatrixSet
	m.World = World(in.RotationRadians, in.Scale)
	m.View = CameraMatrix(cam.Position, cam.Target, cam.Up).Inv()
	m.Projection = mgl32.Perspective(cam.FieldOfView(), aspect, cam.Near, cam.Far)
	m.ViewProjection = m.Projection.Mul4(m.View)
	m.WorldViewProjection = m.ViewProjection.Mul4(m.World)
	m.ReverseLight = light.Direction.Normalize()
	return m
}
