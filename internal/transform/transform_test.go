package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

const eps = 1e-4

// close compares with an absolute tolerance for small values and a
// relative one for large values such as the camera translation.
func close(a, b float32) bool {
	scale := max(float32(1), mgl32.Abs(a), mgl32.Abs(b))
	return mgl32.Abs(a-b) <= eps*scale
}

func approxMat4(a, b mgl32.Mat4) bool {
	for i := range a {
		if !close(a[i], b[i]) {
			return false
		}
	}
	return true
}

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.True(t, close(want[i], got[i]), "want %v, got %v", want, got)
	}
}

func assertMat4(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.True(t, approxMat4(want, got), "want\n%v\ngot\n%v", want, got)
}

func apply(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

func TestWorldScalesOnTopOfRotation(t *testing.T) {
	tests := []struct {
		angle float32
		scale float32
		in    mgl32.Vec3
		want  mgl32.Vec3
	}{
		{0, 1, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 3}},
		{0, 2, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 4, 6}},
		{math.Pi / 2, 1, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{math.Pi / 2, 2, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -2}},
		{math.Pi, 0.5, mgl32.Vec3{10, 4, 2}, mgl32.Vec3{-5, 2, -1}},
		{math.Pi / 2, 3, mgl32.Vec3{0, 1, 1}, mgl32.Vec3{3, 3, 0}},
	}
	for _, tt := range tests {
		got := apply(World(tt.angle, tt.scale), tt.in)
		assertVec3(t, tt.want, got)

		want := mgl32.HomogRotate3DY(tt.angle).Mul4(mgl32.Scale3D(tt.scale, tt.scale, tt.scale))
		assertMat4(t, want, World(tt.angle, tt.scale))
	}
}

func TestViewMatchesLookAt(t *testing.T) {
	cam := scene.Default().Camera
	set := Compute(scene.Interaction{Scale: 1}, cam, scene.Default().Light, 4.0/3.0)
	assertMat4(t, mgl32.LookAtV(cam.Position, cam.Target, cam.Up), set.View)

	// The camera sits at the view-space origin looking down -z.
	assertVec3(t, mgl32.Vec3{}, apply(set.View, cam.Position))
	toTarget := apply(set.View, cam.Target)
	assert.InDelta(t, 0, toTarget[0], eps)
	assert.InDelta(t, 0, toTarget[1], eps)
	assert.Less(t, toTarget[2], float32(0))
}

func TestCompositionOrder(t *testing.T) {
	cfg := scene.Default()
	in := scene.Interaction{RotationRadians: 0.7, Scale: 1.3}
	set := Compute(in, cfg.Camera, cfg.Light, 1.5)

	assertMat4(t, mgl32.Perspective(cfg.Camera.FieldOfView(), 1.5, cfg.Camera.Near, cfg.Camera.Far), set.Projection)
	assertMat4(t, set.Projection.Mul4(set.View), set.ViewProjection)
	assertMat4(t, set.Projection.Mul4(set.View).Mul4(set.World), set.WorldViewProjection)

	// The reversed product orients the mesh differently.
	assert.False(t, approxMat4(set.World.Mul4(set.ViewProjection), set.WorldViewProjection))
}

func TestIdentityModelGivesViewProjection(t *testing.T) {
	cfg := scene.Default()
	set := Compute(scene.Interaction{RotationRadians: 0, Scale: 1, Mode: scene.Fixed}, cfg.Camera, cfg.Light, 800.0/600.0)
	assertMat4(t, mgl32.Ident4(), set.World)
	assertMat4(t, set.ViewProjection, set.WorldViewProjection)
}

func TestZeroScaleCollapsesToOrigin(t *testing.T) {
	cfg := scene.Default()
	set := Compute(scene.Interaction{RotationRadians: 1, Scale: 0}, cfg.Camera, cfg.Light, 1)
	origin := set.ViewProjection.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	for _, p := range []mgl32.Vec3{{50, 75, 15}, {-50, -75, -15}, {3, -9, 1}} {
		assertVec3(t, mgl32.Vec3{}, apply(set.World, p))
		assert.Equal(t, origin, set.WorldViewProjection.Mul4x1(p.Vec4(1)), "%v", p)
	}
}

func TestReverseLightIsNormalized(t *testing.T) {
	cfg := scene.Default()
	set := Compute(scene.Interaction{Scale: 1}, cfg.Camera, cfg.Light, 1)
	assert.InDelta(t, 1, set.ReverseLight.Len(), eps)
	assertVec3(t, cfg.Light.Direction.Normalize(), set.ReverseLight)
}

func TestAspect(t *testing.T) {
	a, ok := Aspect(800, 600)
	assert.True(t, ok)
	assert.InDelta(t, 4.0/3.0, a, eps)

	for _, size := range [][2]int{{800, 0}, {0, 600}, {-1, 10}, {10, -1}} {
		_, ok := Aspect(size[0], size[1])
		assert.False(t, ok, "%v", size)
	}
}
