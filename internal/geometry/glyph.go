// Package geometry builds the static F glyph mesh and uploads it to the
// GPU.
package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Glyph dimensions in authoring units. The outline is drawn with y
// pointing down and the front face on the z=0 plane.
const (
	glyphWidth  = 100
	glyphHeight = 150
	glyphDepth  = 30
	strokeWidth = 30
)

// outline is the F's silhouette, walked around its boundary.
var outline = []mgl32.Vec2{
	{0, 0},
	{glyphWidth, 0},
	{glyphWidth, strokeWidth},
	{strokeWidth, strokeWidth},
	{strokeWidth, 60},
	{67, 60},
	{67, 90},
	{strokeWidth, 90},
	{strokeWidth, glyphHeight},
	{0, glyphHeight},
}

// faces covers the silhouette with three rectangles: the column, the top
// rung and the middle rung, as {x0, y0, x1, y1}.
var faces = [][4]float32{
	{0, 0, strokeWidth, glyphHeight},
	{strokeWidth, 0, glyphWidth, strokeWidth},
	{strokeWidth, 60, 67, 90},
}

// Mesh is a non-indexed triangle list. Positions and Normals hold one
// x, y, z triple per vertex.
type Mesh struct {
	Positions []float32
	Normals   []float32
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int { return len(m.Positions) / 3 }

// Validate checks the buffer contract: equal lengths grouped in triples.
func (m Mesh) Validate() error {
	switch {
	case len(m.Positions) == 0:
		return fmt.Errorf("mesh has no vertices")
	case len(m.Positions)%3 != 0:
		return fmt.Errorf("mesh positions length %d is not a multiple of 3", len(m.Positions))
	case len(m.Positions) != len(m.Normals):
		return fmt.Errorf("mesh has %d position floats but %d normal floats", len(m.Positions), len(m.Normals))
	}
	return nil
}

var glyph = buildGlyph()

// Glyph returns the F mesh in authoring coordinates. Normals are already
// expressed in the centered, reoriented frame produced by Center. The
// returned slices are copies.
func Glyph() Mesh {
	return Mesh{
		Positions: append([]float32(nil), glyph.Positions...),
		Normals:   append([]float32(nil), glyph.Normals...),
	}
}

// Reorient is applied once at load time: move the glyph's center to the
// origin, then turn it upright (authoring y points down).
var Reorient = mgl32.HomogRotate3DX(math.Pi).Mul4(mgl32.Translate3D(-glyphWidth/2, -glyphHeight/2, -glyphDepth/2))

// Center returns positions transformed by Reorient.
func Center(positions []float32) []float32 {
	out := make([]float32, len(positions))
	for i := 0; i+2 < len(positions); i += 3 {
		p := Reorient.Mul4x1(mgl32.Vec4{positions[i], positions[i+1], positions[i+2], 1})
		out[i], out[i+1], out[i+2] = p[0], p[1], p[2]
	}
	return out
}

func buildGlyph() Mesh {
	var b meshBuilder
	for _, f := range faces {
		x0, y0, x1, y1 := f[0], f[1], f[2], f[3]
		b.quad(mgl32.Vec3{0, 0, -1},
			mgl32.Vec3{x0, y0, 0}, mgl32.Vec3{x1, y0, 0}, mgl32.Vec3{x1, y1, 0}, mgl32.Vec3{x0, y1, 0})
		b.quad(mgl32.Vec3{0, 0, 1},
			mgl32.Vec3{x0, y0, glyphDepth}, mgl32.Vec3{x1, y0, glyphDepth}, mgl32.Vec3{x1, y1, glyphDepth}, mgl32.Vec3{x0, y1, glyphDepth})
	}

	ccw := signedArea(outline) > 0
	for i, a := range outline {
		c := outline[(i+1)%len(outline)]
		e := c.Sub(a)
		n := mgl32.Vec3{e[1], -e[0], 0}.Normalize()
		if !ccw {
			n = n.Mul(-1)
		}
		b.quad(n,
			mgl32.Vec3{a[0], a[1], 0}, mgl32.Vec3{c[0], c[1], 0},
			mgl32.Vec3{c[0], c[1], glyphDepth}, mgl32.Vec3{a[0], a[1], glyphDepth})
	}
	return b.mesh
}

func signedArea(poly []mgl32.Vec2) float32 {
	var sum float32
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		sum += p[0]*q[1] - q[0]*p[1]
	}
	return sum / 2
}

type meshBuilder struct {
	mesh Mesh
}

// quad appends a planar rectangle given in cyclic corner order as two
// triangles wound counter-clockwise around the outward normal n. The
// stored normal is n carried into the reoriented frame.
func (b *meshBuilder) quad(n mgl32.Vec3, c0, c1, c2, c3 mgl32.Vec3) {
	if c1.Sub(c0).Cross(c2.Sub(c0)).Dot(n) < 0 {
		c1, c3 = c3, c1
	}
	shown := Reorient.Mat3().Mul3x1(n)
	for _, v := range []mgl32.Vec3{c0, c1, c2, c0, c2, c3} {
		b.mesh.Positions = append(b.mesh.Positions, v[0], v[1], v[2])
		b.mesh.Normals = append(b.mesh.Normals, shown[0], shown[1], shown[2])
	}
}
