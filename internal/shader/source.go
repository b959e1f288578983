package shader

import (
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
)

// Uniform is the logical name the renderer uses for a shader input.
type Uniform string

const (
	Matrix                Uniform = "matrix"
	WorldViewProjection   Uniform = "worldViewProjection"
	World                 Uniform = "world"
	Color                 Uniform = "color"
	ReverseLightDirection Uniform = "reverseLightDirection"
)

// GLSL returns the uniform's identifier in the shader sources.
func (u Uniform) GLSL() string {
	return "u_" + string(u)
}

// Vertex inputs shared by every variant.
const (
	PositionAttrib = "a_position"
	NormalAttrib   = "a_normal"
)

// The fixed variant hands the model-space normal straight through, so the
// lit side stays put while the glyph turns.
const fixedVertex = `
VS_IN vec4 a_position;
VS_IN vec3 a_normal;

uniform mat4 u_matrix;

VARYING vec3 v_normal;

void main() {
	gl_Position = u_matrix * a_position;
	v_normal = a_normal;
}
`

const dynamicVertex = `
VS_IN vec4 a_position;
VS_IN vec3 a_normal;

uniform mat4 u_worldViewProjection;
uniform mat4 u_world;

VARYING vec3 v_normal;

void main() {
	gl_Position = u_worldViewProjection * a_position;
	v_normal = mat3(u_world) * a_normal;
}
`

const fragment = `
VARYING vec3 v_normal;

uniform vec3 u_reverseLightDirection;
uniform vec4 u_color;

void main() {
	vec3 normal = normalize(v_normal);
	float light = clamp(dot(normal, u_reverseLightDirection), 0.2, 1.0);
	FRAG_COLOR = u_color;
	FRAG_COLOR.rgb *= light;
}
`

// Variant is the source pair and uniform set for one lighting mode.
type Variant struct {
	Mode     scene.LightingMode
	Vertex   string
	Fragment string
	Uniforms []Uniform
}

var variants = map[scene.LightingMode]Variant{
	scene.Fixed: {
		Mode:     scene.Fixed,
		Vertex:   fixedVertex,
		Fragment: fragment,
		Uniforms: []Uniform{Matrix, Color, ReverseLightDirection},
	},
	scene.Dynamic: {
		Mode:     scene.Dynamic,
		Vertex:   dynamicVertex,
		Fragment: fragment,
		Uniforms: []Uniform{WorldViewProjection, World, Color, ReverseLightDirection},
	},
}

// VariantFor returns the variant of mode. ok is false for an unknown mode.
func VariantFor(mode scene.LightingMode) (v Variant, ok bool) {
	v, ok = variants[mode]
	if ok {
		v.Uniforms = append([]Uniform(nil), v.Uniforms...)
	}
	return v, ok
}

// Source returns the variant's source for stage, without a preamble.
func (v Variant) Source(stage gpu.Stage) string {
	if stage == gpu.VertexStage {
		return v.Vertex
	}
	return v.Fragment
}
