package gpu

// Dialect headers for the two GLSL flavours the backends speak. Shader
// sources use VS_IN for vertex inputs, VARYING for the vertex-to-fragment
// interface and FRAG_COLOR for the fragment output.
const (
	core410Vertex = `#version 410 core
#define VS_IN in
#define VARYING out
`
	core410Fragment = `#version 410 core
#define VARYING in
out vec4 fragColor;
#define FRAG_COLOR fragColor
`
	es100Vertex = `#define VS_IN attribute
#define VARYING varying
`
	es100Fragment = `precision mediump float;
#define VARYING varying
#define FRAG_COLOR gl_FragColor
`
)

// Core410Preamble is the header for desktop OpenGL 4.1 core contexts.
func Core410Preamble(stage Stage) string {
	if stage == VertexStage {
		return core410Vertex
	}
	return core410Fragment
}

// ES100Preamble is the header for GLSL ES 1.00 (WebGL 1) contexts.
func ES100Preamble(stage Stage) string {
	if stage == VertexStage {
		return es100Vertex
	}
	return es100Fragment
}
