package gpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationValid(t *testing.T) {
	assert.False(t, NoLocation.Valid())
	assert.True(t, Location(0).Valid())
	assert.True(t, Location(7).Valid())
}

func TestPreamblesDefineMacros(t *testing.T) {
	for _, pre := range []func(Stage) string{Core410Preamble, ES100Preamble} {
		assert.Contains(t, pre(VertexStage), "#define VS_IN")
		assert.Contains(t, pre(VertexStage), "#define VARYING")
		assert.Contains(t, pre(FragmentStage), "#define VARYING")
		assert.Contains(t, pre(FragmentStage), "#define FRAG_COLOR")
	}
	assert.True(t, strings.HasPrefix(Core410Preamble(FragmentStage), "#version 410 core\n"))
	assert.Contains(t, ES100Preamble(FragmentStage), "precision mediump float;")
}

func TestContextErrorMessage(t *testing.T) {
	err := &ContextError{Code: 0x0502}
	assert.Equal(t, "gpu context error 0x0502 (invalid operation)", err.Error())
	assert.Contains(t, (&ContextError{Code: 0x1234}).Error(), "unknown")
	assert.Equal(t, "fragment", FragmentStage.String())
	assert.Equal(t, "stage(9)", Stage(9).String())
}
