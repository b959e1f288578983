package lighting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu/gputest"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
	"github.com/toxichemicals/GO/holy-glyph/internal/shader"
)

func newMachine(t *testing.T) (*Machine, *gputest.Device) {
	t.Helper()
	dev := gputest.New()
	return NewMachine(shader.NewBuilder(dev, nil), nil), dev
}

func TestModeBeforeStart(t *testing.T) {
	m, _ := newMachine(t)
	assert.Nil(t, m.Current())
	_, err := m.Mode()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestStart(t *testing.T) {
	m, dev := newMachine(t)
	require.NoError(t, m.Start(scene.Fixed))

	mode, err := m.Mode()
	require.NoError(t, err)
	assert.Equal(t, scene.Fixed, mode)
	assert.Equal(t, 1, m.Rebuilds())
	assert.Equal(t, []gpu.Program{m.Current().Handle()}, dev.LivePrograms())
}

func TestStartFailure(t *testing.T) {
	m, dev := newMachine(t)
	dev.CompileFailures = map[gpu.Stage]string{gpu.VertexStage: "boom"}

	err := m.Start(scene.Fixed)
	require.Error(t, err)
	assert.ErrorIs(t, err, shader.ErrCompile)
	assert.Contains(t, err.Error(), "start fixed lighting")
	assert.Nil(t, m.Current())
	assert.Empty(t, dev.LivePrograms())
}

func TestRoundTripRestoresFixedUniforms(t *testing.T) {
	m, dev := newMachine(t)
	require.NoError(t, m.Start(scene.Fixed))
	first := m.Current()

	require.NoError(t, m.Switch(scene.Dynamic))
	assert.Equal(t, scene.Dynamic, m.Current().Mode())
	assert.True(t, m.Current().Has(shader.World))
	assert.False(t, m.Current().Has(shader.Matrix))

	require.NoError(t, m.Switch(scene.Fixed))
	p := m.Current()
	assert.Equal(t, scene.Fixed, p.Mode())
	assert.Equal(t, first.Uniforms(), p.Uniforms())
	assert.False(t, p.Has(shader.World))
	assert.False(t, p.Has(shader.WorldViewProjection))
	assert.ElementsMatch(t, []string{"u_matrix", "u_color", "u_reverseLightDirection"}, dev.UniformNames(p.Handle()))

	assert.Equal(t, []gpu.Program{p.Handle()}, dev.LivePrograms(), "replaced programs are released")
	assert.Equal(t, 3, m.Rebuilds())
}

func TestFailedSwitchKeepsLastGood(t *testing.T) {
	m, dev := newMachine(t)
	require.NoError(t, m.Start(scene.Fixed))
	good := m.Current()

	dev.LinkFailure = "link exploded"
	err := m.Switch(scene.Dynamic)
	require.Error(t, err)

	var be *shader.BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, scene.Dynamic, be.Mode)

	assert.Same(t, good, m.Current())
	mode, err := m.Mode()
	require.NoError(t, err)
	assert.Equal(t, scene.Fixed, mode)
	assert.Equal(t, []gpu.Program{good.Handle()}, dev.LivePrograms())
	assert.Equal(t, 1, m.Rebuilds())

	dev.LinkFailure = ""
	require.NoError(t, m.Switch(scene.Dynamic), "the next request tries again")
	assert.Equal(t, scene.Dynamic, m.Current().Mode())
}

func TestSwitchToSameModeRebuilds(t *testing.T) {
	m, dev := newMachine(t)
	require.NoError(t, m.Start(scene.Dynamic))
	before := m.Current()

	require.NoError(t, m.Switch(scene.Dynamic))
	assert.NotSame(t, before, m.Current())
	assert.NotEqual(t, before.Handle(), m.Current().Handle())
	assert.Equal(t, 2, m.Rebuilds())
	assert.Len(t, dev.LivePrograms(), 1)
}

func TestInstallBeforeRelease(t *testing.T) {
	rec := &recordingBuilder{}
	m := NewMachine(rec, nil)
	rec.machine = m
	require.NoError(t, m.Start(scene.Fixed))
	require.NoError(t, m.Switch(scene.Dynamic))

	require.Len(t, rec.released, 1)
	assert.Equal(t, scene.Fixed, rec.released[0].Mode())
	assert.Equal(t, scene.Dynamic, rec.installedAtRelease[0].Mode(),
		"the new program is installed when the old one is released")
}

type recordingBuilder struct {
	inner              *shader.Builder
	machine            *Machine
	released           []*shader.Program
	installedAtRelease []*shader.Program
}

func (r *recordingBuilder) Build(mode scene.LightingMode) (*shader.Program, error) {
	if r.inner == nil {
		r.inner = shader.NewBuilder(gputest.New(), nil)
	}
	return r.inner.Build(mode)
}

func (r *recordingBuilder) Release(p *shader.Program) {
	if p == nil {
		return
	}
	r.released = append(r.released, p)
	r.installedAtRelease = append(r.installedAtRelease, r.machine.Current())
	r.inner.Release(p)
}

func TestClose(t *testing.T) {
	m, dev := newMachine(t)
	require.NoError(t, m.Start(scene.Fixed))
	m.Close()

	assert.Nil(t, m.Current())
	assert.Empty(t, dev.LivePrograms())
	assert.NotPanics(t, m.Close)
}
