package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toxichemicals/GO/holy-glyph/internal/controls"
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
	"github.com/toxichemicals/GO/holy-glyph/internal/gpu/gputest"
	"github.com/toxichemicals/GO/holy-glyph/internal/render"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
	"github.com/toxichemicals/GO/holy-glyph/internal/shader"
)

type fakeSurface struct{ w, h, presents int }

func (s *fakeSurface) FramebufferSize() (int, int) { return s.w, s.h }
func (s *fakeSurface) Present()                    { s.presents++ }

type fakeEnv struct {
	dev     *gputest.Device
	surface *fakeSurface
	err     error
}

func (e *fakeEnv) Acquire() (gpu.Device, render.Surface, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	return e.dev, e.surface, nil
}

type sink struct{ shown []string }

func (s *sink) Show(msg string) { s.shown = append(s.shown, msg) }

type harness struct {
	app   *App
	env   *fakeEnv
	panel *controls.Panel
	sink  *sink
}

func newHarness() *harness {
	cfg := scene.Default()
	h := &harness{
		env:   &fakeEnv{dev: gputest.New(), surface: &fakeSurface{w: 640, h: 480}},
		panel: controls.NewPanel(cfg.Controls),
		sink:  &sink{},
	}
	h.app = New(cfg, h.env, h.panel, NewReporter(h.sink, nil), nil)
	return h
}

func TestInitDrawsFirstFrame(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.app.Init())

	assert.True(t, h.app.Ready())
	require.Len(t, h.env.dev.Draws, 1)
	assert.Contains(t, h.env.dev.LastDraw().Uniforms, "u_matrix")
	mode, err := h.app.Mode()
	require.NoError(t, err)
	assert.Equal(t, scene.Fixed, mode)
	assert.Empty(t, h.sink.shown)
}

func TestInitTwiceIsNoop(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.app.Init())
	require.NoError(t, h.app.Init())
	assert.Len(t, h.env.dev.LivePrograms(), 1)
	assert.Len(t, h.env.dev.Draws, 1)
}

func TestScenarioDRenderBeforeInit(t *testing.T) {
	h := newHarness()

	h.app.RenderFrame()
	h.app.Dispatch(controls.Event{Kind: controls.LightingModeChanged, State: h.panel.Snapshot()})
	h.panel.SetScale(2)

	assert.Empty(t, h.env.dev.Draws)
	assert.Zero(t, h.env.dev.Compiles)
	assert.Empty(t, h.sink.shown)
	_, err := h.app.Mode()
	assert.Error(t, err)
}

func TestEnvironmentFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "typed",
			err:  &EnvironmentError{Message: "WebGL not supported"},
			want: "WebGL not supported",
		},
		{
			name: "plain",
			err:  errors.New("glfw: no display"),
			want: "Failed to acquire a rendering context",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.env.err = tt.err

			err := h.app.Init()
			var envErr *EnvironmentError
			require.True(t, errors.As(err, &envErr))
			assert.False(t, h.app.Ready())
			assert.Equal(t, []string{tt.want}, h.sink.shown)

			h.app.RenderFrame()
			assert.Empty(t, h.env.dev.Draws)
		})
	}
}

func TestInitBuildFailure(t *testing.T) {
	h := newHarness()
	h.env.dev.CompileFailures = map[gpu.Stage]string{gpu.FragmentStage: "nope"}

	err := h.app.Init()
	assert.ErrorIs(t, err, shader.ErrCompile)
	assert.False(t, h.app.Ready())
	assert.Equal(t, []string{"Failed to create shader program"}, h.sink.shown)

	_, live := h.env.dev.BufferContents(1)
	assert.False(t, live, "glyph buffers are released")
}

func TestRotationAndScaleRedrawOnly(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.app.Init())
	compiles := h.env.dev.Compiles

	h.panel.SetRotationDegrees(90)
	h.panel.SetScale(0.5)

	assert.Len(t, h.env.dev.Draws, 3)
	assert.Equal(t, compiles, h.env.dev.Compiles, "no rebuild without a lighting change")
}

func TestScenarioCDoubleToggle(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.app.Init())
	before := h.env.dev.LastDraw()
	links := h.env.dev.Links

	h.panel.ToggleLighting()
	h.panel.ToggleLighting()

	assert.Equal(t, links+2, h.env.dev.Links, "two full rebuilds")
	require.Len(t, h.env.dev.Draws, 3, "two renders after the first frame")

	mid := h.env.dev.Draws[1]
	assert.Contains(t, mid.Uniforms, "u_world")

	after := h.env.dev.LastDraw()
	assert.NotEqual(t, before.Program, after.Program)
	assert.Equal(t, before.Uniforms, after.Uniforms, "same visual output as before")
	assert.Len(t, h.env.dev.LivePrograms(), 1)
	assert.Zero(t, h.env.dev.StaleUploads())
}

func TestFailedToggleKeepsDrawingLastGood(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.app.Init())

	h.env.dev.LinkFailure = "too many varyings"
	h.panel.SetFixedLighting(false)

	assert.Equal(t, []string{"Failed to create shader program"}, h.sink.shown)
	mode, err := h.app.Mode()
	require.NoError(t, err)
	assert.Equal(t, scene.Fixed, mode)

	require.Len(t, h.env.dev.Draws, 2, "the frame is still drawn")
	assert.Contains(t, h.env.dev.LastDraw().Uniforms, "u_matrix")
	assert.Zero(t, h.env.dev.StaleUploads())

	assert.True(t, h.panel.Fixed(), "toggle follows the drawn mode")
	assert.Equal(t, "ON (Fixed)", h.panel.LightingLabel())
	assert.Equal(t, scene.Fixed, h.panel.Snapshot().Mode)
}

func TestRestoredToggleDoesNotRebuild(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.app.Init())
	var kinds []controls.Kind
	h.panel.Subscribe(func(e controls.Event) { kinds = append(kinds, e.Kind) })

	h.env.dev.LinkFailure = "too many varyings"
	h.panel.SetFixedLighting(false)
	links := h.env.dev.Links

	assert.Equal(t, []controls.Kind{controls.LightingModeRestored, controls.LightingModeChanged}, kinds)
	assert.Len(t, h.sink.shown, 1, "one failure, one report")

	h.env.dev.LinkFailure = ""
	h.panel.SetFixedLighting(false)
	assert.Equal(t, links+1, h.env.dev.Links)
	mode, err := h.app.Mode()
	require.NoError(t, err)
	assert.Equal(t, scene.Dynamic, mode)
	assert.False(t, h.panel.Fixed())
}

func TestControlsLiveAfterFailedInit(t *testing.T) {
	h := newHarness()
	h.env.err = &EnvironmentError{Message: "WebGL not supported"}
	require.Error(t, h.app.Init())

	var labels []string
	h.panel.Subscribe(func(controls.Event) {
		labels = append(labels, h.panel.RotationLabel()+" "+h.panel.ScaleLabel()+" "+h.panel.LightingLabel())
	})

	assert.NotPanics(t, func() {
		h.panel.SetRotationDegrees(90)
		h.panel.SetScale(2)
		h.panel.ToggleLighting()
		h.app.RenderFrame()
	})
	assert.Equal(t, []string{
		"90° 1.00x ON (Fixed)",
		"90° 2.00x ON (Fixed)",
		"90° 2.00x OFF (Dynamic)",
	}, labels)
	assert.Empty(t, h.env.dev.Draws)
	assert.Zero(t, h.env.dev.Compiles)
	assert.Equal(t, []string{"WebGL not supported"}, h.sink.shown)
}

func TestDrawErrorReported(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.app.Init())

	h.env.dev.PendingErr = errors.New("context lost")
	h.panel.SetScale(2)

	assert.Equal(t, []string{"Draw error: context lost"}, h.sink.shown)
}

func TestClose(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.app.Init())
	h.app.Close()

	assert.False(t, h.app.Ready())
	assert.Empty(t, h.env.dev.LivePrograms())

	h.panel.SetScale(2)
	assert.Len(t, h.env.dev.Draws, 1, "events after Close are ignored")
	assert.NotPanics(t, h.app.Close)
}

func TestReporter(t *testing.T) {
	s := &sink{}
	r := NewReporter(s, nil)

	r.Report(nil)
	assert.Empty(t, s.shown)
	assert.Equal(t, "", r.Last())

	r.Report(errors.New("boom"))
	r.Report(&render.DrawError{Err: errors.New("bad")})
	assert.Equal(t, []string{"Error: boom", "Draw error: bad"}, s.shown)
	assert.Equal(t, "Draw error: bad", r.Last())

	assert.NotPanics(t, func() { NewReporter(nil, nil).Report(errors.New("x")) })
}

func TestEnvironmentErrorText(t *testing.T) {
	inner := errors.New("no canvas")
	err := &EnvironmentError{Message: "Canvas element not found", Err: inner}
	assert.Equal(t, "Canvas element not found: no canvas", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "Canvas element not found", Message(err))
}
