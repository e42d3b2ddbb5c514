package app

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"motor/internal/asset"
	_ "motor/internal/asset/obj"
	"motor/internal/component"
	"motor/internal/ecs"
	"motor/internal/graphics"
	"motor/internal/graphics/graphicstest"
	"motor/internal/input"
	"motor/internal/render"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPlatform returns frames[i] on the i-th poll and nothing after
type scriptedPlatform struct {
	frames   [][]input.Event
	polls    int
	presents int
	onPoll   func(poll int)
}

func (p *scriptedPlatform) Poll() iter.Seq[input.Event] {
	i := p.polls
	p.polls++
	if p.onPoll != nil {
		p.onPoll(i)
	}
	return func(yield func(input.Event) bool) {
		if i >= len(p.frames) {
			return
		}
		for _, ev := range p.frames[i] {
			if !yield(ev) {
				return
			}
		}
	}
}

func (p *scriptedPlatform) Present()                    { p.presents++ }
func (p *scriptedPlatform) FramebufferSize() (int, int) { return 600, 600 }

func triangleAsset() *asset.Asset {
	return &asset.Asset{
		Path: "tri",
		Meshes: []asset.SubMesh{{
			Vertices: []float32{
				0, 0, 0, 0, 0, 0,
				1, 0, 0, 1, 0, 0,
				0, 1, 0, 0, 1, 0,
			},
		}},
	}
}

func newTestApp(frames ...[]input.Event) (*App, *scriptedPlatform, *graphicstest.Backend) {
	b := graphicstest.New()
	p := &scriptedPlatform{frames: frames}
	a := New(p, render.NewContext(b, 1, graphicstest.NewDecoder()))
	return a, p, b
}

func spawnModelAndLabel(cmds *ecs.Commands, w *ecs.World) error {
	r := component.NewRenderable(triangleAsset())
	model := component.Name("model")
	label := component.Name("label")
	w.Spawn(ecs.Components{Renderable: &r, Name: &model})
	w.Spawn(ecs.Components{Name: &label})
	return nil
}

func TestStartupShapeAndFirstFrame(t *testing.T) {
	a, p, b := newTestApp([]input.Event{input.QuitEvent()})

	var drawsBeforeQuit int
	a.WithStartup(StartupFunc(spawnModelAndLabel))
	a.WithFrameHandler(FrameFunc(func(ev input.Event, _ *ecs.Commands, _ *graphics.Camera, _ *ecs.World) {
		drawsBeforeQuit = b.DrawCount()
	}))

	require.NoError(t, a.Run(context.Background()))

	w := a.World()
	assert.True(t, w.Renderables.Has(0))
	assert.False(t, w.Renderables.Has(1))
	assert.True(t, w.Names.Has(0))
	assert.True(t, w.Names.Has(1))

	assert.Equal(t, 1, drawsBeforeQuit)
	assert.Equal(t, 1, b.DrawCount())
	assert.Equal(t, 1, p.presents)
	assert.Equal(t, uint64(1), a.Frames())
	assert.Equal(t, Terminated, a.State())
}

func TestQuitTerminatesSameFrame(t *testing.T) {
	a, p, b := newTestApp(nil, nil, []input.Event{input.QuitEvent()}, nil)
	a.WithStartup(StartupFunc(spawnModelAndLabel))

	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, uint64(3), a.Frames())
	assert.Equal(t, 3, p.polls)
	assert.Equal(t, 3, b.DrawCount())
	assert.Equal(t, 3, b.Clears)
	assert.True(t, a.Commands().ShouldClose)
}

func TestHandlersRunInOrder(t *testing.T) {
	a, _, _ := newTestApp([]input.Event{input.KeyDownEvent(input.KeyW), input.KeyDownEvent(input.KeyS), input.QuitEvent()})

	var seen []string
	record := func(tag string) FrameFunc {
		return func(ev input.Event, _ *ecs.Commands, _ *graphics.Camera, _ *ecs.World) {
			seen = append(seen, tag+" "+ev.String())
		}
	}
	var startups []int
	a.WithStartup(StartupFunc(func(*ecs.Commands, *ecs.World) error { startups = append(startups, 1); return nil }))
	a.WithStartup(StartupFunc(func(*ecs.Commands, *ecs.World) error { startups = append(startups, 2); return nil }))
	a.WithFrameHandler(record("a")).WithFrameHandler(record("b"))

	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, []int{1, 2}, startups)
	assert.Equal(t, []string{
		"a key-down W", "b key-down W",
		"a key-down S", "b key-down S",
		"a quit", "b quit",
	}, seen)
}

func TestHandlerCloseFlag(t *testing.T) {
	a, _, _ := newTestApp(nil, []input.Event{input.KeyDownEvent(input.KeyEscape)})
	a.WithFrameHandler(FrameFunc(func(ev input.Event, cmds *ecs.Commands, _ *graphics.Camera, _ *ecs.World) {
		if ev.Key == input.KeyEscape {
			cmds.ShouldClose = true
		}
	}))

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, uint64(2), a.Frames())
}

func TestStartupErrorIsFatal(t *testing.T) {
	a, p, b := newTestApp()
	a.WithStartup(StartupFunc(func(_ *ecs.Commands, w *ecs.World) error {
		r, err := component.LoadRenderable(filepath.Join(t.TempDir(), "missing.obj"))
		if err != nil {
			return err
		}
		w.Spawn(ecs.Components{Renderable: &r})
		return nil
	}))

	err := a.Run(context.Background())
	require.Error(t, err)

	var ie *asset.ImportError
	assert.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, Terminated, a.State())
	assert.Zero(t, a.World().Len())
	assert.Zero(t, p.presents)
	assert.Zero(t, b.DrawCount())
}

func TestStagingErrorIsFatal(t *testing.T) {
	a, p, b := newTestApp()
	b.FailVertices = true
	a.WithStartup(StartupFunc(spawnModelAndLabel))

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, graphicstest.ErrInjected)
	assert.Zero(t, p.presents)
}

func TestCloseDuringStartupSkipsStaging(t *testing.T) {
	a, p, b := newTestApp()
	a.WithStartup(StartupFunc(spawnModelAndLabel))
	a.WithStartup(StartupFunc(func(cmds *ecs.Commands, _ *ecs.World) error {
		cmds.ShouldClose = true
		return nil
	}))

	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, b.Vertices)
	assert.Zero(t, p.presents)
	assert.Equal(t, render.Unstaged, a.World().Renderables.Get(0).Resource.State())
}

func TestStagedBeforeFirstDraw(t *testing.T) {
	a, _, b := newTestApp([]input.Event{input.QuitEvent()})
	a.WithStartup(StartupFunc(spawnModelAndLabel))

	require.NoError(t, a.Run(context.Background()))
	for _, r := range a.World().Renderables.All() {
		assert.Equal(t, render.Staged, r.Resource.State())
	}
	assert.Len(t, b.Vertices, 1)
}

func TestLateSpawnIsStagedNextFrame(t *testing.T) {
	a, _, b := newTestApp([]input.Event{input.KeyDownEvent(input.KeySpace)}, []input.Event{input.QuitEvent()})
	a.WithFrameHandler(FrameFunc(func(ev input.Event, _ *ecs.Commands, _ *graphics.Camera, w *ecs.World) {
		if ev.Key == input.KeySpace {
			r := component.NewRenderable(triangleAsset())
			w.Spawn(ecs.Components{Renderable: &r})
		}
	}))

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 1, b.DrawCount())
	assert.Equal(t, uint64(2), a.Frames())
}

func TestDrawUsesTransformAndCamera(t *testing.T) {
	a, _, b := newTestApp([]input.Event{input.QuitEvent()})
	a.WithStartup(StartupFunc(func(_ *ecs.Commands, w *ecs.World) error {
		r := component.NewRenderable(triangleAsset()).WithTranslate(mgl32.Vec3{1, 2, 3})
		w.Spawn(ecs.Components{Renderable: &r})
		return nil
	}))

	require.NoError(t, a.Run(context.Background()))

	require.Equal(t, 1, b.DrawCount())
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), b.Draws[0].Model)
	assert.Equal(t, a.Camera().View(), b.Matrices["view"])
	assert.Equal(t, a.Camera().Projection(), b.Matrices["proj"])
	assert.Equal(t, int32(0), b.Ints["texture0"])
}

func TestResizeUpdatesViewportAndCamera(t *testing.T) {
	a, _, b := newTestApp([]input.Event{input.ResizeEvent(800, 400), input.QuitEvent()})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, [][2]int{{600, 600}, {800, 400}}, b.Viewports)
	assert.InDelta(t, 2.0, a.Camera().AspectRatio, 1e-6)
}

func TestContextCancelTerminatesAtFrameEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, p, _ := newTestApp()
	p.onPoll = func(poll int) {
		if poll == 1 {
			cancel()
		}
	}

	require.NoError(t, a.Run(ctx))
	assert.Equal(t, uint64(2), a.Frames())
	assert.Equal(t, 2, p.presents)
}

func TestRunTwice(t *testing.T) {
	a, _, _ := newTestApp([]input.Event{input.QuitEvent()})
	require.NoError(t, a.Run(context.Background()))
	assert.True(t, errors.Is(a.Run(context.Background()), ErrAlreadyRun))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestRenderableLiteralIsStagedAndPlaced(t *testing.T) {
	a, _, b := newTestApp([]input.Event{input.QuitEvent()})
	a.WithStartup(StartupFunc(func(_ *ecs.Commands, w *ecs.World) error {
		r := component.Renderable{Asset: triangleAsset()}.WithTranslate(mgl32.Vec3{1, 2, 3})
		w.Spawn(ecs.Components{Renderable: &r})
		return nil
	}))

	require.NoError(t, a.Run(context.Background()))

	require.Equal(t, 1, b.DrawCount())
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), b.Draws[0].Model)
	assert.Equal(t, render.Staged, a.World().Renderables.Get(0).Resource.State())
}
