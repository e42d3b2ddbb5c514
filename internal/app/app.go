// Package app is the frame scheduler: it runs startup handlers, stages
// every renderable, then loops drawing the world and dispatching input
// until a handler asks to close.
package app

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"motor/internal/config"
	"motor/internal/ecs"
	"motor/internal/graphics"
	"motor/internal/input"
	"motor/internal/profiling"
	"motor/internal/render"
)

// ErrAlreadyRun is returned when Run is called on a used App
var ErrAlreadyRun = errors.New("app already run")

// State of the scheduler. States only move forward.
type State int

const (
	Initializing State = iota
	Staging
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Staging:
		return "staging"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Platform is the window the scheduler presents to and polls
type Platform interface {
	// Poll returns the events queued since the previous poll
	Poll() iter.Seq[input.Event]
	// Present swaps the back buffer
	Present()
	FramebufferSize() (width, height int)
}

// slowFrame is the report threshold when no frame limit is set
const slowFrame = 16 * time.Millisecond

// App drives one world through its lifecycle. It must be used from the
// thread owning the rendering context.
type App struct {
	platform Platform
	render   *render.Context

	world  *ecs.World
	cmds   ecs.Commands
	camera *graphics.Camera

	startup []StartupHandler
	frame   []FrameHandler

	state      State
	frames     uint64
	clearColor [4]float32
	limiter    *FPSLimiter
}

// New creates an App using the current config for camera and clear color
func New(platform Platform, rc *render.Context) *App {
	s := config.Get()

	w, h := platform.FramebufferSize()
	cam := graphics.NewCamera(w, h)
	cam.SetLens(s.Camera.FOV, s.Camera.Near, s.Camera.Far)

	return &App{
		platform:   platform,
		render:     rc,
		world:      ecs.NewWorld(),
		camera:     cam,
		clearColor: s.Render.ClearColor,
		limiter:    NewFPSLimiter(),
	}
}

// WithStartup registers a startup handler. Handlers run in registration order.
func (a *App) WithStartup(h StartupHandler) *App {
	a.startup = append(a.startup, h)
	return a
}

// WithFrameHandler registers a frame handler. Every event reaches every
// handler in registration order.
func (a *App) WithFrameHandler(h FrameHandler) *App {
	a.frame = append(a.frame, h)
	return a
}

func (a *App) State() State             { return a.state }
func (a *App) Frames() uint64           { return a.frames }
func (a *App) World() *ecs.World        { return a.world }
func (a *App) Camera() *graphics.Camera { return a.camera }
func (a *App) Commands() *ecs.Commands  { return &a.cmds }
func (a *App) Render() *render.Context  { return a.render }

// Run executes the lifecycle and returns when the App is Terminated.
// Startup and staging errors are fatal and returned before any frame is
// drawn. Cancelling ctx terminates at the end of the current frame.
func (a *App) Run(ctx context.Context) error {
	if a.state != Initializing {
		return ErrAlreadyRun
	}
	defer func() { a.state = Terminated }()

	for i, h := range a.startup {
		if err := h.OnStartup(&a.cmds, a.world); err != nil {
			return fmt.Errorf("startup handler %d: %w", i, err)
		}
	}
	if a.cmds.ShouldClose {
		slog.Info("close requested during startup")
		return nil
	}

	a.state = Staging
	staged, err := a.stagePending()
	if err != nil {
		return err
	}
	slog.Info("staged renderables", "count", staged, "entities", a.world.Len())

	a.render.Backend.Viewport(a.platform.FramebufferSize())

	a.state = Running
	for a.state == Running {
		if err := a.tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

// stagePending stages every renderable that is still unstaged
func (a *App) stagePending() (int, error) {
	n := 0
	for e, r := range a.world.Renderables.All() {
		if r.Resource == nil {
			if r.Asset == nil {
				return n, fmt.Errorf("entity %d: renderable without asset", e)
			}
			r.Resource = render.NewResource(r.Asset)
		}
		if r.Resource.State() == render.Staged {
			continue
		}
		if err := r.Resource.Stage(a.render); err != nil {
			return n, fmt.Errorf("entity %d: %w", e, err)
		}
		n++
	}
	return n, nil
}

func (a *App) tick(ctx context.Context) error {
	profiling.ResetFrame()
	start := time.Now()

	// entities spawned by handlers last frame
	stop := profiling.Track("stage")
	if _, err := a.stagePending(); err != nil {
		return err
	}
	stop()

	stop = profiling.Track("camera")
	a.camera.Update()
	stop()

	stop = profiling.Track("draw")
	err := a.draw()
	stop()
	if err != nil {
		return err
	}

	stop = profiling.Track("present")
	a.platform.Present()
	stop()

	stop = profiling.Track("poll")
	for ev := range a.platform.Poll() {
		a.dispatch(ev)
	}
	stop()

	a.frames++

	budget := a.limiter.Budget()
	if budget == 0 {
		budget = slowFrame
	}
	if d := time.Since(start); d > budget {
		slog.Debug("slow frame", "frame", a.frames, "duration", d, "top", profiling.TopN(5))
	}

	if a.cmds.ShouldClose || ctx.Err() != nil {
		a.state = Terminated
		return nil
	}

	a.limiter.Wait()
	return nil
}

func (a *App) draw() error {
	b := a.render.Backend
	p := a.render.Program

	b.Clear(a.clearColor)
	b.UseProgram(p)
	b.SetUniformMatrix4(p, "view", a.camera.View())
	b.SetUniformMatrix4(p, "proj", a.camera.Projection())
	b.SetUniformInt(p, "texture0", 0)

	for e, r := range a.world.Renderables.All() {
		if err := r.Resource.Draw(a.render, r.Transform.Matrix()); err != nil {
			return fmt.Errorf("draw entity %d: %w", e, err)
		}
	}
	return nil
}

func (a *App) dispatch(ev input.Event) {
	if ev.Kind == input.Resize {
		a.render.Backend.Viewport(ev.Width, ev.Height)
		a.camera.SetViewport(ev.Width, ev.Height)
	}

	for _, h := range a.frame {
		h.OnFrameEvent(ev, &a.cmds, a.camera, a.world)
	}

	if ev.Kind == input.Quit {
		a.cmds.ShouldClose = true
	}
}
