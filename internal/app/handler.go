package app

import (
	"motor/internal/ecs"
	"motor/internal/graphics"
	"motor/internal/input"
)

// StartupHandler runs once before staging. Returning an error aborts Run.
type StartupHandler interface {
	OnStartup(cmds *ecs.Commands, world *ecs.World) error
}

// FrameHandler receives every polled event while running
type FrameHandler interface {
	OnFrameEvent(ev input.Event, cmds *ecs.Commands, cam *graphics.Camera, world *ecs.World)
}

// StartupFunc adapts a function to StartupHandler
type StartupFunc func(cmds *ecs.Commands, world *ecs.World) error

func (f StartupFunc) OnStartup(cmds *ecs.Commands, world *ecs.World) error {
	return f(cmds, world)
}

// FrameFunc adapts a function to FrameHandler
type FrameFunc func(ev input.Event, cmds *ecs.Commands, cam *graphics.Camera, world *ecs.World)

func (f FrameFunc) OnFrameEvent(ev input.Event, cmds *ecs.Commands, cam *graphics.Camera, world *ecs.World) {
	f(ev, cmds, cam, world)
}
