// Package controls provides the default keyboard handler of the viewer
package controls

import (
	"motor/internal/config"
	"motor/internal/ecs"
	"motor/internal/graphics"
	"motor/internal/input"
)

// Keyboard drives the camera from key-down events: forward/backward moves
// along the view direction, left/right turns around the vertical axis and
// quit requests termination.
type Keyboard struct {
	bindings *input.Manager

	MoveStep float32
	TurnStep float32 // degrees
}

// NewKeyboard uses the configured camera steps. A nil manager gets the
// default bindings.
func NewKeyboard(bindings *input.Manager) *Keyboard {
	if bindings == nil {
		bindings = input.NewManager()
	}
	cam := config.Get().Camera
	return &Keyboard{
		bindings: bindings,
		MoveStep: cam.MoveStep,
		TurnStep: cam.TurnStep,
	}
}

func (k *Keyboard) OnFrameEvent(ev input.Event, cmds *ecs.Commands, cam *graphics.Camera, _ *ecs.World) {
	k.bindings.HandleEvent(ev)

	switch ev.Kind {
	case input.Quit:
		cmds.ShouldClose = true
		return
	case input.KeyDown:
	default:
		return
	}

	for _, action := range k.bindings.Actions(ev.Key) {
		switch action {
		case input.ActionMoveForward:
			cam.MoveLocalZ(k.MoveStep)
		case input.ActionMoveBackward:
			cam.MoveLocalZ(-k.MoveStep)
		case input.ActionTurnRight:
			cam.RotateLocalY(k.TurnStep)
		case input.ActionTurnLeft:
			cam.RotateLocalY(-k.TurnStep)
		case input.ActionQuit:
			cmds.ShouldClose = true
		}
	}
}
