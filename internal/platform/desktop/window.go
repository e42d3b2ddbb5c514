// Package desktop opens a GLFW window with an OpenGL 4.1 core context and
// turns its callbacks into polled input events.
package desktop

import (
	"fmt"
	"iter"
	"runtime"

	"motor/internal/config"
	"motor/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window implements the scheduler's platform contract. Every method must
// be called from the main thread.
type Window struct {
	win   *glfw.Window
	queue []input.Event
}

// Open initializes GLFW and creates a window whose context is current on
// the calling thread
func Open(s config.WindowSettings) (*Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	win, err := glfw.CreateWindow(s.Width, s.Height, s.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("could not create window: %w", err)
	}
	win.MakeContextCurrent()

	if s.VSync {
		glfw.SwapInterval(1)
	} else {
		// the frame limiter paces frames instead
		glfw.SwapInterval(0)
	}

	w := &Window{win: win}
	win.SetKeyCallback(w.onKey)
	win.SetCloseCallback(w.onClose)
	win.SetFramebufferSizeCallback(w.onFramebufferSize)
	return w, nil
}

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	k := mapKey(key)
	switch action {
	case glfw.Press:
		w.queue = append(w.queue, input.KeyDownEvent(k))
	case glfw.Repeat:
		ev := input.KeyDownEvent(k)
		ev.Repeat = true
		w.queue = append(w.queue, ev)
	case glfw.Release:
		w.queue = append(w.queue, input.KeyUpEvent(k))
	}
}

func (w *Window) onClose(win *glfw.Window) {
	// the scheduler decides when to stop
	win.SetShouldClose(false)
	w.queue = append(w.queue, input.QuitEvent())
}

func (w *Window) onFramebufferSize(_ *glfw.Window, width, height int) {
	w.queue = append(w.queue, input.ResizeEvent(width, height))
}

// Poll processes pending window events and returns them in arrival order
func (w *Window) Poll() iter.Seq[input.Event] {
	glfw.PollEvents()
	events := w.queue
	w.queue = nil
	return func(yield func(input.Event) bool) {
		for _, ev := range events {
			if !yield(ev) {
				return
			}
		}
	}
}

func (w *Window) Present() {
	w.win.SwapBuffers()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// Close destroys the window and terminates GLFW
func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}

var keys = map[glfw.Key]input.Key{
	glfw.KeyW:      input.KeyW,
	glfw.KeyA:      input.KeyA,
	glfw.KeyS:      input.KeyS,
	glfw.KeyD:      input.KeyD,
	glfw.KeyQ:      input.KeyQ,
	glfw.KeyE:      input.KeyE,
	glfw.KeyUp:     input.KeyArrowUp,
	glfw.KeyDown:   input.KeyArrowDown,
	glfw.KeyLeft:   input.KeyArrowLeft,
	glfw.KeyRight:  input.KeyArrowRight,
	glfw.KeySpace:  input.KeySpace,
	glfw.KeyEscape: input.KeyEscape,
}

func mapKey(k glfw.Key) input.Key {
	if key, ok := keys[k]; ok {
		return key
	}
	return input.KeyUnknown
}
