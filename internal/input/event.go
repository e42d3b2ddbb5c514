package input

import "fmt"

// Key is a physical key, independent of the windowing library
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeySpace
	KeyEscape
)

var keyNames = map[Key]string{
	KeyUnknown:    "unknown",
	KeyW:          "W",
	KeyA:          "A",
	KeyS:          "S",
	KeyD:          "D",
	KeyQ:          "Q",
	KeyE:          "E",
	KeyArrowUp:    "Up",
	KeyArrowDown:  "Down",
	KeyArrowLeft:  "Left",
	KeyArrowRight: "Right",
	KeySpace:      "Space",
	KeyEscape:     "Escape",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// EventKind classifies an input event
type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	// Quit is a window close request
	Quit
	// Resize reports a new framebuffer size
	Resize
)

func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "key-down"
	case KeyUp:
		return "key-up"
	case Quit:
		return "quit"
	case Resize:
		return "resize"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one polled input event
type Event struct {
	Kind EventKind
	Key  Key
	// Repeat marks key-down events generated by holding a key
	Repeat bool

	Width, Height int
}

func KeyDownEvent(k Key) Event { return Event{Kind: KeyDown, Key: k} }
func KeyUpEvent(k Key) Event   { return Event{Kind: KeyUp, Key: k} }
func QuitEvent() Event         { return Event{Kind: Quit} }

func ResizeEvent(width, height int) Event {
	return Event{Kind: Resize, Width: width, Height: height}
}

func (e Event) String() string {
	switch e.Kind {
	case KeyDown, KeyUp:
		return fmt.Sprintf("%s %s", e.Kind, e.Key)
	case Resize:
		return fmt.Sprintf("%s %dx%d", e.Kind, e.Width, e.Height)
	default:
		return e.Kind.String()
	}
}
