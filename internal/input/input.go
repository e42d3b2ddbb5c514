package input

import "sync"

// Action represents a logical viewer action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionTurnLeft
	ActionTurnRight
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// Manager maps physical keys to logical actions and tracks which actions
// are held
type Manager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[Key][]Action

	// Current state (indexed by Action)
	currentState [ActionCount]bool
}

// NewManager creates a Manager with the default bindings: WASD and the
// arrow keys move and turn, Escape quits
func NewManager() *Manager {
	m := &Manager{
		keyToActions: make(map[Key][]Action),
	}

	m.BindKey(KeyW, ActionMoveForward)
	m.BindKey(KeyS, ActionMoveBackward)
	m.BindKey(KeyA, ActionTurnLeft)
	m.BindKey(KeyD, ActionTurnRight)
	m.BindKey(KeyArrowUp, ActionMoveForward)
	m.BindKey(KeyArrowDown, ActionMoveBackward)
	m.BindKey(KeyArrowLeft, ActionTurnLeft)
	m.BindKey(KeyArrowRight, ActionTurnRight)
	m.BindKey(KeyEscape, ActionQuit)

	return m
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action
func (m *Manager) BindKey(key Key, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (m *Manager) UnbindKey(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keyToActions, key)
}

// Actions returns the actions bound to key, in binding order
func (m *Manager) Actions(key Key) []Action {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Action(nil), m.keyToActions[key]...)
}

// HandleEvent updates the held state from a key event. Other events are
// ignored.
func (m *Manager) HandleEvent(ev Event) {
	if ev.Kind != KeyDown && ev.Kind != KeyUp {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, act := range m.keyToActions[ev.Key] {
		m.currentState[act] = ev.Kind == KeyDown
	}
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentState[action]
}
