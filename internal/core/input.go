package core

// Action represents a semantic arena action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Move north
	ActionDown           // Move south
	ActionLeft           // Move west
	ActionRight          // Move east
	ActionAttack         // Tag an adjacent enemy
	ActionDrop           // Issue the drop command
	ActionRestart        // Start a new round after match end
	ActionQuit           // Leave the session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionAttack:
		return "Attack"
	case ActionDrop:
		return "Drop"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single player during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// MultiInputFrame contains input from every locally controlled team for one tick.
type MultiInputFrame struct {
	ByTeam map[Team]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByTeam: make(map[Team]InputFrame),
	}
}

// Team returns the input frame for a team, or an empty frame.
func (m MultiInputFrame) Team(t Team) InputFrame {
	if frame, ok := m.ByTeam[t]; ok {
		return frame
	}
	return NewInputFrame()
}

// Set marks an action for the given team.
func (m *MultiInputFrame) Set(t Team, a Action) {
	if m.ByTeam == nil {
		m.ByTeam = make(map[Team]InputFrame)
	}
	frame := m.Team(t)
	frame.Set(a)
	m.ByTeam[t] = frame
}

// Clear resets all team inputs for the next frame.
func (m *MultiInputFrame) Clear() {
	for t := range m.ByTeam {
		frame := m.ByTeam[t]
		frame.Clear()
		m.ByTeam[t] = frame
	}
}
