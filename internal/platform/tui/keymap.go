package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ctf-arena/internal/core"
)

// KeyMap defines the arena key bindings. Red plays on WASD, blue on the
// arrow keys; against the bot both sets steer red.
type KeyMap struct {
	RedUp     key.Binding
	RedDown   key.Binding
	RedLeft   key.Binding
	RedRight  key.Binding
	RedAttack key.Binding
	RedDrop   key.Binding

	BlueUp     key.Binding
	BlueDown   key.Binding
	BlueLeft   key.Binding
	BlueRight  key.Binding
	BlueAttack key.Binding
	BlueDrop   key.Binding

	Restart key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.RedAttack, k.RedDrop, k.Restart, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.RedUp, k.RedDown, k.RedLeft, k.RedRight, k.RedAttack, k.RedDrop},
		{k.BlueUp, k.BlueDown, k.BlueLeft, k.BlueRight, k.BlueAttack, k.BlueDrop},
		{k.Restart, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		RedUp:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "red up")),
		RedDown:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "red down")),
		RedLeft:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "red left")),
		RedRight:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "red right")),
		RedAttack: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "attack")),
		RedDrop:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "drop flag")),

		BlueUp:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "blue up")),
		BlueDown:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "blue down")),
		BlueLeft:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "blue left")),
		BlueRight:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "blue right")),
		BlueAttack: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "blue attack")),
		BlueDrop:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "blue drop")),

		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new round")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type binding struct {
	key    *key.Binding
	team   core.Team
	action core.Action
}

func (k *KeyMap) bindings() []binding {
	return []binding{
		{&k.RedUp, core.TeamRed, core.ActionUp},
		{&k.RedDown, core.TeamRed, core.ActionDown},
		{&k.RedLeft, core.TeamRed, core.ActionLeft},
		{&k.RedRight, core.TeamRed, core.ActionRight},
		{&k.RedAttack, core.TeamRed, core.ActionAttack},
		{&k.RedDrop, core.TeamRed, core.ActionDrop},
		{&k.BlueUp, core.TeamBlue, core.ActionUp},
		{&k.BlueDown, core.TeamBlue, core.ActionDown},
		{&k.BlueLeft, core.TeamBlue, core.ActionLeft},
		{&k.BlueRight, core.TeamBlue, core.ActionRight},
		{&k.BlueAttack, core.TeamBlue, core.ActionAttack},
		{&k.BlueDrop, core.TeamBlue, core.ActionDrop},
	}
}

// MapKey translates a key message to a team action.
// In solo mode blue's keys steer red. Returns ActionNone for unbound keys.
func (k KeyMap) MapKey(msg tea.KeyMsg, solo bool) (core.Team, core.Action) {
	switch {
	case key.Matches(msg, k.Quit):
		return core.TeamNone, core.ActionQuit
	case key.Matches(msg, k.Restart):
		return core.TeamNone, core.ActionRestart
	}

	for _, b := range k.bindings() {
		if !key.Matches(msg, *b.key) {
			continue
		}
		if solo {
			return core.TeamRed, b.action
		}
		return b.team, b.action
	}
	return core.TeamNone, core.ActionNone
}
