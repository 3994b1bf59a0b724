package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/lang"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// Layout constants
const (
	chatLines    = 5  // Chat lines shown under the arena
	minChatWidth = 20 // Narrowest wrap width for chat
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	chatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model for one arena session.
type Model struct {
	session  *Session
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	input    core.MultiInputFrame
	tickRate int
	width    int
	height   int
	quitting bool
}

// NewModel creates a model driving the given session.
func NewModel(s *Session, tickRate int) Model {
	cfg := s.Arena.Config()
	if tickRate <= 0 {
		tickRate = cfg.TickRate
	}
	return Model{
		session:  s,
		screen:   core.NewScreen(cfg.Width+2, cfg.Height+2),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    core.NewMultiInputFrame(),
		tickRate: tickRate,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey buffers the action for the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	team, action := m.keys.MapKey(msg, m.session.HasBot())
	switch action {
	case core.ActionQuit:
		m.quitting = true
		m.session.Close()
		return m, tea.Quit
	case core.ActionRestart:
		m.session.Restart()
	case core.ActionNone:
	default:
		m.input.Set(team, action)
	}
	return m, nil
}

// handleTick steps the arena with the buffered input.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.session.Step(m.input)
	m.input.Clear()
	return m, tickCmd(m.tickRate)
}

// View renders the arena, scores, HUD, chat and help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	v := m.session.Snapshot()
	p := m.session.Printer

	DrawArena(m.screen, v)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.scoreLine(v.MapName, v.Scores)))
	b.WriteString("\n")
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")

	for _, h := range v.HUD {
		b.WriteString(style(h.Color).Render(h.Text))
		b.WriteString("\n")
	}

	if v.Over && v.Winner.Valid() {
		b.WriteString(bannerStyle.Render(p.Text(lang.UIMatchOver, p.Team(v.Winner))))
		b.WriteString("\n")
	}

	b.WriteString(m.renderChat(v.Chat))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) scoreLine(mapName string, scores map[core.Team]int) string {
	p := m.session.Printer
	return fmt.Sprintf("CTF %s  %s: %s %d : %d %s", mapName, p.Text(lang.UIScore),
		p.TeamTitle(core.TeamRed), scores[core.TeamRed],
		scores[core.TeamBlue], p.TeamTitle(core.TeamBlue))
}

// renderChat shows the latest chat lines wrapped to the terminal width.
func (m Model) renderChat(chat []world.ChatLine) string {
	if len(chat) > chatLines {
		chat = chat[len(chat)-chatLines:]
	}

	width := max(m.width, m.screen.Width(), minChatWidth)

	var b strings.Builder
	for _, line := range chat {
		text := line.Text
		if line.From != "" {
			text = line.From + ": " + text
		}
		b.WriteString(chatStyle.Render(wordwrap.String(text, width)))
		b.WriteString("\n")
	}
	return b.String()
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for a session.
func Run(s *Session, tickRate int) error {
	p := tea.NewProgram(
		NewModel(s, tickRate),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
