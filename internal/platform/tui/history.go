package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ctf-arena/internal/storage"
)

// History layout constants
const (
	maxMatches     = 100 // Max matches to load
	tableMinHeight = 5
)

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "flag events"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing recorded matches.
type HistoryModel struct {
	store    *storage.Store
	matches  []storage.MatchResult
	events   []storage.FlagEventRecord
	selected *storage.MatchResult // Match whose events are shown, nil for the list
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	err      error
	quitting bool
}

// NewHistoryModel creates a history browser over the store.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.loadMatches()
	return m
}

func (m *HistoryModel) loadMatches() {
	m.selected = nil
	m.events = nil
	m.matches, m.err = m.store.RecentMatches(maxMatches)
	m.table = m.newTable(matchColumns(m.width))
	m.table.SetRows(matchRows(m.matches))
}

func (m *HistoryModel) loadEvents(match storage.MatchResult) {
	m.selected = &match
	m.events, m.err = m.store.FlagEvents(match.MatchID)
	m.table = m.newTable(eventColumns(m.width))
	m.table.SetRows(eventRows(m.events))
}

// newTable creates a table with the shared styles.
func (m *HistoryModel) newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, tableMinHeight)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func matchColumns(width int) []table.Column {
	date := 14
	if width > 80 {
		date = 18
	}
	return []table.Column{
		{Title: "Date", Width: date},
		{Title: "Map", Width: 12},
		{Title: "Red", Width: 5},
		{Title: "Blue", Width: 5},
		{Title: "Winner", Width: 8},
		{Title: "Result", Width: 10},
		{Title: "Time", Width: 7},
	}
}

func matchRows(matches []storage.MatchResult) []table.Row {
	rows := make([]table.Row, len(matches))
	for i, r := range matches {
		winner := r.Winner
		if winner == "" {
			winner = "-"
		}
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.MapName,
			fmt.Sprintf("%d", r.RedScore),
			fmt.Sprintf("%d", r.BlueScore),
			winner,
			r.EndReason,
			fmt.Sprintf("%d:%02d", r.Duration/60, r.Duration%60),
		}
	}
	return rows
}

func eventColumns(width int) []table.Column {
	where := 16
	if width > 80 {
		where = 24
	}
	return []table.Column{
		{Title: "Event", Width: 14},
		{Title: "Player", Width: 12},
		{Title: "Flag", Width: 6},
		{Title: "Attacker", Width: 9},
		{Title: "Location", Width: where},
	}
}

func eventRows(events []storage.FlagEventRecord) []table.Row {
	rows := make([]table.Row, len(events))
	for i, e := range events {
		attacker := "-"
		if e.Attacker != 0 {
			attacker = fmt.Sprintf("#%d", e.Attacker)
		}
		player := e.Player
		if player == "" {
			player = fmt.Sprintf("#%d", e.UserID)
		}
		rows[i] = table.Row{
			strings.TrimPrefix(e.Event, "flag_"),
			player,
			e.FlagTeam,
			attacker,
			e.Location,
		}
	}
	return rows
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.selected == nil {
				m.quitting = true
				return m, tea.Quit
			}
			m.loadMatches()
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.selected == nil && len(m.matches) > 0 {
				m.loadEvents(m.matches[m.table.Cursor()])
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.selected != nil {
			m.loadEvents(*m.selected)
		} else {
			m.loadMatches()
		}
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "MATCH HISTORY"
	if m.selected != nil {
		title = fmt.Sprintf("MATCH %s - %s", shortID(m.selected.MatchID), m.selected.MapName)
	}
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(boxStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not read history: " + m.err.Error())
	case m.selected == nil && len(m.matches) == 0:
		return emptyStyle.Render("No matches recorded yet.\nPlay a round to fill the history!")
	case m.selected != nil && len(m.events) == 0:
		return emptyStyle.Render("No flag events in this match.")
	}
	return m.table.View()
}

// InDetail reports whether the flag events of a match are shown.
func (m HistoryModel) InDetail() bool {
	return m.selected != nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RunHistory runs the history browser.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
