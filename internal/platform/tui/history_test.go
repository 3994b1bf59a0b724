package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/ctf-arena/internal/storage"
)

func newHistoryStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHistoryEmpty(t *testing.T) {
	m := NewHistoryModel(newHistoryStore(t), 100, 30)
	assert.Contains(t, m.View(), "No matches recorded yet.")
}

func TestHistoryDrillDown(t *testing.T) {
	store := newHistoryStore(t)
	_, err := store.SaveMatch(storage.MatchResult{
		MatchID: "0123456789", MapName: "arena", RedScore: 3, Winner: "red",
		EndReason: storage.EndCompleted, Duration: 75,
	})
	require.NoError(t, err)
	_, err = store.SaveFlagEvent(storage.FlagEventRecord{
		MatchID: "0123456789", Event: "flag_taken", UserID: 1, Player: "alice", FlagTeam: "blue",
	})
	require.NoError(t, err)

	m := NewHistoryModel(store, 100, 30)
	view := m.View()
	assert.Contains(t, view, "MATCH HISTORY")
	assert.Contains(t, view, "arena")
	assert.Contains(t, view, "1:15")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(HistoryModel)
	require.True(t, m.InDetail())
	view = m.View()
	assert.Contains(t, view, "MATCH 01234567")
	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "taken")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(HistoryModel)
	assert.False(t, m.InDetail())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(HistoryModel)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}
