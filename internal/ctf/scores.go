package ctf

import (
	"github.com/vovakirdan/ctf-arena/internal/core"
)

// ScoreBoard holds per-team capture counts for one round.
type ScoreBoard struct {
	counts map[core.Team]int
}

// NewScoreBoard returns a board with every team at zero.
func NewScoreBoard() *ScoreBoard {
	s := &ScoreBoard{counts: make(map[core.Team]int, len(core.Teams))}
	s.Reset()
	return s
}

// Increment adds one capture for team and returns the new count.
// Panics if team is not a playing team.
func (s *ScoreBoard) Increment(team core.Team) int {
	if !team.Valid() {
		panic("ctf: score increment for unknown team " + team.String())
	}
	s.counts[team]++
	return s.counts[team]
}

// Score returns the capture count of a team.
func (s *ScoreBoard) Score(team core.Team) int {
	return s.counts[team]
}

// Reset sets every team back to zero.
func (s *ScoreBoard) Reset() {
	for _, t := range core.Teams {
		s.counts[t] = 0
	}
}

// Snapshot returns a copy of the counts.
func (s *ScoreBoard) Snapshot() map[core.Team]int {
	out := make(map[core.Team]int, len(s.counts))
	for t, n := range s.counts {
		out[t] = n
	}
	return out
}
