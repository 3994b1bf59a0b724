package core

import (
	"fmt"
	"strings"
)

// Team identifies one of the two playing sides.
// The numeric values match the host's team indexes.
type Team int

const (
	TeamNone Team = 0 // Spectators and unassigned players
	TeamRed  Team = 2
	TeamBlue Team = 3
)

// Teams lists the playing teams in index order.
var Teams = [2]Team{TeamRed, TeamBlue}

// Valid reports whether t is one of the two playing teams.
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

// Opposite returns the other playing team.
// Panics for anything that is not a playing team.
func (t Team) Opposite() Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	default:
		panic(fmt.Sprintf("core: no opposite for team %d", int(t)))
	}
}

// Key returns the lowercase identifier used in sound paths and storage.
func (t Team) Key() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		panic(fmt.Sprintf("core: unknown team %d", int(t)))
	}
}

// Color returns the team's display color.
func (t Team) Color() Color {
	switch t {
	case TeamRed:
		return ColorRed
	case TeamBlue:
		return ColorBlue
	default:
		panic(fmt.Sprintf("core: unknown team %d", int(t)))
	}
}

// String returns a human-readable team name.
func (t Team) String() string {
	switch t {
	case TeamRed:
		return "Red"
	case TeamBlue:
		return "Blue"
	case TeamNone:
		return "None"
	default:
		return fmt.Sprintf("Team(%d)", int(t))
	}
}

// ParseTeam resolves a configured team name.
// Accepts the color names and the host's short names ("t", "ct").
func ParseTeam(name string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red", "t", "terrorist":
		return TeamRed, nil
	case "blue", "ct", "counter-terrorist":
		return TeamBlue, nil
	default:
		return TeamNone, fmt.Errorf("core: unknown team name %q", name)
	}
}
