// Package event defines the named events exchanged between the host world,
// the capture-the-flag core and its presentation layer, plus a synchronous bus.
package event

import "github.com/vovakirdan/ctf-arena/internal/core"

// Name identifies an event on the bus.
type Name string

const (
	NameFlagTaken    Name = "flag_taken"
	NameFlagDropped  Name = "flag_dropped"
	NameFlagReturned Name = "flag_returned"
	NameFlagCaptured Name = "flag_captured"

	// Native match lifecycle events published by the host.
	NameRoundStart  Name = "round_start"
	NamePlayerDeath Name = "player_death"

	// NameMatchEnd is published once the win count is reached.
	NameMatchEnd Name = "match_end"
)

// Event is implemented by every payload carried on the bus.
// Payloads are plain values and must not be mutated after Publish.
type Event interface {
	Name() Name
}

// FlagTaken is published when a player picks up an enemy flag.
type FlagTaken struct {
	UserID   int       `json:"userid"`
	FlagTeam core.Team `json:"flag_team"`
}

func (FlagTaken) Name() Name { return NameFlagTaken }

// FlagDropped is published when a carrier loses the flag.
// Attacker is 0 for a manual drop.
type FlagDropped struct {
	UserID   int       `json:"userid"`
	Attacker int       `json:"attacker"`
	Location string    `json:"location"`
	FlagTeam core.Team `json:"flag_team"`
}

func (FlagDropped) Name() Name { return NameFlagDropped }

// FlagReturned is published when a dropped flag is sent home by its own team.
type FlagReturned struct {
	UserID   int       `json:"userid"`
	FlagTeam core.Team `json:"flag_team"`
}

func (FlagReturned) Name() Name { return NameFlagReturned }

// FlagCaptured is published when a carrier scores with the enemy flag.
// Team is the scoring team, FlagTeam the team whose flag was captured.
type FlagCaptured struct {
	UserID   int       `json:"userid"`
	Team     core.Team `json:"team"`
	FlagTeam core.Team `json:"flag_team"`
}

func (FlagCaptured) Name() Name { return NameFlagCaptured }

// RoundStart is published by the host when a new round begins.
type RoundStart struct {
	MapName string `json:"map"`
}

func (RoundStart) Name() Name { return NameRoundStart }

// PlayerDeath is published by the host when a player is killed.
// Attacker is 0 for environmental deaths.
type PlayerDeath struct {
	UserID   int `json:"userid"`
	Attacker int `json:"attacker"`
}

func (PlayerDeath) Name() Name { return NamePlayerDeath }

// MatchEnd is published after the host has been told to end the match.
type MatchEnd struct {
	Winner    core.Team `json:"winner"`
	RedScore  int       `json:"red_score"`
	BlueScore int       `json:"blue_score"`
}

func (MatchEnd) Name() Name { return NameMatchEnd }
