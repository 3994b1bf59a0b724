// Package ctf implements the capture-the-flag rules: the per-team flag state
// machine, the match controller that owns the flags and score board for one
// round, and the two-phase touch protocol that feeds it.
//
// Everything in this package runs on the host's simulation thread.
package ctf

import (
	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// State is the lifecycle state of a flag.
type State int

const (
	StateHome    State = iota // Pedestal at the home position
	StateTaken                // Carried by a player, no pedestal
	StateDropped              // Pedestal where the carrier lost it
)

// String returns the name shown on the HUD.
func (s State) String() string {
	switch s {
	case StateHome:
		return "Home"
	case StateTaken:
		return "Taken"
	case StateDropped:
		return "Dropped"
	default:
		return "Unknown"
	}
}

// Flag is one team's flag for the current round.
//
// While Home or Dropped the flag has a pedestal object and no carrier;
// while Taken it has a carrier and no pedestal.
type Flag struct {
	team    core.Team
	home    core.Vec3
	state   State
	carrier world.ObjectID
	object  world.ObjectID

	// Pending collision restore for the current pedestal. The generation is
	// bumped whenever the pedestal changes so an outdated callback is ignored.
	restore    world.Timer
	generation uint64
}

func newFlag(team core.Team, home core.Vec3) *Flag {
	return &Flag{team: team, home: home, state: StateHome}
}

// Team returns the owning team.
func (f *Flag) Team() core.Team { return f.team }

// Home returns the configured home position.
func (f *Flag) Home() core.Vec3 { return f.home }

// State returns the current lifecycle state.
func (f *Flag) State() State { return f.state }

// Carrier returns the carrying player, or world.NoObject unless Taken.
func (f *Flag) Carrier() world.ObjectID { return f.carrier }

// Object returns the pedestal object, or world.NoObject while Taken.
func (f *Flag) Object() world.ObjectID { return f.object }

// cancelRestore invalidates any pending collision restore.
func (f *Flag) cancelRestore() {
	f.generation++
	if f.restore != nil {
		f.restore.Stop()
		f.restore = nil
	}
}
