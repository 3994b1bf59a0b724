package ctf

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/event"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

var (
	// ErrNoCoordinates means the map has no configured flag positions.
	ErrNoCoordinates = errors.New("ctf: no flag coordinates for map")
	// ErrTeamMismatch means the configured team names do not match the playing teams.
	ErrTeamMismatch = errors.New("ctf: configured teams do not match playing teams")
)

// Default pedestal settings.
const (
	DefaultModel        = "models/props/cs_militia/caseofbeer01.mdl"
	DefaultRestoreDelay = 200 * time.Millisecond
)

// CoordinateSource looks up per-team home positions for a map.
// The returned map is keyed by configured team name with "x y z" values.
type CoordinateSource interface {
	Coordinates(mapName string) (map[string]string, bool)
}

// Options tunes pedestal creation.
type Options struct {
	Model        string        // Pedestal model name
	RestoreDelay time.Duration // Delay before a new pedestal becomes solid
}

// DefaultOptions returns the stock pedestal settings.
func DefaultOptions() Options {
	return Options{Model: DefaultModel, RestoreDelay: DefaultRestoreDelay}
}

// Outcome is the transition caused by a touch.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeTaken
	OutcomeReturned
	OutcomeCaptured
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeTaken:
		return "taken"
	case OutcomeReturned:
		return "returned"
	case OutcomeCaptured:
		return "captured"
	default:
		return "none"
	}
}

// Round is the match state owned for one round or map.
// It is rebuilt by CreateFlags, never reset in place.
type Round struct {
	mapName string
	flags   map[core.Team]*Flag
	tracked map[world.ObjectID]struct{}
	scores  *ScoreBoard
}

func newRound(mapName string) *Round {
	return &Round{
		mapName: mapName,
		flags:   make(map[core.Team]*Flag, len(core.Teams)),
		tracked: make(map[world.ObjectID]struct{}),
		scores:  NewScoreBoard(),
	}
}

// Controller owns the flags and score board and applies the flag rules.
type Controller struct {
	host   world.Host
	bus    *event.Bus
	coords CoordinateSource
	logger *log.Logger
	opts   Options
	round  *Round
}

// NewController creates a controller with an empty round.
// A nil logger discards output.
func NewController(host world.Host, bus *event.Bus, coords CoordinateSource, logger *log.Logger, opts Options) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.RestoreDelay <= 0 {
		opts.RestoreDelay = DefaultRestoreDelay
	}
	return &Controller{
		host:   host,
		bus:    bus,
		coords: coords,
		logger: logger,
		opts:   opts,
		round:  newRound(host.MapName()),
	}
}

// CreateFlags tears down the current round and starts a new one on mapName.
//
// A configuration gap leaves the new round without flags and is returned so
// the caller can log it; gameplay continues either way.
func (c *Controller) CreateFlags(mapName string) error {
	c.Teardown()
	c.round = newRound(mapName)

	homes, err := ResolveHomes(c.coords, mapName)
	if err != nil {
		return err
	}

	for _, team := range core.Teams {
		f := newFlag(team, homes[team])
		c.round.flags[team] = f
		c.spawnPedestal(f, f.home)
	}

	c.logger.Info("flags created", "map", mapName,
		"red", homes[core.TeamRed].String(), "blue", homes[core.TeamBlue].String())
	return nil
}

// ResolveHomes parses the per-team home positions configured for mapName.
// Both playing teams must be present exactly once.
func ResolveHomes(src CoordinateSource, mapName string) (map[core.Team]core.Vec3, error) {
	if src == nil {
		return nil, fmt.Errorf("%w %q", ErrNoCoordinates, mapName)
	}
	raw, ok := src.Coordinates(mapName)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoCoordinates, mapName)
	}

	homes := make(map[core.Team]core.Vec3, len(core.Teams))
	for name, value := range raw {
		team, err := core.ParseTeam(name)
		if err != nil {
			return nil, fmt.Errorf("%w: map %q: %v", ErrTeamMismatch, mapName, err)
		}
		if _, dup := homes[team]; dup {
			return nil, fmt.Errorf("%w: map %q: team %s configured twice", ErrTeamMismatch, mapName, team)
		}
		pos, err := core.ParseVec3(value)
		if err != nil {
			return nil, fmt.Errorf("ctf: map %q team %s: %w", mapName, name, err)
		}
		homes[team] = pos
	}

	for _, team := range core.Teams {
		if _, ok := homes[team]; !ok {
			return nil, fmt.Errorf("%w: map %q: no position for %s", ErrTeamMismatch, mapName, team)
		}
	}
	return homes, nil
}

// Teardown removes the pedestals of the current round, cancels pending
// collision restores and clears carrier tints, leaving an empty round on the
// same map.
func (c *Controller) Teardown() {
	for _, f := range c.round.flags {
		f.cancelRestore()
		if f.object != world.NoObject {
			if c.host.Exists(f.object) {
				c.host.Remove(f.object)
			}
			delete(c.round.tracked, f.object)
			f.object = world.NoObject
		}
		if f.state == StateTaken && c.host.Exists(f.carrier) {
			c.host.SetColor(f.carrier, core.ColorWhite)
		}
	}
	c.round = newRound(c.round.mapName)
}

// ResolveTouch reports whether a touch between trigger and other concerns a
// flag: trigger is a tracked pedestal and other is a player on a team.
func (c *Controller) ResolveTouch(trigger, other world.ObjectID) bool {
	if _, ok := c.round.tracked[trigger]; !ok {
		return false
	}
	if c.host.Class(other) != world.ClassPlayer {
		return false
	}
	return c.host.Team(other).Valid()
}

// FlagForObject returns the flag whose live pedestal is id, or nil.
func (c *Controller) FlagForObject(id world.ObjectID) *Flag {
	if id == world.NoObject {
		return nil
	}
	for _, f := range c.round.flags {
		if f.object == id {
			return f
		}
	}
	return nil
}

// HandleTouch applies at most one transition for a player touching a pedestal.
// Take is checked first, then return, then capture.
func (c *Controller) HandleTouch(trigger, player world.ObjectID) Outcome {
	if !c.ResolveTouch(trigger, player) {
		return OutcomeNone
	}
	flag := c.FlagForObject(trigger)
	if flag == nil {
		return OutcomeNone
	}

	team := c.host.Team(player)

	if (flag.state == StateHome || flag.state == StateDropped) && flag.team != team {
		c.take(flag, player)
		return OutcomeTaken
	}

	if flag.state == StateDropped && flag.team == team {
		c.returnHome(flag, player)
		return OutcomeReturned
	}

	if flag.state == StateHome && flag.team == team {
		// The capture moves the opposing flag, not the touched one.
		enemy := c.round.flags[team.Opposite()]
		if enemy != nil && enemy.state == StateTaken && enemy.carrier == player {
			c.capture(enemy, player)
			return OutcomeCaptured
		}
	}

	return OutcomeNone
}

// ForceDrop drops the enemy flag if player is its carrier.
// attacker is the killer's user id, 0 for a manual drop.
// Reports whether a flag was dropped.
func (c *Controller) ForceDrop(player world.ObjectID, attacker int) bool {
	team := c.host.Team(player)
	if !team.Valid() {
		return false
	}
	flag := c.round.flags[team.Opposite()]
	if flag == nil || flag.state != StateTaken || flag.carrier != player {
		c.logger.Debug("drop ignored, not a carrier", "player", player)
		return false
	}

	c.drop(flag, attacker, c.host.Origin(player))
	return true
}

func (c *Controller) take(flag *Flag, player world.ObjectID) {
	c.removePedestal(flag)
	flag.carrier = player
	flag.state = StateTaken
	c.host.SetColor(player, flag.team.Color())

	c.logger.Info("flag taken", "flag", flag.team, "player", c.host.Name(player))
	c.bus.Publish(event.FlagTaken{
		UserID:   c.host.UserID(player),
		FlagTeam: flag.team,
	})
}

func (c *Controller) drop(flag *Flag, attacker int, at core.Vec3) {
	carrier := flag.carrier
	c.spawnPedestal(flag, at)
	flag.carrier = world.NoObject
	flag.state = StateDropped
	c.host.SetColor(carrier, core.ColorWhite)

	c.logger.Info("flag dropped", "flag", flag.team, "player", c.host.Name(carrier), "at", at.String())
	c.bus.Publish(event.FlagDropped{
		UserID:   c.host.UserID(carrier),
		Attacker: attacker,
		Location: at.String(),
		FlagTeam: flag.team,
	})
}

func (c *Controller) returnHome(flag *Flag, player world.ObjectID) {
	c.host.Teleport(flag.object, flag.home)
	flag.state = StateHome

	c.logger.Info("flag returned", "flag", flag.team, "player", c.host.Name(player))
	c.bus.Publish(event.FlagReturned{
		UserID:   c.host.UserID(player),
		FlagTeam: flag.team,
	})
}

func (c *Controller) capture(flag *Flag, player world.ObjectID) {
	c.spawnPedestal(flag, flag.home)
	flag.carrier = world.NoObject
	flag.state = StateHome
	c.host.SetColor(player, core.ColorWhite)

	c.logger.Info("flag captured", "flag", flag.team, "player", c.host.Name(player))
	c.bus.Publish(event.FlagCaptured{
		UserID:   c.host.UserID(player),
		Team:     c.host.Team(player),
		FlagTeam: flag.team,
	})
}

// Round accessors

// MapName returns the map of the current round.
func (c *Controller) MapName() string {
	return c.round.mapName
}

// Flag returns the flag of a team, or nil if the round has no flags.
func (c *Controller) Flag(team core.Team) *Flag {
	return c.round.flags[team]
}

// Flags returns the round's flags ordered by team.
func (c *Controller) Flags() []*Flag {
	out := make([]*Flag, 0, len(c.round.flags))
	for _, f := range c.round.flags {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].team < out[j].team })
	return out
}

// HasFlags reports whether the round has flags, carried or not.
func (c *Controller) HasFlags() bool {
	return len(c.round.flags) > 0
}

// Scores returns the score board of the current round.
func (c *Controller) Scores() *ScoreBoard {
	return c.round.scores
}

// Tracked reports whether id is a live pedestal.
func (c *Controller) Tracked(id world.ObjectID) bool {
	_, ok := c.round.tracked[id]
	return ok
}
