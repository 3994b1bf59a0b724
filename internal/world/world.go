// Package world declares the host interfaces the game mode consumes and
// provides Arena, an in-memory host used by the terminal platform and tests.
//
// The game mode never implements physics, rendering or object lifetimes; it
// only calls through these interfaces and receives touch notifications.
package world

import (
	"time"

	"github.com/vovakirdan/ctf-arena/internal/core"
)

// ObjectID identifies a live world object (an entity index).
// NoObject means the identity could not be resolved.
type ObjectID int

// NoObject is the zero, unresolved object id.
const NoObject ObjectID = 0

// Class is the host classification of an object.
type Class string

const (
	ClassPlayer Class = "player"
	ClassProp   Class = "prop_dynamic"
)

// CollisionGroup is the collision category of an object.
type CollisionGroup int

const (
	CollisionNone   CollisionGroup = iota // Not touchable
	CollisionDebris                       // Touchable, does not obstruct movement
	CollisionSolid                        // Touchable and obstructs movement
)

// Spawn describes an object to create.
type Spawn struct {
	Model     string
	Color     core.Color
	Origin    core.Vec3
	Collision CollisionGroup
}

// Objects is the object lifecycle surface of the host.
type Objects interface {
	Create(s Spawn) ObjectID
	Remove(id ObjectID)
	Teleport(id ObjectID, pos core.Vec3)
	SetCollision(id ObjectID, group CollisionGroup)
	Exists(id ObjectID) bool
	Class(id ObjectID) Class
}

// Players exposes player properties.
type Players interface {
	Team(id ObjectID) core.Team
	Origin(id ObjectID) core.Vec3
	UserID(id ObjectID) int
	Name(id ObjectID) string
	FromUserID(userID int) (ObjectID, bool)
	SetColor(id ObjectID, c core.Color)
}

// HUDText is a transient on-screen text element.
type HUDText struct {
	Channel  int
	Text     string
	X, Y     float64 // Normalized screen position, -1 centers
	Color    core.Color
	FadeIn   time.Duration
	FadeOut  time.Duration
	HoldTime time.Duration
}

// Presenter is the presentation surface: audio, chat and HUD.
type Presenter interface {
	// PlaySound plays a named cue for everyone; at is nil for a non-positioned cue.
	PlaySound(sound string, at *core.Vec3)
	// SayText sends a chat line attributed to the given player.
	SayText(from ObjectID, text string)
	// ShowHUD renders a HUD element for every player.
	ShowHUD(t HUDText)
}

// Match is the round/match control surface.
type Match interface {
	MapName() string
	SetTeamScore(team core.Team, score int)
	EndMatch(winner core.Team)
	AddTag(tag string)
	RemoveTag(tag string)
}

// Timer is a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. Reports whether it was pending.
	Stop() bool
}

// Scheduler runs deferred callbacks on the simulation thread.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Timer
}

// Host is everything the game mode consumes from the world.
type Host interface {
	Objects
	Players
	Presenter
	Match
	Scheduler
}

// TouchHook receives the two phases of a start-touch notification.
// Both calls for one contact are delivered consecutively with the same key.
type TouchHook interface {
	BeforeTouch(key uintptr, trigger, other ObjectID)
	AfterTouch(key uintptr)
}

// CommandHook receives player commands (client console or chat).
type CommandHook interface {
	Command(player ObjectID, text string) bool
}
