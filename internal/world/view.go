package world

import (
	"github.com/vovakirdan/ctf-arena/internal/core"
)

// ObjectView is a read-only copy of an object for rendering.
type ObjectView struct {
	ID        ObjectID
	Class     Class
	Name      string
	Team      core.Team
	Color     core.Color
	Pos       core.Vec3
	Collision CollisionGroup
	Alive     bool
}

// View is a read-only snapshot of the arena for rendering and bots.
type View struct {
	Width, Height int
	MapName       string
	Walls         []core.Rect
	Objects       []ObjectView
	Scores        map[core.Team]int
	Over          bool
	Winner        core.Team
	HUD           []HUDText
	Chat          []ChatLine
	Tick          uint64
}

// Snapshot captures the current arena state.
func (a *Arena) Snapshot() View {
	v := View{
		Width:   a.cfg.Width,
		Height:  a.cfg.Height,
		MapName: a.cfg.MapName,
		Walls:   append([]core.Rect(nil), a.cfg.Walls...),
		Scores:  map[core.Team]int{},
		Over:    a.over,
		Winner:  a.winner,
		HUD:     a.HUD(),
		Chat:    a.Chat(),
		Tick:    a.ticks,
	}
	for t, s := range a.scores {
		v.Scores[t] = s
	}
	for _, o := range a.sortedObjects() {
		v.Objects = append(v.Objects, ObjectView{
			ID:        o.id,
			Class:     o.class,
			Name:      o.name,
			Team:      o.team,
			Color:     o.color,
			Pos:       o.pos,
			Collision: o.collision,
			Alive:     o.class != ClassPlayer || o.alive,
		})
	}
	return v
}

// Object returns the view of a single object.
func (v View) Object(id ObjectID) (ObjectView, bool) {
	for _, o := range v.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return ObjectView{}, false
}

// Props returns the non-player objects.
func (v View) Props() []ObjectView {
	var out []ObjectView
	for _, o := range v.Objects {
		if o.Class != ClassPlayer {
			out = append(out, o)
		}
	}
	return out
}

// Players returns the player objects.
func (v View) Players() []ObjectView {
	var out []ObjectView
	for _, o := range v.Objects {
		if o.Class == ClassPlayer {
			out = append(out, o)
		}
	}
	return out
}
