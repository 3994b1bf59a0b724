package world

import (
	"math/rand"

	"github.com/vovakirdan/ctf-arena/internal/core"
)

// Bot steers a player toward the enemy flag and back home.
// It reads only the arena View, so it sees flags as tinted props.
type Bot struct {
	self   ObjectID
	team   core.Team
	rng    *rand.Rand
	wander float64 // Probability of a random step, breaks deadlocks on walls
}

// NewBot creates a bot driving the given player.
func NewBot(self ObjectID, team core.Team, seed int64) *Bot {
	return &Bot{
		self:   self,
		team:   team,
		rng:    rand.New(rand.NewSource(seed)),
		wander: 0.15,
	}
}

// Think returns the input for the next tick.
func (b *Bot) Think(v View) core.InputFrame {
	frame := core.NewInputFrame()

	me, ok := v.Object(b.self)
	if !ok || !me.Alive || v.Over {
		return frame
	}

	enemy := b.team.Opposite()
	mx, my := me.Pos.Cell()

	for _, p := range v.Players() {
		if p.Team != enemy || !p.Alive {
			continue
		}
		px, py := p.Pos.Cell()
		if abs(px-mx) <= 1 && abs(py-my) <= 1 {
			frame.Set(core.ActionAttack)
			break
		}
	}

	target, ok := b.target(v, me)
	if !ok {
		return frame
	}

	if b.rng.Float64() < b.wander {
		frame.Set([]core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight}[b.rng.Intn(4)])
		return frame
	}

	tx, ty := target.Cell()
	dx, dy := tx-mx, ty-my
	if abs(dx) >= abs(dy) && dx != 0 {
		if dx > 0 {
			frame.Set(core.ActionRight)
		} else {
			frame.Set(core.ActionLeft)
		}
	} else if dy != 0 {
		if dy > 0 {
			frame.Set(core.ActionDown)
		} else {
			frame.Set(core.ActionUp)
		}
	}
	return frame
}

func (b *Bot) target(v View, me ObjectView) (core.Vec3, bool) {
	enemy := b.team.Opposite()
	carrying := me.Color == enemy.Color()

	var own, theirs *ObjectView
	for _, p := range v.Props() {
		p := p
		switch p.Color {
		case b.team.Color():
			own = &p
		case enemy.Color():
			theirs = &p
		}
	}

	switch {
	case carrying && own != nil:
		return own.Pos, true
	case theirs != nil:
		return theirs.Pos, true
	case own != nil:
		return own.Pos, true
	}

	// Own flag is being carried: chase the carrier.
	for _, p := range v.Players() {
		if p.Team == enemy && p.Alive && p.Color == b.team.Color() {
			return p.Pos, true
		}
	}
	return core.Vec3{}, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
