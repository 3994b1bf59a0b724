package tui

import (
	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// Arena glyphs
const (
	glyphWall      = '█'
	glyphFlag      = '⚑' // Solid pedestal
	glyphFlagLoose = '⚐' // Pedestal still passable after spawning
	glyphPlayer    = '@'
	glyphCarrier   = '&'
)

// DrawArena renders a snapshot into s with a one-cell border.
// The screen must be at least (Width+2)x(Height+2).
func DrawArena(s *core.Screen, v world.View) {
	s.Clear()
	s.DrawBox(core.NewRect(0, 0, v.Width+2, v.Height+2), core.ColorGray)

	for _, w := range v.Walls {
		for y := w.Y; y < w.Bottom(); y++ {
			for x := w.X; x < w.Right(); x++ {
				s.Set(x+1, y+1, glyphWall, core.ColorGray)
			}
		}
	}

	for _, o := range v.Props() {
		x, y := o.Pos.Cell()
		r := glyphFlag
		if o.Collision != world.CollisionSolid {
			r = glyphFlagLoose
		}
		s.Set(x+1, y+1, r, o.Color)
	}

	for _, p := range v.Players() {
		if !p.Alive {
			continue
		}
		x, y := p.Pos.Cell()
		if carrying(p) {
			s.Set(x+1, y+1, glyphCarrier, p.Color)
			continue
		}
		s.Set(x+1, y+1, glyphPlayer, playerColor(p.Team))
	}
}

// carrying reports whether a player is tinted with a flag color.
func carrying(p world.ObjectView) bool {
	return p.Color != core.ColorWhite && p.Color != core.ColorDefault
}

func playerColor(t core.Team) core.Color {
	switch t {
	case core.TeamRed:
		return core.ColorBrightRed
	case core.TeamBlue:
		return core.ColorBrightBlue
	default:
		return core.ColorWhite
	}
}
