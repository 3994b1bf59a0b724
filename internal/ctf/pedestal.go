package ctf

import (
	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// spawnPedestal creates the flag's pedestal at pos as debris and schedules
// the switch to solid.
func (c *Controller) spawnPedestal(f *Flag, pos core.Vec3) {
	f.cancelRestore()

	id := c.host.Create(world.Spawn{
		Model:     c.opts.Model,
		Color:     f.team.Color(),
		Origin:    pos,
		Collision: world.CollisionDebris,
	})
	f.object = id
	c.round.tracked[id] = struct{}{}

	c.scheduleRestore(f)
}

// removePedestal destroys the flag's pedestal and stops tracking it.
func (c *Controller) removePedestal(f *Flag) {
	f.cancelRestore()
	if f.object == world.NoObject {
		return
	}
	delete(c.round.tracked, f.object)
	if c.host.Exists(f.object) {
		c.host.Remove(f.object)
	}
	f.object = world.NoObject
}

func (c *Controller) scheduleRestore(f *Flag) {
	gen := f.generation
	obj := f.object

	f.restore = c.host.After(c.opts.RestoreDelay, func() {
		if f.generation != gen || f.object != obj || !c.host.Exists(obj) {
			c.logger.Debug("stale collision restore ignored", "flag", f.team, "object", obj)
			return
		}
		f.restore = nil
		c.host.SetCollision(obj, world.CollisionSolid)
	})
}
