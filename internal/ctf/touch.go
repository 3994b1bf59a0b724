package ctf

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ctf-arena/internal/world"
)

// DefaultPendingTTL bounds how long an unmatched before-touch is kept.
const DefaultPendingTTL = 5 * time.Second

// GateWorld is what the touch gate needs from the host.
type GateWorld interface {
	Now() time.Time
	Exists(id world.ObjectID) bool
}

type pendingTouch struct {
	trigger world.ObjectID
	other   world.ObjectID
	at      time.Time
}

// TouchGate pairs the two phases of a touch notification.
//
// Participant ids are only reliable before the host's own touch handling
// runs, while rule changes must happen after it. Before parks the ids under
// the contact key; After pops them exactly once and dispatches to the
// controller. Entries whose After never arrives are swept after the TTL.
type TouchGate struct {
	ctrl    *Controller
	world   GateWorld
	ttl     time.Duration
	logger  *log.Logger
	pending map[uintptr]pendingTouch
	dropped int
}

// NewTouchGate creates a gate dispatching into ctrl.
func NewTouchGate(ctrl *Controller, w GateWorld, ttl time.Duration, logger *log.Logger) *TouchGate {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TouchGate{
		ctrl:    ctrl,
		world:   w,
		ttl:     ttl,
		logger:  logger,
		pending: make(map[uintptr]pendingTouch),
	}
}

// Before records the participants of a contact.
func (g *TouchGate) Before(key uintptr, trigger, other world.ObjectID) {
	g.Sweep()
	if _, ok := g.pending[key]; ok {
		g.dropped++
		g.logger.Debug("replacing unmatched touch", "key", key)
	}
	g.pending[key] = pendingTouch{trigger: trigger, other: other, at: g.world.Now()}
}

// After consumes the entry recorded under key and applies the touch.
// Missing entries and participants that no longer exist are ignored.
func (g *TouchGate) After(key uintptr) Outcome {
	p, ok := g.pending[key]
	if !ok {
		return OutcomeNone
	}
	delete(g.pending, key)

	if p.trigger == world.NoObject || p.other == world.NoObject {
		g.logger.Debug("touch with unresolved participant", "trigger", p.trigger, "other", p.other)
		return OutcomeNone
	}
	if !g.world.Exists(p.trigger) || !g.world.Exists(p.other) {
		g.logger.Debug("touch participant gone", "trigger", p.trigger, "other", p.other)
		return OutcomeNone
	}

	return g.ctrl.HandleTouch(p.trigger, p.other)
}

// Sweep drops entries older than the TTL and returns how many were removed.
func (g *TouchGate) Sweep() int {
	now := g.world.Now()
	n := 0
	for key, p := range g.pending {
		if now.Sub(p.at) >= g.ttl {
			delete(g.pending, key)
			n++
		}
	}
	g.dropped += n
	return n
}

// Len returns the number of pending entries.
func (g *TouchGate) Len() int {
	return len(g.pending)
}

// Dropped returns how many entries were discarded without an After.
func (g *TouchGate) Dropped() int {
	return g.dropped
}
