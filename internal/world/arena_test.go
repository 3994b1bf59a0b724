package world

import (
	"testing"
	"time"

	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/event"
)

type touchRecorder struct {
	before []ObjectID
	after  []uintptr
}

func (r *touchRecorder) BeforeTouch(key uintptr, trigger, other ObjectID) {
	r.before = append(r.before, trigger, other)
}

func (r *touchRecorder) AfterTouch(key uintptr) {
	r.after = append(r.after, key)
}

type commandRecorder struct {
	texts []string
}

func (r *commandRecorder) Command(player ObjectID, text string) bool {
	r.texts = append(r.texts, text)
	return true
}

func newTestArena() *Arena {
	cfg := DefaultArenaConfig()
	cfg.Walls = nil
	return NewArena(cfg, event.NewBus())
}

func step(a *Arena, team core.Team, action core.Action) {
	in := core.NewMultiInputFrame()
	if action != core.ActionNone {
		in.Set(team, action)
	}
	a.Step(in)
}

func TestArenaMovement(t *testing.T) {
	a := newTestArena()
	id := a.AddPlayer("alice", core.TeamRed, core.Vec3{X: 5, Y: 5})

	step(a, core.TeamRed, core.ActionRight)
	step(a, core.TeamRed, core.ActionDown)

	x, y := a.Origin(id).Cell()
	if x != 6 || y != 6 {
		t.Errorf("position = (%d,%d), expected (6,6)", x, y)
	}

	// Clamped at the border
	a.Teleport(id, core.Vec3{X: 0, Y: 0})
	step(a, core.TeamRed, core.ActionLeft)
	x, y = a.Origin(id).Cell()
	if x != 0 || y != 0 {
		t.Errorf("position = (%d,%d), expected (0,0)", x, y)
	}
}

func TestArenaWallsBlock(t *testing.T) {
	cfg := DefaultArenaConfig()
	cfg.Walls = []core.Rect{core.NewRect(6, 5, 1, 1)}
	a := NewArena(cfg, event.NewBus())
	id := a.AddPlayer("alice", core.TeamRed, core.Vec3{X: 5, Y: 5})

	step(a, core.TeamRed, core.ActionRight)

	if x, _ := a.Origin(id).Cell(); x != 5 {
		t.Errorf("x = %d, expected wall to block at 5", x)
	}
}

func TestArenaTimers(t *testing.T) {
	a := newTestArena()
	var order []int

	a.After(200*time.Millisecond, func() { order = append(order, 2) })
	a.After(100*time.Millisecond, func() { order = append(order, 1) })
	stopped := a.After(100*time.Millisecond, func() { order = append(order, 99) })

	if !stopped.Stop() {
		t.Error("Stop() on pending timer should report true")
	}
	if stopped.Stop() {
		t.Error("second Stop() should report false")
	}

	a.Advance(150 * time.Millisecond)
	if len(order) != 1 || order[0] != 1 {
		t.Fatalf("after 150ms order = %v, expected [1]", order)
	}

	a.Advance(50 * time.Millisecond)
	if len(order) != 2 || order[1] != 2 {
		t.Fatalf("after 200ms order = %v, expected [1 2]", order)
	}
	if a.PendingTimers() != 0 {
		t.Errorf("PendingTimers() = %d, expected 0", a.PendingTimers())
	}
}

func TestArenaTimerScheduledFromCallback(t *testing.T) {
	a := newTestArena()
	fired := 0
	var rearm func()
	rearm = func() {
		fired++
		if fired < 3 {
			a.After(0, rearm)
		}
	}
	a.After(time.Millisecond, rearm)

	a.Advance(time.Millisecond)

	if fired != 3 {
		t.Errorf("fired = %d, expected 3", fired)
	}
}

func TestArenaStartTouchFiresOnce(t *testing.T) {
	a := newTestArena()
	rec := &touchRecorder{}
	a.SetHooks(rec, nil)

	player := a.AddPlayer("alice", core.TeamRed, core.Vec3{X: 5, Y: 5})
	prop := a.Create(Spawn{Origin: core.Vec3{X: 6, Y: 5}, Collision: CollisionDebris})

	step(a, core.TeamRed, core.ActionRight)
	step(a, core.TeamRed, core.ActionNone)

	if len(rec.after) != 1 {
		t.Fatalf("touches = %d, expected 1 while standing still", len(rec.after))
	}
	if rec.before[0] != prop || rec.before[1] != player {
		t.Errorf("before = %v, expected [%d %d]", rec.before, prop, player)
	}
	if rec.after[0] != uintptr(prop) {
		t.Errorf("key = %d, expected %d", rec.after[0], prop)
	}

	// Leave and come back
	step(a, core.TeamRed, core.ActionLeft)
	step(a, core.TeamRed, core.ActionRight)
	if len(rec.after) != 2 {
		t.Errorf("touches = %d, expected 2 after re-entering", len(rec.after))
	}
}

func TestArenaNoTouchWithoutCollision(t *testing.T) {
	a := newTestArena()
	rec := &touchRecorder{}
	a.SetHooks(rec, nil)

	a.AddPlayer("alice", core.TeamRed, core.Vec3{X: 5, Y: 5})
	a.Create(Spawn{Origin: core.Vec3{X: 5, Y: 5}, Collision: CollisionNone})

	step(a, core.TeamRed, core.ActionNone)

	if len(rec.after) != 0 {
		t.Errorf("touches = %d, expected 0", len(rec.after))
	}
}

func TestArenaAttackPublishesDeath(t *testing.T) {
	a := newTestArena()
	red := a.AddPlayer("alice", core.TeamRed, core.Vec3{X: 5, Y: 5})
	blue := a.AddPlayer("bob", core.TeamBlue, core.Vec3{X: 30, Y: 5})
	a.Teleport(blue, core.Vec3{X: 6, Y: 5})

	var got event.PlayerDeath
	var at core.Vec3
	a.Bus().Subscribe(event.NamePlayerDeath, func(e event.Event) {
		got = e.(event.PlayerDeath)
		id, _ := a.FromUserID(got.UserID)
		at = a.Origin(id)
	})

	step(a, core.TeamRed, core.ActionAttack)

	if got.UserID != a.UserID(blue) || got.Attacker != a.UserID(red) {
		t.Errorf("death = %+v, expected victim %d attacker %d", got, a.UserID(blue), a.UserID(red))
	}
	if x, _ := at.Cell(); x != 6 {
		t.Errorf("origin during death handler x = %d, expected death location 6", x)
	}
	if a.Alive(blue) {
		t.Error("victim should be down")
	}

	a.Advance(DefaultRespawn)
	if !a.Alive(blue) {
		t.Error("victim should respawn after the respawn delay")
	}
	if x, _ := a.Origin(blue).Cell(); x != 30 {
		t.Errorf("respawn x = %d, expected spawn 30", x)
	}
}

func TestArenaDropSendsCommand(t *testing.T) {
	a := newTestArena()
	rec := &commandRecorder{}
	a.SetHooks(nil, rec)
	a.AddPlayer("alice", core.TeamRed, core.Vec3{X: 5, Y: 5})

	step(a, core.TeamRed, core.ActionDrop)

	if len(rec.texts) != 1 || rec.texts[0] != "drop" {
		t.Errorf("commands = %v, expected [drop]", rec.texts)
	}
}

func TestArenaMatchSurface(t *testing.T) {
	a := newTestArena()
	a.AddTag("ctf")
	a.AddTag("arena")
	a.RemoveTag("arena")
	a.SetTeamScore(core.TeamBlue, 2)
	a.EndMatch(core.TeamBlue)

	if tags := a.Tags(); len(tags) != 1 || tags[0] != "ctf" {
		t.Errorf("Tags() = %v, expected [ctf]", tags)
	}
	if a.TeamScore(core.TeamBlue) != 2 {
		t.Errorf("TeamScore(Blue) = %d, expected 2", a.TeamScore(core.TeamBlue))
	}
	over, winner := a.Over()
	if !over || winner != core.TeamBlue {
		t.Errorf("Over() = %v, %v, expected true, Blue", over, winner)
	}

	var started string
	a.Bus().Subscribe(event.NameRoundStart, func(e event.Event) {
		started = e.(event.RoundStart).MapName
	})
	a.StartRound()
	if started != "arena" {
		t.Errorf("round_start map = %q, expected arena", started)
	}
	if over, _ := a.Over(); over {
		t.Error("StartRound should clear the match-over flag")
	}
}

func TestArenaHUDExpires(t *testing.T) {
	a := newTestArena()
	a.ShowHUD(HUDText{Channel: 3, Text: "Red flag: Home", HoldTime: time.Second})
	a.ShowHUD(HUDText{Channel: 2, Text: "Blue flag: Home", HoldTime: 2 * time.Second})

	hud := a.HUD()
	if len(hud) != 2 || hud[0].Channel != 2 {
		t.Fatalf("HUD() = %+v, expected two entries ordered by channel", hud)
	}

	a.Advance(time.Second)
	if hud := a.HUD(); len(hud) != 1 || hud[0].Text != "Blue flag: Home" {
		t.Errorf("HUD() after 1s = %+v, expected only the blue entry", hud)
	}
}

func TestBotHeadsForEnemyFlag(t *testing.T) {
	a := newTestArena()
	red := a.AddPlayer("bot", core.TeamRed, core.Vec3{X: 5, Y: 5})
	a.Create(Spawn{Color: core.ColorBlue, Origin: core.Vec3{X: 20, Y: 5}, Collision: CollisionDebris})

	bot := NewBot(red, core.TeamRed, 1)
	bot.wander = 0

	frame := bot.Think(a.Snapshot())
	if !frame.Has(core.ActionRight) {
		t.Errorf("bot actions = %v, expected Right toward the blue flag", frame.Actions)
	}
}

func TestBotReturnsWhenCarrying(t *testing.T) {
	a := newTestArena()
	red := a.AddPlayer("bot", core.TeamRed, core.Vec3{X: 20, Y: 5})
	a.SetColor(red, core.ColorBlue)
	a.Create(Spawn{Color: core.ColorRed, Origin: core.Vec3{X: 5, Y: 5}, Collision: CollisionSolid})

	bot := NewBot(red, core.TeamRed, 1)
	bot.wander = 0

	frame := bot.Think(a.Snapshot())
	if !frame.Has(core.ActionLeft) {
		t.Errorf("bot actions = %v, expected Left toward home", frame.Actions)
	}
}
