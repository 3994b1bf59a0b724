package storage

import (
	"testing"
	"time"

	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/event"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

func newRecorderFixture(t *testing.T) (*Store, *world.Arena, *Recorder, world.ObjectID) {
	t.Helper()
	store := openTestStore(t)
	bus := event.NewBus()
	a := world.NewArena(world.DefaultArenaConfig(), bus)
	bob := a.AddPlayer("bob", core.TeamBlue, core.Vec3{X: 30, Y: 5})
	return store, a, NewRecorder(store, a, nil), bob
}

func TestRecorderCompletedMatch(t *testing.T) {
	store, a, rec, bob := newRecorderFixture(t)
	bus := a.Bus()
	detach := rec.Attach(bus)
	defer detach()

	matchID := rec.MatchID()
	if matchID == "" {
		t.Fatal("no match started on Attach")
	}

	uid := a.UserID(bob)
	bus.Publish(event.FlagTaken{UserID: uid, FlagTeam: core.TeamRed})
	a.Advance(30 * time.Second)
	bus.Publish(event.FlagCaptured{UserID: uid, Team: core.TeamBlue, FlagTeam: core.TeamRed})
	bus.Publish(event.MatchEnd{Winner: core.TeamBlue, BlueScore: 1})

	if rec.MatchID() != "" {
		t.Error("match still active after match_end")
	}

	got, err := store.MatchByID(matchID)
	if err != nil || got == nil {
		t.Fatalf("MatchByID() = %v, %v", got, err)
	}
	if got.Winner != "blue" || got.BlueScore != 1 || got.EndReason != EndCompleted {
		t.Errorf("saved match = %+v", got)
	}
	if got.MapName != "arena" {
		t.Errorf("MapName = %q, want arena", got.MapName)
	}
	if got.Duration != 30 {
		t.Errorf("Duration = %d, want 30", got.Duration)
	}

	events, err := store.FlagEvents(matchID)
	if err != nil {
		t.Fatalf("FlagEvents() failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("FlagEvents() returned %d, want 2", len(events))
	}
	if events[0].Player != "bob" || events[0].FlagTeam != "red" {
		t.Errorf("first event = %+v", events[0])
	}
}

func TestRecorderRoundStartAbandonsActiveMatch(t *testing.T) {
	store, a, rec, bob := newRecorderFixture(t)
	bus := a.Bus()
	detach := rec.Attach(bus)
	defer detach()

	first := rec.MatchID()
	bus.Publish(event.FlagTaken{UserID: a.UserID(bob), FlagTeam: core.TeamRed})
	a.StartRound()

	if rec.MatchID() == first {
		t.Error("round_start did not begin a new match")
	}

	got, err := store.MatchByID(first)
	if err != nil || got == nil {
		t.Fatalf("MatchByID() = %v, %v", got, err)
	}
	if got.EndReason != EndAbandoned || got.Winner != "" {
		t.Errorf("abandoned match = %+v", got)
	}
}

func TestRecorderSkipsIdleRounds(t *testing.T) {
	store, a, rec, _ := newRecorderFixture(t)
	detach := rec.Attach(a.Bus())

	a.StartRound()
	detach()

	matches, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("idle rounds stored: %d", len(matches))
	}
}

func TestRecorderDetachStopsRecording(t *testing.T) {
	store, a, rec, bob := newRecorderFixture(t)
	bus := a.Bus()
	detach := rec.Attach(bus)
	matchID := rec.MatchID()

	bus.Publish(event.FlagTaken{UserID: a.UserID(bob), FlagTeam: core.TeamRed})
	detach()
	bus.Publish(event.FlagDropped{UserID: a.UserID(bob), FlagTeam: core.TeamRed})

	events, err := store.FlagEvents(matchID)
	if err != nil {
		t.Fatalf("FlagEvents() failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("FlagEvents() returned %d, want 1", len(events))
	}

	got, _ := store.MatchByID(matchID)
	if got == nil || got.EndReason != EndAbandoned {
		t.Errorf("detached match = %+v", got)
	}
}

func TestRecorderLogsWriteFailures(t *testing.T) {
	store, a, rec, bob := newRecorderFixture(t)
	bus := a.Bus()
	detach := rec.Attach(bus)
	defer detach()

	store.Close()

	// Must not panic or propagate.
	bus.Publish(event.FlagTaken{UserID: a.UserID(bob), FlagTeam: core.TeamRed})
	bus.Publish(event.MatchEnd{Winner: core.TeamBlue})
}
