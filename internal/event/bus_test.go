package event

import (
	"strings"
	"testing"

	"github.com/vovakirdan/ctf-arena/internal/core"
)

func TestBusDeliversByName(t *testing.T) {
	bus := NewBus()

	var taken, returned int
	bus.Subscribe(NameFlagTaken, func(Event) { taken++ })
	bus.Subscribe(NameFlagReturned, func(Event) { returned++ })

	bus.Publish(FlagTaken{UserID: 1, FlagTeam: core.TeamRed})
	bus.Publish(FlagTaken{UserID: 2, FlagTeam: core.TeamBlue})

	if taken != 2 {
		t.Errorf("taken = %d, expected 2", taken)
	}
	if returned != 0 {
		t.Errorf("returned = %d, expected 0", returned)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(NameRoundStart, func(Event) { calls++ })
	bus.Publish(RoundStart{MapName: "arena"})
	unsubscribe()
	bus.Publish(RoundStart{MapName: "arena"})

	if calls != 1 {
		t.Errorf("calls = %d, expected 1", calls)
	}
	if n := bus.Subscribers(NameRoundStart); n != 0 {
		t.Errorf("Subscribers() = %d, expected 0", n)
	}
}

func TestBusNestedPublishIsQueued(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(NameFlagCaptured, func(Event) {
		order = append(order, "captured:first")
		bus.Publish(MatchEnd{Winner: core.TeamRed})
		order = append(order, "captured:after-publish")
	})
	bus.Subscribe(NameFlagCaptured, func(Event) {
		order = append(order, "captured:second")
	})
	bus.Subscribe(NameMatchEnd, func(Event) {
		order = append(order, "match_end")
	})

	bus.Publish(FlagCaptured{UserID: 1, Team: core.TeamRed, FlagTeam: core.TeamBlue})

	expected := []string{"captured:first", "captured:after-publish", "captured:second", "match_end"}
	if strings.Join(order, ",") != strings.Join(expected, ",") {
		t.Errorf("order = %v, expected %v", order, expected)
	}
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewBus()

	var names []Name
	bus.SubscribeAll(func(e Event) { names = append(names, e.Name()) })

	bus.Publish(PlayerDeath{UserID: 3})
	bus.Publish(FlagReturned{UserID: 3, FlagTeam: core.TeamBlue})

	if len(names) != 2 || names[0] != NamePlayerDeath || names[1] != NameFlagReturned {
		t.Errorf("names = %v", names)
	}
}

func TestWriteResource(t *testing.T) {
	var sb strings.Builder
	if err := WriteResource(&sb, "capture_the_flag", FlagSchemas); err != nil {
		t.Fatalf("WriteResource() failed: %v", err)
	}

	out := sb.String()
	for _, want := range []string{
		`"capture_the_flag"`,
		`"flag_dropped"`,
		`"location"	"string"`,
		`"flag_team"	"short"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("resource output missing %q:\n%s", want, out)
		}
	}
}
