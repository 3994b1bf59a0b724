package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/ctf"
	"github.com/vovakirdan/ctf-arena/internal/event"
	"github.com/vovakirdan/ctf-arena/internal/lang"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

type coords map[string]map[string]string

func (c coords) Coordinates(mapName string) (map[string]string, bool) {
	m, ok := c[mapName]
	return m, ok
}

type harness struct {
	arena     *world.Arena
	bus       *event.Bus
	ctrl      *ctf.Controller
	adapter   *Adapter
	matchEnds []event.MatchEnd

	red, blue world.ObjectID
}

func newHarness(t *testing.T, winCount int) *harness {
	t.Helper()

	cfg := world.DefaultArenaConfig()
	cfg.Walls = nil
	bus := event.NewBus()
	a := world.NewArena(cfg, bus)

	h := &harness{arena: a, bus: bus}
	h.red = a.AddPlayer("alice", core.TeamRed, core.Vec3{X: 5, Y: 5})
	h.blue = a.AddPlayer("bob", core.TeamBlue, core.Vec3{X: 50, Y: 5})

	h.ctrl = ctf.NewController(a, bus, coords{"arena": {"red": "10 5 0", "blue": "40 5 0"}}, nil, ctf.DefaultOptions())
	require.NoError(t, h.ctrl.CreateFlags("arena"))

	h.adapter = New(a, bus, h.ctrl, lang.MustLoad().Printer("en"), Config{WinCount: winCount}, nil)
	h.adapter.Start()

	bus.Subscribe(event.NameMatchEnd, func(e event.Event) {
		h.matchEnds = append(h.matchEnds, e.(event.MatchEnd))
	})
	return h
}

// capture runs a full take-and-capture by the given player.
func (h *harness) capture(player world.ObjectID) {
	team := h.arena.Team(player)
	enemy := h.ctrl.Flag(team.Opposite())
	h.ctrl.HandleTouch(enemy.Object(), player)
	h.ctrl.HandleTouch(h.ctrl.Flag(team).Object(), player)
}

func (h *harness) lastSound() string {
	sounds := h.arena.Sounds()
	if len(sounds) == 0 {
		return ""
	}
	return sounds[len(sounds)-1].Sound
}

func (h *harness) lastChat() string {
	chat := h.arena.Chat()
	if len(chat) == 0 {
		return ""
	}
	return chat[len(chat)-1].Text
}

func TestSelectCue(t *testing.T) {
	tests := []struct {
		name            string
		score, opponent int
		win             int
		want            Cue
	}{
		{"trailing", 1, 3, 10, CueScores},
		{"tied", 2, 2, 10, CueScores},
		{"one ahead", 1, 0, 10, CueTakesLead},
		{"two ahead", 2, 0, 10, CueIncreasesLead},
		{"four ahead", 6, 2, 10, CueIncreasesLead},
		{"five ahead", 5, 0, 10, CueDominating},
		{"win beats lead", 3, 0, 3, CueWinsMatch},
		{"win while trailing", 3, 4, 3, CueWinsMatch},
		{"win beats dominating", 7, 0, 7, CueWinsMatch},
		{"beyond win count", 4, 0, 3, CueWinsMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectCue(tt.score, tt.opponent, tt.win))
		})
	}
}

func TestCaptureScoresAndPushes(t *testing.T) {
	h := newHarness(t, 3)

	h.capture(h.red)

	assert.Equal(t, 1, h.ctrl.Scores().Score(core.TeamRed))
	assert.Equal(t, 1, h.arena.TeamScore(core.TeamRed))
	assert.Equal(t, 0, h.arena.TeamScore(core.TeamBlue))
	assert.Equal(t, "source-python/capture_the_flag/red_takes_lead.mp3", h.lastSound())
	assert.Equal(t, "Red team takes the lead!", h.lastChat())
}

func TestThreeCapturesWinMatch(t *testing.T) {
	h := newHarness(t, 3)

	var cues []string
	for i := 0; i < 3; i++ {
		h.capture(h.red)
		cues = append(cues, h.lastSound())
	}

	assert.Equal(t, []string{
		"source-python/capture_the_flag/red_takes_lead.mp3",
		"source-python/capture_the_flag/red_increases_lead.mp3",
		"source-python/capture_the_flag/red_wins_match.mp3",
	}, cues)

	over, winner := h.arena.Over()
	assert.True(t, over)
	assert.Equal(t, core.TeamRed, winner)
	require.Len(t, h.matchEnds, 1)
	assert.Equal(t, event.MatchEnd{Winner: core.TeamRed, RedScore: 3, BlueScore: 0}, h.matchEnds[0])
}

func TestEqualizerScores(t *testing.T) {
	h := newHarness(t, 5)

	h.capture(h.red)
	h.capture(h.blue)

	assert.Equal(t, "source-python/capture_the_flag/blue_scores.mp3", h.lastSound())
	assert.Equal(t, "Blue team scores!", h.lastChat())
	over, _ := h.arena.Over()
	assert.False(t, over)
}

func TestFlagEventSoundAndChat(t *testing.T) {
	h := newHarness(t, 3)

	h.ctrl.HandleTouch(h.ctrl.Flag(core.TeamRed).Object(), h.blue)
	assert.Equal(t, "source-python/capture_the_flag/red_flag_taken.mp3", h.lastSound())
	assert.Equal(t, "bob has taken the red flag!", h.lastChat())
	assert.Equal(t, "bob", h.arena.Chat()[len(h.arena.Chat())-1].From)

	h.ctrl.ForceDrop(h.blue, 0)
	assert.Equal(t, "source-python/capture_the_flag/red_flag_dropped.mp3", h.lastSound())
	assert.Equal(t, "bob has dropped the red flag!", h.lastChat())

	h.ctrl.HandleTouch(h.ctrl.Flag(core.TeamRed).Object(), h.red)
	assert.Equal(t, "source-python/capture_the_flag/red_flag_returned.mp3", h.lastSound())
	assert.Equal(t, "alice has returned the red flag!", h.lastChat())
}

func TestUnknownFlagTeamPanics(t *testing.T) {
	h := newHarness(t, 3)
	assert.Panics(t, func() {
		h.bus.Publish(event.FlagTaken{UserID: 1, FlagTeam: core.Team(9)})
	})
}

func TestHUDRefresh(t *testing.T) {
	h := newHarness(t, 3)
	h.ctrl.HandleTouch(h.ctrl.Flag(core.TeamRed).Object(), h.blue)

	h.arena.Advance(time.Second)

	hud := h.arena.HUD()
	require.Len(t, hud, 2)
	assert.Equal(t, "Red flag: Taken", hud[0].Text)
	assert.Equal(t, int(core.TeamRed), hud[0].Channel)
	assert.Equal(t, core.ColorRed, hud[0].Color)
	assert.Equal(t, "Blue flag: Home", hud[1].Text)
	assert.NotEqual(t, hud[0].Y, hud[1].Y)

	// Rearmed every interval.
	h.ctrl.ForceDrop(h.blue, 0)
	h.arena.Advance(time.Second)
	assert.Equal(t, "Red flag: Dropped", h.arena.HUD()[0].Text)
}

func TestHUDSkippedWithoutFlags(t *testing.T) {
	h := newHarness(t, 3)
	_ = h.ctrl.CreateFlags("nowhere")

	h.arena.Advance(time.Second)

	assert.Empty(t, h.arena.HUD())
	assert.Equal(t, 1, h.arena.PendingTimers(), "refresh keeps running")
}

func TestStopCancelsEverything(t *testing.T) {
	h := newHarness(t, 3)
	h.adapter.Stop()

	h.capture(h.red)
	h.arena.Advance(2 * time.Second)

	assert.Zero(t, h.ctrl.Scores().Score(core.TeamRed))
	assert.Empty(t, h.arena.Sounds())
	assert.Empty(t, h.arena.HUD())
}
