// Package feedback turns flag events into what players see and hear:
// capture scoring and announcements, per-event sounds and chat lines, and a
// periodic HUD line per flag.
package feedback

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/ctf"
	"github.com/vovakirdan/ctf-arena/internal/event"
	"github.com/vovakirdan/ctf-arena/internal/lang"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// Defaults
const (
	DefaultSoundPrefix = "source-python/capture_the_flag"
	DefaultHUDInterval = time.Second
	DefaultWinCount    = 3
	soundExt           = ".mp3"
)

// Config tunes the adapter.
type Config struct {
	WinCount    int
	SoundPrefix string
	HUDInterval time.Duration
}

// Adapter reacts to flag events on the bus.
type Adapter struct {
	host    world.Host
	bus     *event.Bus
	ctrl    *ctf.Controller
	printer *lang.Printer
	logger  *log.Logger
	cfg     Config

	unsubscribe []func()
	hudTimer    world.Timer
	running     bool
}

// New creates an adapter. Call Start to subscribe.
func New(host world.Host, bus *event.Bus, ctrl *ctf.Controller, printer *lang.Printer, cfg Config, logger *log.Logger) *Adapter {
	if cfg.WinCount <= 0 {
		cfg.WinCount = DefaultWinCount
	}
	if cfg.SoundPrefix == "" {
		cfg.SoundPrefix = DefaultSoundPrefix
	}
	if cfg.HUDInterval <= 0 {
		cfg.HUDInterval = DefaultHUDInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Adapter{
		host:    host,
		bus:     bus,
		ctrl:    ctrl,
		printer: printer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Start subscribes to the flag events and starts the HUD refresh.
func (a *Adapter) Start() {
	if a.running {
		return
	}
	a.running = true

	a.unsubscribe = append(a.unsubscribe,
		a.bus.Subscribe(event.NameFlagCaptured, func(e event.Event) {
			a.onCaptured(e.(event.FlagCaptured))
		}),
		a.bus.Subscribe(event.NameFlagDropped, func(e event.Event) {
			ev := e.(event.FlagDropped)
			a.onFlagEvent(ev.Name(), ev.UserID, ev.FlagTeam)
		}),
		a.bus.Subscribe(event.NameFlagReturned, func(e event.Event) {
			ev := e.(event.FlagReturned)
			a.onFlagEvent(ev.Name(), ev.UserID, ev.FlagTeam)
		}),
		a.bus.Subscribe(event.NameFlagTaken, func(e event.Event) {
			ev := e.(event.FlagTaken)
			a.onFlagEvent(ev.Name(), ev.UserID, ev.FlagTeam)
		}),
	)

	a.scheduleHUD()
}

// Stop unsubscribes and cancels the HUD refresh.
func (a *Adapter) Stop() {
	if !a.running {
		return
	}
	a.running = false

	for _, unsub := range a.unsubscribe {
		unsub()
	}
	a.unsubscribe = nil

	if a.hudTimer != nil {
		a.hudTimer.Stop()
		a.hudTimer = nil
	}
}

func (a *Adapter) onCaptured(e event.FlagCaptured) {
	scores := a.ctrl.Scores()
	score := scores.Increment(e.Team)
	opponent := scores.Score(e.Team.Opposite())
	a.PushScores()

	cue := SelectCue(score, opponent, a.cfg.WinCount)
	a.host.PlaySound(a.cueSound(e.Team, cue), nil)
	a.say(e.UserID, a.printer.Text(cueKey(cue), a.printer.TeamTitle(e.Team)))

	a.logger.Info("capture", "team", e.Team, "score", score, "opponent", opponent, "cue", cue)

	if cue != CueWinsMatch {
		return
	}
	a.host.EndMatch(e.Team)
	a.bus.Publish(event.MatchEnd{
		Winner:    e.Team,
		RedScore:  scores.Score(core.TeamRed),
		BlueScore: scores.Score(core.TeamBlue),
	})
}

func (a *Adapter) onFlagEvent(name event.Name, userID int, flagTeam core.Team) {
	a.host.PlaySound(a.flagSound(flagTeam, name), nil)

	var key lang.Key
	switch name {
	case event.NameFlagTaken:
		key = lang.FlagTaken
	case event.NameFlagDropped:
		key = lang.FlagDropped
	case event.NameFlagReturned:
		key = lang.FlagReturned
	}

	player, ok := a.host.FromUserID(userID)
	if !ok {
		a.logger.Debug("flag event for unknown player", "event", name, "userid", userID)
		return
	}
	a.host.SayText(player, a.printer.Text(key, a.host.Name(player), a.printer.Team(flagTeam)))
}

// PushScores copies the round's scores to the host's team score displays.
func (a *Adapter) PushScores() {
	scores := a.ctrl.Scores()
	for _, team := range core.Teams {
		a.host.SetTeamScore(team, scores.Score(team))
	}
}

// RefreshHUD shows one line per flag with its current state.
// Nothing is shown while the round has no flags.
func (a *Adapter) RefreshHUD() {
	if !a.ctrl.HasFlags() {
		return
	}
	for i, flag := range a.ctrl.Flags() {
		team := flag.Team()
		a.host.ShowHUD(world.HUDText{
			Channel:  int(team),
			Text:     a.printer.Text(lang.HUDFlagState, a.printer.TeamTitle(team), a.printer.State(flag.State().String())),
			X:        0.02,
			Y:        0.05 + 0.05*float64(i),
			Color:    team.Color(),
			HoldTime: a.cfg.HUDInterval + a.cfg.HUDInterval/10,
		})
	}
}

func (a *Adapter) scheduleHUD() {
	a.hudTimer = a.host.After(a.cfg.HUDInterval, func() {
		if !a.running {
			return
		}
		a.RefreshHUD()
		a.scheduleHUD()
	})
}

func (a *Adapter) say(userID int, text string) {
	player, ok := a.host.FromUserID(userID)
	if !ok {
		player = world.NoObject
	}
	a.host.SayText(player, text)
}

// flagSound returns e.g. "<prefix>/red_flag_taken.mp3".
func (a *Adapter) flagSound(team core.Team, name event.Name) string {
	return fmt.Sprintf("%s/%s_%s%s", a.cfg.SoundPrefix, team.Key(), name, soundExt)
}

// cueSound returns e.g. "<prefix>/blue_takes_lead.mp3".
func (a *Adapter) cueSound(team core.Team, cue Cue) string {
	return fmt.Sprintf("%s/%s_%s%s", a.cfg.SoundPrefix, team.Key(), cue, soundExt)
}

func cueKey(c Cue) lang.Key {
	switch c {
	case CueTakesLead:
		return lang.CueTakesLead
	case CueIncreasesLead:
		return lang.CueIncreasesLead
	case CueDominating:
		return lang.CueDominating
	case CueWinsMatch:
		return lang.CueWinsMatch
	default:
		return lang.CueScores
	}
}
