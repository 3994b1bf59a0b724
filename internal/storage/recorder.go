package storage

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/event"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// End reasons
const (
	EndCompleted = "completed"
	EndAbandoned = "abandoned"
)

// Host is what the recorder reads from the world.
type Host interface {
	MapName() string
	Now() time.Time
	FromUserID(userID int) (world.ObjectID, bool)
	Name(id world.ObjectID) string
}

// Recorder writes flag events and match results to a Store.
// Write failures are logged and never reach gameplay.
type Recorder struct {
	store  *Store
	host   Host
	logger *log.Logger

	matchID  string
	mapName  string
	started  time.Time
	scores   map[core.Team]int
	activity int
	active   bool
}

// NewRecorder creates a recorder for one host. A nil logger discards output.
func NewRecorder(store *Store, host Host, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{store: store, host: host, logger: logger}
}

// MatchID returns the id of the match being recorded, or empty.
func (r *Recorder) MatchID() string {
	if !r.active {
		return ""
	}
	return r.matchID
}

// Attach subscribes to the bus and starts recording the current map.
// The returned function detaches and stores an unfinished match as abandoned.
func (r *Recorder) Attach(bus *event.Bus) func() {
	r.begin(r.host.MapName())

	unsubs := []func(){
		bus.Subscribe(event.NameRoundStart, func(e event.Event) {
			r.finish(EndAbandoned, core.TeamNone)
			r.begin(e.(event.RoundStart).MapName)
		}),
		bus.Subscribe(event.NameFlagTaken, func(e event.Event) {
			ev := e.(event.FlagTaken)
			r.log(ev.Name(), ev.UserID, ev.FlagTeam, 0, "")
		}),
		bus.Subscribe(event.NameFlagDropped, func(e event.Event) {
			ev := e.(event.FlagDropped)
			r.log(ev.Name(), ev.UserID, ev.FlagTeam, ev.Attacker, ev.Location)
		}),
		bus.Subscribe(event.NameFlagReturned, func(e event.Event) {
			ev := e.(event.FlagReturned)
			r.log(ev.Name(), ev.UserID, ev.FlagTeam, 0, "")
		}),
		bus.Subscribe(event.NameFlagCaptured, func(e event.Event) {
			ev := e.(event.FlagCaptured)
			r.scores[ev.Team]++
			r.log(ev.Name(), ev.UserID, ev.FlagTeam, 0, "")
		}),
		bus.Subscribe(event.NameMatchEnd, func(e event.Event) {
			r.finish(EndCompleted, e.(event.MatchEnd).Winner)
		}),
	}

	return func() {
		for _, u := range unsubs {
			u()
		}
		r.finish(EndAbandoned, core.TeamNone)
	}
}

func (r *Recorder) begin(mapName string) {
	r.matchID = uuid.NewString()
	r.mapName = mapName
	r.started = r.host.Now()
	r.scores = map[core.Team]int{core.TeamRed: 0, core.TeamBlue: 0}
	r.activity = 0
	r.active = true
}

func (r *Recorder) log(name event.Name, userID int, flagTeam core.Team, attacker int, location string) {
	if !r.active {
		return
	}
	r.activity++

	player := ""
	if id, ok := r.host.FromUserID(userID); ok {
		player = r.host.Name(id)
	}

	_, err := r.store.SaveFlagEvent(FlagEventRecord{
		MatchID:  r.matchID,
		Event:    string(name),
		UserID:   userID,
		Player:   player,
		FlagTeam: flagTeam.Key(),
		Attacker: attacker,
		Location: location,
	})
	if err != nil {
		r.logger.Error("save flag event", "match", r.matchID, "err", err)
	}
}

// finish stores the current match. Rounds without any flag activity are
// not stored unless completed.
func (r *Recorder) finish(reason string, winner core.Team) {
	if !r.active {
		return
	}
	r.active = false
	if reason == EndAbandoned && r.activity == 0 {
		return
	}

	result := MatchResult{
		MatchID:   r.matchID,
		MapName:   r.mapName,
		RedScore:  r.scores[core.TeamRed],
		BlueScore: r.scores[core.TeamBlue],
		EndReason: reason,
		Duration:  int(r.host.Now().Sub(r.started) / time.Second),
	}
	if winner.Valid() {
		result.Winner = winner.Key()
	}

	if _, err := r.store.SaveMatch(result); err != nil {
		r.logger.Error("save match", "match", r.matchID, "err", err)
		return
	}
	r.logger.Info("match saved", "match", r.matchID, "map", r.mapName, "reason", reason,
		"red", result.RedScore, "blue", result.BlueScore)
}
