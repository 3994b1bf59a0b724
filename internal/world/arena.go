package world

import (
	"sort"
	"time"

	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/event"
)

// Arena defaults
const (
	DefaultArenaWidth  = 60
	DefaultArenaHeight = 18
	DefaultRespawn     = 2 * time.Second
	maxChatLines       = 50
	maxSoundCues       = 32
)

// ArenaConfig configures an Arena.
type ArenaConfig struct {
	Width       int
	Height      int
	MapName     string
	TickRate    int           // Simulation ticks per second
	Respawn     time.Duration // Time a killed player stays down
	DropCommand string        // Text sent to the command hook for ActionDrop
	Walls       []core.Rect
	Start       time.Time // Initial clock value
}

// DefaultArenaConfig returns the layout used by `ctf play`.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		Width:       DefaultArenaWidth,
		Height:      DefaultArenaHeight,
		MapName:     "arena",
		TickRate:    20,
		Respawn:     DefaultRespawn,
		DropCommand: "drop",
		Walls: []core.Rect{
			core.NewRect(18, 3, 2, 5),
			core.NewRect(40, 10, 2, 5),
			core.NewRect(28, 7, 4, 4),
		},
		Start: time.Unix(0, 0),
	}
}

// ChatLine is a chat message shown to players.
type ChatLine struct {
	At   time.Time
	From string
	Team core.Team
	Text string
}

// SoundCue is a played audio cue.
type SoundCue struct {
	At    time.Time
	Sound string
	Pos   *core.Vec3
}

type object struct {
	id        ObjectID
	class     Class
	model     string
	color     core.Color
	pos       core.Vec3
	collision CollisionGroup

	// Player fields
	team      core.Team
	userID    int
	name      string
	spawn     core.Vec3
	alive     bool
	respawnAt time.Time
}

type hudEntry struct {
	text  HUDText
	until time.Time
}

type contact struct {
	trigger ObjectID
	other   ObjectID
}

// Arena is a grid world implementing Host for one match.
// It is driven by Step from a single goroutine.
type Arena struct {
	cfg   ArenaConfig
	bus   *event.Bus
	clock time.Time
	tick  time.Duration

	objects    map[ObjectID]*object
	nextID     ObjectID
	nextUserID int
	pilots     map[core.Team]ObjectID

	timers   []*timer
	timerSeq int

	touchHook   TouchHook
	commandHook CommandHook
	touching    map[contact]bool

	scores map[core.Team]int
	tags   map[string]bool
	over   bool
	winner core.Team
	ticks  uint64

	chat   []ChatLine
	sounds []SoundCue
	hud    map[int]hudEntry
}

// NewArena creates an empty arena publishing native events on bus.
func NewArena(cfg ArenaConfig, bus *event.Bus) *Arena {
	if cfg.Width <= 0 {
		cfg.Width = DefaultArenaWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultArenaHeight
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 20
	}
	if cfg.Respawn <= 0 {
		cfg.Respawn = DefaultRespawn
	}

	return &Arena{
		cfg:      cfg,
		bus:      bus,
		clock:    cfg.Start,
		tick:     time.Second / time.Duration(cfg.TickRate),
		objects:  make(map[ObjectID]*object),
		pilots:   make(map[core.Team]ObjectID),
		touching: make(map[contact]bool),
		scores:   map[core.Team]int{core.TeamRed: 0, core.TeamBlue: 0},
		tags:     make(map[string]bool),
		hud:      make(map[int]hudEntry),
	}
}

// SetHooks installs the touch and command receivers. Either may be nil.
func (a *Arena) SetHooks(touch TouchHook, commands CommandHook) {
	a.touchHook = touch
	a.commandHook = commands
}

// Bus returns the event bus the arena publishes on.
func (a *Arena) Bus() *event.Bus {
	return a.bus
}

// Config returns the arena configuration.
func (a *Arena) Config() ArenaConfig {
	return a.cfg
}

// AddPlayer spawns a player; the first player of a team becomes its pilot.
func (a *Arena) AddPlayer(name string, team core.Team, spawn core.Vec3) ObjectID {
	a.nextID++
	a.nextUserID++
	p := &object{
		id:        a.nextID,
		class:     ClassPlayer,
		color:     core.ColorWhite,
		pos:       spawn,
		collision: CollisionSolid,
		team:      team,
		userID:    a.nextUserID,
		name:      name,
		spawn:     spawn,
		alive:     true,
	}
	a.objects[p.id] = p
	if _, ok := a.pilots[team]; !ok && team.Valid() {
		a.pilots[team] = p.id
	}
	return p.id
}

// Pilot returns the locally controlled player of a team.
func (a *Arena) Pilot(team core.Team) (ObjectID, bool) {
	id, ok := a.pilots[team]
	return id, ok
}

// StartRound respawns everyone and publishes round_start.
func (a *Arena) StartRound() {
	a.over = false
	a.winner = core.TeamNone
	a.hud = make(map[int]hudEntry)
	a.touching = make(map[contact]bool)

	for _, o := range a.sortedObjects() {
		if o.class != ClassPlayer {
			continue
		}
		o.pos = o.spawn
		o.alive = true
		o.color = core.ColorWhite
	}

	a.bus.Publish(event.RoundStart{MapName: a.cfg.MapName})
}

// Step advances the simulation by one tick using the given inputs.
func (a *Arena) Step(in core.MultiInputFrame) {
	a.Advance(a.tick)
	a.ticks++

	if a.over {
		return
	}

	for _, team := range core.Teams {
		id, ok := a.pilots[team]
		if !ok {
			continue
		}
		a.applyInput(id, in.Team(team))
	}

	a.detectContacts()
}

// Advance moves the clock forward, firing due timers and respawns.
func (a *Arena) Advance(d time.Duration) {
	a.clock = a.clock.Add(d)
	a.fireTimers()

	for _, o := range a.sortedObjects() {
		if o.class == ClassPlayer && !o.alive && !a.clock.Before(o.respawnAt) {
			o.alive = true
			o.pos = o.spawn
		}
	}
}

func (a *Arena) applyInput(id ObjectID, frame core.InputFrame) {
	p := a.objects[id]
	if p == nil || !p.alive {
		return
	}

	dx, dy := 0, 0
	switch {
	case frame.Has(core.ActionUp):
		dy = -1
	case frame.Has(core.ActionDown):
		dy = 1
	case frame.Has(core.ActionLeft):
		dx = -1
	case frame.Has(core.ActionRight):
		dx = 1
	}
	if dx != 0 || dy != 0 {
		a.move(p, dx, dy)
	}

	if frame.Has(core.ActionAttack) {
		if victim := a.adjacentEnemy(p); victim != nil {
			a.Kill(victim.id, p.id)
		}
	}

	if frame.Has(core.ActionDrop) && a.commandHook != nil {
		a.commandHook.Command(p.id, a.cfg.DropCommand)
	}
}

func (a *Arena) move(p *object, dx, dy int) {
	x, y := p.pos.Cell()
	nx := core.Clamp(x+dx, 0, a.cfg.Width-1)
	ny := core.Clamp(y+dy, 0, a.cfg.Height-1)
	if a.Blocked(nx, ny) {
		return
	}
	p.pos = core.Vec3{X: float64(nx), Y: float64(ny), Z: p.pos.Z}
}

// Blocked reports whether a wall occupies the cell.
func (a *Arena) Blocked(x, y int) bool {
	for _, w := range a.cfg.Walls {
		if w.Contains(x, y) {
			return true
		}
	}
	return false
}

func (a *Arena) adjacentEnemy(p *object) *object {
	px, py := p.pos.Cell()
	for _, o := range a.sortedObjects() {
		if o.class != ClassPlayer || !o.alive || o.team == p.team || !o.team.Valid() {
			continue
		}
		ox, oy := o.pos.Cell()
		dx, dy := ox-px, oy-py
		if dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 {
			return o
		}
	}
	return nil
}

// Kill takes a player out of play and publishes player_death.
// The victim stays at the death location while the event is handled.
func (a *Arena) Kill(victim, attacker ObjectID) {
	v := a.objects[victim]
	if v == nil || v.class != ClassPlayer || !v.alive {
		return
	}
	v.alive = false
	v.respawnAt = a.clock.Add(a.cfg.Respawn)

	attackerUID := 0
	if at := a.objects[attacker]; at != nil {
		attackerUID = at.userID
	}
	a.bus.Publish(event.PlayerDeath{UserID: v.userID, Attacker: attackerUID})

	a.dropContacts(victim)
	v.pos = v.spawn
}

// detectContacts fires a start-touch for every new pedestal/player overlap.
func (a *Arena) detectContacts() {
	var fresh []contact
	for _, prop := range a.sortedObjects() {
		if prop.class == ClassPlayer || prop.collision == CollisionNone {
			continue
		}
		px, py := prop.pos.Cell()
		for _, p := range a.sortedObjects() {
			if p.class != ClassPlayer {
				continue
			}
			c := contact{trigger: prop.id, other: p.id}
			x, y := p.pos.Cell()
			if p.alive && x == px && y == py {
				if !a.touching[c] {
					fresh = append(fresh, c)
				}
				continue
			}
			delete(a.touching, c)
		}
	}

	for _, c := range fresh {
		// An earlier touch this tick may have removed the pedestal.
		if _, ok := a.objects[c.trigger]; !ok {
			continue
		}
		a.touching[c] = true
		a.Touch(c.trigger, c.other)
	}
}

// Touch delivers both phases of a start-touch between trigger and other.
func (a *Arena) Touch(trigger, other ObjectID) {
	if a.touchHook == nil {
		return
	}
	key := uintptr(trigger)
	a.touchHook.BeforeTouch(key, trigger, other)
	a.touchHook.AfterTouch(key)
}

func (a *Arena) dropContacts(id ObjectID) {
	for c := range a.touching {
		if c.trigger == id || c.other == id {
			delete(a.touching, c)
		}
	}
}

// Objects

// Create implements Objects. Players already standing on the new object
// touch it only after stepping off and back on.
func (a *Arena) Create(s Spawn) ObjectID {
	a.nextID++
	id := a.nextID
	a.objects[id] = &object{
		id:        id,
		class:     ClassProp,
		model:     s.Model,
		color:     s.Color,
		pos:       s.Origin,
		collision: s.Collision,
	}

	cx, cy := s.Origin.Cell()
	for _, p := range a.objects {
		if p.class != ClassPlayer || !p.alive {
			continue
		}
		if x, y := p.pos.Cell(); x == cx && y == cy {
			a.touching[contact{trigger: id, other: p.id}] = true
		}
	}
	return id
}

// Remove implements Objects.
func (a *Arena) Remove(id ObjectID) {
	delete(a.objects, id)
	a.dropContacts(id)
}

// Teleport implements Objects.
func (a *Arena) Teleport(id ObjectID, pos core.Vec3) {
	if o := a.objects[id]; o != nil {
		o.pos = pos
		a.dropContacts(id)
	}
}

// SetCollision implements Objects.
func (a *Arena) SetCollision(id ObjectID, group CollisionGroup) {
	if o := a.objects[id]; o != nil {
		o.collision = group
	}
}

// Collision returns the collision group of an object.
func (a *Arena) Collision(id ObjectID) CollisionGroup {
	if o := a.objects[id]; o != nil {
		return o.collision
	}
	return CollisionNone
}

// Exists implements Objects.
func (a *Arena) Exists(id ObjectID) bool {
	_, ok := a.objects[id]
	return ok
}

// Class implements Objects.
func (a *Arena) Class(id ObjectID) Class {
	if o := a.objects[id]; o != nil {
		return o.class
	}
	return ""
}

// Players

// Team implements Players.
func (a *Arena) Team(id ObjectID) core.Team {
	if o := a.objects[id]; o != nil {
		return o.team
	}
	return core.TeamNone
}

// Origin implements Players.
func (a *Arena) Origin(id ObjectID) core.Vec3 {
	if o := a.objects[id]; o != nil {
		return o.pos
	}
	return core.Vec3{}
}

// UserID implements Players.
func (a *Arena) UserID(id ObjectID) int {
	if o := a.objects[id]; o != nil {
		return o.userID
	}
	return 0
}

// Name implements Players.
func (a *Arena) Name(id ObjectID) string {
	if o := a.objects[id]; o != nil {
		return o.name
	}
	return ""
}

// FromUserID implements Players.
func (a *Arena) FromUserID(userID int) (ObjectID, bool) {
	for _, o := range a.objects {
		if o.class == ClassPlayer && o.userID == userID {
			return o.id, true
		}
	}
	return NoObject, false
}

// SetColor implements Players.
func (a *Arena) SetColor(id ObjectID, c core.Color) {
	if o := a.objects[id]; o != nil {
		o.color = c
	}
}

// ColorOf returns an object's tint.
func (a *Arena) ColorOf(id ObjectID) core.Color {
	if o := a.objects[id]; o != nil {
		return o.color
	}
	return core.ColorDefault
}

// Alive reports whether a player is in play.
func (a *Arena) Alive(id ObjectID) bool {
	o := a.objects[id]
	return o != nil && o.class == ClassPlayer && o.alive
}

// Presenter

// PlaySound implements Presenter.
func (a *Arena) PlaySound(sound string, at *core.Vec3) {
	a.sounds = append(a.sounds, SoundCue{At: a.clock, Sound: sound, Pos: at})
	if len(a.sounds) > maxSoundCues {
		a.sounds = a.sounds[len(a.sounds)-maxSoundCues:]
	}
}

// SayText implements Presenter.
func (a *Arena) SayText(from ObjectID, text string) {
	line := ChatLine{At: a.clock, Text: text}
	if o := a.objects[from]; o != nil {
		line.From = o.name
		line.Team = o.team
	}
	a.chat = append(a.chat, line)
	if len(a.chat) > maxChatLines {
		a.chat = a.chat[len(a.chat)-maxChatLines:]
	}
}

// ShowHUD implements Presenter.
func (a *Arena) ShowHUD(t HUDText) {
	a.hud[t.Channel] = hudEntry{
		text:  t,
		until: a.clock.Add(t.FadeIn + t.HoldTime + t.FadeOut),
	}
}

// Sounds returns the most recent audio cues, oldest first.
func (a *Arena) Sounds() []SoundCue {
	return append([]SoundCue(nil), a.sounds...)
}

// Chat returns the most recent chat lines, oldest first.
func (a *Arena) Chat() []ChatLine {
	return append([]ChatLine(nil), a.chat...)
}

// HUD returns the HUD elements still visible, ordered by channel.
func (a *Arena) HUD() []HUDText {
	channels := make([]int, 0, len(a.hud))
	for ch, e := range a.hud {
		if a.clock.Before(e.until) {
			channels = append(channels, ch)
		}
	}
	sort.Ints(channels)

	out := make([]HUDText, 0, len(channels))
	for _, ch := range channels {
		out = append(out, a.hud[ch].text)
	}
	return out
}

// Match

// MapName implements Match.
func (a *Arena) MapName() string {
	return a.cfg.MapName
}

// SetTeamScore implements Match.
func (a *Arena) SetTeamScore(team core.Team, score int) {
	a.scores[team] = score
}

// TeamScore returns the score last pushed for a team.
func (a *Arena) TeamScore(team core.Team) int {
	return a.scores[team]
}

// EndMatch implements Match.
func (a *Arena) EndMatch(winner core.Team) {
	a.over = true
	a.winner = winner
}

// Over reports whether the match has ended and who won.
func (a *Arena) Over() (bool, core.Team) {
	return a.over, a.winner
}

// AddTag implements Match.
func (a *Arena) AddTag(tag string) {
	a.tags[tag] = true
}

// RemoveTag implements Match.
func (a *Arena) RemoveTag(tag string) {
	delete(a.tags, tag)
}

// Tags returns the advertised matchmaking tags, sorted.
func (a *Arena) Tags() []string {
	out := make([]string, 0, len(a.tags))
	for t := range a.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Ticks returns the number of simulation steps run.
func (a *Arena) Ticks() uint64 {
	return a.ticks
}

func (a *Arena) sortedObjects() []*object {
	out := make([]*object, 0, len(a.objects))
	for _, o := range a.objects {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

var _ Host = (*Arena)(nil)
