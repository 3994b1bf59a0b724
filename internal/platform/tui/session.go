package tui

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ctf-arena/internal/config"
	"github.com/vovakirdan/ctf-arena/internal/core"
	"github.com/vovakirdan/ctf-arena/internal/ctf"
	"github.com/vovakirdan/ctf-arena/internal/event"
	"github.com/vovakirdan/ctf-arena/internal/lang"
	"github.com/vovakirdan/ctf-arena/internal/plugin"
	"github.com/vovakirdan/ctf-arena/internal/registry"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// ErrMapOutsideArena is returned when a map's flag homes do not fit the grid.
var ErrMapOutsideArena = errors.New("tui: map does not fit the arena")

// SessionOptions configures one locally hosted match.
type SessionOptions struct {
	MapName  string
	RedName  string
	BlueName string
	Bot      bool // Blue is played by a bot
	Seed     int64
	Logger   *log.Logger
	Printer  *lang.Printer

	// Recorders builds the bus observers for the new arena (history, relay).
	Recorders func(a *world.Arena) []registry.Recorder
}

// Session is an arena with the capture-the-flag mode loaded on it.
// Its methods are safe for concurrent use; Arena must only be touched
// through them once the session is shared.
type Session struct {
	Arena   *world.Arena
	Mode    registry.Mode
	Printer *lang.Printer

	mu     sync.Mutex
	bot    *world.Bot
	logger *log.Logger
	closed bool
}

// NewSession builds the arena, spawns both pilots and loads the mode.
func NewSession(cfg config.Config, opts SessionOptions) (*Session, error) {
	if opts.MapName == "" {
		opts.MapName = world.DefaultArenaConfig().MapName
	}
	if opts.RedName == "" {
		opts.RedName = "red"
	}
	if opts.BlueName == "" {
		opts.BlueName = "blue"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Printer == nil {
		opts.Printer = lang.MustLoad().Printer(cfg.Locale)
	}

	acfg := world.DefaultArenaConfig()
	acfg.MapName = opts.MapName
	acfg.Width = cfg.Arena.Width
	acfg.Height = cfg.Arena.Height
	acfg.TickRate = cfg.Arena.TickRate
	acfg.Respawn = cfg.Arena.Respawn
	acfg.DropCommand = cfg.DropCommand

	homes, err := arenaHomes(cfg, acfg)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus()
	a := world.NewArena(acfg, bus)

	a.AddPlayer(opts.RedName, core.TeamRed, spawnNear(homes[core.TeamRed], acfg))
	blue := a.AddPlayer(opts.BlueName, core.TeamBlue, spawnNear(homes[core.TeamBlue], acfg))

	var recorders []registry.Recorder
	if opts.Recorders != nil {
		recorders = opts.Recorders(a)
	}

	mode, err := registry.Create(plugin.ID, registry.Deps{
		Host:      a,
		Bus:       bus,
		Config:    cfg,
		Logger:    opts.Logger,
		Printer:   opts.Printer,
		Recorders: recorders,
	})
	if err != nil {
		return nil, err
	}
	a.SetHooks(mode, mode)

	s := &Session{
		Arena:   a,
		Mode:    mode,
		Printer: opts.Printer,
		logger:  opts.Logger,
	}
	if opts.Bot {
		s.bot = world.NewBot(blue, core.TeamBlue, opts.Seed)
	}

	if err := mode.Load(); err != nil {
		return nil, fmt.Errorf("tui: cannot load mode: %w", err)
	}
	return s, nil
}

// arenaHomes resolves the map's flag homes and checks they lie on the grid.
func arenaHomes(cfg config.Config, acfg world.ArenaConfig) (map[core.Team]core.Vec3, error) {
	homes, err := ctf.ResolveHomes(cfg, acfg.MapName)
	if err != nil {
		return nil, err
	}
	for _, team := range core.Teams {
		x, y := homes[team].Cell()
		if x < 0 || x >= acfg.Width || y < 0 || y >= acfg.Height {
			return nil, fmt.Errorf("%w: %s %s home at %s", ErrMapOutsideArena, acfg.MapName, team.Key(), homes[team])
		}
	}
	return homes, nil
}

// spawnNear places a pilot two cells from its flag, toward the center.
func spawnNear(home core.Vec3, acfg world.ArenaConfig) core.Vec3 {
	step := 2.0
	if home.X >= float64(acfg.Width)/2 {
		step = -2
	}
	x := core.Clamp(int(home.X+step), 0, acfg.Width-1)
	return core.Vec3{X: float64(x), Y: home.Y}
}

// Step advances the arena one tick, letting the bot steer its team.
func (s *Session) Step(in core.MultiInputFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if s.bot != nil {
		frame := s.bot.Think(s.Arena.Snapshot())
		for a, on := range frame.Actions {
			if on {
				in.Set(core.TeamBlue, a)
			}
		}
	}
	s.Arena.Step(in)
}

// HasBot reports whether blue is played by the bot.
func (s *Session) HasBot() bool {
	return s.bot != nil
}

// Snapshot returns the current arena view.
func (s *Session) Snapshot() world.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Arena.Snapshot()
}

// Restart begins a new round once the match is over.
func (s *Session) Restart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	if over, _ := s.Arena.Over(); !over {
		return false
	}
	s.logger.Info("new round", "map", s.Arena.MapName())
	s.Arena.StartRound()
	return true
}

// Close unloads the mode. Later calls do nothing.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.Mode.Unload()
}
