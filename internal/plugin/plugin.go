// Package plugin hosts the capture-the-flag mode on a world: it owns the
// controller, touch gate and feedback adapter for one match and wires them
// to the host's lifecycle events and player commands.
package plugin

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ctf-arena/internal/config"
	"github.com/vovakirdan/ctf-arena/internal/ctf"
	"github.com/vovakirdan/ctf-arena/internal/event"
	"github.com/vovakirdan/ctf-arena/internal/feedback"
	"github.com/vovakirdan/ctf-arena/internal/lang"
	"github.com/vovakirdan/ctf-arena/internal/registry"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// ID is the mode identifier and matchmaking tag.
const ID = "ctf"

func init() {
	registry.Register(registry.ModeInfo{ID: ID, Title: "Capture the Flag"}, func(d registry.Deps) registry.Mode {
		opts := []Option{WithLogger(d.Logger), WithPrinter(d.Printer)}
		for _, r := range d.Recorders {
			opts = append(opts, WithRecorder(r))
		}
		return New(d.Host, d.Bus, d.Config, opts...)
	})
}

// Recorder observes the bus for the lifetime of a loaded plugin.
type Recorder = registry.Recorder

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *log.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPrinter sets the locale printer. A nil printer keeps the default.
func WithPrinter(pr *lang.Printer) Option {
	return func(p *Plugin) {
		if pr != nil {
			p.printer = pr
		}
	}
}

// WithRecorder adds a bus observer attached on Load.
func WithRecorder(r Recorder) Option {
	return func(p *Plugin) {
		p.recorders = append(p.recorders, r)
	}
}

// Plugin is the capture-the-flag mode for one host.
type Plugin struct {
	host    world.Host
	bus     *event.Bus
	cfg     config.Config
	logger  *log.Logger
	printer *lang.Printer

	ctrl     *ctf.Controller
	gate     *ctf.TouchGate
	feedback *feedback.Adapter

	recorders []Recorder
	detach    []func()
	loaded    bool
}

// New builds the mode. Nothing touches the host until Load.
func New(host world.Host, bus *event.Bus, cfg config.Config, opts ...Option) *Plugin {
	p := &Plugin{
		host:   host,
		bus:    bus,
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.printer == nil {
		p.printer = lang.MustLoad().Printer(cfg.Locale)
	}

	p.ctrl = ctf.NewController(host, bus, cfg, p.logger.WithPrefix("ctf"), ctf.Options{
		Model:        cfg.Flag.Model,
		RestoreDelay: cfg.Flag.CollisionRestoreDelay,
	})
	p.gate = ctf.NewTouchGate(p.ctrl, host, cfg.Touch.PendingTTL, p.logger.WithPrefix("touch"))
	p.feedback = feedback.New(host, bus, p.ctrl, p.printer, feedback.Config{
		WinCount:    cfg.WinCount,
		SoundPrefix: cfg.Sounds.Prefix,
		HUDInterval: cfg.HUD.RefreshInterval,
	}, p.logger.WithPrefix("feedback"))

	return p
}

// ID implements registry.Mode.
func (p *Plugin) ID() string { return ID }

// Load advertises the mode, subscribes to the host's events and creates
// flags for the current map.
func (p *Plugin) Load() error {
	if p.loaded {
		return nil
	}
	p.loaded = true

	p.host.AddTag(ID)

	// Recorders first so they see the round this Load starts.
	for _, r := range p.recorders {
		p.detach = append(p.detach, r.Attach(p.bus))
	}

	p.detach = append(p.detach,
		p.bus.Subscribe(event.NameRoundStart, func(e event.Event) {
			p.startRound(e.(event.RoundStart).MapName)
		}),
		p.bus.Subscribe(event.NamePlayerDeath, func(e event.Event) {
			p.onDeath(e.(event.PlayerDeath))
		}),
	)
	p.feedback.Start()

	p.startRound(p.host.MapName())
	p.logger.Info("loaded", "map", p.host.MapName(), "win_count", p.cfg.WinCount, "drop_command", p.cfg.DropCommand)
	return nil
}

// Unload reverses Load and removes the pedestals from the world.
func (p *Plugin) Unload() {
	if !p.loaded {
		return
	}
	p.loaded = false

	p.feedback.Stop()
	for i := len(p.detach) - 1; i >= 0; i-- {
		p.detach[i]()
	}
	p.detach = nil

	p.ctrl.Teardown()
	p.gate = ctf.NewTouchGate(p.ctrl, p.host, p.cfg.Touch.PendingTTL, p.logger.WithPrefix("touch"))
	p.host.RemoveTag(ID)
	p.logger.Info("unloaded")
}

func (p *Plugin) startRound(mapName string) {
	if err := p.ctrl.CreateFlags(mapName); err != nil {
		p.logger.Warn("no flags this round", "map", mapName, "err", err)
	}
	p.feedback.PushScores()
}

func (p *Plugin) onDeath(e event.PlayerDeath) {
	victim, ok := p.host.FromUserID(e.UserID)
	if !ok {
		return
	}
	p.ctrl.ForceDrop(victim, e.Attacker)
}

// BeforeTouch implements world.TouchHook.
func (p *Plugin) BeforeTouch(key uintptr, trigger, other world.ObjectID) {
	if !p.loaded {
		return
	}
	p.gate.Before(key, trigger, other)
}

// AfterTouch implements world.TouchHook.
func (p *Plugin) AfterTouch(key uintptr) {
	if !p.loaded {
		return
	}
	if out := p.gate.After(key); out != ctf.OutcomeNone {
		p.logger.Debug("touch", "outcome", out)
	}
}

// Command implements world.CommandHook. The configured drop command, typed
// in the console or chat with an optional "!" or "/" prefix, drops the
// player's carried flag. Reports whether the text was the drop command.
func (p *Plugin) Command(player world.ObjectID, text string) bool {
	if !p.loaded || p.cfg.DropCommand == "" {
		return false
	}

	cmd := strings.TrimSpace(text)
	if strings.HasPrefix(cmd, "!") || strings.HasPrefix(cmd, "/") {
		cmd = cmd[1:]
	}
	if !strings.EqualFold(cmd, p.cfg.DropCommand) {
		return false
	}

	p.ctrl.ForceDrop(player, 0)
	return true
}

// Controller returns the match controller.
func (p *Plugin) Controller() *ctf.Controller {
	return p.ctrl
}

// Printer returns the locale printer used for player-facing text.
func (p *Plugin) Printer() *lang.Printer {
	return p.printer
}

var _ registry.Mode = (*Plugin)(nil)
