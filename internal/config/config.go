// Package config provides YAML-based configuration for the capture-the-flag
// mode: the drop command, win count, timings and per-map flag positions.
package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vovakirdan/ctf-arena/internal/lang"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config contains all configuration for a match.
type Config struct {
	DropCommand string         `yaml:"drop_command" env:"DROP_COMMAND"`
	WinCount    int            `yaml:"win_count" env:"WIN_COUNT"`
	Locale      string         `yaml:"locale" env:"LOCALE"`
	LogLevel    string         `yaml:"log_level" env:"LOG_LEVEL"`
	Sounds      SoundConfig    `yaml:"sounds" envPrefix:"SOUNDS_"`
	HUD         HUDConfig      `yaml:"hud" envPrefix:"HUD_"`
	Touch       TouchConfig    `yaml:"touch" envPrefix:"TOUCH_"`
	Flag        FlagConfig     `yaml:"flag" envPrefix:"FLAG_"`
	Arena       ArenaConfig    `yaml:"arena" envPrefix:"ARENA_"`
	Storage     StorageConfig  `yaml:"storage" envPrefix:"STORAGE_"`
	Relay       RelayConfig    `yaml:"relay" envPrefix:"RELAY_"`
	Maps        MapCoordinates `yaml:"maps"`
}

// SoundConfig locates the audio cues.
type SoundConfig struct {
	Prefix string `yaml:"prefix" env:"PREFIX"`
}

// HUDConfig controls the flag status display.
type HUDConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"REFRESH_INTERVAL"`
}

// TouchConfig controls the two-phase touch protocol.
type TouchConfig struct {
	PendingTTL time.Duration `yaml:"pending_ttl" env:"PENDING_TTL"`
}

// FlagConfig controls the flag pedestals.
type FlagConfig struct {
	Model                 string        `yaml:"model" env:"MODEL"`
	CollisionRestoreDelay time.Duration `yaml:"collision_restore_delay" env:"COLLISION_RESTORE_DELAY"`
}

// ArenaConfig controls the built-in terminal arena.
type ArenaConfig struct {
	Width    int           `yaml:"width" env:"WIDTH"`
	Height   int           `yaml:"height" env:"HEIGHT"`
	TickRate int           `yaml:"tick_rate" env:"TICK_RATE"`
	Respawn  time.Duration `yaml:"respawn" env:"RESPAWN"`
}

// StorageConfig locates the match history database. Empty uses the default path.
type StorageConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// RelayConfig controls event forwarding to Redis. Empty Addr disables it.
type RelayConfig struct {
	Addr        string `yaml:"addr" env:"ADDR"`
	Channel     string `yaml:"channel" env:"CHANNEL"`
	HistoryKey  string `yaml:"history_key" env:"HISTORY_KEY"`
	HistorySize int    `yaml:"history_size" env:"HISTORY_SIZE"`
}

// MapCoordinates maps a map name to team name to an "x y z" position.
type MapCoordinates map[string]map[string]string

// Coordinates returns the configured team positions of a map.
func (c Config) Coordinates(mapName string) (map[string]string, bool) {
	teams, ok := c.Maps[mapName]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(teams))
	for team, pos := range teams {
		out[team] = pos
	}
	return out, true
}

// MapNames returns the configured map names, sorted.
func (c Config) MapNames() []string {
	names := make([]string, 0, len(c.Maps))
	for name := range c.Maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the values a match cannot run without.
func (c Config) Validate() error {
	switch {
	case c.WinCount < 1:
		return fmt.Errorf("%w: win_count must be at least 1, got %d", ErrInvalid, c.WinCount)
	case c.HUD.RefreshInterval <= 0:
		return fmt.Errorf("%w: hud.refresh_interval must be positive", ErrInvalid)
	case c.Touch.PendingTTL <= 0:
		return fmt.Errorf("%w: touch.pending_ttl must be positive", ErrInvalid)
	case c.Flag.CollisionRestoreDelay <= 0:
		return fmt.Errorf("%w: flag.collision_restore_delay must be positive", ErrInvalid)
	case c.Arena.TickRate <= 0:
		return fmt.Errorf("%w: arena.tick_rate must be positive", ErrInvalid)
	}
	return nil
}

// Setting is a user-facing configuration value with its description.
type Setting struct {
	Name        string
	Value       string
	Description string
}

// Describe returns the player-relevant settings with localized descriptions.
func (c Config) Describe(p *lang.Printer) []Setting {
	return []Setting{
		{Name: "drop_command", Value: fmt.Sprintf("%q", c.DropCommand), Description: p.Text(lang.ConfigDropCommand)},
		{Name: "win_count", Value: fmt.Sprint(c.WinCount), Description: p.Text(lang.ConfigWinCount)},
	}
}
