package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/ctf-arena/internal/lang"
)

func TestEmbeddedDefaultMatchesDefaultConfig(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("parse embedded default: %v", err)
	}
	def := DefaultConfig()

	if cfg.DropCommand != def.DropCommand {
		t.Errorf("drop_command = %q, expected %q", cfg.DropCommand, def.DropCommand)
	}
	if cfg.WinCount != def.WinCount {
		t.Errorf("win_count = %d, expected %d", cfg.WinCount, def.WinCount)
	}
	if cfg.HUD.RefreshInterval != def.HUD.RefreshInterval {
		t.Errorf("hud.refresh_interval = %v, expected %v", cfg.HUD.RefreshInterval, def.HUD.RefreshInterval)
	}
	if cfg.Flag.CollisionRestoreDelay != 200*time.Millisecond {
		t.Errorf("flag.collision_restore_delay = %v, expected 200ms", cfg.Flag.CollisionRestoreDelay)
	}
	if len(cfg.Maps) != len(def.Maps) {
		t.Errorf("maps = %v, expected %v", cfg.Maps, def.Maps)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded default invalid: %v", err)
	}
}

func TestDefaultDropCommandEnabled(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("parse embedded default: %v", err)
	}
	if cfg.DropCommand != "drop" {
		t.Errorf("embedded drop_command = %q, expected %q", cfg.DropCommand, "drop")
	}
	if !strings.Contains(string(defaultYAML), `set to "" to disable`) {
		t.Error("embedded default does not document how to disable manual dropping")
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctf.yaml")
	data := []byte(`
drop_command: ""
win_count: 5
maps:
  cs_office:
    red: "1 2 3"
    blue: "4 5 6"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DropCommand != "" {
		t.Errorf("drop_command = %q, expected empty", cfg.DropCommand)
	}
	if cfg.WinCount != 5 {
		t.Errorf("win_count = %d, expected 5", cfg.WinCount)
	}
	if cfg.HUD.RefreshInterval != time.Second {
		t.Errorf("missing hud section should keep default, got %v", cfg.HUD.RefreshInterval)
	}
	if names := cfg.MapNames(); len(names) != 1 || names[0] != "cs_office" {
		t.Errorf("MapNames() = %v, expected [cs_office]", names)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, expected ErrNotExist", err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctf.yaml")
	if err := os.WriteFile(path, []byte("win_count: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load error = %v, expected ErrInvalid", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CTF_WIN_COUNT", "7")
	t.Setenv("CTF_DROP_COMMAND", "flagdrop")
	t.Setenv("CTF_HUD_REFRESH_INTERVAL", "500ms")
	t.Setenv("CTF_RELAY_ADDR", "localhost:6379")

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.WinCount != 7 {
		t.Errorf("win_count = %d, expected 7", cfg.WinCount)
	}
	if cfg.DropCommand != "flagdrop" {
		t.Errorf("drop_command = %q, expected flagdrop", cfg.DropCommand)
	}
	if cfg.HUD.RefreshInterval != 500*time.Millisecond {
		t.Errorf("hud.refresh_interval = %v, expected 500ms", cfg.HUD.RefreshInterval)
	}
	if cfg.Relay.Addr != "localhost:6379" {
		t.Errorf("relay.addr = %q", cfg.Relay.Addr)
	}
	if cfg.Locale != "en" {
		t.Errorf("unset locale should keep default, got %q", cfg.Locale)
	}
}

func TestApplyEnvBadValue(t *testing.T) {
	t.Setenv("CTF_WIN_COUNT", "three")
	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err == nil {
		t.Error("expected error for non-numeric win count")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero win count", func(c *Config) { c.WinCount = 0 }},
		{"zero hud interval", func(c *Config) { c.HUD.RefreshInterval = 0 }},
		{"negative ttl", func(c *Config) { c.Touch.PendingTTL = -time.Second }},
		{"zero restore delay", func(c *Config) { c.Flag.CollisionRestoreDelay = 0 }},
		{"zero tick rate", func(c *Config) { c.Arena.TickRate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestCoordinatesReturnsCopy(t *testing.T) {
	cfg := DefaultConfig()

	got, ok := cfg.Coordinates("de_dust")
	if !ok || got["t"] != "1340 3377 -127" || got["ct"] != "125 -1562 64" {
		t.Fatalf("Coordinates(de_dust) = %v, %v", got, ok)
	}
	got["t"] = "0 0 0"
	if cfg.Maps["de_dust"]["t"] != "1340 3377 -127" {
		t.Error("Coordinates should not expose the config map")
	}

	if _, ok := cfg.Coordinates("cs_office"); ok {
		t.Error("Coordinates(cs_office) should report missing")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load written default: %v", err)
	}
	if _, ok := cfg.Coordinates("de_dust"); !ok {
		t.Error("written default should contain de_dust")
	}

	if err := WriteDefault(path); !errors.Is(err, os.ErrExist) {
		t.Errorf("second WriteDefault = %v, expected ErrExist", err)
	}
}

func TestDescribe(t *testing.T) {
	cfg := DefaultConfig()
	settings := cfg.Describe(lang.MustLoad().Printer("en"))

	if len(settings) != 2 {
		t.Fatalf("Describe() returned %d settings, expected 2", len(settings))
	}
	if settings[0].Name != "drop_command" || settings[0].Value != `"drop"` || settings[0].Description == "" {
		t.Errorf("drop_command setting = %+v", settings[0])
	}
	if settings[1].Name != "win_count" || settings[1].Value != "3" {
		t.Errorf("win_count setting = %+v", settings[1])
	}
}
