package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/ctf.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DropCommand: "drop",
		WinCount:    3,
		Locale:      "en",
		LogLevel:    "info",
		Sounds: SoundConfig{
			Prefix: "source-python/capture_the_flag",
		},
		HUD: HUDConfig{
			RefreshInterval: time.Second,
		},
		Touch: TouchConfig{
			PendingTTL: 5 * time.Second,
		},
		Flag: FlagConfig{
			Model:                 "models/props/cs_militia/caseofbeer01.mdl",
			CollisionRestoreDelay: 200 * time.Millisecond,
		},
		Arena: ArenaConfig{
			Width:    60,
			Height:   18,
			TickRate: 20,
			Respawn:  2 * time.Second,
		},
		Relay: RelayConfig{
			Channel:     "ctf:events",
			HistoryKey:  "ctf:recent",
			HistorySize: 100,
		},
		Maps: MapCoordinates{
			"arena": {
				"red":  "6 8 0",
				"blue": "53 8 0",
			},
			"de_dust": {
				"t":  "1340 3377 -127",
				"ct": "125 -1562 64",
			},
		},
	}
}
