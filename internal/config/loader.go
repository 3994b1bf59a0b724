package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CTF_WIN_COUNT.
const EnvPrefix = "CTF_"

// Load loads the configuration, applies environment overrides and validates.
// Search order: customPath -> ~/.ctf/config.yaml -> ./configs/ctf.yaml -> embedded default
//
// Values missing from the file keep their defaults. A map table present in
// the file replaces the default maps entirely.
func Load(customPath string) (Config, error) {
	cfg, err := loadFile(customPath)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultConfig(), fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := UserConfigPath(); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "ctf.yaml")); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes data over the defaults.
func parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	cfg.Maps = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	if cfg.Maps == nil {
		cfg.Maps = DefaultConfig().Maps
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with CTF_* environment variables.
// Unset variables leave the current values untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// UserConfigPath returns the per-user config file path, or empty if home is unavailable.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ctf", "config.yaml")
}

// WriteDefault writes the default configuration file to path, creating
// parent directories. An existing file is left alone and os.ErrExist returned.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("config: %s: %w", path, os.ErrExist)
		}
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(defaultYAML); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
