package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/ctf-arena/internal/config"
	"github.com/vovakirdan/ctf-arena/internal/registry"
	"github.com/vovakirdan/ctf-arena/internal/relay"
	"github.com/vovakirdan/ctf-arena/internal/storage"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// runtime holds what every command that hosts matches needs.
type runtime struct {
	cfg     config.Config
	logger  *log.Logger
	store   *storage.Store
	redis   *redis.Client
	logFile *os.File
}

// loadConfig loads configuration and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	return cfg, nil
}

// newLogger builds the process logger. Interactive commands pass quiet so
// log lines never draw over the arena unless --log-file is set.
func newLogger(cfg config.Config, quiet bool) (*log.Logger, *os.File, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var out io.Writer = os.Stderr
	var file *os.File
	switch {
	case flagLogFile != "":
		file, err = os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = file
	case quiet:
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "ctf",
		Level:           level,
	})
	return logger, file, nil
}

// setup loads configuration, the logger and the optional recorders.
// Storage and relay failures are warnings: matches still run without them.
func setup(quiet bool) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, file, err := newLogger(cfg, quiet)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: logger, logFile: file}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("match history disabled", "error", err)
	} else {
		rt.store = store
	}

	if cfg.Relay.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		rdb, err := relay.Connect(ctx, cfg.Relay.Addr)
		cancel()
		if err != nil {
			logger.Warn("event relay disabled", "addr", cfg.Relay.Addr, "error", err)
		} else {
			rt.redis = rdb
		}
	}

	return rt, nil
}

// recorders builds the observers for one arena.
func (rt *runtime) recorders(a *world.Arena) []registry.Recorder {
	var out []registry.Recorder
	if rt.store != nil {
		out = append(out, storage.NewRecorder(rt.store, a, rt.logger.WithPrefix("history")))
	}
	if rt.redis != nil {
		out = append(out, relay.New(rt.redis, rt.cfg.Relay, rt.logger.WithPrefix("relay")))
	}
	return out
}

// Close releases the storage, relay and log file.
func (rt *runtime) Close() {
	if rt.store != nil {
		rt.store.Close()
	}
	if rt.redis != nil {
		rt.redis.Close()
	}
	if rt.logFile != nil {
		rt.logFile.Close()
	}
}
