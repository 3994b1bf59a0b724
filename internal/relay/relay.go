// Package relay forwards bus events to Redis so that external consumers
// (scoreboards, stream overlays) can follow a match live.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/ctf-arena/internal/config"
	"github.com/vovakirdan/ctf-arena/internal/event"
)

// DefaultTimeout bounds every Redis round trip made while forwarding.
const DefaultTimeout = 2 * time.Second

// Envelope is the JSON document published for each event.
type Envelope struct {
	ID    string          `json:"id"`
	Event event.Name      `json:"event"`
	Match string          `json:"match"`
	Time  time.Time       `json:"time"`
	Data  json.RawMessage `json:"data"`
}

// Relay publishes events on a channel and keeps a capped history list.
type Relay struct {
	rdb         *redis.Client
	channel     string
	historyKey  string
	historySize int
	timeout     time.Duration
	logger      *log.Logger

	match string
	now   func() time.Time
}

// Connect opens a client for addr and checks that the server responds.
// Addr is either host:port or a redis:// URL.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	var opt *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("relay: cannot parse redis URL: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: addr}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("relay: cannot connect to redis: %w", err)
	}
	return rdb, nil
}

// Dial connects to the configured Redis server.
func Dial(ctx context.Context, cfg config.RelayConfig, logger *log.Logger) (*Relay, error) {
	rdb, err := Connect(ctx, cfg.Addr)
	if err != nil {
		return nil, err
	}
	return New(rdb, cfg, logger), nil
}

// New wraps an existing client. A nil logger discards output.
func New(rdb *redis.Client, cfg config.RelayConfig, logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Relay{
		rdb:         rdb,
		channel:     cfg.Channel,
		historyKey:  cfg.HistoryKey,
		historySize: cfg.HistorySize,
		timeout:     DefaultTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock replaces the timestamp source.
func (r *Relay) SetClock(now func() time.Time) {
	r.now = now
}

// Close closes the Redis connection, which may be shared with other relays.
func (r *Relay) Close() error {
	return r.rdb.Close()
}

// Attach forwards every bus event until the returned function is called.
// Each round start opens a new match id.
func (r *Relay) Attach(bus *event.Bus) func() {
	r.match = uuid.NewString()
	return bus.SubscribeAll(func(e event.Event) {
		if e.Name() == event.NameRoundStart {
			r.match = uuid.NewString()
		}
		r.forward(e)
	})
}

// forward publishes one event. Failures are logged only.
func (r *Relay) forward(e event.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		r.logger.Error("marshal event", "event", e.Name(), "err", err)
		return
	}

	env := Envelope{
		ID:    uuid.NewString(),
		Event: e.Name(),
		Match: r.match,
		Time:  r.now().UTC(),
		Data:  data,
	}
	payload, err := json.Marshal(env)
	if err != nil {
		r.logger.Error("marshal envelope", "event", e.Name(), "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if r.channel != "" {
			pipe.Publish(ctx, r.channel, payload)
		}
		if r.historyKey != "" && r.historySize > 0 {
			pipe.LPush(ctx, r.historyKey, payload)
			pipe.LTrim(ctx, r.historyKey, 0, int64(r.historySize-1))
		}
		return nil
	})
	if err != nil {
		r.logger.Error("forward event", "event", e.Name(), "channel", r.channel, "err", err)
		return
	}
	r.logger.Debug("event forwarded", "event", e.Name(), "match", r.match)
}

// Recent returns up to n envelopes from the history list, newest first.
func (r *Relay) Recent(ctx context.Context, n int) ([]Envelope, error) {
	if r.historyKey == "" || n <= 0 {
		return nil, nil
	}

	raw, err := r.rdb.LRange(ctx, r.historyKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("relay: cannot read history: %w", err)
	}

	out := make([]Envelope, 0, len(raw))
	for _, s := range raw {
		var env Envelope
		if err := json.Unmarshal([]byte(s), &env); err != nil {
			return nil, fmt.Errorf("relay: corrupt history entry: %w", err)
		}
		out = append(out, env)
	}
	return out, nil
}
