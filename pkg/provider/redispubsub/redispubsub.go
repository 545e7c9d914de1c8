// Package redispubsub publishes message envelopes on Redis channels.
package redispubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lzyats/multigame-notify-go/pkg/broker"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

// Factory dials a new client per connection.
type Factory struct {
	cfg notify.RedisSettings
}

func New(cfg notify.RedisSettings) *Factory { return &Factory{cfg: cfg} }

func (f *Factory) Type() string { return "redis" }

func (f *Factory) options() (*redis.Options, error) {
	if f.cfg.Host == "" {
		return nil, fmt.Errorf("redis: missing host: %w", notify.ErrNotConfigured)
	}
	port := f.cfg.Port
	if port == 0 {
		port = 6379
	}
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", f.cfg.Host, port),
		Password:     f.cfg.Password,
		DB:           f.cfg.Database,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     1,
	}, nil
}

func (f *Factory) CreateConnection(ctx context.Context) (broker.Connection, error) {
	opts, err := f.options()
	if err != nil {
		return nil, err
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return &connection{cli: cli}, nil
}

type connection struct {
	cli *redis.Client
}

func (c *connection) CreateSession(ctx context.Context) (broker.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{cli: c.cli}, nil
}

func (c *connection) Close() error { return c.cli.Close() }

type session struct {
	cli *redis.Client
}

func (s *session) CreatePublisher(topic broker.Topic) (broker.Publisher, error) {
	if topic.Name == "" {
		return nil, fmt.Errorf("redis: missing topic: %w", notify.ErrInvalidArgument)
	}
	return &publisher{cli: s.cli, channel: Channel(topic)}, nil
}

func (s *session) Close() error { return nil }

type publisher struct {
	cli     *redis.Client
	channel string
	ttl     time.Duration
}

func (p *publisher) SetTimeToLive(ttl time.Duration) { p.ttl = ttl }

func (p *publisher) Send(ctx context.Context, msg *broker.Message) error {
	b, err := encode(msg, p.ttl, time.Now())
	if err != nil {
		return err
	}
	return p.cli.Publish(ctx, p.channel, b).Err()
}

// Channel is the Redis channel a topic maps to: "name" or "name:tag".
func Channel(t broker.Topic) string { return t.String() }

func encode(msg *broker.Message, ttl time.Duration, now time.Time) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("redis: nil message: %w", notify.ErrInvalidArgument)
	}
	env, err := msg.Envelope(ttl, now)
	if err != nil {
		return nil, fmt.Errorf("redis: encode body: %w", err)
	}
	return json.Marshal(env)
}
