package rocketmq

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	rmq "github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/google/uuid"

	"github.com/lzyats/multigame-notify-go/pkg/broker"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

// Factory starts a fresh producer for every connection. The client library
// shares one client per instance name and allows a group once per client,
// so each connection gets its own instance name.
type Factory struct {
	cfg notify.RocketMQSettings
}

func New(cfg notify.RocketMQSettings) *Factory {
	return &Factory{cfg: cfg}
}

func (f *Factory) Type() string { return "rocketmq" }

func (f *Factory) options() ([]producer.Option, error) {
	if f.cfg.NameServer == "" {
		return nil, fmt.Errorf("rocketmq: missing name-server: %w", notify.ErrNotConfigured)
	}
	if f.cfg.Producer.Group == "" {
		return nil, fmt.Errorf("rocketmq: missing producer.group: %w", notify.ErrNotConfigured)
	}
	retry := f.cfg.Retry
	if retry <= 0 {
		retry = 2
	}
	opts := []producer.Option{
		producer.WithInstanceName(instanceName()),
		producer.WithNameServer([]string{f.cfg.NameServer}),
		producer.WithGroupName(f.cfg.Producer.Group),
		producer.WithRetry(retry),
	}

	// ACL: when access/secret provided.
	if f.cfg.Producer.AccessKey != "" || f.cfg.Producer.SecretKey != "" {
		opts = append(opts, producer.WithCredentials(primitive.Credentials{
			AccessKey: f.cfg.Producer.AccessKey,
			SecretKey: f.cfg.Producer.SecretKey,
		}))
	}
	return opts, nil
}

func instanceName() string { return "multigame-notify-" + uuid.NewString() }

func (f *Factory) CreateConnection(ctx context.Context) (broker.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts, err := f.options()
	if err != nil {
		return nil, err
	}
	prd, err := rmq.NewProducer(opts...)
	if err != nil {
		return nil, fmt.Errorf("rocketmq: new producer: %w", err)
	}
	if err := prd.Start(); err != nil {
		return nil, fmt.Errorf("rocketmq: start producer: %w", err)
	}
	return &connection{p: prd}, nil
}

type connection struct {
	p    rmq.Producer
	once sync.Once
	err  error
}

func (c *connection) CreateSession(ctx context.Context) (broker.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{p: c.p}, nil
}

func (c *connection) Close() error {
	c.once.Do(func() { c.err = c.p.Shutdown() })
	return c.err
}

type session struct {
	p      rmq.Producer
	mu     sync.Mutex
	closed bool
}

func (s *session) CreatePublisher(topic broker.Topic) (broker.Publisher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("rocketmq: session closed")
	}
	if topic.Name == "" {
		return nil, fmt.Errorf("rocketmq: missing topic: %w", notify.ErrInvalidArgument)
	}
	return &publisher{s: s, topic: topic}, nil
}

func (s *session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

type publisher struct {
	s     *session
	topic broker.Topic
	ttl   time.Duration
}

func (p *publisher) SetTimeToLive(ttl time.Duration) { p.ttl = ttl }

// Send publishes the JSON body with every message property copied to a
// RocketMQ user property.
func (p *publisher) Send(ctx context.Context, msg *broker.Message) error {
	m, err := toMessage(p.topic, msg, p.ttl, time.Now())
	if err != nil {
		return err
	}
	_, err = p.s.p.SendSync(ctx, m)
	return err
}

// RocketMQ has no per-message expiry, so TTL and EXPIRES_AT travel as
// properties and consumers discard stale messages.
func toMessage(topic broker.Topic, msg *broker.Message, ttl time.Duration, now time.Time) (*primitive.Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("rocketmq: nil message: %w", notify.ErrInvalidArgument)
	}
	body, err := msg.BodyJSON()
	if err != nil {
		return nil, fmt.Errorf("rocketmq: encode body: %w", err)
	}
	m := primitive.NewMessage(topic.Name, body)
	if topic.Tag != "" {
		m.WithTag(topic.Tag)
	}
	if msg.Key != "" {
		m.WithKeys([]string{msg.Key})
	}
	for k, v := range msg.StringProperties() {
		m.WithProperty(k, v)
	}
	if ttl > 0 {
		m.WithProperty(broker.PropTTL, strconv.FormatInt(ttl.Milliseconds(), 10))
		m.WithProperty(broker.PropExpiresAt, strconv.FormatInt(now.Add(ttl).UnixMilli(), 10))
	}
	return m, nil
}
