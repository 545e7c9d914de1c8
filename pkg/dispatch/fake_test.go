package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lzyats/multigame-notify-go/pkg/broker"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
	"github.com/lzyats/multigame-notify-go/pkg/registry"
)

type sent struct {
	topic broker.Topic
	ttl   time.Duration
	msg   *broker.Message
}

// fakeBroker records every call made through the broker interfaces.
type fakeBroker struct {
	mu    sync.Mutex
	sent  []sent
	calls []string

	connErr   error
	sessErr   error
	sendErr   error
	sendPanic bool
}

func (b *fakeBroker) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *fakeBroker) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b *fakeBroker) Sent() []sent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]sent, len(b.sent))
	copy(out, b.sent)
	return out
}

func (b *fakeBroker) count(call string) int {
	n := 0
	for _, c := range b.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (b *fakeBroker) CreateConnection(context.Context) (broker.Connection, error) {
	b.record("connect")
	if b.connErr != nil {
		return nil, b.connErr
	}
	return &fakeConn{b: b}, nil
}

type fakeConn struct{ b *fakeBroker }

func (c *fakeConn) CreateSession(context.Context) (broker.Session, error) {
	c.b.record("session")
	if c.b.sessErr != nil {
		return nil, c.b.sessErr
	}
	return &fakeSession{b: c.b}, nil
}

func (c *fakeConn) Close() error {
	c.b.record("close connection")
	return nil
}

type fakeSession struct{ b *fakeBroker }

func (s *fakeSession) CreatePublisher(topic broker.Topic) (broker.Publisher, error) {
	s.b.record("publisher")
	return &fakePublisher{b: s.b, topic: topic}, nil
}

func (s *fakeSession) Close() error {
	s.b.record("close session")
	return nil
}

type fakePublisher struct {
	b     *fakeBroker
	topic broker.Topic
	ttl   time.Duration
}

func (p *fakePublisher) SetTimeToLive(ttl time.Duration) { p.ttl = ttl }

func (p *fakePublisher) Send(_ context.Context, msg *broker.Message) error {
	p.b.record("send")
	if p.b.sendPanic {
		panic("publisher exploded")
	}
	if p.b.sendErr != nil {
		return p.b.sendErr
	}
	p.b.mu.Lock()
	p.b.sent = append(p.b.sent, sent{topic: p.topic, ttl: p.ttl, msg: msg})
	p.b.mu.Unlock()
	return nil
}

func bind(b broker.ConnectionFactory) *registry.Directory {
	dir := registry.NewDirectory()
	dir.BindFactory(notify.DefaultFactoryName, b)
	dir.BindTopic(notify.DefaultTopicName, broker.Topic{Name: "MultiGame"})
	return dir
}

func newTestDispatcher(t *testing.T, b *fakeBroker, level zapcore.Level, opts ...Option) (*Dispatcher, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(level)
	opts = append([]Option{WithLogger(zap.New(core))}, opts...)
	return New(bind(b), opts...), logs
}
