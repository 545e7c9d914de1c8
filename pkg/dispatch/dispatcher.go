// Package dispatch publishes game events to the broker.
//
// Dispatch is fire-and-forget: each call resolves the broker lazily, opens
// its own connection and session, stamps the per-game sequence number and
// sends one message. Failures are logged and swallowed, so callers can not
// observe delivery. Callers that must not block run Dispatch on their own
// goroutine.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lzyats/multigame-notify-go/internal/breaker"
	"github.com/lzyats/multigame-notify-go/internal/metrics"
	"github.com/lzyats/multigame-notify-go/pkg/broker"
	"github.com/lzyats/multigame-notify-go/pkg/event"
	"github.com/lzyats/multigame-notify-go/pkg/model"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
	"github.com/lzyats/multigame-notify-go/pkg/registry"
	"github.com/lzyats/multigame-notify-go/pkg/sequence"
)

const (
	stageResolve = "resolve"
	stagePublish = "publish"
)

type Dispatcher struct {
	reg            registry.Registry
	factoryName    string
	topicName      string
	ttl            time.Duration
	counter        sequence.Counter
	log            *zap.Logger
	brk            *breaker.Breaker
	nextKey        func() (uint64, error)
	summarize      func(model.Game) model.Summary
	evictOnDestroy bool

	mu       sync.Mutex
	resolved bool
	factory  broker.ConnectionFactory
	topic    broker.Topic
}

func New(reg registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		reg:         reg,
		factoryName: notify.DefaultFactoryName,
		topicName:   notify.DefaultTopicName,
		ttl:         notify.DefaultTTL,
		summarize:   model.Summarize,
	}
	for _, o := range opts {
		o(d)
	}
	if d.counter == nil {
		d.counter = sequence.NewMemory()
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.summarize == nil {
		d.summarize = model.Summarize
	}
	return d
}

// resolve looks the factory and topic up once. A failed lookup is not
// cached, so the next dispatch tries again.
func (d *Dispatcher) resolve() (broker.ConnectionFactory, broker.Topic, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.resolved {
		return d.factory, d.topic, nil
	}
	if d.reg == nil {
		return nil, broker.Topic{}, fmt.Errorf("dispatch: no registry: %w", notify.ErrNotConfigured)
	}
	f, err := d.reg.ConnectionFactory(d.factoryName)
	if err != nil {
		return nil, broker.Topic{}, err
	}
	t, err := d.reg.Topic(d.topicName)
	if err != nil {
		return nil, broker.Topic{}, err
	}
	d.factory, d.topic, d.resolved = f, t, true
	return f, t, nil
}

// Dispatch publishes ev for id with an optional payload. It never returns
// an error and never panics; every failure ends as one Error log record.
func (d *Dispatcher) Dispatch(ctx context.Context, id int, ev event.Event, payload any) {
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if r := recover(); r != nil {
			metrics.DispatchFailed.WithLabelValues(stagePublish).Inc()
			d.log.Error("dispatch: panic while sending message",
				zap.Stringer("event", ev),
				zap.Int("id", id),
				zap.Any("payload", payload),
				zap.Any("panic", r),
			)
		}
	}()

	factory, topic, err := d.resolve()
	if err != nil {
		metrics.DispatchFailed.WithLabelValues(stageResolve).Inc()
		d.log.Error("dispatch: unable to resolve broker connection factory and topic",
			zap.String("factory", d.factoryName),
			zap.String("topic", d.topicName),
			zap.Stringer("event", ev),
			zap.Error(err),
		)
		return
	}

	if d.brk != nil && !d.brk.Allow(d.factoryName) {
		metrics.BreakerDrop.Inc()
		d.log.Warn("dispatch: breaker open, message dropped",
			zap.String("factory", d.factoryName),
			zap.Stringer("event", ev),
			zap.Int("id", id),
		)
		return
	}

	start := time.Now()
	seq, err := d.send(ctx, factory, topic, id, ev, payload)
	metrics.DispatchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DispatchFailed.WithLabelValues(stagePublish).Inc()
		if d.brk != nil && d.brk.Failure(d.factoryName) {
			metrics.BreakerOpen.Inc()
			d.log.Warn("dispatch: breaker opened", zap.String("factory", d.factoryName))
		}
		d.log.Error("dispatch: unable to send message",
			zap.Stringer("event", ev),
			zap.Int("id", id),
			zap.Any("payload", payload),
			zap.Error(err),
		)
		return
	}

	if d.brk != nil {
		d.brk.Success(d.factoryName)
	}
	metrics.Dispatched.WithLabelValues(ev.Family().String(), ev.Name()).Inc()
	d.log.Debug("dispatch: message sent",
		zap.Stringer("event", ev),
		zap.Int("id", id),
		zap.Int64("seq", seq),
		zap.Stringer("topic", topic),
	)
}

// send owns one connection and one session for the duration of the call.
// The session is closed before the connection on every return path.
func (d *Dispatcher) send(ctx context.Context, factory broker.ConnectionFactory, topic broker.Topic, id int, ev event.Event, payload any) (int64, error) {
	conn, err := factory.CreateConnection(ctx)
	if err != nil {
		return 0, fmt.Errorf("create connection: %w", err)
	}
	defer d.closeQuietly("connection", conn)

	sess, err := conn.CreateSession(ctx)
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	defer d.closeQuietly("session", sess)

	pub, err := sess.CreatePublisher(topic)
	if err != nil {
		return 0, fmt.Errorf("create publisher: %w", err)
	}
	pub.SetTimeToLive(d.ttl)

	msg := broker.NewMessage()
	if c, ok := event.Classify(ev); ok {
		msg.SetIntProperty(c.IDKey, id)
		msg.SetStringProperty(c.EventKey, ev.Name())
	}

	seq, err := d.counter.Next(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	msg.SetLongProperty(event.PropMessageID, seq)

	if trace := TraceFrom(ctx); trace != "" {
		msg.SetStringProperty(event.PropTraceID, trace)
	}
	if d.nextKey != nil {
		// A missing key only costs subscribers a lookup handle.
		if k, err := d.nextKey(); err == nil {
			msg.Key = strconv.FormatUint(k, 10)
		}
	}
	if hasBody(payload) {
		msg.SetObject(payload)
	}

	if err := pub.Send(ctx, msg); err != nil {
		return seq, fmt.Errorf("send: %w", err)
	}
	return seq, nil
}

// hasBody is false for nil and for nil pointers, maps and slices boxed in
// an interface.
func hasBody(payload any) bool {
	if payload == nil {
		return false
	}
	v := reflect.ValueOf(payload)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return !v.IsNil()
	}
	return true
}

func (d *Dispatcher) closeQuietly(what string, c io.Closer) {
	if err := c.Close(); err != nil {
		d.log.Warn("dispatch: close failed", zap.String("resource", what), zap.Error(err))
	}
}
