package dispatch

import (
	"time"

	"go.uber.org/zap"

	"github.com/lzyats/multigame-notify-go/internal/breaker"
	"github.com/lzyats/multigame-notify-go/pkg/model"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
	"github.com/lzyats/multigame-notify-go/pkg/sequence"
)

type Option func(*Dispatcher)

func WithCounter(c sequence.Counter) Option {
	return func(d *Dispatcher) { d.counter = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

func WithTTL(ttl time.Duration) Option {
	return func(d *Dispatcher) { d.ttl = ttl }
}

func WithFactoryName(name string) Option {
	return func(d *Dispatcher) { d.factoryName = name }
}

func WithTopicName(name string) Option {
	return func(d *Dispatcher) { d.topicName = name }
}

// WithBreaker drops messages without touching the broker while the breaker
// for the factory name is open.
func WithBreaker(b *breaker.Breaker) Option {
	return func(d *Dispatcher) { d.brk = b }
}

// WithKeyGenerator sets the source of broker message keys, e.g.
// (*sonyflake.Sonyflake).NextID.
func WithKeyGenerator(next func() (uint64, error)) Option {
	return func(d *Dispatcher) { d.nextKey = next }
}

func WithSummarizer(fn func(model.Game) model.Summary) Option {
	return func(d *Dispatcher) { d.summarize = fn }
}

// WithEvictOnDestroy forgets a game's counter once its DESTROY messages
// are dispatched.
func WithEvictOnDestroy(on bool) Option {
	return func(d *Dispatcher) { d.evictOnDestroy = on }
}

// WithSettings applies the broker, sequence and breaker parts of st.
func WithSettings(st notify.Settings) Option {
	st = st.WithDefaults()
	return func(d *Dispatcher) {
		d.factoryName = st.Broker.Factory
		d.topicName = st.Broker.Topic
		d.ttl = st.Broker.TTL
		d.evictOnDestroy = notify.Enabled(st.Sequence.EvictOnDestroy)
		if notify.Enabled(st.Breaker.Enabled) {
			d.brk = breaker.New(breaker.Options{
				Threshold: st.Breaker.Threshold,
				Window:    st.Breaker.Window,
				OpenFor:   st.Breaker.OpenFor,
			})
		}
	}
}
