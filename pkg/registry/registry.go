// Package registry resolves broker connection factories and topics by
// logical name.
package registry

import (
	"fmt"
	"sync"

	"github.com/lzyats/multigame-notify-go/pkg/broker"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
	"github.com/lzyats/multigame-notify-go/pkg/provider/redispubsub"
	"github.com/lzyats/multigame-notify-go/pkg/provider/rocketmq"
)

type Registry interface {
	ConnectionFactory(name string) (broker.ConnectionFactory, error)
	Topic(name string) (broker.Topic, error)
}

// Directory is an in-memory Registry.
type Directory struct {
	mu        sync.RWMutex
	factories map[string]broker.ConnectionFactory
	topics    map[string]broker.Topic
}

func NewDirectory() *Directory {
	return &Directory{
		factories: make(map[string]broker.ConnectionFactory),
		topics:    make(map[string]broker.Topic),
	}
}

func (d *Directory) BindFactory(name string, f broker.ConnectionFactory) {
	d.mu.Lock()
	d.factories[name] = f
	d.mu.Unlock()
}

func (d *Directory) BindTopic(name string, t broker.Topic) {
	d.mu.Lock()
	d.topics[name] = t
	d.mu.Unlock()
}

func (d *Directory) ConnectionFactory(name string) (broker.ConnectionFactory, error) {
	d.mu.RLock()
	f, ok := d.factories[name]
	d.mu.RUnlock()
	if !ok || f == nil {
		return nil, fmt.Errorf("registry: connection factory %q: %w", name, notify.ErrNotBound)
	}
	return f, nil
}

func (d *Directory) Topic(name string) (broker.Topic, error) {
	d.mu.RLock()
	t, ok := d.topics[name]
	d.mu.RUnlock()
	if !ok {
		return broker.Topic{}, fmt.Errorf("registry: topic %q: %w", name, notify.ErrNotBound)
	}
	return t, nil
}

// FromSettings binds the configured factory name to the broker selected by
// st.Broker.Kind, and every configured topic.
func FromSettings(st notify.Settings) (*Directory, error) {
	st = st.WithDefaults()
	d := NewDirectory()

	switch st.Broker.Kind {
	case notify.BrokerRocketMQ:
		d.BindFactory(st.Broker.Factory, rocketmq.New(st.RocketMQ))
	case notify.BrokerRedis:
		d.BindFactory(st.Broker.Factory, redispubsub.New(st.Redis))
	default:
		return nil, fmt.Errorf("registry: unknown broker kind %q: %w", st.Broker.Kind, notify.ErrInvalidArgument)
	}

	for logical, t := range st.Topics {
		d.BindTopic(logical, broker.Topic{Name: t.Name, Tag: t.Tag})
	}
	return d, nil
}
