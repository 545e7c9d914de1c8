// Package broker is the publish side of a topic-based message broker.
//
// A ConnectionFactory hands out connections; each connection opens sessions,
// and a session creates publishers bound to one topic. Callers close the
// session before the connection.
package broker

import (
	"context"
	"time"
)

type ConnectionFactory interface {
	CreateConnection(ctx context.Context) (Connection, error)
}

type Connection interface {
	CreateSession(ctx context.Context) (Session, error)
	Close() error
}

type Session interface {
	CreatePublisher(topic Topic) (Publisher, error)
	Close() error
}

type Publisher interface {
	// SetTimeToLive bounds how long the broker keeps messages sent afterwards.
	SetTimeToLive(ttl time.Duration)
	Send(ctx context.Context, msg *Message) error
}

// Topic is a resolved publish/subscribe channel.
type Topic struct {
	Name string
	Tag  string
}

func (t Topic) String() string {
	if t.Tag == "" {
		return t.Name
	}
	return t.Name + ":" + t.Tag
}
