package redispubsub

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lzyats/multigame-notify-go/pkg/broker"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

func TestEncode(t *testing.T) {
	msg := broker.NewMessage()
	msg.SetIntProperty("NOTIFICATION_ID", 9)
	msg.SetStringProperty("NOTIFICATION_EVENT", "JOIN")
	msg.SetObject(struct {
		GameID int `json:"game_id"`
	}{9})

	b, err := encode(msg, 120*time.Second, time.UnixMilli(0))
	if err != nil {
		t.Fatal(err)
	}
	var env broker.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatal(err)
	}
	if env.TTLMillis != 120000 || env.ExpiresAt != 120000 {
		t.Errorf("ttl = %d expires = %d", env.TTLMillis, env.ExpiresAt)
	}
	if env.Properties["NOTIFICATION_EVENT"] != "JOIN" {
		t.Errorf("properties = %v", env.Properties)
	}
	if string(env.Body) != `{"game_id":9}` {
		t.Errorf("body = %s", env.Body)
	}
}

func TestChannel(t *testing.T) {
	if got := Channel(broker.Topic{Name: "MultiGame", Tag: "lobby"}); got != "MultiGame:lobby" {
		t.Errorf("Channel() = %q", got)
	}
}

func TestCreateConnectionRequiresHost(t *testing.T) {
	_, err := New(notify.RedisSettings{}).CreateConnection(context.Background())
	if !errors.Is(err, notify.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestCreatePublisherRequiresTopic(t *testing.T) {
	s := &session{}
	if _, err := s.CreatePublisher(broker.Topic{}); !errors.Is(err, notify.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSendPublishesEnvelope(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	sub := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer sub.Close()
	ps := sub.Subscribe(ctx, "MultiGame:game")
	defer ps.Close()
	if _, err := ps.Receive(ctx); err != nil {
		t.Fatal(err)
	}

	f := New(notify.RedisSettings{Host: mr.Host(), Port: port})
	conn, err := f.CreateConnection(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	sess, err := conn.CreateSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()
	pub, err := sess.CreatePublisher(broker.Topic{Name: "MultiGame", Tag: "game"})
	if err != nil {
		t.Fatal(err)
	}
	pub.SetTimeToLive(2 * time.Minute)

	msg := broker.NewMessage()
	msg.SetStringProperty("GAME_EVENT", "END")
	msg.Key = "42"
	if err := pub.Send(ctx, msg); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-ps.Channel():
		var env broker.Envelope
		if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
			t.Fatal(err)
		}
		if env.Properties["GAME_EVENT"] != "END" || env.Key != "42" || env.TTLMillis != 120000 {
			t.Errorf("envelope = %+v", env)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}
