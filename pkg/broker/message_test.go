package broker

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestMessageProperties(t *testing.T) {
	m := NewMessage()
	m.SetIntProperty("GAME_ID", 7)
	m.SetStringProperty("GAME_EVENT", "CREATE")
	m.SetLongProperty("MESSAGE_ID", 3)
	m.SetIntProperty("GAME_ID", 8)

	if got := m.PropertyNames(); !reflect.DeepEqual(got, []string{"GAME_ID", "GAME_EVENT", "MESSAGE_ID"}) {
		t.Errorf("PropertyNames() = %v", got)
	}
	if v, ok := m.IntProperty("GAME_ID"); !ok || v != 8 {
		t.Errorf("IntProperty = %v, %v", v, ok)
	}
	if _, ok := m.LongProperty("GAME_ID"); ok {
		t.Error("int property must not read back as long")
	}
	if v, ok := m.LongProperty("MESSAGE_ID"); !ok || v != 3 {
		t.Errorf("LongProperty = %v, %v", v, ok)
	}
	if m.HasProperty("NOTIFICATION_ID") {
		t.Error("unexpected NOTIFICATION_ID")
	}

	want := map[string]string{"GAME_ID": "8", "GAME_EVENT": "CREATE", "MESSAGE_ID": "3"}
	if got := m.StringProperties(); !reflect.DeepEqual(got, want) {
		t.Errorf("StringProperties() = %v", got)
	}
}

func TestMessageEnvelope(t *testing.T) {
	m := NewMessage()
	m.SetLongProperty("MESSAGE_ID", 1)
	m.Key = "k1"
	m.SetObject(map[string]int{"id": 7})

	now := time.UnixMilli(1_000_000)
	env, err := m.Envelope(2*time.Minute, now)
	if err != nil {
		t.Fatal(err)
	}
	if env.TTLMillis != 120000 {
		t.Errorf("TTLMillis = %d", env.TTLMillis)
	}
	if env.ExpiresAt != 1_000_000+120000 {
		t.Errorf("ExpiresAt = %d", env.ExpiresAt)
	}
	if string(env.Body) != `{"id":7}` {
		t.Errorf("Body = %s", env.Body)
	}

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	var back Envelope
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.Key != "k1" || back.Properties["MESSAGE_ID"] != float64(1) {
		t.Errorf("decoded envelope = %+v", back)
	}
}

func TestMessageEnvelopeWithoutBody(t *testing.T) {
	env, err := NewMessage().Envelope(time.Second, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if env.Body != nil {
		t.Errorf("Body = %s, want nil", env.Body)
	}
}

func TestTopicString(t *testing.T) {
	if got := (Topic{Name: "MultiGame"}).String(); got != "MultiGame" {
		t.Errorf("String() = %q", got)
	}
	if got := (Topic{Name: "MultiGame", Tag: "lobby"}).String(); got != "MultiGame:lobby" {
		t.Errorf("String() = %q", got)
	}
}
