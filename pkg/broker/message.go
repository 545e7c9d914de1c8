package broker

import (
	"encoding/json"
	"strconv"
	"time"
)

// Reserved property keys set by publishers.
const (
	PropTTL       = "TTL"
	PropExpiresAt = "EXPIRES_AT"
)

// Message carries typed properties and an optional JSON-serializable body.
type Message struct {
	props map[string]any
	keys  []string

	// Key is an optional broker-level lookup key.
	Key  string
	Body any
}

func NewMessage() *Message {
	return &Message{props: make(map[string]any)}
}

func (m *Message) set(key string, v any) {
	if m.props == nil {
		m.props = make(map[string]any)
	}
	if _, ok := m.props[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.props[key] = v
}

func (m *Message) SetIntProperty(key string, v int)       { m.set(key, v) }
func (m *Message) SetLongProperty(key string, v int64)    { m.set(key, v) }
func (m *Message) SetStringProperty(key string, v string) { m.set(key, v) }

// SetObject attaches the body.
func (m *Message) SetObject(body any) { m.Body = body }

func (m *Message) HasProperty(key string) bool {
	_, ok := m.props[key]
	return ok
}

func (m *Message) IntProperty(key string) (int, bool) {
	v, ok := m.props[key].(int)
	return v, ok
}

func (m *Message) LongProperty(key string) (int64, bool) {
	v, ok := m.props[key].(int64)
	return v, ok
}

func (m *Message) StringProperty(key string) (string, bool) {
	v, ok := m.props[key].(string)
	return v, ok
}

// PropertyNames lists keys in the order they were first set.
func (m *Message) PropertyNames() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// StringProperties renders every property as a string, for brokers whose
// headers are untyped.
func (m *Message) StringProperties() map[string]string {
	out := make(map[string]string, len(m.props))
	for k, v := range m.props {
		switch x := v.(type) {
		case string:
			out[k] = x
		case int:
			out[k] = strconv.Itoa(x)
		case int64:
			out[k] = strconv.FormatInt(x, 10)
		}
	}
	return out
}

// BodyJSON encodes the body; a nil body encodes to nil.
func (m *Message) BodyJSON() ([]byte, error) {
	if m.Body == nil {
		return nil, nil
	}
	return json.Marshal(m.Body)
}

// Envelope is the self-describing JSON form used by brokers without native
// headers or expiry.
type Envelope struct {
	Properties map[string]any  `json:"properties"`
	Key        string          `json:"key,omitempty"`
	TTLMillis  int64           `json:"ttl_ms"`
	ExpiresAt  int64           `json:"expires_at"` // unix millis
	Body       json.RawMessage `json:"body,omitempty"`
}

func (m *Message) Envelope(ttl time.Duration, now time.Time) (Envelope, error) {
	body, err := m.BodyJSON()
	if err != nil {
		return Envelope{}, err
	}
	props := make(map[string]any, len(m.props))
	for k, v := range m.props {
		props[k] = v
	}
	return Envelope{
		Properties: props,
		Key:        m.Key,
		TTLMillis:  ttl.Milliseconds(),
		ExpiresAt:  now.Add(ttl).UnixMilli(),
		Body:       body,
	}, nil
}
