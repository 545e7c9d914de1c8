package notify

import (
	"strings"
	"time"
)

const (
	DefaultFactoryName = "MultiGameConnectionFactory"
	DefaultTopicName   = "MultiGame"
	DefaultTTL         = 120000 * time.Millisecond

	BrokerRocketMQ = "rocketmq"
	BrokerRedis    = "redis"

	SequenceMemory = "memory"
	SequenceRedis  = "redis"
	SequenceMySQL  = "mysql"
)

type Settings struct {
	Broker   BrokerSettings           `yaml:"broker" json:"broker"`
	RocketMQ RocketMQSettings         `yaml:"rocketmq" json:"rocketmq"`
	Redis    RedisSettings            `yaml:"redis" json:"redis"`
	Topics   map[string]TopicSettings `yaml:"topics" json:"topics"`
	Sequence SequenceSettings         `yaml:"sequence" json:"sequence"`
	Breaker  BreakerSettings          `yaml:"breaker" json:"breaker"`
}

// BrokerSettings names the connection factory and topic the dispatcher
// resolves through the registry.
type BrokerSettings struct {
	Kind    string        `yaml:"kind" json:"kind" env:"MULTIGAME_BROKER_KIND"`
	Factory string        `yaml:"factory" json:"factory" env:"MULTIGAME_BROKER_FACTORY"`
	Topic   string        `yaml:"topic" json:"topic" env:"MULTIGAME_BROKER_TOPIC"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

type RocketMQSettings struct {
	Enabled    string           `yaml:"enabled" json:"enabled"`
	NameServer string           `yaml:"name-server" json:"nameServer" env:"MULTIGAME_ROCKETMQ_NAMESERVER"`
	Producer   RocketMQProducer `yaml:"producer" json:"producer"`
	Retry      int              `yaml:"retry" json:"retry"`
}

type RocketMQProducer struct {
	AccessKey string `yaml:"access-key" json:"accessKey" env:"MULTIGAME_ROCKETMQ_ACCESS_KEY"`
	SecretKey string `yaml:"secret-key" json:"secretKey" env:"MULTIGAME_ROCKETMQ_SECRET_KEY"`
	Group     string `yaml:"group" json:"group"`
}

type RedisSettings struct {
	Enabled   string        `yaml:"enabled" json:"enabled"`
	Host      string        `yaml:"host" json:"host" env:"MULTIGAME_REDIS_HOST"`
	Port      int           `yaml:"port" json:"port" env:"MULTIGAME_REDIS_PORT"`
	Database  int           `yaml:"database" json:"database"`
	Password  string        `yaml:"password" json:"password" env:"MULTIGAME_REDIS_PASSWORD"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	QueueKey  string        `yaml:"queue-key" json:"queueKey"`
	KeyPrefix string        `yaml:"key-prefix" json:"keyPrefix"`
	Pool      RedisPool     `yaml:"pool" json:"pool"`
}

// RedisPool sizes the go-redis connection pool of the queue and counter
// store. Zero values keep the go-redis defaults.
type RedisPool struct {
	Size    int           `yaml:"size" json:"size"`
	MinIdle int           `yaml:"min-idle" json:"minIdle"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// TopicSettings maps a logical topic name to the physical broker topic.
type TopicSettings struct {
	Name string `yaml:"name" json:"name"`
	Tag  string `yaml:"tag" json:"tag"`
}

type SequenceSettings struct {
	Backend        string `yaml:"backend" json:"backend" env:"MULTIGAME_SEQUENCE_BACKEND"`
	EvictOnDestroy string `yaml:"evict-on-destroy" json:"evictOnDestroy"`
}

type BreakerSettings struct {
	Enabled   string        `yaml:"enabled" json:"enabled"`
	Threshold int           `yaml:"threshold" json:"threshold"`
	Window    time.Duration `yaml:"window" json:"window"`
	OpenFor   time.Duration `yaml:"open-for" json:"openFor"`
}

func (s Settings) WithDefaults() Settings {
	o := s
	o.RocketMQ.Enabled = normalizeYN(o.RocketMQ.Enabled)
	o.Redis.Enabled = normalizeYN(o.Redis.Enabled)
	o.Breaker.Enabled = normalizeYN(o.Breaker.Enabled)
	if strings.TrimSpace(o.Sequence.EvictOnDestroy) == "" {
		o.Sequence.EvictOnDestroy = "Y"
	}
	o.Sequence.EvictOnDestroy = normalizeYN(o.Sequence.EvictOnDestroy)

	o.Broker.Kind = strings.ToLower(strings.TrimSpace(o.Broker.Kind))
	if o.Broker.Kind == "" {
		o.Broker.Kind = BrokerRocketMQ
	}
	if o.Broker.Factory == "" {
		o.Broker.Factory = DefaultFactoryName
	}
	if o.Broker.Topic == "" {
		o.Broker.Topic = DefaultTopicName
	}
	if o.Broker.TTL <= 0 {
		o.Broker.TTL = DefaultTTL
	}

	if o.RocketMQ.Producer.Group == "" {
		o.RocketMQ.Producer.Group = "multigame-notify"
	}
	if o.RocketMQ.Retry <= 0 {
		o.RocketMQ.Retry = 2
	}

	if o.Redis.Port == 0 {
		o.Redis.Port = 6379
	}
	if o.Redis.Timeout == 0 {
		o.Redis.Timeout = 5 * time.Second
	}
	if o.Redis.QueueKey == "" {
		o.Redis.QueueKey = "multigame:occurrences"
	}
	if o.Redis.KeyPrefix == "" {
		o.Redis.KeyPrefix = "multigame"
	}

	if len(o.Topics) == 0 {
		o.Topics = map[string]TopicSettings{o.Broker.Topic: {Name: o.Broker.Topic}}
	} else {
		topics := make(map[string]TopicSettings, len(o.Topics))
		for logical, t := range o.Topics {
			if t.Name == "" {
				t.Name = logical
			}
			topics[logical] = t
		}
		o.Topics = topics
	}

	o.Sequence.Backend = strings.ToLower(strings.TrimSpace(o.Sequence.Backend))
	if o.Sequence.Backend == "" {
		o.Sequence.Backend = SequenceMemory
	}

	if o.Breaker.Threshold <= 0 {
		o.Breaker.Threshold = 5
	}
	if o.Breaker.Window == 0 {
		o.Breaker.Window = 10 * time.Second
	}
	if o.Breaker.OpenFor == 0 {
		o.Breaker.OpenFor = 5 * time.Second
	}
	return o
}

// Enabled reports whether a Y/N flag is on after normalization.
func Enabled(v string) bool { return normalizeYN(v) == "Y" }

func normalizeYN(v string) string {
	v = strings.TrimSpace(strings.ToUpper(v))
	switch v {
	case "Y", "YES", "TRUE", "1":
		return "Y"
	default:
		return "N"
	}
}
