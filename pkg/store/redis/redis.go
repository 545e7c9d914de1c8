package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

type Store struct {
	cfg notify.RedisSettings
	cli *redis.Client
}

func New(cfg notify.RedisSettings) (*Store, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("redis: missing host: %w", notify.ErrNotConfigured)
	}
	if cfg.Port == 0 {
		cfg.Port = 6379
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "multigame"
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	opts := &redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.Database,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	}
	if cfg.Pool.Size > 0 {
		opts.PoolSize = cfg.Pool.Size
	}
	if cfg.Pool.MinIdle > 0 {
		opts.MinIdleConns = cfg.Pool.MinIdle
	}
	if cfg.Pool.Timeout > 0 {
		opts.PoolTimeout = cfg.Pool.Timeout
	}

	cli := redis.NewClient(opts)
	return &Store{cfg: cfg, cli: cli}, nil
}

func (s *Store) Close() error { return s.cli.Close() }

/*
Keys:
  - {prefix}:seq:{game_id}   per-game message sequence (INCR)
  - queue key (config)       LIST of JSON occurrences, LPUSH in / BRPOP out
*/
func (s *Store) seqKey(gameID int) string {
	return fmt.Sprintf("%s:seq:%d", s.cfg.KeyPrefix, gameID)
}

// Next implements sequence.Counter with INCR, which starts a missing key at 1.
func (s *Store) Next(ctx context.Context, gameID int) (int64, error) {
	return s.cli.Incr(ctx, s.seqKey(gameID)).Result()
}

func (s *Store) Forget(ctx context.Context, gameID int) error {
	return s.cli.Del(ctx, s.seqKey(gameID)).Err()
}

// Push appends a raw payload to a LIST key for Pop to consume.
func (s *Store) Push(ctx context.Context, key, payload string) error {
	if key == "" {
		key = s.cfg.QueueKey
	}
	if key == "" || payload == "" {
		return notify.ErrInvalidArgument
	}
	return s.cli.LPush(ctx, key, payload).Err()
}

// Pop blocks for up to block to pop a single raw payload from a LIST key.
// It uses BRPOP so that multiple workers can share the same queue.
func (s *Store) Pop(ctx context.Context, key string, block time.Duration) (string, error) {
	if key == "" {
		key = s.cfg.QueueKey
	}
	if key == "" {
		return "", notify.ErrInvalidArgument
	}
	if block <= 0 {
		block = 5 * time.Second
	}

	res, err := s.cli.BRPop(ctx, block, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	// BRPOP returns [key, value]
	if len(res) != 2 {
		return "", nil
	}
	return res[1], nil
}
