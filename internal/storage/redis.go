package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisTimeout = 5 * time.Second

// RedisStore keeps the session in Redis under inkspire:<profile>:<key>,
// so several terminals or a kiosk front end can share one login
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Storage = (*RedisStore)(nil)

func NewRedisStore(ctx context.Context, url, profile string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	opt.PoolSize = 4
	opt.MinIdleConns = 1
	opt.DialTimeout = redisTimeout
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	if profile == "" {
		profile = "default"
	}
	logger.Debug("Connected to redis storage", zap.String("addr", opt.Addr), zap.String("profile", profile))

	return &RedisStore{client: client, prefix: "inkspire:" + profile + ":"}, nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		observe("redis", "get", nil)
		return "", false, nil
	}
	observe("redis", "get", err)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	err := s.client.Set(ctx, s.key(key), value, 0).Err()
	observe("redis", "set", err)
	return err
}

func (s *RedisStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	err := s.client.Del(ctx, full...).Err()
	observe("redis", "remove", err)
	return err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
