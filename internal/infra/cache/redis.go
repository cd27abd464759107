package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/lead-console/internal/storage"
)

const DefaultKeyPrefix = "lead-console:"

// RedisBackend implements storage.Backend on top of a Redis client.
type RedisBackend struct {
	Redis  *redis.Client
	Prefix string
}

// NewRedisBackend parses redisURL and checks the connection.
func NewRedisBackend(redisURL string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	return &RedisBackend{Redis: client, Prefix: DefaultKeyPrefix}, nil
}

func (r *RedisBackend) key(k string) string {
	return r.Prefix + k
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	v, err := r.Redis.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotFound
	}
	return v, err
}

// Set stores the value without expiration.
func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	return r.Redis.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisBackend) Remove(ctx context.Context, key string) error {
	return r.Redis.Del(ctx, r.key(key)).Err()
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.Redis.Ping(ctx).Err()
}

func (r *RedisBackend) Close() error {
	return r.Redis.Close()
}
