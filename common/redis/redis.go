package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/config"
	"github.com/redis/go-redis/v9"
)

// Nil is returned by Get when the key does not exist.
const Nil = redis.Nil

// RedisClient stores work states and cached robots.txt bodies. Every key is
// namespaced with the configured prefix; callers only see unprefixed keys.
type RedisClient struct {
	client *redis.Client
	prefix string
}

func NewClient(ctx context.Context, cfg config.Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Redis.Addr(),
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		ClientName: common.AppName,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr(), err)
	}

	return &RedisClient{client: client, prefix: cfg.Redis.KeyPrefix}, nil
}

func (c *RedisClient) key(k string) string {
	return c.prefix + k
}

func (c *RedisClient) Close() error {
	return c.client.Close()
}

// Ping checks the connection, used by the health endpoint
func (c *RedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, expiration).Err()
}

func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, c.key(key)).Result()
}

func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// SetNX sets key only if it does not exist yet.
func (c *RedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return c.client.SetNX(ctx, c.key(key), value, expiration).Result()
}

// ScanKeys lists the keys matching pattern with SCAN, without the namespace.
func (c *RedisClient) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, c.key(pattern), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), c.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
