package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// AdviceCache stores generated advice payloads keyed by snapshot fingerprint.
type AdviceCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type RedisAdviceCache struct {
	client *redis.Client
	prefix string
}

// NewRedisAdviceCache returns nil when addr is empty so callers can skip caching.
func NewRedisAdviceCache(addr, password string, db int) *RedisAdviceCache {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	return &RedisAdviceCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		prefix: "mizan:advice:",
	}
}

func (c *RedisAdviceCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisAdviceCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *RedisAdviceCache) Close() error {
	return c.client.Close()
}

// AdviceKey identifies advice for one user, day and language. The balance
// figures are part of the key so any ledger change produces a new entry.
func AdviceKey(userID uint, date, lang string, goodCount, badCount, goodWeight, badWeight int) string {
	return fmt.Sprintf("%d|%s|%s|%d|%d|%d|%d", userID, date, strings.ToLower(lang), goodCount, badCount, goodWeight, badWeight)
}
