// Package cache — кэш сырых ответов Reddit API в Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCache — минимальный контракт кэша ответов API.
type ResponseCache interface {
	// Get возвращает тело ответа и признак его наличия в кэше.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет тело ответа с TTL.
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	// Invalidate удаляет ключ.
	Invalidate(ctx context.Context, key string) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// DefaultPrefix — префикс ключей, если он не задан.
const DefaultPrefix = "jraw:api:"

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение. Если prefix пустой — используется DefaultPrefix.
func NewRedisCache(ctx context.Context, redisURL, prefix string) (ResponseCache, error) {
	const op = "cache/NewRedisCache"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return New(rdb, prefix), nil
}

// New оборачивает готовый клиент Redis.
func New(rdb *redis.Client, prefix string) ResponseCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &redisCache{rdb: rdb, prefix: prefix}
}

func (c *redisCache) key(k string) string { return c.prefix + k }

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const op = "cache/Get"

	body, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return body, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	const op = "cache/Set"

	if ttl <= 0 {
		return nil
	}

	if err := c.rdb.Set(ctx, c.key(key), body, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, key string) error {
	const op = "cache/Invalidate"

	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *redisCache) Close() error { return c.rdb.Close() }
