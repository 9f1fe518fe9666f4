package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/apusetone/chat-service/internal/infrastructure/cache/port"
)

const scanBatch = 100

// RedisCache satisfies port.Cache on top of a go-redis client.
type RedisCache struct {
	client *redis.Client
}

// NewRedisClient parses url, selects db when db >= 0 and pings the server.
func NewRedisClient(ctx context.Context, url string, db int) (*redis.Client, error) {
	if url == "" {
		return nil, errors.New("redis: url is empty")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	if db >= 0 {
		opt.DB = db
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return c, nil
}

// NewRedisCache wraps an existing client. The cache owns the client from then on.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

var _ port.Cache = (*RedisCache)(nil)

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	res, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", port.ErrMiss
	}
	if err != nil {
		return "", err
	}
	return res, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return r.client.Del(ctx, keys...).Result()
}

func (r *RedisCache) GetBySuffix(ctx context.Context, suffix string) (string, error) {
	if suffix == "" {
		return "", port.ErrMiss
	}
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, "*"+escapeGlob(suffix), scanBatch).Result()
		if err != nil {
			return "", err
		}
		for _, key := range keys {
			val, err := r.Get(ctx, key)
			if errors.Is(err, port.ErrMiss) {
				// expired between SCAN and GET
				continue
			}
			return val, err
		}
		if next == 0 {
			return "", port.ErrMiss
		}
		cursor = next
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

// escapeGlob quotes the characters SCAN MATCH treats as patterns.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
