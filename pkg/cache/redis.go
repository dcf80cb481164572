package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis. TTLs map to Redis key expiry.
type RedisCache struct {
	client redis.UniversalClient
	owned  bool
}

// NewRedisCache connects to the Redis server at url
// (redis://[:password@]host:port/db) and checks it with PING.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client, owned: true}, nil
}

// NewRedisCacheFromClient wraps an existing client. Close leaves the client
// open.
func NewRedisCacheFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a value.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. A TTL of 0 stores it without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// ClearPrefix deletes every key starting with prefix and returns how many
// were removed. It scans incrementally, so other clients keep working.
func (c *RedisCache) ClearPrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			removed += int(n)
			if err != nil {
				return removed, err
			}
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// Close closes the client if the cache opened it.
func (c *RedisCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
