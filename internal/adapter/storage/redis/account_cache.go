package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// AccountCache implements ports.AccountCache using Redis. Entries are
// serialized account snapshots keyed by account name; the transfer engine
// invalidates both parties after every commit, so a stale entry can live at
// most one TTL after a transfer the invalidation failed to deliver.
type AccountCache struct {
	client *goredis.Client
	prefix string
}

// NewAccountCache creates a new Redis-backed account cache.
func NewAccountCache(client *goredis.Client) *AccountCache {
	return &AccountCache{
		client: client,
		prefix: "account:",
	}
}

// Get retrieves a cached account snapshot by name.
// Returns nil, nil if the key does not exist.
func (c *AccountCache) Get(ctx context.Context, name string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+name).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis account get: %w", err)
	}
	return val, nil
}

// Set stores an account snapshot with TTL.
func (c *AccountCache) Set(ctx context.Context, name string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+name, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis account set: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshots for the given account names.
func (c *AccountCache) Invalidate(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = c.prefix + name
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis account invalidate: %w", err)
	}
	return nil
}
