package membership

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisCache shares membership lists across instances so that revocation
// invalidation issued on one node is visible everywhere. Cache failures
// degrade to directory reads; they never fail the request.
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed membership cache.
// Keys are "membership:user:<uuid>" by default; prefix overrides the
// "membership" part for multi-app Redis instances.
func NewRedisCache(client *redis.Client, prefix string) Cache {
	if prefix == "" {
		prefix = "membership"
	}
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) key(userID uuid.UUID) string {
	return c.prefix + ":user:" + userID.String()
}

func (c *redisCache) Get(ctx context.Context, userID uuid.UUID) ([]Membership, bool) {
	payload, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return nil, false
	}

	var memberships []Membership
	if err := json.Unmarshal(payload, &memberships); err != nil {
		// Corrupt entry: drop it and fall through to the directory.
		c.client.Del(ctx, c.key(userID))
		return nil, false
	}
	return memberships, true
}

func (c *redisCache) Set(ctx context.Context, userID uuid.UUID, memberships []Membership, ttl time.Duration) {
	payload, err := json.Marshal(memberships)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(userID), payload, ttl)
}

func (c *redisCache) Delete(ctx context.Context, userID uuid.UUID) {
	c.client.Del(ctx, c.key(userID))
}

func (c *redisCache) Close() error {
	return nil // the redis client is owned by the caller
}
