package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"forms-service/internal/domain/form"

	"github.com/redis/go-redis/v9"
)

const formCacheKeyPrefix = "form:"

// FormCache is a Redis-backed read-through cache for form metadata. The
// resolver consults it before the database; a miss or any Redis error
// falls back to the database, so the cache is never load-bearing for
// correctness.
type FormCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFormCache(client *redis.Client, ttl time.Duration) *FormCache {
	return &FormCache{client: client, ttl: ttl}
}

// Get returns the cached form, or (nil, false) on a miss or error.
func (c *FormCache) Get(ctx context.Context, id string) (*form.Form, bool) {
	data, err := c.client.Get(ctx, formCacheKeyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}

	f := &form.Form{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, false
	}

	return f, true
}

func (c *FormCache) Set(ctx context.Context, f *form.Form) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, formCacheKeyPrefix+f.ID.String(), data, c.ttl).Err()
}

func (c *FormCache) Invalidate(ctx context.Context, id string) error {
	err := c.client.Del(ctx, formCacheKeyPrefix+id).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
