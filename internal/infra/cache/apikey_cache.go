package cache

import (
	"time"

	"forms-service/internal/domain/apikey"

	"github.com/dgraph-io/ristretto"
)

const (
	apiKeyCacheNumCounters = 10_000
	apiKeyCacheBufferItems = 64
	apiKeyEntryCost        = 1
)

// APIKeyCache is a hot in-process cache for API key lookups keyed by key
// hash. Entries are bounded by cost and expire after the configured TTL so
// a revoked key is never honored for longer than one TTL window.
type APIKeyCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewAPIKeyCache(maxEntries int64, ttl time.Duration) (*APIKeyCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: apiKeyCacheNumCounters,
		MaxCost:     maxEntries,
		BufferItems: apiKeyCacheBufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &APIKeyCache{cache: c, ttl: ttl}, nil
}

func (c *APIKeyCache) Get(hash string) (*apikey.APIKey, bool) {
	v, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}

	key, ok := v.(*apikey.APIKey)
	return key, ok
}

func (c *APIKeyCache) Set(hash string, key *apikey.APIKey) {
	c.cache.SetWithTTL(hash, key, apiKeyEntryCost, c.ttl)
}

func (c *APIKeyCache) Invalidate(hash string) {
	c.cache.Del(hash)
}

func (c *APIKeyCache) Close() {
	c.cache.Close()
}
