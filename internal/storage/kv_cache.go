// ABOUTME: Cache backend on Charm KV with expiry stored alongside each payload
// ABOUTME: Entries are JSON envelopes under cache:{key}; expired envelopes read as misses
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/orbit/internal/charm"
)

type cacheEnvelope struct {
	ExpiresAt time.Time `json:"expires_at"`
	Payload   []byte    `json:"payload"`
}

// KVCache implements the cache backend over a KV store
type KVCache struct {
	kv  KV
	now func() time.Time
}

// NewKVCache creates a KVCache. Pass a *charm.Client in production.
func NewKVCache(kv KV) *KVCache {
	return &KVCache{kv: kv, now: time.Now}
}

// Get returns the payload for key unless it is missing or expired
func (c *KVCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.kv.Get(charm.CacheKey(key))
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return nil, false, nil
	}

	var env cacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache envelope: %w", err)
	}
	if !c.now().Before(env.ExpiresAt) {
		return nil, false, nil
	}
	return env.Payload, true, nil
}

// Set stores payload under key for ttl
func (c *KVCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	data, err := json.Marshal(cacheEnvelope{
		ExpiresAt: c.now().Add(ttl).UTC(),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cache envelope: %w", err)
	}
	return c.kv.Set(charm.CacheKey(key), data)
}

// PurgeExpired deletes expired and undecodable entries, returning the count removed
func (c *KVCache) PurgeExpired(ctx context.Context) (int64, error) {
	keys, err := c.kv.ListKeys(charm.CachePrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache keys: %w", err)
	}

	now := c.now()
	var purged int64
	for _, key := range keys {
		data, err := c.kv.Get(key)
		if err != nil || data == nil {
			continue
		}
		var env cacheEnvelope
		if err := json.Unmarshal(data, &env); err == nil && now.Before(env.ExpiresAt) {
			continue
		}
		if err := c.kv.Delete(key); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
