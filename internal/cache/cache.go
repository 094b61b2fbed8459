// ABOUTME: Content-addressed memo cache for embeddings, cards and magnet scores
// ABOUTME: Every backend failure degrades to a miss or a no-op write and is only logged
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/orbit/internal/metrics"
)

// Namespace partitions cache entries by operation kind
type Namespace string

const (
	NamespaceCard      Namespace = "card"
	NamespaceMagnet    Namespace = "magnet"
	NamespaceEmbedding Namespace = "embedding"
)

// Namespaces lists every namespace in a stable order
var Namespaces = []Namespace{NamespaceCard, NamespaceMagnet, NamespaceEmbedding}

// TTL returns the default expiry for entries in the namespace
func (n Namespace) TTL() time.Duration {
	switch n {
	case NamespaceCard:
		return 7 * 24 * time.Hour
	case NamespaceMagnet:
		return time.Hour
	case NamespaceEmbedding:
		return 30 * 24 * time.Hour
	default:
		return time.Hour
	}
}

// ErrUnavailable reports that no cache backend is configured
var ErrUnavailable = errors.New("cache backend unavailable")

// ErrNullEntry is reported for entries that hold a JSON null
var ErrNullEntry = errors.New("cache entry is null")

// Backend is a key/value store with per-entry expiry.
// Get reports ok=false for missing and expired keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Stats is a snapshot of cache activity since construction
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Writes int64 `json:"writes"`
	Errors int64 `json:"errors"`
}

// Cache wraps an optional Backend. A nil backend behaves like one that
// always misses, so callers use a single code path either way.
type Cache struct {
	backend Backend
	ttls    map[Namespace]time.Duration
	logger  *log.Logger
	metrics *metrics.Metrics

	hits   atomic.Int64
	misses atomic.Int64
	writes atomic.Int64
	errs   atomic.Int64
}

// Option configures a Cache
type Option func(*Cache)

// WithLogger sets the logger used for degraded operations
func WithLogger(logger *log.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records lookups and writes in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithTTL overrides the expiry for one namespace
func WithTTL(ns Namespace, ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttls[ns] = ttl
		}
	}
}

// New creates a Cache over backend, which may be nil
func New(backend Backend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		ttls:    make(map[Namespace]time.Duration, len(Namespaces)),
		logger:  log.Default(),
	}
	for _, ns := range Namespaces {
		c.ttls[ns] = ns.TTL()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns ErrUnavailable when no backend is configured
func (c *Cache) Check() error {
	if c == nil || c.backend == nil {
		return ErrUnavailable
	}
	return nil
}

// Enabled reports whether a backend is configured
func (c *Cache) Enabled() bool {
	return c.Check() == nil
}

// TTL returns the effective expiry for a namespace
func (c *Cache) TTL(ns Namespace) time.Duration {
	if ttl, ok := c.ttls[ns]; ok {
		return ttl
	}
	return ns.TTL()
}

// Get returns the cached payload for key. Any failure is reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	ns := namespaceOf(key)
	if c.backend == nil {
		c.misses.Add(1)
		c.metrics.CacheLookup(ns, metrics.ResultMiss)
		return nil, false
	}

	value, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.errs.Add(1)
		c.misses.Add(1)
		c.metrics.CacheLookup(ns, metrics.ResultError)
		c.logger.Warn("cache read failed, treating as miss", "key", key, "err", err)
		return nil, false
	}
	if !ok {
		c.misses.Add(1)
		c.metrics.CacheLookup(ns, metrics.ResultMiss)
		return nil, false
	}

	c.hits.Add(1)
	c.metrics.CacheLookup(ns, metrics.ResultHit)
	return value, true
}

// Put stores value under key with the namespace TTL. Failures are logged only.
func (c *Cache) Put(ctx context.Context, ns Namespace, key string, value []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.backend.Set(ctx, key, value, c.TTL(ns)); err != nil {
		c.errs.Add(1)
		c.logger.Warn("cache write failed", "namespace", ns, "key", key, "err", err)
		return
	}
	c.writes.Add(1)
	c.metrics.CacheWrite(string(ns))
}

// Stats returns the current counters
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Writes: c.writes.Load(),
		Errors: c.errs.Load(),
	}
}

// CachedOrCompute returns the cached value for key, or runs compute and
// stores its result. Only compute errors are returned; cache failures and
// undecodable or null entries fall through to compute.
func CachedOrCompute[T any](ctx context.Context, c *Cache, ns Namespace, key string, compute func(context.Context) (T, error)) (T, error) {
	return CachedOrComputeValid(ctx, c, ns, key, nil, compute)
}

// CachedOrComputeValid is CachedOrCompute with a check on decoded entries.
// An entry that valid rejects is discarded and recomputed; a computed value
// it rejects is returned without being cached.
func CachedOrComputeValid[T any](ctx context.Context, c *Cache, ns Namespace, key string, valid func(T) error, compute func(context.Context) (T, error)) (T, error) {
	if c != nil {
		if raw, ok := c.Get(ctx, key); ok {
			cached, err := decodeEntry(raw, valid)
			if err == nil {
				return cached, nil
			}
			c.errs.Add(1)
			c.logger.Warn("discarding unusable cache entry", "key", key, "err", err)
		}
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if valid != nil && valid(value) != nil {
		return value, nil
	}
	if c.Enabled() {
		payload, err := json.Marshal(value)
		if err != nil {
			c.logger.Warn("cache payload not serializable", "namespace", ns, "err", fmt.Errorf("marshal: %w", err))
			return value, nil
		}
		c.Put(ctx, ns, key, payload)
	}

	return value, nil
}

func decodeEntry[T any](raw []byte, valid func(T) error) (T, error) {
	var v T
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return v, ErrNullEntry
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, err
	}
	if valid != nil {
		if err := valid(v); err != nil {
			return v, err
		}
	}
	return v, nil
}
