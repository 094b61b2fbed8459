// ABOUTME: Wires configuration into a running core service for the CLI and MCP server
// ABOUTME: Missing API keys or stores degrade the service instead of failing startup
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/harper/orbit/internal/cache"
	"github.com/harper/orbit/internal/charm"
	"github.com/harper/orbit/internal/config"
	"github.com/harper/orbit/internal/core"
	"github.com/harper/orbit/internal/llm"
	"github.com/harper/orbit/internal/metrics"
	"github.com/harper/orbit/internal/storage"
	"github.com/harper/orbit/internal/storage/sqlite"
)

// ErrNoCacheStore is returned by cache maintenance when no cache backend is open
var ErrNoCacheStore = errors.New("no cache backend configured")

// Purger removes expired cache entries
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// App holds everything built from a Config
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Service *core.Service
	Store   storage.VectorStore
	Cache   *cache.Cache
	Metrics *metrics.Metrics

	backend cache.Backend
	db      *sqlite.DB
	charm   *charm.Client
}

// New opens the configured store, cache and language model and builds the service
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: metrics.New()}

	if err := a.openStore(); err != nil {
		logger.Warn("vector store unavailable, running degraded", "store", cfg.Store, "err", err)
	}

	if cfg.CacheEnabled && a.backend != nil {
		a.Cache = cache.New(a.backend,
			cache.WithLogger(logger),
			cache.WithMetrics(a.Metrics),
			cache.WithTTL(cache.NamespaceCard, cfg.CardTTL),
			cache.WithTTL(cache.NamespaceMagnet, cfg.MagnetTTL),
			cache.WithTTL(cache.NamespaceEmbedding, cfg.EmbeddingTTL),
		)
	}

	// A nil *llm.Client must not become a non-nil Oracle
	var oracle core.Oracle
	client, err := llm.NewClient(cfg)
	if err != nil {
		logger.Warn("language model unavailable, extraction disabled", "provider", cfg.Provider, "err", err)
	} else {
		oracle = client
	}

	a.Service = core.NewService(oracle, a.Store, a.Cache,
		core.WithLogger(logger),
		core.WithSimilarityConcurrency(cfg.SimilarityConcurrency),
		core.WithMetrics(a.Metrics),
	)
	return a, nil
}

// ServeMetrics runs the Prometheus listener until ctx is done. It returns
// immediately when no metrics address is configured.
func (a *App) ServeMetrics(ctx context.Context) error {
	if a.Config.MetricsAddr == "" {
		return nil
	}
	return a.Metrics.Serve(ctx, a.Config.MetricsAddr, a.Logger)
}

func (a *App) openStore() error {
	switch a.Config.Store {
	case config.StoreNone:
		return nil
	case config.StoreCharm:
		client, err := charm.GetClient(&charm.Config{
			Host:     a.Config.CharmHost,
			DBName:   a.Config.CharmDBName,
			AutoSync: a.Config.AutoSync,
		})
		if err != nil {
			return err
		}
		a.charm = client
		a.Store = storage.NewKVVectorStore(client)
		a.backend = storage.NewKVCache(client)
		return nil
	default:
		path := a.Config.DBPath
		if path == "" {
			path = sqlite.DefaultDBPath()
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return err
		}
		a.db = db
		a.Store = sqlite.NewCardStore(db)
		a.backend = sqlite.NewCacheStore(db)
		a.Logger.Debug("opened sqlite store", "path", path)
		return nil
	}
}

// Charm returns the charm client when the charm store is active
func (a *App) Charm() *charm.Client {
	return a.charm
}

// PurgeCache removes expired entries from the cache backend
func (a *App) PurgeCache(ctx context.Context) (int64, error) {
	purger, ok := a.backend.(Purger)
	if !ok {
		return 0, ErrNoCacheStore
	}
	return purger.PurgeExpired(ctx)
}

// CacheEntries counts live cache entries per namespace. Only the SQLite
// backend can count; other backends return ErrNoCacheStore.
func (a *App) CacheEntries(ctx context.Context) (map[string]int, error) {
	counter, ok := a.backend.(interface {
		CountByNamespace(ctx context.Context) (map[string]int, error)
	})
	if !ok {
		return nil, ErrNoCacheStore
	}
	return counter.CountByNamespace(ctx)
}

// Close releases the database handle. The charm client is process-wide and
// is closed by its owner.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	a.db = nil
	return nil
}
