// ABOUTME: Vector store contract shared by the SQLite and Charm KV backends
// ABOUTME: Defines the KV surface the charm-backed stores are written against
package storage

import (
	"context"
	"errors"

	"github.com/harper/orbit/internal/models"
)

// ErrStoreUnavailable reports that no vector store could be opened
var ErrStoreUnavailable = errors.New("vector store unavailable")

// DefaultSearchLimit is used when SearchNearest is called with k <= 0
const DefaultSearchLimit = 10

// VectorStore is the system of record for card embeddings.
// Get returns nil, nil when the id has never been stored.
type VectorStore interface {
	Put(ctx context.Context, card models.StoredCard) error
	Get(ctx context.Context, id string) (*models.StoredCard, error)
	SearchNearest(ctx context.Context, query []float32, k int) ([]models.VectorSearchResult, error)
	Delete(ctx context.Context, id string) error
}

// KV is the subset of the charm client used by the KV-backed stores.
// Get returns nil, nil for a missing key.
type KV interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
	ListKeys(prefix string) ([]string, error)
}

// Pinger is implemented by stores that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter is implemented by stores that can count their cards
type Counter interface {
	Count(ctx context.Context) (int, error)
}
