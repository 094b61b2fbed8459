// ABOUTME: Pairwise similarity engine feeding the gravity layout
// ABOUTME: Reads stored vectors concurrently, then scores every unordered pair
package similarity

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/harper/orbit/internal/models"
)

// DefaultConcurrency bounds simultaneous vector store reads per request
const DefaultConcurrency = 8

// VectorReader is the read side of a vector store
type VectorReader interface {
	Get(ctx context.Context, id string) (*models.StoredCard, error)
}

// Engine computes similarity pairs from stored card vectors
type Engine struct {
	store       VectorReader
	concurrency int
	logger      *log.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithConcurrency sets the maximum number of in-flight store reads
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger sets the logger used for excluded ids
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine. A nil store is allowed and yields no pairs.
func NewEngine(store VectorReader, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		concurrency: DefaultConcurrency,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pairs returns the cosine similarity of every unordered pair of ids that has
// a stored vector. Ids without a vector, or whose read fails, are left out.
// Output order follows the input order with i < j. Never returns nil.
func (e *Engine) Pairs(ctx context.Context, ids []string) []models.SimilarityPair {
	pairs := []models.SimilarityPair{}
	if len(ids) < 2 || e.store == nil {
		return pairs
	}

	unique := dedupe(ids)
	vectors := make([]models.EmbeddingVector, len(unique))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, id := range unique {
		g.Go(func() error {
			card, err := e.store.Get(ctx, id)
			if err != nil {
				e.logger.Warn("excluding card from gravity", "card_id", id, "err", err)
				return nil
			}
			if card != nil {
				vectors[i] = card.Embedding
			}
			return nil
		})
	}
	// Reads never return errors, so Wait only serves as the barrier
	_ = g.Wait()

	available := make([]string, 0, len(unique))
	found := make([]models.EmbeddingVector, 0, len(unique))
	for i, v := range vectors {
		if v == nil {
			continue
		}
		available = append(available, unique[i])
		found = append(found, v)
	}

	for i := 0; i < len(available); i++ {
		for j := i + 1; j < len(available); j++ {
			pairs = append(pairs, models.SimilarityPair{
				CardA:      available[i],
				CardB:      available[j],
				Similarity: Cosine(found[i], found[j]),
			})
		}
	}

	return pairs
}

// dedupe keeps the first occurrence of each id
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
