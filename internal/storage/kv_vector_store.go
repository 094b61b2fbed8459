// ABOUTME: Vector storage with Charm KV backend and cosine similarity search
// ABOUTME: Stores card documents {title, category, summary, embedding} under card:{id}
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/harper/orbit/internal/charm"
	"github.com/harper/orbit/internal/models"
	"github.com/harper/orbit/internal/similarity"
)

// KVVectorStore manages card vectors and similarity search over a KV store
type KVVectorStore struct {
	kv KV
}

// NewKVVectorStore creates a KVVectorStore. Pass a *charm.Client in production.
func NewKVVectorStore(kv KV) *KVVectorStore {
	return &KVVectorStore{kv: kv}
}

// Put saves a card document, replacing any previous one with the same id
func (s *KVVectorStore) Put(ctx context.Context, card models.StoredCard) error {
	if card.ID == "" {
		return fmt.Errorf("card id is required")
	}
	if err := card.ValidateDimension(); err != nil {
		return err
	}

	data, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal card: %w", err)
	}
	return s.kv.Set(charm.CardKey(card.ID), data)
}

// Get loads a card document. Returns nil, nil when absent.
func (s *KVVectorStore) Get(ctx context.Context, id string) (*models.StoredCard, error) {
	data, err := s.kv.Get(charm.CardKey(id))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var card models.StoredCard
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("failed to decode card %s: %w", id, err)
	}
	card.ID = id
	return &card, nil
}

// Delete removes a card document
func (s *KVVectorStore) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(charm.CardKey(id))
}

// Ping checks the KV store answers a key listing
func (s *KVVectorStore) Ping(ctx context.Context) error {
	_, err := s.kv.ListKeys(charm.CardPrefix)
	return err
}

// Count returns the number of stored cards
func (s *KVVectorStore) Count(ctx context.Context) (int, error) {
	keys, err := s.kv.ListKeys(charm.CardPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list card keys: %w", err)
	}
	return len(keys), nil
}

// SearchNearest performs cosine similarity search across all stored cards
func (s *KVVectorStore) SearchNearest(ctx context.Context, query []float32, k int) ([]models.VectorSearchResult, error) {
	if k <= 0 {
		k = DefaultSearchLimit
	}

	keys, err := s.kv.ListKeys(charm.CardPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list card keys: %w", err)
	}

	allResults := make([]models.VectorSearchResult, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := s.Get(ctx, key[len(charm.CardPrefix):])
		if err != nil || card == nil {
			continue
		}

		allResults = append(allResults, models.VectorSearchResult{
			ID:       card.ID,
			Title:    card.Title,
			Category: card.Category,
			Score:    similarity.Cosine(query, card.Embedding),
		})
	}

	// Sort by score (descending), id breaks ties
	sort.Slice(allResults, func(i, j int) bool {
		if allResults[i].Score != allResults[j].Score {
			return allResults[i].Score > allResults[j].Score
		}
		return allResults[i].ID < allResults[j].ID
	})

	if len(allResults) > k {
		allResults = allResults[:k]
	}

	return allResults, nil
}
