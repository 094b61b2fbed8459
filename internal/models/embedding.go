// ABOUTME: Embedding models for card vectors and semantic gravity
// ABOUTME: Defines StoredCard, SimilarityPair and VectorSearchResult structures
package models

import (
	"errors"
	"fmt"
)

// EmbeddingDimension is the fixed length of every card embedding
const EmbeddingDimension = 256

// ErrInvalidDimension is returned when a vector is not EmbeddingDimension long
var ErrInvalidDimension = errors.New("invalid embedding dimension")

// EmbeddingVector is a unit-length (or all-zero) card embedding
type EmbeddingVector []float32

// StoredCard is the durable record addressed by card id.
// The JSON shape {title, category, summary, embedding} is relied on by search consumers.
type StoredCard struct {
	ID        string          `json:"-"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Summary   string          `json:"summary"`
	Embedding EmbeddingVector `json:"embedding"`
}

// ValidateDimension checks the embedding has exactly EmbeddingDimension components
func (c *StoredCard) ValidateDimension() error {
	if len(c.Embedding) != EmbeddingDimension {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, EmbeddingDimension, len(c.Embedding))
	}
	return nil
}

// SimilarityPair is the cosine similarity between two cards, computed per request
type SimilarityPair struct {
	CardA      string  `json:"card_a"`
	CardB      string  `json:"card_b"`
	Similarity float64 `json:"similarity"`
}

// VectorSearchResult represents a nearest-neighbor hit with its similarity score
type VectorSearchResult struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}
