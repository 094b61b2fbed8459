// ABOUTME: Card vector storage operations for SQLite
// ABOUTME: Stores card embeddings as float32 BLOBs and serves cosine nearest-neighbor search
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/harper/orbit/internal/models"
	"github.com/harper/orbit/internal/similarity"
	"github.com/harper/orbit/internal/storage"
)

// CardStore persists cards and their embeddings
type CardStore struct {
	db *DB
}

// NewCardStore creates a new CardStore
func NewCardStore(db *DB) *CardStore {
	return &CardStore{db: db}
}

// Put upserts a card and its embedding (validates 256 dimension)
func (s *CardStore) Put(ctx context.Context, card models.StoredCard) error {
	if card.ID == "" {
		return fmt.Errorf("card id is required")
	}
	if err := card.ValidateDimension(); err != nil {
		return err
	}

	now := time.Now()
	_, err := s.db.Exec(ctx, `
		INSERT INTO cards (id, title, category, summary, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			summary = excluded.summary,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, card.ID, card.Title, card.Category, card.Summary, vectorToBlob(card.Embedding), now, now)
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", card.ID, err)
	}
	return nil
}

// Get retrieves a card by id, returning nil when it has never been stored
func (s *CardStore) Get(ctx context.Context, id string) (*models.StoredCard, error) {
	var (
		card models.StoredCard
		blob []byte
	)

	err := s.db.QueryRow(ctx, `
		SELECT id, title, category, summary, embedding
		FROM cards
		WHERE id = ?
	`, id).Scan(&card.ID, &card.Title, &card.Category, &card.Summary, &blob)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	card.Embedding = blobToVector(blob)
	return &card, nil
}

// SearchNearest performs cosine similarity search over all stored cards
func (s *CardStore) SearchNearest(ctx context.Context, query []float32, k int) ([]models.VectorSearchResult, error) {
	if k <= 0 {
		k = storage.DefaultSearchLimit
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, title, category, embedding
		FROM cards
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.VectorSearchResult

	for rows.Next() {
		var (
			result models.VectorSearchResult
			blob   []byte
		)

		if err := rows.Scan(&result.ID, &result.Title, &result.Category, &blob); err != nil {
			return nil, err
		}

		result.Score = similarity.Cosine(query, blobToVector(blob))
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort by similarity descending, id breaks ties so output is stable
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// Delete removes a card by id
func (s *CardStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, "DELETE FROM cards WHERE id = ?", id)
	return err
}

// Ping checks the underlying database is reachable
func (s *CardStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Count returns the number of stored cards
func (s *CardStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM cards").Scan(&n)
	return n, err
}

// vectorToBlob converts a float32 slice to a little-endian binary blob
func vectorToBlob(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to a float32 slice
func blobToVector(blob []byte) models.EmbeddingVector {
	count := len(blob) / 4
	vector := make(models.EmbeddingVector, count)
	for i := 0; i < count; i++ {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}
