// ABOUTME: Orbit core service: embedding, gravity, search, card generation and magnets
// ABOUTME: Only extraction errors surface; cache and store failures reduce functionality
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/orbit/internal/cache"
	"github.com/harper/orbit/internal/encoder"
	"github.com/harper/orbit/internal/llm"
	"github.com/harper/orbit/internal/metrics"
	"github.com/harper/orbit/internal/models"
	"github.com/harper/orbit/internal/similarity"
	"github.com/harper/orbit/internal/storage"
)

// TitleRunes is how much of the text becomes the title of a card embedded
// without one
const TitleRunes = 50

// ErrNoOracle is wrapped in an ExtractionError when no LLM is configured
var ErrNoOracle = errors.New("no language model configured")

var errNoCard = errors.New("no card returned")

// Oracle is everything the service asks of the language model
type Oracle interface {
	llm.FeatureExtractor
	llm.CardGenerator
	llm.MagnetEvaluator
}

// Service is the produced interface of the semantic core
type Service struct {
	oracle Oracle
	store  storage.VectorStore
	cache  *cache.Cache
	engine *similarity.Engine
	logger *log.Logger
	newID  func() string

	metrics     *metrics.Metrics
	concurrency int
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSimilarityConcurrency bounds concurrent store reads during gravity
func WithSimilarityConcurrency(n int) Option {
	return func(s *Service) {
		s.concurrency = n
	}
}

// WithMetrics records oracle calls, gravity sizes and store failures in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithIDGenerator replaces the card id generator
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService wires the core. oracle, store and c may each be nil; a nil
// store disables gravity and search, a nil cache always computes.
func NewService(oracle Oracle, store storage.VectorStore, c *cache.Cache, opts ...Option) *Service {
	s := &Service{
		oracle:      oracle,
		store:       store,
		cache:       c,
		logger:      log.Default(),
		newID:       NewCardID,
		concurrency: similarity.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}

	var reader similarity.VectorReader
	if store != nil {
		reader = store
	}
	s.engine = similarity.NewEngine(reader,
		similarity.WithConcurrency(s.concurrency),
		similarity.WithLogger(s.logger))
	return s
}

// NewCardID returns a fresh 8-character card id
func NewCardID() string {
	return uuid.New().String()[:8]
}

// Embed returns the vector for text, extracting features only on a cache miss
func (s *Service) Embed(ctx context.Context, text string) (models.EmbeddingVector, error) {
	return cache.CachedOrComputeValid(ctx, s.cache, cache.NamespaceEmbedding, cache.EmbeddingKey(text), validVector,
		func(ctx context.Context) (models.EmbeddingVector, error) {
			if s.oracle == nil {
				return nil, &llm.ExtractionError{Op: "features", Err: ErrNoOracle}
			}
			start := time.Now()
			features, err := s.oracle.ExtractFeatures(ctx, text)
			s.metrics.ObserveOracle("features", start, err)
			if err != nil {
				return nil, err
			}
			return encoder.Encode(features, text), nil
		})
}

// EmbedAndStore embeds text and writes the card to the vector store. The
// vector is returned even when the store write fails; that error wraps
// storage.ErrStoreUnavailable when no store is configured.
func (s *Service) EmbedAndStore(ctx context.Context, id, title, category, summary, text string) (models.EmbeddingVector, error) {
	vector, err := s.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if s.store == nil {
		return vector, storage.ErrStoreUnavailable
	}

	err = s.store.Put(ctx, models.StoredCard{
		ID:        id,
		Title:     title,
		Category:  category,
		Summary:   summary,
		Embedding: vector,
	})
	if err != nil {
		s.metrics.StoreError("put")
		return vector, fmt.Errorf("failed to store card %s: %w", id, err)
	}
	return vector, nil
}

// EmbedText stores text under id with the defaults used for bare text:
// the title is its first runes and the category is "unknown".
func (s *Service) EmbedText(ctx context.Context, id, text string) (models.EmbeddingVector, error) {
	return s.EmbedAndStore(ctx, id, truncateRunes(text, TitleRunes), "unknown", text, text)
}

// SimilarityPairs scores every pair of stored cards among ids
func (s *Service) SimilarityPairs(ctx context.Context, ids []string) []models.SimilarityPair {
	pairs := s.engine.Pairs(ctx, ids)
	s.metrics.ObserveGravity(len(pairs))
	return pairs
}

// SearchSimilar embeds text and returns the k nearest stored cards.
// Store failures yield an empty result; extraction failures are returned.
func (s *Service) SearchSimilar(ctx context.Context, text string, k int) ([]models.VectorSearchResult, error) {
	results := []models.VectorSearchResult{}
	if s.store == nil {
		return results, nil
	}

	vector, err := s.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	found, err := s.store.SearchNearest(ctx, vector, k)
	if err != nil {
		s.metrics.StoreError("search")
		s.logger.Warn("nearest-neighbor search unavailable", "err", err)
		return results, nil
	}
	return append(results, found...), nil
}

// GenerateCard builds a card for content. Cached cards are reused, but each
// call gets a new id. The card is embedded and stored; a failure there is
// logged and the card is still returned.
func (s *Service) GenerateCard(ctx context.Context, content, contentType string) (*models.GeneratedCard, error) {
	if contentType == "" {
		contentType = "text"
	}

	card, err := cache.CachedOrComputeValid(ctx, s.cache, cache.NamespaceCard, cache.CardKey(contentType, content), validCard,
		func(ctx context.Context) (*models.GeneratedCard, error) {
			if s.oracle == nil {
				return nil, &llm.ExtractionError{Op: "card", Err: ErrNoOracle}
			}
			start := time.Now()
			card, err := s.oracle.GenerateCard(ctx, content, contentType)
			s.metrics.ObserveOracle("card", start, err)
			return card, err
		})
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, &llm.ExtractionError{Op: "card", Err: errNoCard}
	}

	card.ID = s.newID()

	if _, err := s.EmbedAndStore(ctx, card.ID, card.Title, card.Category, card.Summary, card.SemanticText); err != nil {
		s.logger.Warn("card stored without embedding, gravity will skip it", "card_id", card.ID, "err", err)
	}

	return card, nil
}

// EvaluateMagnet scores ids against constraint. Cards are described from
// sess; ids it does not know are sent as "Unknown" placeholders.
func (s *Service) EvaluateMagnet(ctx context.Context, sess *Session, constraint string, ids []string) ([]models.MagnetResult, error) {
	if len(ids) == 0 {
		return []models.MagnetResult{}, nil
	}

	return cache.CachedOrCompute(ctx, s.cache, cache.NamespaceMagnet, cache.MagnetKey(constraint, ids),
		func(ctx context.Context) ([]models.MagnetResult, error) {
			if s.oracle == nil {
				return nil, &llm.ExtractionError{Op: "magnet", Err: ErrNoOracle}
			}
			start := time.Now()
			results, err := s.oracle.EvaluateMagnet(ctx, constraint, sess.Summaries(ids))
			s.metrics.ObserveOracle("magnet", start, err)
			return results, err
		})
}

// LoadSession builds a Session from the stored metadata of ids. Ids that
// are missing or unreadable are left out and become placeholders later.
func (s *Service) LoadSession(ctx context.Context, ids []string) *Session {
	sess := NewSession()
	if s.store == nil {
		return sess
	}
	for _, id := range ids {
		card, err := s.store.Get(ctx, id)
		if err != nil {
			s.metrics.StoreError("get")
			s.logger.Debug("stored card unavailable", "card_id", id, "err", err)
			continue
		}
		if card == nil {
			continue
		}
		sess.Put(models.GeneratedCard{
			ID:       card.ID,
			Title:    card.Title,
			Summary:  card.Summary,
			Category: card.Category,
		})
	}
	return sess
}

// Health describes which dependencies are usable
type Health struct {
	Status     string      `json:"status"`
	Store      string      `json:"store"`
	Oracle     string      `json:"oracle"`
	Cache      string      `json:"cache"`
	CacheStats cache.Stats `json:"cache_stats"`
	Cards      *int        `json:"cards,omitempty"`
}

// Health checks the store and reports configuration. Status is "ok" when
// both the store and the oracle are usable, otherwise "degraded".
func (s *Service) Health(ctx context.Context) Health {
	h := Health{
		Status: "ok",
		Store:  "connected",
		Oracle: "configured",
		Cache:  "enabled",
	}

	if s.store == nil {
		h.Store = "disconnected"
	} else if p, ok := s.store.(storage.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn("vector store ping failed", "err", err)
			h.Store = "disconnected"
		}
	}
	if c, ok := s.store.(storage.Counter); ok && h.Store == "connected" {
		if n, err := c.Count(ctx); err == nil {
			h.Cards = &n
		} else {
			s.metrics.StoreError("count")
			s.logger.Warn("vector store count failed", "err", err)
		}
	}
	if s.oracle == nil {
		h.Oracle = "missing_api_key"
	}
	if err := s.cache.Check(); err != nil {
		h.Cache = "disabled"
	} else {
		h.CacheStats = s.cache.Stats()
	}

	if h.Store != "connected" || h.Oracle != "configured" {
		h.Status = "degraded"
	}
	return h
}

func validVector(v models.EmbeddingVector) error {
	if len(v) != encoder.Dimension {
		return fmt.Errorf("%w: got %d", models.ErrInvalidDimension, len(v))
	}
	return nil
}

func validCard(c *models.GeneratedCard) error {
	if c == nil {
		return errNoCard
	}
	return nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
