// ABOUTME: Session-scoped map of generated cards owned by the request layer
// ABOUTME: Holds card metadata for magnet lookups; embeddings live only in the vector store
package core

import (
	"sync"

	"github.com/harper/orbit/internal/models"
)

// Session remembers the cards generated during one client session
type Session struct {
	mu    sync.RWMutex
	cards map[string]models.GeneratedCard
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{cards: make(map[string]models.GeneratedCard)}
}

// Put records a card, replacing any earlier card with the same id
func (s *Session) Put(card models.GeneratedCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[card.ID] = card
}

// Get returns the card with the given id
func (s *Session) Get(id string) (models.GeneratedCard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.cards[id]
	return card, ok
}

// Len returns the number of cards in the session
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}

// Summaries returns the magnet view of each id. Ids the session has never
// seen get an "Unknown" placeholder so the evaluator still scores them.
func (s *Session) Summaries(ids []string) []models.CardSummary {
	out := make([]models.CardSummary, 0, len(ids))
	if s == nil {
		for _, id := range ids {
			out = append(out, placeholder(id))
		}
		return out
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range ids {
		if card, ok := s.cards[id]; ok {
			out = append(out, card.ToSummary())
			continue
		}
		out = append(out, placeholder(id))
	}
	return out
}

func placeholder(id string) models.CardSummary {
	return models.CardSummary{ID: id, Title: "Unknown", Category: "unknown"}
}
