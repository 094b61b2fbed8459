// ABOUTME: Provider-neutral oracle client for features, cards and magnet scores
// ABOUTME: Each call is a single completion bounded by the configured timeout; no retries
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/harper/orbit/internal/config"
	"github.com/harper/orbit/internal/models"
)

// Token limits per operation
const (
	featureMaxTokens = 512
	cardMaxTokens    = 1024
	magnetMaxTokens  = 512
)

// FeatureExtractor turns raw text into a FeatureRecord
type FeatureExtractor interface {
	ExtractFeatures(ctx context.Context, text string) (models.FeatureRecord, error)
}

// CardGenerator builds a card from user-dropped content. The returned card
// has no ID; callers assign one.
type CardGenerator interface {
	GenerateCard(ctx context.Context, content, contentType string) (*models.GeneratedCard, error)
}

// MagnetEvaluator scores cards against a constraint
type MagnetEvaluator interface {
	EvaluateMagnet(ctx context.Context, constraint string, cards []models.CardSummary) ([]models.MagnetResult, error)
}

// Completer sends one system+user exchange and returns the model's text
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Client implements the oracle interfaces on top of a Completer
type Client struct {
	completer Completer
	prompts   Prompts
	timeout   time.Duration
	limiter   *rate.Limiter
}

// NewClient builds a Client for the configured provider
func NewClient(cfg *config.Config) (*Client, error) {
	var (
		completer Completer
		err       error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		completer, err = NewOpenAIClient(cfg.OpenAIKey, cfg.ChatModel)
	case config.ProviderClaude:
		completer, err = NewClaudeClient(cfg.AnthropicKey, cfg.ChatModel)
	default:
		err = fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	c := NewClientWithCompleter(completer, cfg.Timeout)
	c.prompts = c.prompts.withOverrides(cfg.FeaturePrompt, cfg.CardPrompt, cfg.MagnetPrompt)
	c.SetRateLimit(cfg.RateLimit)
	return c, nil
}

// NewClientWithCompleter builds a Client around any Completer
func NewClientWithCompleter(completer Completer, timeout time.Duration) *Client {
	return &Client{
		completer: completer,
		prompts:   DefaultPrompts(),
		timeout:   timeout,
	}
}

// SetRateLimit paces calls to at most perSecond; zero or less removes the limit
func (c *Client) SetRateLimit(perSecond float64) {
	if perSecond <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	// Waiting for a slot does not count against the call timeout
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.completer.Complete(ctx, system, user, maxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// ExtractFeatures asks the model for the semantic features of text
func (c *Client) ExtractFeatures(ctx context.Context, text string) (models.FeatureRecord, error) {
	resp, err := c.complete(ctx, c.prompts.Features, text, featureMaxTokens)
	if err != nil {
		return models.FeatureRecord{}, extractionErr("features", err)
	}
	return parseFeatures(resp)
}

func parseFeatures(resp string) (models.FeatureRecord, error) {
	body, err := extractObject(resp)
	if err != nil {
		return models.FeatureRecord{}, extractionErr("features", err)
	}

	var f models.FeatureRecord
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		return models.FeatureRecord{}, extractionErr("features", fmt.Errorf("failed to parse JSON: %w", err))
	}
	return f, nil
}

// GenerateCard asks the model to build a card for content
func (c *Client) GenerateCard(ctx context.Context, content, contentType string) (*models.GeneratedCard, error) {
	if contentType == "" {
		contentType = "text"
	}
	user := fmt.Sprintf("Content type: %s\nContent: %s", contentType, content)

	resp, err := c.complete(ctx, c.prompts.Card, user, cardMaxTokens)
	if err != nil {
		return nil, extractionErr("card", err)
	}

	card, err := parseCard(resp)
	if err != nil {
		return nil, err
	}
	card.RawInput = content
	return card, nil
}

func parseCard(resp string) (*models.GeneratedCard, error) {
	body, err := extractObject(resp)
	if err != nil {
		return nil, extractionErr("card", err)
	}

	var card models.GeneratedCard
	if err := json.Unmarshal([]byte(body), &card); err != nil {
		return nil, extractionErr("card", fmt.Errorf("failed to parse JSON: %w", err))
	}
	if strings.TrimSpace(card.Title) == "" {
		return nil, extractionErr("card", errors.New("card has no title"))
	}
	if card.SemanticText == "" {
		card.SemanticText = strings.TrimSpace(card.Title + ". " + card.Summary)
	}

	// Drop widgets the canvas cannot render
	widgets := make([]models.Widget, 0, len(card.Widgets))
	for _, w := range card.Widgets {
		if w.Type.IsValid() {
			widgets = append(widgets, w)
		}
	}
	card.Widgets = widgets
	card.ID = ""
	return &card, nil
}

// EvaluateMagnet asks the model how relevant each card is to constraint.
// Results are clamped to [0, 1] and restricted to the ids that were sent.
func (c *Client) EvaluateMagnet(ctx context.Context, constraint string, cards []models.CardSummary) ([]models.MagnetResult, error) {
	if len(cards) == 0 {
		return []models.MagnetResult{}, nil
	}

	summary, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cards: %w", err)
	}
	user := fmt.Sprintf("Constraint: %s\n\nCards:\n%s", constraint, summary)

	resp, err := c.complete(ctx, c.prompts.Magnet, user, magnetMaxTokens)
	if err != nil {
		return nil, extractionErr("magnet", err)
	}
	return parseMagnet(resp, cards)
}

// magnetScore is one entry of the model's magnet reply
type magnetScore struct {
	ID        string  `json:"id"`
	Relevance float64 `json:"relevance"`
}

func parseMagnet(resp string, cards []models.CardSummary) ([]models.MagnetResult, error) {
	body, err := extractArray(resp)
	if err != nil {
		return nil, extractionErr("magnet", err)
	}

	var raw []magnetScore
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, extractionErr("magnet", fmt.Errorf("failed to parse JSON: %w", err))
	}

	known := make(map[string]bool, len(cards))
	for _, c := range cards {
		known[c.ID] = true
	}

	results := make([]models.MagnetResult, 0, len(raw))
	for _, r := range raw {
		if !known[r.ID] {
			continue
		}
		results = append(results, models.MagnetResult{
			CardID:    r.ID,
			Relevance: models.ClampRelevance(r.Relevance),
		})
	}
	return results, nil
}
