// ABOUTME: MCP tool handler implementations for the orbit server
// ABOUTME: Extraction failures become tool errors; store and cache trouble only shrinks results
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/orbit/internal/core"
	"github.com/harper/orbit/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	svc     *core.Service
	session *core.Session
	logger  *log.Logger
}

// NewHandlers creates handlers over a service and the session they share
func NewHandlers(svc *core.Service, session *core.Session, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	if session == nil {
		session = core.NewSession()
	}
	return &Handlers{svc: svc, session: session, logger: logger}
}

// Session returns the card map shared by the handlers
func (h *Handlers) Session() *core.Session {
	return h.session
}

// GenerateCard handles the generate_card tool
func (h *Handlers) GenerateCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}
	contentType := request.GetString("type", "text")

	card, err := h.svc.GenerateCard(ctx, content, contentType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("card generation failed: %v", err)), nil
	}
	h.session.Put(*card)
	h.logger.Debug("card generated", "card_id", card.ID, "category", card.Category)

	return jsonResult(card)
}

// EmbedCard handles the embed_card tool
func (h *Handlers) EmbedCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireString("card_id")
	if err != nil {
		return mcp.NewToolResultError("card_id argument is required and must be a string"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	if _, err := h.svc.EmbedText(ctx, cardID, text); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("embedding failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"card_id": cardID,
		"success": true,
	})
}

// Gravity handles the gravity tool
func (h *Handlers) Gravity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := request.GetStringSlice("card_ids", nil)
	pairs := h.svc.SimilarityPairs(ctx, ids)

	return jsonResult(map[string]interface{}{
		"pairs": pairs,
	})
}

// SearchSimilar handles the search_similar tool
func (h *Handlers) SearchSimilar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 10)

	results, err := h.svc.SearchSimilar(ctx, query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// EvaluateMagnet handles the evaluate_magnet tool
func (h *Handlers) EvaluateMagnet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	constraint, err := request.RequireString("constraint")
	if err != nil {
		return mcp.NewToolResultError("constraint argument is required and must be a string"), nil
	}
	ids := request.GetStringSlice("card_ids", nil)

	results, err := h.svc.EvaluateMagnet(ctx, h.session, constraint, ids)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("magnet evaluation failed: %v", err)), nil
	}
	if results == nil {
		results = []models.MagnetResult{}
	}

	return jsonResult(map[string]interface{}{
		"results": results,
	})
}

// Health handles the health tool
func (h *Handlers) Health(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report := h.svc.Health(ctx)
	return jsonResult(map[string]interface{}{
		"status":           report.Status,
		"store":            report.Store,
		"oracle":           report.Oracle,
		"cache":            report.Cache,
		"cache_stats":      report.CacheStats,
		"cards_in_session": h.session.Len(),
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
