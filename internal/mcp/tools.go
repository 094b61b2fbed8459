// ABOUTME: MCP tool definitions and registration for the orbit server
// ABOUTME: Exposes card generation, embedding, gravity, search, magnets and health
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/orbit/internal/core"
)

// Tool pairs a tool definition with the handler that serves it
type Tool struct {
	Definition mcp.Tool
	Handler    mcpserver.ToolHandlerFunc
}

// RegisterTools registers all MCP tools with the server. The stdio
// transport serves one client, so one Session backs every call.
func RegisterTools(server *mcpserver.MCPServer, svc *core.Service, logger *log.Logger) *Handlers {
	handlers := NewHandlers(svc, core.NewSession(), logger)
	for _, tool := range Tools(handlers) {
		server.AddTool(tool.Definition, tool.Handler)
	}
	return handlers
}

// Tools returns the orbit tool set bound to handlers
func Tools(handlers *Handlers) []Tool {
	return []Tool{
		// 1. generate_card - build a canvas card from dropped content
		{Definition: mcp.Tool{
			Name:        "generate_card",
			Description: "Generate an interactive canvas card from raw content (text, URL or note). The card is embedded automatically so it takes part in gravity.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"content": map[string]interface{}{
						"type":        "string",
						"description": "Raw content dropped onto the canvas",
					},
					"type": map[string]interface{}{
						"type":        "string",
						"description": "Content type hint: text, url or note (default: text)",
						"default":     "text",
					},
				},
				Required: []string{"content"},
			},
		}, Handler: handlers.GenerateCard},

		// 2. embed_card - embed text and store it under a card id
		{Definition: mcp.Tool{
			Name:        "embed_card",
			Description: "Generate and store the semantic embedding for a card.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "Card ID to store the embedding under",
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text describing the card",
					},
				},
				Required: []string{"card_id", "text"},
			},
		}, Handler: handlers.EmbedCard},

		// 3. gravity - pairwise similarity for layout
		{Definition: mcp.Tool{
			Name:        "gravity",
			Description: "Get pairwise similarity scores between cards. Higher similarity pulls cards closer together. Cards without a stored embedding are skipped.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_ids": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Card IDs currently on the canvas",
					},
				},
				Required: []string{"card_ids"},
			},
		}, Handler: handlers.Gravity},

		// 4. search_similar - nearest stored cards for a query
		{Definition: mcp.Tool{
			Name:        "search_similar",
			Description: "Find stored cards most similar to a piece of text.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Text to search for",
					},
					"max_results": map[string]interface{}{
						"type":        "number",
						"description": "Maximum number of results to return (default: 10)",
						"default":     10,
					},
				},
				Required: []string{"query"},
			},
		}, Handler: handlers.SearchSimilar},

		// 5. evaluate_magnet - relevance of cards to a constraint
		{Definition: mcp.Tool{
			Name:        "evaluate_magnet",
			Description: "Score how relevant each card is to a magnet constraint (0.0 to 1.0).",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"constraint": map[string]interface{}{
						"type":        "string",
						"description": "The magnet's constraint, e.g. 'walkable to the beach'",
					},
					"card_ids": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Card IDs to score",
					},
				},
				Required: []string{"constraint", "card_ids"},
			},
		}, Handler: handlers.EvaluateMagnet},

		// 6. health - dependency status
		{Definition: mcp.Tool{
			Name:        "health",
			Description: "Report vector store, language model and cache status.",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		}, Handler: handlers.Health},
	}
}
