// ABOUTME: Anthropic Messages API backend for the oracle client
// ABOUTME: Defaults to the Claude Sonnet model the canvas was originally tuned against
package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

// ClaudeClient sends completions to the Anthropic Messages API
type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

// NewClaudeClient creates a Claude client with the given API key and model
func NewClaudeClient(apiKey, model string, opts ...anthropic.ClientOption) (*ClaudeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}, nil
}

// Complete sends one system+user exchange
func (c *ClaudeClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(c.model),
		System: system,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(user),
				},
			},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return *resp.Content[0].Text, nil
	}
	return "", fmt.Errorf("no response content")
}
