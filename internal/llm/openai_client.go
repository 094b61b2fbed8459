// ABOUTME: OpenAI chat completion backend for the oracle client
// ABOUTME: Uses gpt-4o-mini unless another chat model is configured
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient sends completions to the OpenAI chat API
type OpenAIClient struct {
	client    *openai.Client
	chatModel string
}

// NewOpenAIClient creates a new OpenAI client with the given API key and model
func NewOpenAIClient(apiKey, chatModel string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	return &OpenAIClient{
		client:    openai.NewClient(apiKey),
		chatModel: chatModel,
	}, nil
}

// GetClient returns the underlying OpenAI client for direct use
func (c *OpenAIClient) GetClient() *openai.Client {
	return c.client
}

// Complete sends one system+user exchange
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
