package utils

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIChatClient talks to any OpenAI-compatible chat completion endpoint
// (OpenAI itself, Groq, local gateways).
type OpenAIChatClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIChatClient builds a client for baseURL; an empty baseURL means the
// public OpenAI API.
func NewOpenAIChatClient(apiKey, baseURL, model string) *OpenAIChatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIChatClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIChatClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
