package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiChatClient implements ChatClientInterface using Google's Gemini models
type GeminiChatClient struct {
	client *genai.Client
	model  string
}

func NewGeminiChatClient(ctx context.Context, apiKey, model string) (*GeminiChatClient, error) {
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiChatClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiChatClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	name := req.Model
	if name == "" {
		name = c.model
	}

	m := c.client.GenerativeModel(name)
	m.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	resp, err := m.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no content generated")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	if out.Len() == 0 {
		return "", errors.New("gemini: no text in response")
	}
	return out.String(), nil
}

// Close closes the Gemini client
func (c *GeminiChatClient) Close() error {
	return c.client.Close()
}
