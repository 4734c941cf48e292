package utils

import "context"

// ChatRequest is one single-message chat completion call.
type ChatRequest struct {
	Model       string
	Prompt      string
	Temperature float32
	// MaxTokens caps the completion length; 0 leaves it to the provider.
	MaxTokens int
}

// ChatClientInterface is the chat-completion endpoint: prompt in, the first
// completion's text out.
type ChatClientInterface interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
