package llm

import (
	"context"
)

// CaptionProvider is a chat-completion model that writes caption text
type CaptionProvider interface {
	// Complete sends one system/user exchange and returns the raw completion text.
	// Implementations must not retry.
	Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// CompletionRequest contains all parameters needed for a caption completion
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	// ImageURL is an http(s) URL or a data: URI; empty when no image is attached
	ImageURL    string
	Temperature float64
	MaxTokens   int
}

// CompletionResponse contains the result from the model
type CompletionResponse struct {
	Text  string
	Model string
	Usage Usage
}

// Usage is the token accounting reported by the provider
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

