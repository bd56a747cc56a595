package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jpart-gallery/gallery-api/internal/config"
)

// NewCaptionProvider picks the caption provider named in the configuration.
// It returns nil without error when the selected provider has no credential,
// so the service can answer 503 per request instead of failing at startup.
func NewCaptionProvider(ctx context.Context, cfg *config.Config, images ImageSource) (CaptionProvider, error) {
	switch strings.ToLower(cfg.CaptionProvider) {
	case "", providerNameOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), nil

	case providerNameGemini:
		if cfg.GoogleAPIKey == "" {
			return nil, nil
		}
		provider, err := NewGeminiProvider(ctx, cfg.GoogleAPIKey, cfg.GeminiBaseURL, images)
		if err != nil {
			return nil, err
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown caption provider: %s (allowed: openai, gemini)", cfg.CaptionProvider)
	}
}

// CaptionModel returns the model name for the configured caption provider
func CaptionModel(cfg *config.Config) string {
	if strings.ToLower(cfg.CaptionProvider) == providerNameGemini {
		return cfg.GoogleTextModel
	}
	return cfg.OpenAIModel
}

// CaptionKeyEnv names the environment variable holding the configured caption provider's key
func CaptionKeyEnv(cfg *config.Config) string {
	if strings.ToLower(cfg.CaptionProvider) == providerNameGemini {
		return "GOOGLE_API_KEY"
	}
	return "OPENAI_API_KEY"
}
