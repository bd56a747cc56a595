package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/logger"
	"github.com/jpart-gallery/gallery-api/internal/media"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	geminiUserRole     = "user"
)

// ImageSource resolves a caption image reference into bytes Gemini can take inline
type ImageSource interface {
	Acquire(ctx context.Context, src media.Source) (media.Image, error)
}

// GeminiProvider implements CaptionProvider using the genai SDK
type GeminiProvider struct {
	client *genai.Client
	images ImageSource
}

// NewGeminiProvider creates a new Gemini provider. baseURL may be empty.
func NewGeminiProvider(ctx context.Context, apiKey, baseURL string, images ImageSource) (*GeminiProvider, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		images: images,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Complete runs one GenerateContent call with the image attached inline
func (p *GeminiProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	transaction := sentry.StartTransaction(ctx, "gemini.caption")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	parts := []*genai.Part{genai.NewPartFromText(request.UserPrompt)}
	if request.ImageURL != "" {
		imagePart, err := p.imagePart(ctx, request.ImageURL)
		if err != nil {
			transaction.SetTag("success", "false")
			return nil, err
		}
		parts = append(parts, imagePart)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		},
	}
	if request.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(request.Temperature))
	}
	if request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(request.MaxTokens)
	}

	contents := []*genai.Content{{Role: geminiUserRole, Parts: parts}}

	span := transaction.StartChild("gemini.api_call")
	start := time.Now()
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	duration := time.Since(start)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		logger.Error("Gemini caption request failed", err, logger.Fields{
			"model":       request.Model,
			"duration_ms": duration.Milliseconds(),
		})
		return nil, apperr.Transport(apperr.KindAIProvider, err, "AI error")
	}

	transaction.SetTag("success", "true")

	var usage Usage
	if result.UsageMetadata != nil {
		usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}
	logger.LogGenerationRequest(ctx, "caption", request.Model, duration, logger.Fields{
		"provider":      providerNameGemini,
		"input_tokens":  usage.InputTokens,
		"output_tokens": usage.OutputTokens,
	})

	return &CompletionResponse{
		Text:  strings.TrimSpace(result.Text()),
		Model: request.Model,
		Usage: usage,
	}, nil
}

// imagePart decodes data URIs locally and downloads remote URLs
func (p *GeminiProvider) imagePart(ctx context.Context, ref string) (*genai.Part, error) {
	img, err := p.images.Acquire(ctx, media.Source{Data: dataOnly(ref), URL: urlOnly(ref)})
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, err, "Invalid image payload")
	}
	return genai.NewPartFromBytes(raw, img.MIMEType), nil
}

func dataOnly(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return ref
	}
	return ""
}

func urlOnly(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return ""
	}
	return ref
}
