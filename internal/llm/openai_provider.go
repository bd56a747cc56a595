package llm

import (
	"context"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	providerNameOpenAI = "openai"

	openAIRequestTimeout = 60 * time.Second
)

// OpenAIProvider implements CaptionProvider with OpenAI chat completions
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider. baseURL may be empty.
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(openAIRequestTimeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client: &client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Complete runs one chat completion. The image, when present, rides along as an image_url part.
func (p *OpenAIProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	transaction := sentry.StartTransaction(ctx, "openai.caption")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := p.buildRequestParams(request)

	span := transaction.StartChild("openai.api_call")
	start := time.Now()
	completion, err := p.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		logger.Error("OpenAI caption request failed", err, logger.Fields{
			"model":       request.Model,
			"duration_ms": duration.Milliseconds(),
		})
		return nil, apperr.Transport(apperr.KindAIProvider, err, "AI error")
	}

	transaction.SetTag("success", "true")

	text := ""
	if len(completion.Choices) > 0 {
		text = strings.TrimSpace(completion.Choices[0].Message.Content)
	}

	usage := Usage{
		InputTokens:  int(completion.Usage.PromptTokens),
		OutputTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:  int(completion.Usage.TotalTokens),
	}
	logger.LogGenerationRequest(ctx, "caption", request.Model, duration, logger.Fields{
		"provider":      providerNameOpenAI,
		"input_tokens":  usage.InputTokens,
		"output_tokens": usage.OutputTokens,
	})

	model := completion.Model
	if model == "" {
		model = request.Model
	}
	return &CompletionResponse{
		Text:  text,
		Model: model,
		Usage: usage,
	}, nil
}

func (p *OpenAIProvider) buildRequestParams(request *CompletionRequest) openai.ChatCompletionNewParams {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(request.UserPrompt),
	}
	if request.ImageURL != "" {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: request.ImageURL,
		}))
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(request.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(request.SystemPrompt),
			openai.UserMessage(parts),
		},
	}
	if request.Temperature > 0 {
		params.Temperature = openai.Float(request.Temperature)
	}
	if request.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(request.MaxTokens))
	}
	return params
}
