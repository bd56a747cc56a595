package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-resty/resty/v2"
	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/logger"
	"github.com/jpart-gallery/gallery-api/internal/media"
)

const (
	geminiAPIVersion = "v1beta"

	// StageTimeout bounds one image-generation call
	StageTimeout = 90 * time.Second

	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
)

// ImageClient calls the Gemini generateContent REST endpoint directly
type ImageClient struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	model   string
}

// NewImageClient creates a client; an empty baseURL means the public Gemini endpoint
func NewImageClient(baseURL, apiKey, model string) *ImageClient {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &ImageClient{
		client:  resty.New().SetTimeout(StageTimeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

// Configured reports whether an API key is present
func (c *ImageClient) Configured() bool {
	return c.apiKey != ""
}

// Model returns the image model name
func (c *ImageClient) Model() string {
	return c.model
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineBlob `json:"inline_data,omitempty"`
}

type inlineBlob struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Generate sends the prompt and the artwork image and returns the first generated image
func (c *ImageClient) Generate(ctx context.Context, prompt string, img media.Image) (media.Image, error) {
	if !c.Configured() {
		return media.Image{}, apperr.New(apperr.KindNotConfigured, "GOOGLE_API_KEY is not configured on the server.")
	}

	transaction := sentry.StartTransaction(ctx, "gemini.stage")
	defer transaction.Finish()
	transaction.SetTag("model", c.model)
	transaction.SetTag("provider", providerNameGemini)

	payload := generateRequest{
		Contents: []requestContent{{
			Parts: []requestPart{
				{Text: prompt},
				{InlineData: &inlineBlob{MIMEType: img.MIMEType, Data: img.Base64}},
			},
		}},
	}

	endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, geminiAPIVersion, c.model)

	span := transaction.StartChild("gemini.api_call")
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(payload).
		Post(endpoint)
	duration := time.Since(start)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		logger.Error("Gemini staging request failed", err, logger.Fields{
			"model":       c.model,
			"duration_ms": duration.Milliseconds(),
		})
		return media.Image{}, apperr.Transport(apperr.KindGateway, err, "Gemini request error")
	}

	if resp.StatusCode() != http.StatusOK {
		transaction.SetTag("success", "false")
		body := resp.String()
		logger.Warn("Gemini staging returned non-200", logger.Fields{
			"model":  c.model,
			"status": resp.StatusCode(),
		})
		if strings.TrimSpace(body) == "" {
			body = "Gemini request failed"
		}
		return media.Image{}, apperr.Upstream(resp.StatusCode(), body)
	}

	out, err := ExtractInlineImage(resp.Body())
	if err != nil {
		transaction.SetTag("success", "false")
		return media.Image{}, err
	}

	transaction.SetTag("success", "true")
	logger.LogGenerationRequest(ctx, "stage", c.model, duration, logger.Fields{
		"provider":    providerNameGemini,
		"output_mime": out.MIMEType,
	})
	return out, nil
}
