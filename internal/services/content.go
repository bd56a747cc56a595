package services

import (
	"context"
	"strings"
	"time"

	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/caption"
	"github.com/jpart-gallery/gallery-api/internal/llm"
	"github.com/jpart-gallery/gallery-api/internal/logger"
	"github.com/jpart-gallery/gallery-api/internal/media"
	"github.com/jpart-gallery/gallery-api/internal/metrics"
	"github.com/jpart-gallery/gallery-api/internal/observability"
	"github.com/jpart-gallery/gallery-api/internal/prompt"
)

const (
	defaultTitle    = "Untitled"
	rawBase64Prefix = "data:" + media.DefaultMIMEType + ";base64,"
	dataURIPrefix   = "data:"
	defaultKeyEnv   = "OPENAI_API_KEY"
)

// ImageGenerator produces a staged photo from a prompt and the artwork image
type ImageGenerator interface {
	Configured() bool
	Model() string
	Generate(ctx context.Context, prompt string, img media.Image) (media.Image, error)
}

// ImageSource resolves the artwork image of a staging request
type ImageSource interface {
	Acquire(ctx context.Context, src media.Source) (media.Image, error)
}

// CaptionRequest is the body of POST /api/ai/caption. Style and Hashtags are accepted and unused.
type CaptionRequest struct {
	ImageURL   string `json:"imageUrl"`
	ImageData  string `json:"imageData"`
	Title      string `json:"title"`
	Year       *int   `json:"year"`
	Medium     string `json:"medium"`
	Dimensions string `json:"dimensions"`
	Lang       string `json:"lang"`
	Style      string `json:"style"`
	System     string `json:"system"`
	Hashtags   string `json:"hashtags"`
}

// StageRequest is the body of POST /api/ai/stage
type StageRequest struct {
	ImageURL    string `json:"imageUrl"`
	ImageData   string `json:"imageData"`
	Scene       string `json:"scene"`
	ExtraPrompt string `json:"extraPrompt"`
	Lang        string `json:"lang"`
}

// ContentService runs the caption and staging pipelines
type ContentService struct {
	captions     llm.CaptionProvider
	captionModel string
	captionKey   string
	images       ImageSource
	generator    ImageGenerator
	prompts      *prompt.Builder
	hashtags     *caption.Assembler
	recorder     metrics.Recorder
	tracing      *observability.LangfuseClient
}

// ContentDeps wires a ContentService. Captions may be nil when no provider is configured;
// CaptionKeyEnv is then named in the 503 message.
type ContentDeps struct {
	Captions      llm.CaptionProvider
	CaptionModel  string
	CaptionKeyEnv string
	Images        ImageSource
	Generator     ImageGenerator
	Prompts       *prompt.Builder
	Hashtags      *caption.Assembler
	Recorder      metrics.Recorder
	Tracing       *observability.LangfuseClient
}

func NewContentService(deps ContentDeps) *ContentService {
	recorder := deps.Recorder
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	tracing := deps.Tracing
	if tracing == nil {
		tracing = observability.GetClient()
	}
	captionKey := deps.CaptionKeyEnv
	if captionKey == "" {
		captionKey = defaultKeyEnv
	}
	hashtags := deps.Hashtags
	if hashtags == nil {
		hashtags = caption.NewDefaultAssembler(nil)
	}
	return &ContentService{
		captions:     deps.Captions,
		captionModel: deps.CaptionModel,
		captionKey:   captionKey,
		images:       deps.Images,
		generator:    deps.Generator,
		prompts:      deps.Prompts,
		hashtags:     hashtags,
		recorder:     recorder,
		tracing:      tracing,
	}
}

// Caption writes a social caption: title, a one-paragraph description and 20 hashtags
func (s *ContentService) Caption(ctx context.Context, req CaptionRequest) (string, error) {
	if s.captions == nil {
		return "", apperr.New(apperr.KindNotConfigured, "AI not configured. Set %s.", s.captionKey)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultTitle
	}

	in := prompt.CaptionInput{
		Title:      title,
		Medium:     strings.TrimSpace(req.Medium),
		Dimensions: strings.TrimSpace(req.Dimensions),
		Lang:       req.Lang,
		System:     req.System,
	}
	if req.Year != nil {
		in.Year = *req.Year
	}
	msgs := s.prompts.CaptionPrompt(in)

	params := GetLLMParameters(OperationCaption, s.captionModel)
	trace := s.tracing.StartTrace(ctx, "caption", map[string]interface{}{"title": title, "lang": req.Lang})
	defer trace.Finish()
	generation := trace.Generation(s.captions.Name()+".caption", nil)

	start := time.Now()
	resp, err := s.captions.Complete(ctx, &llm.CompletionRequest{
		Model:        params.Model,
		SystemPrompt: msgs.System,
		UserPrompt:   msgs.User,
		ImageURL:     captionImageRef(req),
		Temperature:  params.Temperature,
		MaxTokens:    params.MaxTokens,
	})
	duration := time.Since(start)
	s.recorder.RecordGeneration(ctx, string(OperationCaption), params.Model, duration, err == nil)
	if err != nil {
		generation.SetLevel("ERROR")
		generation.Finish()
		return "", err
	}

	s.recorder.RecordTokenUsage(ctx, params.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Usage.TotalTokens)
	generation.LogCompletion(params.Model, msgs.System, msgs.User, resp.Text,
		resp.Usage.InputTokens, resp.Usage.OutputTokens, map[string]interface{}{"provider": s.captions.Name()})
	generation.Finish()

	parsed := caption.ParseCompletion(resp.Text)
	tags := s.hashtags.Assemble(parsed.TagLine)

	if parsed.Description == "" {
		logger.Warn("Caption completion had no DESC line", logger.Fields{"model": params.Model})
	}
	return caption.Compose(title, parsed.Description, tags), nil
}

// captionImageRef picks the image handed to the caption model: inline data first,
// raw base64 wrapped as JPEG, else the URL.
func captionImageRef(req CaptionRequest) string {
	if data := strings.TrimSpace(req.ImageData); data != "" {
		if strings.HasPrefix(data, dataURIPrefix) {
			return data
		}
		return rawBase64Prefix + data
	}
	return strings.TrimSpace(req.ImageURL)
}

// Stage renders the artwork into a scene and returns the image as a data URL
func (s *ContentService) Stage(ctx context.Context, req StageRequest) (string, error) {
	if s.generator == nil || !s.generator.Configured() {
		return "", apperr.New(apperr.KindNotConfigured, "GOOGLE_API_KEY is not configured on the server.")
	}

	img, err := s.images.Acquire(ctx, media.Source{
		URL:  strings.TrimSpace(req.ImageURL),
		Data: strings.TrimSpace(req.ImageData),
	})
	if err != nil {
		return "", err
	}

	text := s.prompts.StagingPrompt(req.Scene, req.ExtraPrompt, req.Lang)

	start := time.Now()
	out, err := s.generator.Generate(ctx, text, img)
	s.recorder.RecordGeneration(ctx, string(OperationStage), s.generator.Model(), time.Since(start), err == nil)
	if err != nil {
		return "", err
	}

	return out.DataURL(), nil
}
