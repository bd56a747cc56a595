package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/logger"
	"github.com/tidwall/gjson"
)

const (
	// RelayTimeout bounds one call to the Make webhook
	RelayTimeout = 15 * time.Second

	minCarouselImages = 2
	diagBodyLimit     = 500
	mediaTypeImage    = "IMAGE"
)

// InstagramPost is one queued post: a single image or a carousel
type InstagramPost struct {
	Images   []string
	Caption  string
	Carousel bool
}

// DiagResult is the outcome of a webhook ping
type DiagResult struct {
	OK        bool
	HookSet   bool
	SecretSet bool
	Status    int
	Body      interface{}
}

// InstagramRelay forwards posts to a Make.com scenario that publishes them to Instagram
type InstagramRelay struct {
	client        *resty.Client
	webhookURL    string
	igSecret      string
	signingSecret string
}

func NewInstagramRelay(webhookURL, igSecret, signingSecret string) *InstagramRelay {
	return &InstagramRelay{
		client:        resty.New().SetTimeout(RelayTimeout),
		webhookURL:    webhookURL,
		igSecret:      igSecret,
		signingSecret: signingSecret,
	}
}

// CheckSecret accepts an empty secret; a present one must match IG_SECRET
func (r *InstagramRelay) CheckSecret(secret string) error {
	if secret != "" && secret != r.igSecret {
		return apperr.New(apperr.KindUnauthorized, "bad secret")
	}
	return nil
}

// ParseCarouselImages validates the images array of a JSON queue request
func ParseCarouselImages(raw json.RawMessage) ([]string, error) {
	var items []interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || len(items) == 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "'images' must be a non-empty array")
	}

	images := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, apperr.New(apperr.KindInvalidInput, "Each image must be a non-empty string URL.")
		}
		images = append(images, strings.TrimSpace(s))
	}
	if len(images) < minCarouselImages {
		return nil, apperr.New(apperr.KindInvalidInput, "Carousel requires at least 2 images.")
	}
	return images, nil
}

func (r *InstagramRelay) payload(post InstagramPost) map[string]interface{} {
	files := make([]map[string]string, 0, len(post.Images))
	for _, u := range post.Images {
		if post.Carousel {
			files = append(files, map[string]string{"image_url": u, "media_type": mediaTypeImage})
		} else {
			files = append(files, map[string]string{"URL": u})
		}
	}
	return map[string]interface{}{
		"images":  post.Images,
		"files":   files,
		"caption": post.Caption,
		"secret":  r.igSecret,
	}
}

// Queue forwards the post to the webhook
func (r *InstagramRelay) Queue(ctx context.Context, post InstagramPost) error {
	if r.webhookURL == "" {
		return apperr.New(apperr.KindNotConfigured, "Instagram webhook not configured. Set MAKE_IG_WEBHOOK.")
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(r.payload(post)).
		Post(r.webhookURL)
	if err != nil {
		logger.Error("Instagram relay forward failed", err, logger.Fields{"images": len(post.Images)})
		return apperr.Wrap(apperr.KindGateway, err, "forward failed")
	}

	if resp.StatusCode() >= 300 {
		detail := resp.String()
		if body := resp.Body(); gjson.ValidBytes(body) {
			if e := gjson.GetBytes(body, "error"); e.Exists() {
				detail = e.String()
			}
		}
		logger.Warn("Make webhook rejected post", logger.Fields{"status": resp.StatusCode()})
		return apperr.Upstream(resp.StatusCode(), fmt.Sprintf("Make error (%d): %s", resp.StatusCode(), detail))
	}

	logger.Info("Instagram post queued", logger.Fields{"images": len(post.Images), "carousel": post.Carousel})
	return nil
}

// Diag pings the webhook with the signing secret
func (r *InstagramRelay) Diag(ctx context.Context) (*DiagResult, error) {
	result := &DiagResult{HookSet: r.webhookURL != "", SecretSet: r.signingSecret != ""}
	if !result.HookSet || !result.SecretSet {
		return result, nil
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"ping": true, "secret": r.signingSecret}).
		Post(r.webhookURL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGateway, err, "network")
	}

	result.OK = true
	result.Status = resp.StatusCode()
	if strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") && gjson.ValidBytes(resp.Body()) {
		result.Body = json.RawMessage(resp.Body())
	} else {
		text := resp.String()
		if len(text) > diagBodyLimit {
			text = text[:diagBodyLimit]
		}
		result.Body = text
	}
	return result, nil
}
