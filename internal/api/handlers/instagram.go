package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/services"
)

type InstagramHandler struct {
	relay *services.InstagramRelay
}

func NewInstagramHandler(relay *services.InstagramRelay) *InstagramHandler {
	return &InstagramHandler{relay: relay}
}

type queueJSONRequest struct {
	Images  json.RawMessage `json:"images"`
	Caption string          `json:"caption"`
	Secret  string          `json:"secret"`
}

// Queue accepts a JSON carousel or a single-image form post
func (h *InstagramHandler) Queue(c *gin.Context) {
	post, err := h.parseQueueRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.relay.Queue(c.Request.Context(), post); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *InstagramHandler) parseQueueRequest(c *gin.Context) (services.InstagramPost, error) {
	if strings.Contains(strings.ToLower(c.GetHeader("Content-Type")), contentTypeJSON) {
		var req queueJSONRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return services.InstagramPost{}, apperr.New(apperr.KindInvalidInput, "Invalid JSON")
		}
		if err := h.relay.CheckSecret(req.Secret); err != nil {
			return services.InstagramPost{}, err
		}
		images, err := services.ParseCarouselImages(req.Images)
		if err != nil {
			return services.InstagramPost{}, err
		}
		return services.InstagramPost{Images: images, Caption: req.Caption, Carousel: true}, nil
	}

	if err := h.relay.CheckSecret(c.PostForm("secret")); err != nil {
		return services.InstagramPost{}, err
	}
	imageURL := strings.TrimSpace(c.PostForm("image_url"))
	if imageURL == "" {
		return services.InstagramPost{}, apperr.New(apperr.KindInvalidInput, "missing image_url")
	}
	return services.InstagramPost{Images: []string{imageURL}, Caption: c.PostForm("caption")}, nil
}

// Diag pings the Make webhook and reports what it answered
func (h *InstagramHandler) Diag(c *gin.Context) {
	result, err := h.relay.Diag(c.Request.Context())
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	if !result.HookSet || !result.SecretSet {
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":   false,
			"env":  gin.H{"hook": result.HookSet, "secret": result.SecretSet},
			"hint": "Missing envs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "status": result.Status, "body": result.Body})
}
