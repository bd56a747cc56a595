package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jpart-gallery/gallery-api/internal/services"
)

// AIHandler exposes the caption and staging pipelines
type AIHandler struct {
	content *services.ContentService
}

func NewAIHandler(content *services.ContentService) *AIHandler {
	return &AIHandler{content: content}
}

// Caption handles POST /api/ai/caption
func (h *AIHandler) Caption(c *gin.Context) {
	var req services.CaptionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	text, err := h.content.Caption(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"caption": text})
}

// Stage handles POST /api/ai/stage
func (h *AIHandler) Stage(c *gin.Context) {
	var req services.StageRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	dataURL, err := h.content.Stage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "dataUrl": dataURL})
}
