package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jpart-gallery/gallery-api/internal/services"
)

type StatusHandler struct {
	catalog *services.CatalogService
}

func NewStatusHandler(catalog *services.CatalogService) *StatusHandler {
	return &StatusHandler{catalog: catalog}
}

type StatusCheckRequest struct {
	ClientName string `json:"client_name" binding:"required"`
}

func (h *StatusHandler) Create(c *gin.Context) {
	var req StatusCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	check, err := h.catalog.CreateStatusCheck(c.Request.Context(), req.ClientName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (h *StatusHandler) List(c *gin.Context) {
	checks, err := h.catalog.ListStatusChecks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}
