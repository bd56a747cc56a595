package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jpart-gallery/gallery-api/internal/models"
	"github.com/jpart-gallery/gallery-api/internal/services"
)

// CatalogHandler serves artworks and categories
type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req models.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListArtworks handles GET /api/artworks?query&category&year&status_f&sort
func (h *CatalogHandler) ListArtworks(c *gin.Context) {
	filter := services.ArtworkFilter{
		Query:    c.Query(queryText),
		Category: c.Query(queryCategory),
		Status:   c.Query(queryStatus),
		Sort:     c.DefaultQuery(querySort, services.SortPriceAsc),
	}
	if raw := c.Query(queryYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
			return
		}
		filter.Year = &year
	}

	artworks, err := h.catalog.ListArtworks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, artworks)
}

func (h *CatalogHandler) GetArtwork(c *gin.Context) {
	artwork, err := h.catalog.GetArtwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, artwork)
}

func (h *CatalogHandler) CreateArtwork(c *gin.Context) {
	var req services.ArtworkInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	artwork, err := h.catalog.CreateArtwork(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, artwork)
}

// UpdateArtwork applies a partial update; absent fields keep their value
func (h *CatalogHandler) UpdateArtwork(c *gin.Context) {
	var req services.ArtworkInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	artwork, err := h.catalog.UpdateArtwork(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, artwork)
}

func (h *CatalogHandler) DeleteArtwork(c *gin.Context) {
	if err := h.catalog.DeleteArtwork(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
