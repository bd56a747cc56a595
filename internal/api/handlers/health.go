package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jpart-gallery/gallery-api/internal/database"
	"github.com/jpart-gallery/gallery-api/internal/logger"
	"gorm.io/gorm"
)

const serviceName = "gallery-api"

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root answers the bare liveness probe
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": serviceName})
}

// APIRoot answers GET /api/
func (h *HealthHandler) APIRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
}

// HealthCheck returns the health status of the API and its database
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "disabled"})
		return
	}

	if err := database.Ping(h.db); err != nil {
		logger.Warn("Database ping failed", logger.Fields{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}
