package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/logger"
)

// respondError writes {"error": msg} with the status mapped from err.
// Unclassified errors are logged in full and answered with a generic message.
func respondError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	message := err.Error()

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		message = internalErrorMsg
	}

	fields := logger.WithContext(c)
	fields["status_code"] = status
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, fields)
	} else {
		fields["error"] = message
		logger.Warn("Request rejected", fields)
	}

	c.JSON(status, gin.H{"error": message})
}

// bindOptionalJSON decodes a JSON body; an empty body leaves obj untouched
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Wrap(apperr.KindInvalidInput, err, "Invalid JSON")
	}
	return nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
