package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

const storeFailureMessage = "Database connection failed"

// respondError maps domain errors onto the {success:false,error} envelope.
// Store failures are logged with detail and answered with a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validationMessage(err)})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Entry not found"})
	default:
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": storeFailureMessage})
	}
}

// validationMessage strips the sentinel prefix, "validation failed: x" becomes "x".
func validationMessage(err error) string {
	msg := err.Error()
	if _, rest, ok := strings.Cut(msg, models.ErrValidation.Error()+": "); ok {
		return rest
	}
	return msg
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}
