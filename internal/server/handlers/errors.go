package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrListingUnavailable):
		return http.StatusConflict
	case errors.Is(err, models.ErrEmptyExport):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrStorage):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		body["error"] = ve.Message
		body["field"] = ve.Field
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, logger *zap.Logger, message string, err error) {
	logger.Warn(message, zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
