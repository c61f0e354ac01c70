package middlewares

import (
	"errors"
	"net/http"

	"wellness/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var moderation *services.ContentModerationError
		if errors.As(err, &moderation) {
			c.JSON(moderation.StatusCode(), moderation)
			return
		}
		var input *services.InputError
		if errors.As(err, &input) {
			c.JSON(http.StatusBadRequest, gin.H{"message": input.Message})
			return
		}

		status := StatusFor(err)
		if status >= 500 {
			log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		message := err.Error()
		if status == http.StatusInternalServerError {
			message = "Internal server error"
		}
		c.JSON(status, gin.H{"message": message})
	}
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrMalformedResponse),
		errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidVerification),
		errors.Is(err, services.ErrUnsupportedAlgorithm),
		errors.Is(err, services.ErrWellnessDataExists),
		errors.Is(err, services.ErrProfileWeightMissing),
		errors.Is(err, services.ErrVerificationChannelNil):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNoResponse),
		errors.Is(err, services.ErrModerationService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
