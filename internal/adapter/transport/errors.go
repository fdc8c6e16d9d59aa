package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eslsoft/islamic-sources/internal/core"
	"github.com/eslsoft/islamic-sources/internal/platform/logger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body for err and aborts the chain.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}

	if status == http.StatusInternalServerError {
		var pe *core.PersistenceError
		if errors.As(err, &pe) {
			body.Error = "failed to " + pe.Op
			body.Details = pe.Detail()
		} else {
			body.Error = "internal server error"
		}
		if log != nil {
			log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
