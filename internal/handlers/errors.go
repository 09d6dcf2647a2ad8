package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gigline/gigline/internal/services"
	"github.com/gin-gonic/gin"
)

// statusFromError maps the service error taxonomy onto HTTP codes.
// Anything unrecognized is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}

// pagination reads offset/limit query params with sane bounds.
func pagination(c *gin.Context) (int, int) {
	offset := 0
	limit := 20
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	return offset, limit
}
