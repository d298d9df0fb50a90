package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/relabel/internal/models"
)

// Envelope is the body of every API response
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func sendSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func sendError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

// sendServiceError maps a service error onto a status code. notFound is the
// message used for ErrLabelNotFound; internal details are only logged.
func sendServiceError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, models.ErrInvalidValue):
		sendError(c, http.StatusBadRequest, "Label value is required")
	case errors.Is(err, models.ErrInvalidArgument):
		sendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrLabelNotFound):
		sendError(c, http.StatusNotFound, notFound)
	default:
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
		sendError(c, http.StatusInternalServerError, "Operation failed")
	}
}
