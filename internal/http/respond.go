package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coursehub/internal/service"
)

// Every response goes out in one envelope shape: data on success, message on
// failure, both stamped with status, timestamp and request path.

type dataEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Data       any    `json:"data"`
}

type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Message    string `json:"message"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, dataEnvelope{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request.URL.RequestURI(),
		Data:       data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, errorEnvelope{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request.URL.RequestURI(),
		Message:    message,
	})
}

// respondServiceError translates the service error taxonomy to HTTP statuses.
// Unrecognized errors are logged and surface as an opaque 500.
func (h *Handler) respondServiceError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(c, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, service.ErrUsernameTaken):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrCourseNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).Errorf("%s %s failed", c.Request.Method, c.Request.URL.Path)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
