package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/video-sharing-platform/internal/service"
)

// Response is the uniform envelope for every endpoint. Success mirrors
// whether the status code is below 400 so clients can branch without
// inspecting codes.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// respondError maps service sentinels onto HTTP statuses. Internal detail
// never leaks: unknown errors collapse to a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respond(c, http.StatusBadRequest, nil, trimOp(err))
	case errors.Is(err, service.ErrUnauthorized):
		respond(c, http.StatusUnauthorized, nil, "unauthorized request")
	case errors.Is(err, service.ErrForbidden):
		respond(c, http.StatusForbidden, nil, "you are not allowed to perform this action")
	case errors.Is(err, service.ErrNotFound):
		respond(c, http.StatusNotFound, nil, trimOp(err))
	default:
		respond(c, http.StatusInternalServerError, nil, "something went wrong")
	}
}

// respondBadRequest is for request-shape failures caught before any service
// call.
func respondBadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, nil, message)
}

// trimOp reduces a wrapped service error to its human-readable core.
// Service errors read "service/x/Op: detail: sentinel"; the operation
// prefix and the bare sentinel are dropped when a detail segment exists.
func trimOp(err error) string {
	segments := strings.Split(err.Error(), ": ")
	if len(segments) > 1 && strings.HasPrefix(segments[0], "service/") {
		segments = segments[1:]
	}
	if len(segments) > 1 {
		segments = segments[:len(segments)-1]
	}
	return strings.Join(segments, ": ")
}
