package response

import (
	"errors"
	"net/http"

	xerrors "parqueo-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	c.JSON(code, resp)
}

// DomainError maps an engine/service error onto the HTTP status implied by
// its sentinel and sends the standard envelope.
func DomainError(c *gin.Context, err error) {
	Error(c, statusFor(err), xerrors.MessageOrDefault(err, "request failed"), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrConflict), errors.Is(err, xerrors.ErrNoAvailability):
		return http.StatusConflict
	case errors.Is(err, xerrors.ErrExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
