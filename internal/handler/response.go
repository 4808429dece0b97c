package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapError translates client errors to HTTP status codes and error codes.
// Failures of the upstream API surface as gateway errors so the sender retries
// the webhook.
func MapError(err error) (status int, code, msg string) {
	apiErr, ok := domain.AsError(err)
	switch {
	case !ok:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	case domain.IsValidation(err):
		return http.StatusBadRequest, "INVALID_REQUEST", apiErr.Message
	case domain.IsTimeout(err):
		return http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", apiErr.Message
	case apiErr.Code == domain.CodeCanceled:
		return http.StatusServiceUnavailable, "CANCELED", apiErr.Message
	case apiErr.Status == http.StatusNotFound:
		return http.StatusNotFound, "JOB_NOT_FOUND", apiErr.Message
	default:
		return http.StatusBadGateway, "UPSTREAM_ERROR", apiErr.Message
	}
}

// HandleError maps an error and sends the appropriate error response.
func HandleError(c *gin.Context, log zerolog.Logger, err error) {
	status, code, msg := MapError(err)
	if status >= 500 {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.ContextKeyRequestID)).
			Msg("request failed")
	}
	RespondError(c, status, code, msg)
}
