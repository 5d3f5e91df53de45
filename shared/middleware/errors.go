package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ApiError is the error body returned by every EWM endpoint.
type ApiError struct {
	Errors    []string `json:"errors"`
	Message   string   `json:"message"`
	Reason    string   `json:"reason"`
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
}

func statusName(code int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}

func respond(c *gin.Context, code int, reason, message string, details []string) {
	if details == nil {
		details = []string{}
	}
	c.AbortWithStatusJSON(code, ApiError{
		Errors:    details,
		Message:   message,
		Reason:    reason,
		Status:    statusName(code),
		Timestamp: utils.FormatDateTime(utils.Now()),
	})
}

func RespondWithError(c *gin.Context, code int, message string) {
	reason := "Incorrectly made request."
	switch code {
	case http.StatusUnauthorized:
		reason = "Authentication is required."
	case http.StatusTooManyRequests:
		reason = "Request rate limit exceeded."
	case http.StatusInternalServerError:
		reason = "Unexpected error."
	}
	respond(c, code, reason, message, nil)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithAppError writes the ApiError matching err. Unclassified errors
// are logged and hidden behind a generic 500 message.
func RespondWithAppError(c *gin.Context, err error) {
	code := StatusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		message = "Internal server error"
	}
	respond(c, code, apperrors.Reason(err), message, nil)
}
