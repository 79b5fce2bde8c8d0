// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/quotelink/internal/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	OK      bool            `json:"ok"`
	Error   string          `json:"error"`
	Message string          `json:"message,omitempty"`
	CRMRaw  json.RawMessage `json:"crm_raw,omitempty"`
}

// HandleErrorGin maps domain errors to HTTP status codes and writes an ErrorResponse.
// Upstream replies are echoed in crm_raw for errors that came from the CRM.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse
	includeRaw := false

	// Order matters: a rejected write also carries the invalid-token cause.
	switch {
	case apperrors.Is(err, apperrors.ErrMissingParameter):
		statusCode = http.StatusBadRequest
		errorResponse = ErrorResponse{
			Error:   "missing_parameter",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrInvalidParameter):
		statusCode = http.StatusBadRequest
		errorResponse = ErrorResponse{
			Error:   "invalid_parameter",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusUnprocessableEntity
		errorResponse = ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrLinkExpired):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{
			Error:   "link_expired",
			Message: "This quote link has expired",
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{
			Error:   "forbidden",
			Message: "Invalid token",
		}

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = ErrorResponse{
			Error:   "not_found",
			Message: "Quote not found",
		}
		includeRaw = true

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		errorResponse = ErrorResponse{
			Error:   "conflict",
			Message: "A conflict occurred with existing data",
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication is required",
		}

	case apperrors.Is(err, apperrors.ErrCooldownActive):
		statusCode = http.StatusBadGateway
		errorResponse = ErrorResponse{
			Error:   "crm_auth_cooldown",
			Message: "CRM token refresh is rate limited, try again shortly",
		}
		if after := apperrors.RetryAfter(err); after > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(after.Seconds()))))
		}

	case apperrors.Is(err, apperrors.ErrAuthFailure):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   "crm_auth_failed",
			Message: "Failed to refresh CRM access token",
		}
		includeRaw = true

	case apperrors.Is(err, apperrors.ErrUpstreamRejected):
		statusCode = http.StatusBadRequest
		errorResponse = ErrorResponse{
			Error:   "crm_rejected",
			Message: "CRM did not accept the update",
		}
		includeRaw = true

	case apperrors.Is(err, apperrors.ErrUpstreamFailure), apperrors.Is(err, apperrors.ErrUpstreamTokenInvalid):
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   "crm_error",
			Message: "CRM request failed",
		}
		includeRaw = true

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}

	if includeRaw {
		errorResponse.CRMRaw = apperrors.RawPayload(err)
	}

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 400 response for requests that fail validation. A malformed
// parameter is reported as invalid_parameter; everything else counts as a missing parameter
// from the quote page's point of view.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	code := "missing_parameter"
	if apperrors.Is(err, apperrors.ErrInvalidParameter) {
		code = "invalid_parameter"
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
