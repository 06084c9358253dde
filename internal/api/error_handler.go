package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vitaltrack/health-system/internal/core/domain"
)

// errorBody is the inner payload of the canonical error envelope.
type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// errorResponse is the canonical error envelope for all API errors:
// {"error": {"code", "message", "details?"}}.
type errorResponse struct {
	Error errorBody `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Unpacks validation failures into {field, message} details.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{Error: body})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorBody) {
	// Echo's own errors (bind failures, 404 from router, middleware errors).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorBody{Code: codeForStatus(he.Code), Message: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorBody{
			Code:    "VALIDATION_FAILED",
			Message: "validation failed",
			Details: ve.Fields,
		}
	}

	// Known domain errors map to deterministic statuses. NotFound covers both
	// absent resources and out-of-ownership-scope ones, indistinguishably.
	switch {
	case errors.Is(err, domain.ErrInvalidUpdate):
		return http.StatusBadRequest, errorBody{Code: "INVALID_UPDATE", Message: "unknown fields in update"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Message: "invalid credentials"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Message: "invalid token"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorBody{Code: "FORBIDDEN", Message: "access forbidden"}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "resource not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorBody{Code: "CONFLICT", Message: "email already registered",
			Details: []domain.FieldError{{Field: "email", Message: "already registered"}}}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorBody{Code: "INTERNAL_ERROR", Message: "internal server error"}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_FAILED"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}
