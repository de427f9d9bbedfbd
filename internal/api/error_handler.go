package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/whms/health-portal/internal/capture"
	"github.com/whms/health-portal/internal/core/domain"
	"github.com/whms/health-portal/internal/infrastructure/camera"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrMalformedCode):
		return http.StatusUnprocessableEntity, "malformed QR code"
	case errors.Is(err, domain.ErrUnknownIdentity):
		return http.StatusNotFound, "unknown identity"
	case errors.Is(err, domain.ErrReplayedCode):
		return http.StatusConflict, "QR code already used"
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidPhone), errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, capture.ErrCameraUnavailable):
		return http.StatusServiceUnavailable, "camera unavailable"
	case errors.Is(err, camera.ErrNoActiveStream):
		return http.StatusConflict, "no scan in progress"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
