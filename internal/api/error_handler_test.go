package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/whms/health-portal/internal/capture"
	"github.com/whms/health-portal/internal/core/domain"
	"github.com/whms/health-portal/internal/infrastructure/camera"
)

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestHTTPErrorHandlerMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"malformed code", domain.ErrMalformedCode, http.StatusUnprocessableEntity},
		{"unknown identity", domain.ErrUnknownIdentity, http.StatusNotFound},
		{"replayed code", domain.ErrReplayedCode, http.StatusConflict},
		{"duplicate username", domain.ErrDuplicateUsername, http.StatusConflict},
		{"invalid phone", domain.ErrInvalidPhone, http.StatusBadRequest},
		{"weak password", domain.ErrWeakPassword, http.StatusBadRequest},
		{"camera unavailable", capture.ErrCameraUnavailable, http.StatusServiceUnavailable},
		{"no active stream", camera.ErrNoActiveStream, http.StatusConflict},
		{"echo error", echo.NewHTTPError(http.StatusTeapot, "teapot"), http.StatusTeapot},
		{"unexpected", errors.New("bolt exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := handleError(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.code, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Fatalf("%s: missing error envelope: %s", tc.name, rec.Body.String())
		}
	}
}

func TestHTTPErrorHandlerHidesInternalDetail(t *testing.T) {
	rec := handleError(t, errors.New("bolt exploded"))
	if strings.Contains(rec.Body.String(), "bolt exploded") {
		t.Fatalf("internal error detail leaked: %s", rec.Body.String())
	}
}

func TestHTTPErrorHandlerWrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.ErrUnknownIdentity)
	rec := handleError(t, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("wrapped domain errors must still map, got %d", rec.Code)
	}
}
