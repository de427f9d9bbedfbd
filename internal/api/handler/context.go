package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/whms/health-portal/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty role
// proves the middleware ran, and every token the portal issues carries the
// identity id.
func ctxClaims(c echo.Context) (role domain.Role, identityID, username string, err error) {
	roleStr, _ := c.Get("role").(string)
	if roleStr == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	identityID, _ = c.Get("identity_id").(string)
	username, _ = c.Get("username").(string)
	if identityID == "" || username == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing identity")
	}

	return domain.Role(roleStr), identityID, username, nil
}
