package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/whms/health-portal/internal/core/domain"
	"github.com/whms/health-portal/internal/core/ports"
	"github.com/whms/health-portal/internal/credential"
)

type AuthHandler struct {
	authService ports.AuthService
	registry    ports.IdentityRegistry
}

func NewAuthHandler(authService ports.AuthService, registry ports.IdentityRegistry) *AuthHandler {
	return &AuthHandler{authService: authService, registry: registry}
}

// Register creates a new worker identity and returns its login credential.
//
// @Summary      Self-register a worker
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Worker registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.registry.Register(c.Request().Context(), domain.RegistrationInput{
		Name:     req.Name,
		Username: req.Username,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	payload, err := credential.Encode(identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Identity: identity,
		Payload:  payload,
		QRImage:  "/identities/" + identity.ID + "/qr.png",
	})
}

// Login authenticates a username/password submission for a role.
//
// @Summary      Password login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, token, err := h.authService.LoginWithPassword(c.Request().Context(), req.Username, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, Session: session})
}

// LoginQR authenticates a raw scanned payload decoded by the client.
//
// @Summary      QR login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      qrLoginRequest  true  "Raw scanned payload"
// @Success      200   {object}  authResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/qr [post]
func (h *AuthHandler) LoginQR(c echo.Context) error {
	var req qrLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, token, err := h.authService.LoginWithQR(c.Request().Context(), req.Payload)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, Session: session})
}

// Logout tears down the session. It cannot fail.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the current authenticated session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	if _, _, _, err := ctxClaims(c); err != nil {
		return err
	}

	session, err := h.authService.Current(c.Request().Context())
	if err != nil {
		return err
	}
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	return c.JSON(http.StatusOK, authResponse{Session: session})
}
