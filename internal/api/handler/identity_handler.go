package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/whms/health-portal/internal/core/domain"
	"github.com/whms/health-portal/internal/core/ports"
	"github.com/whms/health-portal/internal/credential"
)

type IdentityHandler struct {
	registry ports.IdentityRegistry
}

func NewIdentityHandler(registry ports.IdentityRegistry) *IdentityHandler {
	return &IdentityHandler{registry: registry}
}

// List returns one role's bucket. Admin only (enforced by RBAC middleware).
//
// @Summary      List identities for a role
// @Tags         identities
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "Role bucket (default worker)"
// @Success      200   {object}  identityListResponse
// @Failure      400   {object}  errorResponse
// @Router       /identities [get]
func (h *IdentityHandler) List(c echo.Context) error {
	role := domain.Role(c.QueryParam("role"))
	if role == "" {
		role = domain.RoleWorker
	}
	if !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	return c.JSON(http.StatusOK, identityListResponse{
		Role:       string(role),
		Identities: h.registry.ListRole(role),
	})
}

// QRBadge renders an identity's login credential as a QR PNG. Admins may
// fetch any badge; a worker may fetch only their own.
//
// @Summary      Download an identity's QR badge
// @Tags         identities
// @Produce      png
// @Security     BearerAuth
// @Param        id  path  string  true  "Identity id"
// @Success      200
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /identities/{id}/qr.png [get]
func (h *IdentityHandler) QRBadge(c echo.Context) error {
	role, identityID, username, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	var identity *domain.Identity
	switch {
	case role == domain.RoleAdmin:
		identity = h.findByIDAnyRole(id)
	case identityID == id:
		// Both fields must match the same record, same as QR resolution.
		identity, _ = h.registry.FindByID(id, username)
	default:
		return echo.NewHTTPError(http.StatusForbidden, "not your badge")
	}
	if identity == nil {
		return domain.ErrUnknownIdentity
	}

	payload, err := credential.Encode(identity)
	if err != nil {
		return err
	}
	png, err := credential.RenderPNG(payload)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *IdentityHandler) findByIDAnyRole(id string) *domain.Identity {
	for _, role := range domain.Roles {
		for _, candidate := range h.registry.ListRole(role) {
			if candidate.ID == id {
				clone := candidate
				return &clone
			}
		}
	}
	return nil
}
