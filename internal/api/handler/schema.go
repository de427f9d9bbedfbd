package handler

import (
	"github.com/whms/health-portal/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Username string `json:"username" validate:"required"`
	Phone    string `json:"phone"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=worker doctor admin"`
}

type qrLoginRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// --- Response types ---

// Identity and Session marshal without secrets, so the domain types are the
// response shapes; only composites are declared here.

type registerResponse struct {
	Identity *domain.Identity `json:"identity"`
	Payload  string           `json:"payload"`
	QRImage  string           `json:"_qr_image"`
}

type authResponse struct {
	Token   string          `json:"token,omitempty"`
	Session *domain.Session `json:"session,omitempty"`
}

type identityListResponse struct {
	Role       string            `json:"role"`
	Identities []domain.Identity `json:"identities"`
}

type scanStartedResponse struct {
	State string `json:"state"`
}
