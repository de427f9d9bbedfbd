package ports

import (
	"context"

	"github.com/whms/health-portal/internal/core/domain"
	"github.com/whms/health-portal/internal/credential"
)

// AuthService reconciles a credential (password or decoded QR payload) into
// an authenticated session. Successful logins return the session and a
// bearer token for the HTTP surface.
type AuthService interface {
	LoginWithPassword(ctx context.Context, username, password string, role domain.Role) (*domain.Session, string, error)
	LoginWithQR(ctx context.Context, raw string) (*domain.Session, string, error)

	// Logout always succeeds: it clears the session, stops any active
	// capture session, and returns to the unauthenticated state.
	Logout(ctx context.Context) error

	// Current returns the restored session, or nil when unauthenticated.
	Current(ctx context.Context) (*domain.Session, error)
}

// ScanStopper releases the camera held by an active capture session. Stop is
// idempotent and safe to call when no scan is running.
type ScanStopper interface {
	Stop()
}

// ReplayGuard remembers recently used QR payloads so a scanned code cannot
// open a second session. Implementations are optional; a nil guard disables
// the check.
type ReplayGuard interface {
	Seen(ctx context.Context, p *credential.Payload) (bool, error)
	Mark(ctx context.Context, p *credential.Payload) error
}
