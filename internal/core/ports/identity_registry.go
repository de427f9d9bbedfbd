package ports

import (
	"context"

	"github.com/whms/health-portal/internal/core/domain"
)

// IdentityRegistry is the roster of enrollable identities, bucketed by role.
type IdentityRegistry interface {
	// FindByCredentials performs an exact match on username and password
	// within the role's bucket. Usernames are unique within a role, so at
	// most one identity can match.
	FindByCredentials(username, password string, role domain.Role) (*domain.Identity, bool)

	// FindByID resolves a QR-scanned identity; id and username must both
	// match the same record.
	FindByID(id, username string) (*domain.Identity, bool)

	// Register creates a new worker identity from self-registration input.
	// It fails with ErrDuplicateUsername, ErrInvalidPhone, or
	// ErrWeakPassword before mutating the roster.
	Register(ctx context.Context, in domain.RegistrationInput) (*domain.Identity, error)

	// ListRole returns a snapshot of one role's bucket.
	ListRole(role domain.Role) []domain.Identity
}

// IdentityStore persists runtime-registered identities across restarts.
type IdentityStore interface {
	// LoadRegistered returns the previously persisted self-registered
	// identities. Corrupt stored state is treated as absence, not an error.
	LoadRegistered(ctx context.Context) ([]domain.Identity, error)

	// SaveRegistered replaces the persisted set of self-registered
	// identities.
	SaveRegistered(ctx context.Context, identities []domain.Identity) error
}
