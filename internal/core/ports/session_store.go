package ports

import (
	"context"

	"github.com/whms/health-portal/internal/core/domain"
)

// SessionStore holds the single mutable authenticated-session value with
// persistence across process restarts.
type SessionStore interface {
	// Open replaces any existing session and persists it.
	Open(ctx context.Context, session *domain.Session) error

	// Restore reads the persisted session. An unparsable stored value is
	// treated as absent and the stale entry is cleared; absence is
	// (nil, nil), never an error.
	Restore(ctx context.Context) (*domain.Session, error)

	// Close clears in-memory and durable session state.
	Close(ctx context.Context) error
}
