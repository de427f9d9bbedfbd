package service

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/whms/health-portal/internal/metrics"
	"github.com/whms/health-portal/internal/core/domain"
	"github.com/whms/health-portal/internal/core/ports"
)

// workerIDPrefix marks ids minted for self-registered workers.
const workerIDPrefix = "WKR-"

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Registry is the in-memory identity roster, bucketed by role. Built-in
// identities are seeded at construction; self-registered workers are merged
// from the store and persisted back on every registration.
type Registry struct {
	store ports.IdentityStore
	log   zerolog.Logger

	mu      sync.RWMutex
	buckets map[domain.Role][]domain.Identity
}

// NewRegistry builds the roster from the built-in identities plus any
// previously persisted self-registered workers. The merge is idempotent:
// a persisted identity whose id already exists is skipped.
func NewRegistry(ctx context.Context, store ports.IdentityStore, log zerolog.Logger) (*Registry, error) {
	r := &Registry{
		store:   store,
		log:     log,
		buckets: builtinIdentities(),
	}

	if store == nil {
		return r, nil
	}

	persisted, err := store.LoadRegistered(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range persisted {
		if id.Role != domain.RoleWorker {
			continue
		}
		if _, ok := r.findByIDLocked(id.ID); ok {
			continue
		}
		r.buckets[domain.RoleWorker] = append(r.buckets[domain.RoleWorker], id)
	}
	if n := len(persisted); n > 0 {
		log.Info().Int("count", n).Msg("merged persisted worker registrations")
	}

	return r, nil
}

// FindByCredentials performs an exact match on username and password within
// the role's bucket.
func (r *Registry) FindByCredentials(username, password string, role domain.Role) (*domain.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.buckets[role] {
		if id.Username == username && id.Password == password {
			clone := id
			return &clone, true
		}
	}
	return nil, false
}

// FindByID resolves a QR-scanned identity. Both id and username must match
// the same record.
func (r *Registry) FindByID(id, username string) (*domain.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range domain.Roles {
		for _, candidate := range r.buckets[role] {
			if candidate.ID == id && candidate.Username == username {
				clone := candidate
				return &clone, true
			}
		}
	}
	return nil, false
}

// Register creates a new worker identity. Validation runs before any
// mutation; on success the full set of self-registered workers is persisted.
func (r *Registry) Register(ctx context.Context, in domain.RegistrationInput) (*domain.Identity, error) {
	if len(in.Password) < 6 {
		metrics.RegistrationsTotal.WithLabelValues("weak_password").Inc()
		return nil, domain.ErrWeakPassword
	}
	if !phonePattern.MatchString(in.Phone) {
		metrics.RegistrationsTotal.WithLabelValues("invalid_phone").Inc()
		return nil, domain.ErrInvalidPhone
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Only workers self-register, so the duplicate check is scoped to the
	// worker bucket.
	for _, existing := range r.buckets[domain.RoleWorker] {
		if existing.Username == in.Username {
			metrics.RegistrationsTotal.WithLabelValues("duplicate_username").Inc()
			return nil, domain.ErrDuplicateUsername
		}
	}

	identity := domain.Identity{
		ID:           workerIDPrefix + uuid.NewString(),
		Role:         domain.RoleWorker,
		Username:     in.Username,
		Password:     in.Password,
		DisplayName:  in.Name,
		Phone:        in.Phone,
		Department:   "General",
		RegisteredAt: time.Now().UTC(),
	}
	r.buckets[domain.RoleWorker] = append(r.buckets[domain.RoleWorker], identity)

	if r.store != nil {
		if err := r.store.SaveRegistered(ctx, r.registeredLocked()); err != nil {
			// The roster keeps the identity; persistence is retried on the
			// next registration.
			r.log.Warn().Err(err).Str("id", identity.ID).Msg("failed to persist worker registrations")
		}
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	r.log.Info().Str("id", identity.ID).Str("username", identity.Username).Msg("worker registered")

	clone := identity
	return &clone, nil
}

// ListRole returns a snapshot of one role's bucket.
func (r *Registry) ListRole(role domain.Role) []domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Identity, len(r.buckets[role]))
	copy(out, r.buckets[role])
	return out
}

// registeredLocked returns the self-registered workers. Built-in identities
// never persist. Callers hold r.mu.
func (r *Registry) registeredLocked() []domain.Identity {
	var out []domain.Identity
	for _, id := range r.buckets[domain.RoleWorker] {
		if id.Registered() {
			out = append(out, id)
		}
	}
	return out
}

func (r *Registry) findByIDLocked(id string) (*domain.Identity, bool) {
	for _, role := range domain.Roles {
		for i := range r.buckets[role] {
			if r.buckets[role][i].ID == id {
				return &r.buckets[role][i], true
			}
		}
	}
	return nil, false
}
