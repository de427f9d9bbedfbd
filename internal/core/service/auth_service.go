package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/whms/health-portal/internal/metrics"
	"github.com/whms/health-portal/internal/core/domain"
	"github.com/whms/health-portal/internal/core/ports"
	"github.com/whms/health-portal/internal/credential"
)

// AuthService implements password and QR login against the identity
// registry, and owns session open/close through the session store.
type AuthService struct {
	registry  ports.IdentityRegistry
	sessions  ports.SessionStore
	scanner   ports.ScanStopper // optional
	replay    ports.ReplayGuard // optional
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService wires the authentication service. scanner and replay may be
// nil: without a scanner nothing is stopped on login, without a replay guard
// scanned payloads are accepted any number of times.
func NewAuthService(
	registry ports.IdentityRegistry,
	sessions ports.SessionStore,
	scanner ports.ScanStopper,
	replay ports.ReplayGuard,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		registry:  registry,
		sessions:  sessions,
		scanner:   scanner,
		replay:    replay,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// LoginWithPassword authenticates a (username, password, role) submission
// and opens a session scoped to that role.
func (s *AuthService) LoginWithPassword(ctx context.Context, username, password string, role domain.Role) (*domain.Session, string, error) {
	if username == "" || password == "" || !role.Valid() {
		metrics.LoginsTotal.WithLabelValues("password", "rejected").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	identity, ok := s.registry.FindByCredentials(username, password, role)
	if !ok {
		metrics.LoginsTotal.WithLabelValues("password", "rejected").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	session, token, err := s.open(ctx, identity, role)
	if err != nil {
		return nil, "", err
	}

	metrics.LoginsTotal.WithLabelValues("password", "success").Inc()
	s.log.Info().Str("username", username).Str("role", string(role)).Msg("password login")
	return session, token, nil
}

// LoginWithQR authenticates a raw scanned string. The payload kind fixes the
// role to worker. A success also stops any active capture session so the
// camera is never held by an authenticated session.
func (s *AuthService) LoginWithQR(ctx context.Context, raw string) (*domain.Session, string, error) {
	payload, err := credential.Decode(raw)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("qr", "rejected").Inc()
		return nil, "", domain.ErrMalformedCode
	}

	identity, ok := s.registry.FindByID(payload.IdentityID, payload.Username)
	if !ok {
		metrics.LoginsTotal.WithLabelValues("qr", "rejected").Inc()
		return nil, "", domain.ErrUnknownIdentity
	}

	if s.replay != nil {
		seen, err := s.replay.Seen(ctx, payload)
		if err != nil {
			s.log.Warn().Err(err).Msg("replay check failed, accepting payload")
		} else if seen {
			metrics.LoginsTotal.WithLabelValues("qr", "rejected").Inc()
			metrics.ReplayRejectionsTotal.Inc()
			return nil, "", domain.ErrReplayedCode
		}
	}

	if s.scanner != nil {
		s.scanner.Stop()
	}

	session, token, err := s.open(ctx, identity, domain.RoleWorker)
	if err != nil {
		return nil, "", err
	}

	// A code is only consumed by a login that actually opened a session.
	if s.replay != nil {
		if err := s.replay.Mark(ctx, payload); err != nil {
			s.log.Warn().Err(err).Msg("failed to mark payload as used")
		}
	}

	metrics.LoginsTotal.WithLabelValues("qr", "success").Inc()
	s.log.Info().Str("username", identity.Username).Msg("QR login")
	return session, token, nil
}

// Logout clears the session and stops any active capture session. It always
// returns to the unauthenticated state.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.scanner != nil {
		s.scanner.Stop()
	}
	if err := s.sessions.Close(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
	s.log.Info().Msg("logged out")
	return nil
}

// Current returns the restored session, or nil when unauthenticated.
func (s *AuthService) Current(ctx context.Context) (*domain.Session, error) {
	return s.sessions.Restore(ctx)
}

func (s *AuthService) open(ctx context.Context, identity *domain.Identity, role domain.Role) (*domain.Session, string, error) {
	session := &domain.Session{
		Identity:   *identity,
		Role:       role,
		LoggedInAt: time.Now().UTC(),
	}
	if err := s.sessions.Open(ctx, session); err != nil {
		return nil, "", fmt.Errorf("open session: %w", err)
	}

	token, err := s.generateToken(identity, role)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

func (s *AuthService) generateToken(identity *domain.Identity, role domain.Role) (string, error) {
	claims := jwt.MapClaims{
		"username":    identity.Username,
		"role":        string(role),
		"identity_id": identity.ID,
		"exp":         time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
