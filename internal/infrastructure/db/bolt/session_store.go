package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	bbolt "go.etcd.io/bbolt"

	"github.com/whms/health-portal/internal/core/domain"
)

// SessionStore persists the single authenticated session under the session
// key, so a restart restores the logged-in state.
type SessionStore struct {
	db  *bbolt.DB
	log zerolog.Logger
}

func NewSessionStore(db *bbolt.DB, log zerolog.Logger) *SessionStore {
	return &SessionStore{db: db, log: log}
}

// boltSession is the stored document shape. The domain Session elides the
// identity's password from JSON, so the store keeps its own document: a
// restored session must carry the identity whole.
type boltSession struct {
	Identity   boltIdentity `json:"identity"`
	Role       string       `json:"role"`
	LoggedInAt time.Time    `json:"logged_in_at"`
}

// Open replaces any existing session and persists it.
func (s *SessionStore) Open(ctx context.Context, session *domain.Session) error {
	doc := boltSession{
		Identity:   identityToDoc(session.Identity),
		Role:       string(session.Role),
		LoggedInAt: session.LoggedInAt,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(keySession), raw)
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Restore reads the persisted session. A corrupt stored value is cleared
// and reported as absence.
func (s *SessionStore) Restore(ctx context.Context) (*domain.Session, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(bucketName)).Get([]byte(keySession)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var doc boltSession
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn().Err(err).Msg("stored session is corrupt, clearing")
		return nil, s.Close(ctx)
	}
	return &domain.Session{
		Identity:   identityFromDoc(doc.Identity),
		Role:       domain.Role(doc.Role),
		LoggedInAt: doc.LoggedInAt,
	}, nil
}

// Close clears the persisted session.
func (s *SessionStore) Close(ctx context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(keySession))
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
