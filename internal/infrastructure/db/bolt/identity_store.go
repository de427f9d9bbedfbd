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

// IdentityStore persists self-registered worker identities under the
// registered_identities key.
type IdentityStore struct {
	db  *bbolt.DB
	log zerolog.Logger
}

func NewIdentityStore(db *bbolt.DB, log zerolog.Logger) *IdentityStore {
	return &IdentityStore{db: db, log: log}
}

// boltIdentity is the stored document shape, shared by the identity and
// session stores. Unlike the domain type it carries the password, which must
// survive a restart for later password logins.
type boltIdentity struct {
	ID             string    `json:"id"`
	Role           string    `json:"role"`
	Username       string    `json:"username"`
	Password       string    `json:"password"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Department     string    `json:"department,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	Title          string    `json:"title,omitempty"`
	RegisteredAt   time.Time `json:"registered_at"`
}

func identityToDoc(id domain.Identity) boltIdentity {
	return boltIdentity{
		ID:             id.ID,
		Role:           string(id.Role),
		Username:       id.Username,
		Password:       id.Password,
		Name:           id.DisplayName,
		Phone:          id.Phone,
		Department:     id.Department,
		Specialization: id.Specialization,
		Title:          id.Title,
		RegisteredAt:   id.RegisteredAt,
	}
}

func identityFromDoc(d boltIdentity) domain.Identity {
	return domain.Identity{
		ID:             d.ID,
		Role:           domain.Role(d.Role),
		Username:       d.Username,
		Password:       d.Password,
		DisplayName:    d.Name,
		Phone:          d.Phone,
		Department:     d.Department,
		Specialization: d.Specialization,
		Title:          d.Title,
		RegisteredAt:   d.RegisteredAt,
	}
}

// LoadRegistered returns the persisted self-registered workers. An
// unparsable stored value is cleared and treated as absence.
func (s *IdentityStore) LoadRegistered(ctx context.Context) ([]domain.Identity, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(bucketName)).Get([]byte(keyRegisteredIdentities)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load registered identities: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var docs []boltIdentity
	if err := json.Unmarshal(raw, &docs); err != nil {
		s.log.Warn().Err(err).Msg("stored registrations are corrupt, clearing")
		return nil, s.clear(keyRegisteredIdentities)
	}

	identities := make([]domain.Identity, 0, len(docs))
	for _, d := range docs {
		identities = append(identities, identityFromDoc(d))
	}
	return identities, nil
}

// SaveRegistered replaces the persisted set of self-registered workers.
func (s *IdentityStore) SaveRegistered(ctx context.Context, identities []domain.Identity) error {
	docs := make([]boltIdentity, 0, len(identities))
	for _, id := range identities {
		docs = append(docs, identityToDoc(id))
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshal registered identities: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(keyRegisteredIdentities), raw)
	})
	if err != nil {
		return fmt.Errorf("save registered identities: %w", err)
	}
	return nil
}

func (s *IdentityStore) clear(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
}
