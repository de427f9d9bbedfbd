// Package bolt provides the portal's durable local key-value storage. All
// state that survives a restart (the current session and the self-registered
// workers) lives in one bbolt file as JSON values.
package bolt

import (
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"
)

const (
	bucketName = "portal"

	keySession              = "session"
	keyRegisteredIdentities = "registered_identities"
)

const openTimeout = 5 * time.Second

// Open opens (creating if needed) the portal database at path and ensures
// the portal bucket exists.
func Open(path string) (*bbolt.DB, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("bolt open: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt init: %w", err)
	}

	return db, nil
}
