// Package credential encodes and decodes the portable login credential a
// worker carries as a QR code. The payload is a plaintext identity claim,
// not a signed token; validity is established against the identity registry
// at login time.
package credential

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/whms/health-portal/internal/core/domain"
)

// KindWorkerLogin is the only payload kind the portal accepts. Any other
// kind is a decode failure.
const KindWorkerLogin = "worker_login"

// ErrMalformedPayload is returned for any input that does not parse into a
// worker_login payload. Decode fails closed: malformed input is a rejection,
// never a panic.
var ErrMalformedPayload = errors.New("malformed credential payload")

// Payload is the wire shape embedded in a worker's QR code.
type Payload struct {
	Kind       string `json:"kind"`
	IdentityID string `json:"identityId"`
	Username   string `json:"username"`
	IssuedAt   int64  `json:"issuedAt"` // unix milliseconds
}

// Encode serializes a credential payload for the given identity. The result
// round-trips: Decode(Encode(x)) carries x's id and username unchanged.
func Encode(identity *domain.Identity) (string, error) {
	p := Payload{
		Kind:       KindWorkerLogin,
		IdentityID: identity.ID,
		Username:   identity.Username,
		IssuedAt:   time.Now().UnixMilli(),
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Decode parses a raw scanned string into a Payload. Every camera-derived
// string passes through here before it reaches authentication.
func Decode(raw string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, ErrMalformedPayload
	}
	if p.Kind != KindWorkerLogin {
		return nil, ErrMalformedPayload
	}
	if p.IdentityID == "" || p.Username == "" {
		return nil, ErrMalformedPayload
	}
	return &p, nil
}
