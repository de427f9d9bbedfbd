package domain

import "time"

// Role classifies an enrollable identity. Buckets in the registry are keyed
// by Role, never by a derived string.
type Role string

const (
	RoleWorker Role = "worker"
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

// Roles lists every valid role, in display order.
var Roles = []Role{RoleWorker, RoleDoctor, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Identity models one enrollable person in the registry.
//
// The password is compared exactly; this is a demonstration system and QR
// payloads are plaintext identity claims, not signed tokens. The password is
// still kept out of the JSON shape so API responses never carry it; the
// storage layer owns its own document type.
type Identity struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Username    string    `json:"username"`
	Password    string    `json:"-"`
	DisplayName string    `json:"name"`
	Phone       string    `json:"phone"`
	// Role-specific attributes.
	Department     string `json:"department,omitempty"`     // workers
	Specialization string `json:"specialization,omitempty"` // doctors
	Title          string `json:"title,omitempty"`          // admins
	// RegisteredAt is zero for built-in identities and set for identities
	// created by self-registration. Only registered identities persist.
	RegisteredAt time.Time `json:"registered_at,omitzero"`
}

// Registered reports whether the identity was created by self-registration
// at runtime, as opposed to being built in at registry construction.
func (i *Identity) Registered() bool {
	return !i.RegisteredAt.IsZero()
}

// RegistrationInput carries the fields a worker submits to self-register.
// Values arrive already trimmed.
type RegistrationInput struct {
	Name     string
	Username string
	Phone    string
	Password string
}
