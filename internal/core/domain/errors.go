package domain

import "errors"

// Authentication errors. Every rejection leaves the session state unchanged.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedCode      = errors.New("malformed QR code")
	ErrUnknownIdentity    = errors.New("unknown identity")
	ErrReplayedCode       = errors.New("QR code already used")
)

// Registration validation errors. The registry is never mutated when one of
// these is returned.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidPhone      = errors.New("phone must be exactly 10 digits")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
)
