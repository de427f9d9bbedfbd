package ports

import (
	"context"

	"github.com/whms/health-portal/internal/core/domain"
)

// ScanStatus is a snapshot of the capture session and, once a code has been
// decoded, the login outcome.
type ScanStatus struct {
	State         string          `json:"state"`
	Authenticated bool            `json:"authenticated"`
	Token         string          `json:"token,omitempty"`
	Session       *domain.Session `json:"session,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// ScanService drives the QR login flow end to end: it starts the capture
// session, consumes decoded payloads, and turns them into sessions.
type ScanService interface {
	// Start begins a scan. Starting while a scan is already running is a
	// no-op.
	Start(ctx context.Context) error

	// Stop releases the camera; this is the modal-dismissal path.
	Stop()

	Status() ScanStatus
}
