package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/whms/health-portal/internal/capture"
	"github.com/whms/health-portal/internal/core/ports"
)

// CaptureDriver is the slice of capture.Session the scan service drives.
type CaptureDriver interface {
	Start(ctx context.Context) (<-chan capture.Result, error)
	Stop()
	State() capture.State
}

// ScanService connects the capture loop to authentication: every decoded
// payload is handed to LoginWithQR and the outcome is kept for the UI to
// poll.
type ScanService struct {
	capture CaptureDriver
	auth    ports.AuthService
	log     zerolog.Logger

	mu      sync.Mutex
	outcome ports.ScanStatus
}

func NewScanService(capture CaptureDriver, auth ports.AuthService, log zerolog.Logger) *ScanService {
	return &ScanService{capture: capture, auth: auth, log: log}
}

// Start begins a scan and spawns the result consumer. Starting while a scan
// is already running is a no-op.
func (s *ScanService) Start(ctx context.Context) error {
	results, err := s.capture.Start(ctx)
	if err != nil {
		s.setOutcome(ports.ScanStatus{Error: err.Error()})
		return err
	}
	if results == nil {
		return nil
	}

	s.setOutcome(ports.ScanStatus{})
	go s.consume(results)
	return nil
}

// Stop releases the camera. Safe to call at any time; this is also the
// modal-dismissal path.
func (s *ScanService) Stop() {
	s.capture.Stop()
}

// Status reports the live capture state merged with the last login outcome.
func (s *ScanService) Status() ports.ScanStatus {
	s.mu.Lock()
	status := s.outcome
	s.mu.Unlock()
	status.State = string(s.capture.State())
	return status
}

func (s *ScanService) consume(results <-chan capture.Result) {
	for res := range results {
		if res.Err != nil {
			s.setOutcome(ports.ScanStatus{Error: "invalid QR code, still scanning"})
			continue
		}

		session, token, err := s.auth.LoginWithQR(context.Background(), res.Raw)
		if err != nil {
			s.log.Warn().Err(err).Msg("scanned payload rejected")
			s.setOutcome(ports.ScanStatus{Error: err.Error()})
			continue
		}

		s.setOutcome(ports.ScanStatus{
			Authenticated: true,
			Token:         token,
			Session:       session,
		})
	}
}

func (s *ScanService) setOutcome(status ports.ScanStatus) {
	s.mu.Lock()
	s.outcome = status
	s.mu.Unlock()
}
