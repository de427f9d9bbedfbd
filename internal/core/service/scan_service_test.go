package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/whms/health-portal/internal/capture"
	"github.com/whms/health-portal/internal/core/domain"
	"github.com/whms/health-portal/internal/core/ports"
	"github.com/whms/health-portal/internal/credential"
)

type stubCaptureDriver struct {
	mu       sync.Mutex
	results  chan capture.Result
	state    capture.State
	startErr error
	running  bool
	stops    int
}

func (d *stubCaptureDriver) Start(context.Context) (<-chan capture.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.startErr != nil {
		d.state = capture.StateFailed
		return nil, d.startErr
	}
	if d.running {
		return nil, nil
	}
	d.running = true
	d.state = capture.StateScanning
	d.results = make(chan capture.Result, 8)
	return d.results, nil
}

func (d *stubCaptureDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
	if d.running {
		close(d.results)
		d.running = false
	}
	d.state = capture.StateStopped
}

func (d *stubCaptureDriver) State() capture.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == "" {
		return capture.StateIdle
	}
	return d.state
}

func (d *stubCaptureDriver) emit(res capture.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results <- res
}

type stubAuthService struct {
	loginErr error
	session  *domain.Session
	token    string
}

func (a *stubAuthService) LoginWithPassword(context.Context, string, string, domain.Role) (*domain.Session, string, error) {
	return nil, "", errors.New("not used")
}

func (a *stubAuthService) LoginWithQR(_ context.Context, _ string) (*domain.Session, string, error) {
	if a.loginErr != nil {
		return nil, "", a.loginErr
	}
	return a.session, a.token, nil
}

func (a *stubAuthService) Logout(context.Context) error { return nil }

func (a *stubAuthService) Current(context.Context) (*domain.Session, error) { return nil, nil }

func awaitStatus(t *testing.T, s *ScanService, ok func(ports.ScanStatus) bool) ports.ScanStatus {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		status := s.Status()
		if ok(status) {
			return status
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for status, last: %+v", status)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestScanServiceAuthenticates(t *testing.T) {
	driver := &stubCaptureDriver{}
	auth := &stubAuthService{
		session: &domain.Session{Identity: domain.Identity{ID: "w001", Username: "rajesh.kumar"}, Role: domain.RoleWorker},
		token:   "tok",
	}
	svc := NewScanService(driver, auth, zerolog.Nop())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	driver.emit(capture.Result{Raw: `{"kind":"worker_login"}`, Payload: &credential.Payload{}})

	status := awaitStatus(t, svc, func(s ports.ScanStatus) bool { return s.Authenticated })
	if status.Token != "tok" || status.Session == nil || status.Session.Identity.ID != "w001" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestScanServiceInvalidCodeKeepsScanning(t *testing.T) {
	driver := &stubCaptureDriver{}
	auth := &stubAuthService{session: &domain.Session{}, token: "tok"}
	svc := NewScanService(driver, auth, zerolog.Nop())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	driver.emit(capture.Result{Raw: "garbage", Err: errors.New("bad payload")})

	status := awaitStatus(t, svc, func(s ports.ScanStatus) bool { return s.Error != "" })
	if status.Authenticated {
		t.Fatalf("an invalid code must not authenticate")
	}
	if status.State != string(capture.StateScanning) {
		t.Fatalf("scan must keep running after an invalid code, state %q", status.State)
	}

	// The next good result still wins.
	driver.emit(capture.Result{Raw: "ok", Payload: &credential.Payload{}})
	awaitStatus(t, svc, func(s ports.ScanStatus) bool { return s.Authenticated })
}

func TestScanServiceLoginRejection(t *testing.T) {
	driver := &stubCaptureDriver{}
	auth := &stubAuthService{loginErr: domain.ErrUnknownIdentity}
	svc := NewScanService(driver, auth, zerolog.Nop())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	driver.emit(capture.Result{Raw: "ok", Payload: &credential.Payload{}})

	status := awaitStatus(t, svc, func(s ports.ScanStatus) bool { return s.Error != "" })
	if status.Error != domain.ErrUnknownIdentity.Error() {
		t.Fatalf("unexpected error: %q", status.Error)
	}
}

func TestScanServiceCameraFailure(t *testing.T) {
	driver := &stubCaptureDriver{startErr: capture.ErrCameraUnavailable}
	svc := NewScanService(driver, &stubAuthService{}, zerolog.Nop())

	if err := svc.Start(context.Background()); !errors.Is(err, capture.ErrCameraUnavailable) {
		t.Fatalf("expected camera error, got %v", err)
	}
	status := svc.Status()
	if status.Error == "" || status.State != string(capture.StateFailed) {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestScanServiceStartWhileRunning(t *testing.T) {
	driver := &stubCaptureDriver{}
	svc := NewScanService(driver, &stubAuthService{}, zerolog.Nop())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("second Start must be a no-op, got %v", err)
	}
}

func TestScanServiceStop(t *testing.T) {
	driver := &stubCaptureDriver{}
	svc := NewScanService(driver, &stubAuthService{}, zerolog.Nop())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	svc.Stop()
	if driver.State() != capture.StateStopped {
		t.Fatalf("expected stopped state, got %q", driver.State())
	}
	status := awaitStatus(t, svc, func(s ports.ScanStatus) bool { return s.State == string(capture.StateStopped) })
	if status.Authenticated {
		t.Fatalf("stopping must not authenticate")
	}
}
