package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/whms/health-portal/internal/capture"
	"github.com/whms/health-portal/internal/core/ports"
	"github.com/whms/health-portal/internal/infrastructure/camera"
)

type stubScanService struct {
	startErr error
	status   ports.ScanStatus
	starts   int
	stops    int
}

func (s *stubScanService) Start(context.Context) error {
	s.starts++
	return s.startErr
}

func (s *stubScanService) Stop() { s.stops++ }

func (s *stubScanService) Status() ports.ScanStatus { return s.status }

func newScanContext(method, target string, body []byte) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func pngFrame(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 16, 16))); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	return buf.Bytes()
}

func TestScanHandlerStart(t *testing.T) {
	scan := &stubScanService{status: ports.ScanStatus{State: string(capture.StateScanning)}}
	h := NewScanHandler(scan, camera.NewPushCamera())

	c, rec := newScanContext(http.MethodPost, "/scan/start", nil)
	if err := h.Start(c); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if scan.starts != 1 {
		t.Fatalf("expected one start call, got %d", scan.starts)
	}

	var resp scanStartedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response did not parse: %v", err)
	}
	if resp.State != string(capture.StateScanning) {
		t.Fatalf("unexpected state: %q", resp.State)
	}
}

func TestScanHandlerStartCameraDenied(t *testing.T) {
	scan := &stubScanService{startErr: capture.ErrCameraUnavailable}
	h := NewScanHandler(scan, camera.NewPushCamera())

	c, _ := newScanContext(http.MethodPost, "/scan/start", nil)
	if err := h.Start(c); !errors.Is(err, capture.ErrCameraUnavailable) {
		t.Fatalf("camera errors must pass through for central mapping, got %v", err)
	}
}

func TestScanHandlerStop(t *testing.T) {
	scan := &stubScanService{}
	h := NewScanHandler(scan, camera.NewPushCamera())

	c, rec := newScanContext(http.MethodPost, "/scan/stop", nil)
	if err := h.Stop(c); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if scan.stops != 1 {
		t.Fatalf("expected one stop call, got %d", scan.stops)
	}
}

func TestScanHandlerFrame(t *testing.T) {
	cam := camera.NewPushCamera()
	stream, err := cam.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	h := NewScanHandler(&stubScanService{}, cam)

	c, rec := newScanContext(http.MethodPost, "/scan/frame", pngFrame(t))
	if err := h.Frame(c); err != nil {
		t.Fatalf("Frame returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if _, ok := stream.Frame(); !ok {
		t.Fatalf("pushed frame must reach the stream")
	}
}

func TestScanHandlerFrameUnreadable(t *testing.T) {
	h := NewScanHandler(&stubScanService{}, camera.NewPushCamera())

	c, _ := newScanContext(http.MethodPost, "/scan/frame", []byte("not an image"))
	err := h.Frame(c)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestScanHandlerFrameWithoutScan(t *testing.T) {
	h := NewScanHandler(&stubScanService{}, camera.NewPushCamera())

	c, _ := newScanContext(http.MethodPost, "/scan/frame", pngFrame(t))
	if err := h.Frame(c); !errors.Is(err, camera.ErrNoActiveStream) {
		t.Fatalf("expected ErrNoActiveStream, got %v", err)
	}
}

func TestScanHandlerStatus(t *testing.T) {
	scan := &stubScanService{status: ports.ScanStatus{
		State:         string(capture.StateStopped),
		Authenticated: true,
		Token:         "tok",
	}}
	h := NewScanHandler(scan, camera.NewPushCamera())

	c, rec := newScanContext(http.MethodGet, "/scan/status", nil)
	if err := h.Status(c); err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"authenticated":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
