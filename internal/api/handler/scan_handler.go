package handler

import (
	"image"
	"net/http"

	// Frame decoders for the formats browsers post.
	_ "image/jpeg"
	_ "image/png"

	"github.com/labstack/echo/v4"

	"github.com/whms/health-portal/internal/core/ports"
	"github.com/whms/health-portal/internal/infrastructure/camera"
)

// maxFrameBytes bounds a single pushed frame.
const maxFrameBytes = 8 << 20

// ScanHandler drives the QR capture flow. The endpoints are deliberately
// unauthenticated: scanning happens before a session exists.
type ScanHandler struct {
	scan   ports.ScanService
	camera *camera.PushCamera
}

func NewScanHandler(scan ports.ScanService, cam *camera.PushCamera) *ScanHandler {
	return &ScanHandler{scan: scan, camera: cam}
}

// Start begins a capture session.
//
// @Summary      Start QR scanning
// @Tags         scan
// @Produce      json
// @Success      202  {object}  scanStartedResponse
// @Failure      503  {object}  errorResponse
// @Router       /scan/start [post]
func (h *ScanHandler) Start(c echo.Context) error {
	if err := h.scan.Start(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, scanStartedResponse{State: h.scan.Status().State})
}

// Stop releases the camera. This is also the modal-dismissal path, so it is
// always safe and always succeeds.
//
// @Summary      Stop QR scanning
// @Tags         scan
// @Success      204
// @Router       /scan/stop [post]
func (h *ScanHandler) Stop(c echo.Context) error {
	h.scan.Stop()
	return c.NoContent(http.StatusNoContent)
}

// Frame pushes one still image into the active capture stream.
//
// @Summary      Push a camera frame
// @Tags         scan
// @Accept       png
// @Accept       jpeg
// @Success      202
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /scan/frame [post]
func (h *ScanHandler) Frame(c echo.Context) error {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxFrameBytes)
	img, _, err := image.Decode(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable frame")
	}

	if err := h.camera.Offer(img); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// Status reports the capture state and, once a code was decoded, the login
// outcome.
//
// @Summary      Scan status
// @Tags         scan
// @Produce      json
// @Success      200  {object}  ports.ScanStatus
// @Router       /scan/status [get]
func (h *ScanHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scan.Status())
}
