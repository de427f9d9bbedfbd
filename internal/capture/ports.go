package capture

import (
	"context"
	"image"
)

// Camera grants access to the device stream. The device is a singleton
// resource: only the capture session holds or releases it.
type Camera interface {
	// Acquire requests the device with a rear-facing preference. It is the
	// only asynchronous suspension point in a scan; its result is delivered
	// exactly once per Start.
	Acquire(ctx context.Context) (Stream, error)
}

// Stream is a revocable device stream.
type Stream interface {
	// Frame returns the latest still image and whether a fresh frame was
	// available since the previous call. After Close it reports no frame.
	Frame() (image.Image, bool)
	// Close stops every track unconditionally. Closing twice is a no-op.
	Close() error
}

// Detector attempts QR detection against a raster frame. It must be treated
// as synchronous-or-absent per tick: it either returns a decoded string or
// reports not found.
type Detector interface {
	Detect(img image.Image) (text string, found bool)
}
