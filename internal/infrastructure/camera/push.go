// Package camera implements the capture ports for a portal whose physical
// camera lives in the browser: the client holds the device and pushes still
// frames over HTTP, the server holds the scan state machine.
package camera

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/whms/health-portal/internal/capture"
)

// ErrNoActiveStream is returned when a frame arrives while no scan holds
// the stream.
var ErrNoActiveStream = errors.New("no active scan stream")

// PushCamera is a capture.Camera fed by externally offered frames. At most
// one stream exists at a time.
type PushCamera struct {
	mu     sync.Mutex
	stream *pushStream
}

func NewPushCamera() *PushCamera {
	return &PushCamera{}
}

// Acquire opens the frame stream. A stream left open by a previous holder
// is closed first, so the singleton invariant holds even across a
// misbehaving caller.
func (c *PushCamera) Acquire(ctx context.Context) (capture.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		_ = c.stream.Close()
	}
	c.stream = &pushStream{}
	return c.stream, nil
}

// Offer delivers a frame to the active stream. An older undelivered frame
// is replaced: the scan loop only ever wants the latest still.
func (c *PushCamera) Offer(img image.Image) error {
	c.mu.Lock()
	stream := c.stream
	c.mu.Unlock()

	if stream == nil {
		return ErrNoActiveStream
	}
	return stream.offer(img)
}

type pushStream struct {
	mu     sync.Mutex
	latest image.Image
	fresh  bool
	closed bool
}

func (s *pushStream) offer(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNoActiveStream
	}
	s.latest = img
	s.fresh = true
	return nil
}

// Frame returns the latest offered frame once. After Close it reports no
// frame.
func (s *pushStream) Frame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.fresh {
		return nil, false
	}
	s.fresh = false
	return s.latest, true
}

// Close releases the stream. Idempotent.
func (s *pushStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.latest = nil
	s.fresh = false
	return nil
}
