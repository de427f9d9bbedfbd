// Package capture owns the camera resource and the frame-scan loop. A
// Session is a singleton with respect to the device: the stream is held iff
// the session is active, and Stop releases it on every exit path.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/whms/health-portal/internal/metrics"
	"github.com/whms/health-portal/internal/credential"
)

const defaultTicksPerSecond = 15

// ErrCameraUnavailable is returned when the device is denied or absent. The
// camera is never considered held after this error.
var ErrCameraUnavailable = errors.New("camera unavailable")

// Result is one outcome emitted by the scan loop. Either Payload is set, or
// Err carries the decode failure for the raw text in Raw.
type Result struct {
	Payload *credential.Payload
	Raw     string
	Err     error
}

// Session drives the continuous capture-and-decode loop.
type Session struct {
	camera   Camera
	detector Detector
	tickRate rate.Limit
	log      zerolog.Logger

	mu     sync.Mutex
	state  State
	stream Stream
	cancel context.CancelFunc
}

// NewSession creates an idle capture session. ticksPerSecond bounds how often
// the loop samples a frame; values <= 0 fall back to the default.
func NewSession(camera Camera, detector Detector, ticksPerSecond float64, log zerolog.Logger) *Session {
	if ticksPerSecond <= 0 {
		ticksPerSecond = defaultTicksPerSecond
	}
	return &Session{
		camera:   camera,
		detector: detector,
		tickRate: rate.Limit(ticksPerSecond),
		log:      log,
		state:    StateIdle,
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether the session currently holds, or is acquiring, the
// device stream.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAcquiring || s.state == StateScanning
}

// Start acquires the camera and begins the scan loop, returning the channel
// on which results are delivered. The channel is closed when the loop exits,
// whether by decode, Stop, or failure to keep scanning.
//
// Calling Start while a scan is acquiring or already running is a no-op and
// returns a nil channel. A session that previously failed is reset through
// the stop transition before reacquiring.
func (s *Session) Start(ctx context.Context) (<-chan Result, error) {
	s.mu.Lock()
	switch s.state {
	case StateAcquiring, StateScanning:
		s.mu.Unlock()
		return nil, nil
	case StateFailed, StateDecoded:
		s.state = StateStopped
	}
	s.state = StateAcquiring
	s.mu.Unlock()

	stream, err := s.camera.Acquire(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAcquiring {
		// Stopped while the grant was pending; release whatever arrived.
		if stream != nil {
			_ = stream.Close()
		}
		return nil, nil
	}
	if err != nil {
		s.state = StateFailed
		s.log.Warn().Err(err).Msg("camera acquisition failed")
		metrics.CameraFailuresTotal.Inc()
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}

	s.state = StateScanning
	s.stream = stream
	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	results := make(chan Result, 8)
	metrics.ScanSessionsActive.Set(1)
	go s.loop(loopCtx, stream, results)

	s.log.Info().Msg("scan started")
	return results, nil
}

// Stop releases the device stream unconditionally and idempotently. Calling
// it twice, or before Start, is a no-op, not an error.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateAcquiring, StateScanning, StateFailed:
		s.releaseLocked()
		s.state = StateStopped
		s.log.Info().Msg("scan stopped")
	}
}

// loop samples one frame per tick while the session is scanning. It is
// unbounded in iteration count but bounded in lifetime by Stop or a
// successful decode.
func (s *Session) loop(ctx context.Context, stream Stream, results chan<- Result) {
	defer close(results)

	limiter := rate.NewLimiter(s.tickRate, 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		// Stop may have flipped state while this tick was in flight; the
		// stream handle is gone, so exit without touching it.
		if s.State() != StateScanning {
			return
		}

		img, fresh := stream.Frame()
		if !fresh {
			metrics.ScanFramesTotal.WithLabelValues("no_frame").Inc()
			continue
		}

		text, found := s.detector.Detect(img)
		if !found {
			metrics.ScanFramesTotal.WithLabelValues("no_code").Inc()
			continue
		}

		payload, err := credential.Decode(text)
		if err != nil {
			// Malformed code: report it and keep scanning.
			metrics.ScanFramesTotal.WithLabelValues("decode_error").Inc()
			s.log.Debug().Str("raw", text).Msg("scanned code failed decode")
			select {
			case results <- Result{Raw: text, Err: err}:
			default:
			}
			continue
		}

		// Release the camera before the payload leaves the loop, so it is
		// never held once a session can be opened from the result. If Stop
		// won the race while detection was in flight, the payload belongs
		// to a cancelled scan and must not leave the loop.
		if !s.finish() {
			return
		}
		metrics.ScanFramesTotal.WithLabelValues("decoded").Inc()
		s.log.Info().Str("identity_id", payload.IdentityID).Msg("QR code decoded")
		results <- Result{Raw: text, Payload: payload}
		return
	}
}

// finish drives Scanning → Decoded → Stopped after a successful decode. It
// reports whether the transition happened; false means the session was
// already stopped and the decode result must be discarded.
func (s *Session) finish() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateScanning {
		return false
	}
	s.state = StateDecoded
	s.releaseLocked()
	s.state = StateStopped
	return true
}

// releaseLocked drops the stream and cancels the loop. Callers hold s.mu.
func (s *Session) releaseLocked() {
	if s.stream != nil {
		_ = s.stream.Close()
		s.stream = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	metrics.ScanSessionsActive.Set(0)
}
