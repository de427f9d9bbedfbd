// Package metrics defines and registers all custom Prometheus metrics for
// the worker health portal. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - method: "password" or "qr"
//   - result: "success" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// RegistrationsTotal counts worker self-registration attempts.
// Label:
//   - result: "success", "duplicate_username", "invalid_phone", "weak_password"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of worker self-registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Scan metrics ──────────────────────────────────────────────────────────────

// ScanFramesTotal counts scan-loop ticks by what each tick produced.
// Label:
//   - result: "no_frame", "no_code", "decode_error", "decoded"
var ScanFramesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_frames_total",
		Help:      "Total number of scan-loop ticks, by per-frame outcome.",
	},
	[]string{"result"},
)

// ScanSessionsActive is 1 while the capture session holds the camera.
var ScanSessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scan_sessions_active",
		Help:      "Whether a capture session currently holds the camera (0 or 1).",
	},
)

// CameraFailuresTotal counts denied or absent camera devices.
var CameraFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "camera_failures_total",
		Help:      "Total number of failed camera acquisitions.",
	},
)

// ReplayRejectionsTotal counts QR logins rejected by the replay guard.
var ReplayRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "replay_rejections_total",
		Help:      "Total number of QR logins rejected because the payload was already used.",
	},
)
