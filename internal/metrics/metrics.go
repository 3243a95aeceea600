// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/observability"
)

const namespace = "passview"

// =============================================================================
// Collectors
// =============================================================================

// Metrics holds the Prometheus collectors for pass sessions and artifact
// storage. It implements both observability.PassHooks and
// observability.SinkHooks.
type Metrics struct {
	// sessionsActive tracks armed observer sessions.
	sessionsActive prometheus.Gauge

	// sessions counts finalized sessions.
	// Labels: pass, outcome (rendered, unchanged, error)
	sessions *prometheus.CounterVec

	// sessionDuration measures Enter to Exit.
	// Labels: pass
	sessionDuration *prometheus.HistogramVec

	// mutations counts recorded node creations and erasures.
	// Labels: pass, kind (created, erased)
	mutations *prometheus.CounterVec

	// artifacts counts artifact writes.
	// Labels: backend, status (ok, error)
	artifacts *prometheus.CounterVec

	// artifactBytes counts bytes written.
	// Labels: backend
	artifactBytes *prometheus.CounterVec

	// artifactReads counts artifacts served.
	// Labels: backend
	artifactReads *prometheus.CounterVec

	// failures counts session failures by error code.
	// Labels: code
	failures *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "observer",
			Name:      "sessions_active",
			Help:      "Observer sessions currently subscribed to a graph",
		}),
		sessions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "observer",
			Name:      "sessions_total",
			Help:      "Finalized observer sessions by outcome",
		}, []string{"pass", "outcome"}),
		sessionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "observer",
			Name:      "session_duration_seconds",
			Help:      "Time from subscription to finalization",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"pass"}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "observer",
			Name:      "mutations_total",
			Help:      "Recorded node creations and erasures",
		}, []string{"pass", "kind"}),
		artifacts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "artifacts_total",
			Help:      "Artifact writes by backend and status",
		}, []string{"backend", "status"}),
		artifactBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "artifact_bytes_total",
			Help:      "Bytes written as artifacts",
		}, []string{"backend"}),
		artifactReads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "artifact_reads_total",
			Help:      "Artifacts served",
		}, []string{"backend"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "observer",
			Name:      "errors_total",
			Help:      "Session failures by error code",
		}, []string{"code"}),
	}
}

// Install registers m as the process-wide pass and sink hooks.
func (m *Metrics) Install() {
	observability.SetPassHooks(m)
	observability.SetSinkHooks(m)
}

// =============================================================================
// Hook implementations
// =============================================================================

// OnSessionStart implements observability.PassHooks.
func (m *Metrics) OnSessionStart(context.Context, string, int) {
	m.sessionsActive.Inc()
}

// OnSessionComplete implements observability.PassHooks.
func (m *Metrics) OnSessionComplete(_ context.Context, s observability.SessionStats) {
	m.sessionsActive.Dec()
	m.sessionDuration.WithLabelValues(s.Pass).Observe(s.Duration.Seconds())
	m.mutations.WithLabelValues(s.Pass, "created").Add(float64(s.Created))
	m.mutations.WithLabelValues(s.Pass, "erased").Add(float64(s.Erased))

	outcome := "unchanged"
	switch {
	case s.Err != nil:
		outcome = "error"
		code := errors.GetCode(s.Err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		m.failures.WithLabelValues(string(code)).Inc()
	case s.Rendered:
		outcome = "rendered"
	}
	m.sessions.WithLabelValues(s.Pass, outcome).Inc()
}

// OnArtifactWritten implements observability.SinkHooks.
func (m *Metrics) OnArtifactWritten(_ context.Context, backend, _ string, size int) {
	m.artifacts.WithLabelValues(backend, "ok").Inc()
	m.artifactBytes.WithLabelValues(backend).Add(float64(size))
}

// OnArtifactError implements observability.SinkHooks.
func (m *Metrics) OnArtifactError(_ context.Context, backend, _ string, _ error) {
	m.artifacts.WithLabelValues(backend, "error").Inc()
}

// OnArtifactRead implements observability.SinkHooks.
func (m *Metrics) OnArtifactRead(_ context.Context, backend, _ string, _ int) {
	m.artifactReads.WithLabelValues(backend).Inc()
}

var (
	_ observability.PassHooks = (*Metrics)(nil)
	_ observability.SinkHooks = (*Metrics)(nil)
)
