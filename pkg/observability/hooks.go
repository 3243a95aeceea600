// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about observed pass sessions and artifact storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library free of metrics frameworks
//   - Allows different backends (Prometheus, OpenTelemetry, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPassHooks(&myPassHooks{})
//	    observability.SetSinkHooks(&mySinkHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pass().OnSessionStart(ctx, pass, seq)
//	// ... run the pass ...
//	observability.Pass().OnSessionComplete(ctx, SessionStats{...})
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pass Hooks
// =============================================================================

// SessionStats summarizes one finalized observer session.
type SessionStats struct {
	Pass     string
	Sequence int
	Created  int
	Erased   int
	Rendered bool
	Duration time.Duration
	Err      error
}

// PassHooks receives events from observer sessions.
type PassHooks interface {
	// OnSessionStart fires when an enabled session subscribes to its graph.
	OnSessionStart(ctx context.Context, pass string, seq int)

	// OnSessionComplete fires when an enabled session is finalized.
	OnSessionComplete(ctx context.Context, stats SessionStats)
}

// =============================================================================
// Sink Hooks
// =============================================================================

// SinkHooks receives events from artifact sinks.
type SinkHooks interface {
	// OnArtifactWritten records a stored artifact.
	OnArtifactWritten(ctx context.Context, backend, name string, size int)

	// OnArtifactError records a failed write.
	OnArtifactError(ctx context.Context, backend, name string, err error)

	// OnArtifactRead records an artifact served back to a client.
	OnArtifactRead(ctx context.Context, backend, name string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPassHooks is a no-op implementation of PassHooks.
type NoopPassHooks struct{}

func (NoopPassHooks) OnSessionStart(context.Context, string, int)     {}
func (NoopPassHooks) OnSessionComplete(context.Context, SessionStats) {}

// NoopSinkHooks is a no-op implementation of SinkHooks.
type NoopSinkHooks struct{}

func (NoopSinkHooks) OnArtifactWritten(context.Context, string, string, int)  {}
func (NoopSinkHooks) OnArtifactError(context.Context, string, string, error) {}
func (NoopSinkHooks) OnArtifactRead(context.Context, string, string, int)    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	passHooks PassHooks = NoopPassHooks{}
	sinkHooks SinkHooks = NoopSinkHooks{}
	hooksMu   sync.RWMutex
)

// SetPassHooks registers custom pass hooks.
// This should be called once at application startup before any pass runs.
func SetPassHooks(h PassHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		passHooks = h
	}
}

// SetSinkHooks registers custom sink hooks.
// This should be called once at application startup before any sink is used.
func SetSinkHooks(h SinkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sinkHooks = h
	}
}

// Pass returns the registered pass hooks.
func Pass() PassHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return passHooks
}

// Sink returns the registered sink hooks.
func Sink() SinkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sinkHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	passHooks = NoopPassHooks{}
	sinkHooks = NoopSinkHooks{}
}
