// Package sink stores rendered pass diagrams.
//
// A [Sink] is chosen from the configured output destination by [Open]:
//
//	/tmp/passes, file:///tmp/passes    -> Dir
//	redis://host:6379/0                -> Redis
//	mongodb://host:27017/passview      -> Mongo
//	memory://                          -> Memory
//
// Sinks report writes to the registered observability hooks.
package sink

import (
	"context"
	"errors"
	"net/url"
	"strings"

	perrors "github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/observability"
)

// ErrNotFound is returned by Get when no artifact has the requested name.
var ErrNotFound = errors.New("artifact not found")

// Sink stores artifacts by name.
type Sink interface {
	// Put stores data under name, replacing any previous artifact.
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the artifact stored under name or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns all stored artifact names in lexical order.
	List(ctx context.Context) ([]string, error)

	// Backend names the storage backend ("dir", "redis", ...).
	Backend() string

	// Close releases connections held by the sink.
	Close() error
}

// Open returns the sink for a destination. Plain paths select a directory
// sink; URLs select a backend by scheme.
func Open(ctx context.Context, dest string) (Sink, error) {
	if dest == "" {
		return nil, perrors.New(perrors.ErrCodeConfig, "empty output destination")
	}
	if !strings.Contains(dest, "://") {
		return NewDir(dest), nil
	}

	u, err := url.Parse(dest)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeConfig, err, "parse destination")
	}
	switch u.Scheme {
	case "file":
		return NewDir(u.Path), nil
	case "redis", "rediss":
		return NewRedis(ctx, dest)
	case "mongodb", "mongodb+srv":
		return NewMongo(ctx, dest)
	case "memory", "mem":
		return NewMemory(), nil
	}
	return nil, perrors.New(perrors.ErrCodeUnsupported, "destination scheme %q", u.Scheme)
}

// record reports the outcome of a write to the sink hooks and wraps
// failures with a write error code.
func record(ctx context.Context, backend, name string, size int, err error) error {
	if err != nil {
		observability.Sink().OnArtifactError(ctx, backend, name, err)
		return perrors.Wrap(perrors.ErrCodeWrite, err, "%s: put %s", backend, name)
	}
	observability.Sink().OnArtifactWritten(ctx, backend, name, size)
	return nil
}

func notFound(backend, name string) error {
	return perrors.Wrap(perrors.ErrCodeArtifactNotFound, ErrNotFound, "%s: %s", backend, name)
}
