package sink

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	perrors "github.com/matzehuels/passview/pkg/errors"
)

// Dir stores artifacts as files in a directory.
// The directory is created on the first write, so an unwritable destination
// only surfaces as an error when something is stored.
type Dir struct {
	dir string
}

// NewDir creates a directory sink rooted at dir.
func NewDir(dir string) *Dir {
	return &Dir{dir: dir}
}

// Path returns the file path an artifact is stored at.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.dir, name)
}

// Root returns the sink directory.
func (d *Dir) Root() string { return d.dir }

// Backend implements Sink.
func (d *Dir) Backend() string { return "dir" }

// Put writes the artifact file.
func (d *Dir) Put(ctx context.Context, name string, data []byte) error {
	if err := perrors.ValidateArtifactName(name); err != nil {
		return err
	}
	err := os.MkdirAll(d.dir, 0755)
	if err == nil {
		err = os.WriteFile(d.Path(name), data, 0644)
	}
	return record(ctx, d.Backend(), name, len(data), err)
}

// Get reads an artifact file.
func (d *Dir) Get(ctx context.Context, name string) ([]byte, error) {
	if err := perrors.ValidateArtifactName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.Path(name))
	if os.IsNotExist(err) {
		return nil, notFound(d.Backend(), name)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "dir: read %s", name)
	}
	return data, nil
}

// List returns the regular files in the directory. A missing directory is
// an empty sink.
func (d *Dir) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "dir: list %s", d.dir)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Close does nothing for directory sinks.
func (d *Dir) Close() error {
	return nil
}

var _ Sink = (*Dir)(nil)
