package transform

import (
	"slices"

	"github.com/matzehuels/passview/pkg/dag"
	"github.com/matzehuels/passview/pkg/errors"
)

// Pass is a named in-place graph transformation.
type Pass struct {
	Name        string
	Description string
	Run         func(g *dag.DAG) (int, error)
}

// Pass names.
const (
	NameDCE     = "dce"
	NameFuseOps = "fuse_ops"
	NameCSE     = "cse"
)

var registry = map[string]Pass{
	NameDCE: {
		Name:        NameDCE,
		Description: "erase nodes whose values are never used",
		Run:         DeadCodeElimination,
	},
	NameFuseOps: {
		Name:        NameFuseOps,
		Description: "fuse call nodes into their single call consumer",
		Run:         FuseOps,
	},
	NameCSE: {
		Name:        NameCSE,
		Description: "merge identical call nodes",
		Run:         CommonSubexpressionElimination,
	},
}

// Lookup returns the registered pass with the given name.
func Lookup(name string) (Pass, error) {
	p, ok := registry[name]
	if !ok {
		return Pass{}, errors.New(errors.ErrCodeNotFound, "unknown pass %q (available: %v)", name, Names())
	}
	return p, nil
}

// Names returns all registered pass names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
