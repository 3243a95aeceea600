// Package artifact names the diagram files produced for observed passes.
//
// Every observed pass with mutations produces two artifacts:
//
//	pass_{N}_{pass}_input_graph.{ext}
//	pass_{N}_{pass}_output_graph.{ext}
//
// where N is the pass sequence number assigned when the session was created.
package artifact

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// Kind distinguishes the pre-pass and post-pass diagrams.
type Kind string

const (
	KindInput  Kind = "input"
	KindOutput Kind = "output"
)

// Name builds the artifact name for a pass diagram.
func Name(seq int, pass string, kind Kind, ext string) string {
	return fmt.Sprintf("pass_%d_%s_%s_graph.%s", seq, pass, kind, ext)
}

// Info is a parsed artifact name.
type Info struct {
	Name     string
	Sequence int
	Pass     string
	Kind     Kind
	Ext      string
}

var nameRe = regexp.MustCompile(`^pass_(\d+)_(.+)_(input|output)_graph\.([A-Za-z0-9]+)$`)

// Parse splits an artifact name into its parts. The boolean is false for
// names that were not produced by Name.
func Parse(name string) (Info, bool) {
	m := nameRe.FindStringSubmatch(name)
	if m == nil {
		return Info{}, false
	}
	seq, err := strconv.Atoi(m[1])
	if err != nil {
		return Info{}, false
	}
	return Info{Name: name, Sequence: seq, Pass: m[2], Kind: Kind(m[3]), Ext: m[4]}, true
}

// Pass groups the artifacts recorded for one pass invocation.
type Pass struct {
	Sequence int
	Name     string
	Input    string // Artifact name of the input diagram, if present
	Output   string // Artifact name of the output diagram, if present
}

// Complete reports whether both diagrams are present.
func (p Pass) Complete() bool { return p.Input != "" && p.Output != "" }

// Group collects artifact names into passes ordered by sequence number.
// Names that do not parse are ignored.
func Group(names []string) []Pass {
	type key struct {
		seq  int
		pass string
	}
	byKey := make(map[key]*Pass)
	var order []key

	for _, n := range names {
		info, ok := Parse(n)
		if !ok {
			continue
		}
		k := key{info.Sequence, info.Pass}
		p, ok := byKey[k]
		if !ok {
			p = &Pass{Sequence: info.Sequence, Name: info.Pass}
			byKey[k] = p
			order = append(order, k)
		}
		switch info.Kind {
		case KindInput:
			p.Input = n
		case KindOutput:
			p.Output = n
		}
	}

	passes := make([]Pass, 0, len(order))
	for _, k := range order {
		passes = append(passes, *byKey[k])
	}
	slices.SortFunc(passes, func(a, b Pass) int {
		if a.Sequence != b.Sequence {
			return a.Sequence - b.Sequence
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return passes
}
