// Package pipeline runs a sequence of graph transformation passes with each
// pass wrapped in an observer session.
//
// This package centralizes pass execution so the CLI commands and tests go
// through the same code path: look up the pass, observe it, run it, validate
// the graph, record stats.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Passes: []string{"fuse_ops", "cse", "dce"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range result.Passes {
//	    fmt.Println(p.Name, p.Rewrites, p.Artifacts)
//	}
//
// Whether diagrams are written is decided by the observer configuration
// (see package config); the runner itself always runs the passes.
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/passview/pkg/dag"
	"github.com/matzehuels/passview/pkg/dag/transform"
	"github.com/matzehuels/passview/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultPasses is the pass list used when none is given: fuse first so that
// CSE sees fused nodes, then clean up whatever became unused.
var DefaultPasses = []string{transform.NameFuseOps, transform.NameCSE, transform.NameDCE}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Passes are run in order. The same pass may appear more than once.
	Passes []string `json:"passes,omitempty"`

	// KeepGoing continues with the next pass after a pass fails.
	KeepGoing bool `json:"keep_going,omitempty"`

	// Logger overrides the runner's logger for this run (not serialized).
	Logger *log.Logger `json:"-"`
}

// Result contains the outcome of a pipeline run.
type Result struct {
	// Graph is the transformed graph (the same instance that was passed in).
	Graph *dag.DAG

	// Passes holds one entry per executed pass, in execution order.
	Passes []PassStats

	// Stats summarizes the whole run.
	Stats Stats
}

// PassStats describes one executed pass.
type PassStats struct {
	Name      string
	Sequence  int // observer sequence number, 0 when observation is disabled
	Rewrites  int // count reported by the pass
	Created   []string
	Erased    []string
	Artifacts []string
	Duration  time.Duration
	Err       error
}

// Observed reports whether the pass ran under an enabled observer.
func (p PassStats) Observed() bool { return p.Sequence > 0 }

// Stats contains pipeline execution statistics.
type Stats struct {
	NodesBefore int
	NodesAfter  int
	EdgesBefore int
	EdgesAfter  int
	Duration    time.Duration
}

// Artifacts returns the names of all artifacts written during the run.
func (r *Result) Artifacts() []string {
	var names []string
	for _, p := range r.Passes {
		names = append(names, p.Artifacts...)
	}
	return names
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidatePasses checks that every pass name is registered.
func ValidatePasses(names []string) error {
	for _, name := range names {
		if _, err := transform.Lookup(name); err != nil {
			return err
		}
	}
	return nil
}

// ParsePasses splits a comma-separated pass list, dropping blanks.
func ParsePasses(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// ValidateAndSetDefaults applies defaults and checks the pass list.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Passes) == 0 {
		o.Passes = append([]string(nil), DefaultPasses...)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidatePasses(o.Passes); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid passes")
	}
	return nil
}
