package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/passview/pkg/dag"
	"github.com/matzehuels/passview/pkg/dag/transform"
	"github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/observer"
)

// Runner executes passes over a graph, observing each one.
//
// The Runner is stateless except for its logger and observer options, so a
// single Runner can serve several graphs, one at a time per graph.
type Runner struct {
	Logger  *log.Logger
	Observe []observer.Option
}

// NewRunner creates a runner. Observer options (config, sequence, sink) are
// applied to every pass session. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger, observe ...observer.Option) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, Observe: observe}
}

// Execute runs opts.Passes over g in order.
//
// A failing pass stops the run unless opts.KeepGoing is set; in either case
// its session is finalized and its stats are included in the result. After
// each pass the graph is validated, and an invalid graph always stops the
// run.
func (r *Runner) Execute(ctx context.Context, g *dag.DAG, opts Options) (*Result, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is required")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	start := time.Now()
	result := &Result{
		Graph: g,
		Stats: Stats{NodesBefore: g.NodeCount(), EdgesBefore: g.EdgeCount()},
	}
	finish := func() {
		result.Stats.NodesAfter = g.NodeCount()
		result.Stats.EdgesAfter = g.EdgeCount()
		result.Stats.Duration = time.Since(start)
	}

	var failed []error
	for _, name := range opts.Passes {
		if err := ctx.Err(); err != nil {
			finish()
			return result, err
		}

		stats, err := r.RunPass(ctx, g, name)
		result.Passes = append(result.Passes, stats)
		if err != nil {
			logger.Error("pass failed", "pass", name, "error", err)
			if !opts.KeepGoing || errors.Is(err, errors.ErrCodeInvalidGraph) {
				finish()
				return result, err
			}
			failed = append(failed, err)
			continue
		}
		logger.Info("ran pass",
			"pass", name,
			"rewrites", stats.Rewrites,
			"created", len(stats.Created),
			"erased", len(stats.Erased),
			"artifacts", len(stats.Artifacts),
			"duration", stats.Duration)
	}

	finish()
	return result, stderrors.Join(failed...)
}

// RunPass runs a single registered pass over g inside an observer session
// and validates the graph afterwards.
func (r *Runner) RunPass(ctx context.Context, g *dag.DAG, name string) (PassStats, error) {
	stats := PassStats{Name: name}
	p, err := transform.Lookup(name)
	if err != nil {
		return stats, err
	}

	obs, err := observer.New(g, name, r.observeOptions()...)
	if err != nil {
		return stats, err
	}
	stats.Sequence = obs.Sequence()

	start := time.Now()
	err = obs.Run(ctx, func() error {
		n, err := p.Run(g)
		stats.Rewrites = n
		if err != nil {
			return errors.Wrap(errors.ErrCodePass, err, "pass %s", name)
		}
		return nil
	})
	stats.Duration = time.Since(start)
	stats.Created = obs.Created()
	stats.Erased = obs.Erased()
	stats.Artifacts = obs.Artifacts()

	if err == nil {
		if verr := g.Validate(); verr != nil {
			err = errors.Wrap(errors.ErrCodeInvalidGraph, verr, "graph invalid after pass %s", name)
		}
	}
	stats.Err = err
	return stats, err
}

func (r *Runner) observeOptions() []observer.Option {
	return append([]observer.Option{observer.WithLogger(r.Logger)}, r.Observe...)
}
