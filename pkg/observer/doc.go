// Package observer records how a graph transform pass changes a graph and
// writes before/after diagrams of it.
//
// # Overview
//
// An [Observer] wraps one run of a named pass. On [Observer.Enter] it
// subscribes to the graph's node creation and node erasure notifications; on
// [Observer.Exit] it unsubscribes and, if the pass created or erased at least
// one node, writes two artifacts:
//
//   - the input diagram, captured when the observer was constructed, with
//     every erased node highlighted
//   - the output diagram, captured at exit, with every created node
//     highlighted
//
// All other nodes are drawn in the default color. Passes that change nothing
// produce no artifacts.
//
// # Configuration
//
// Observation is driven by [config.Current] unless [WithConfig] is given. An
// empty OutputDestination disables the observer: no sequence number is used,
// the graph is never read and no hooks are registered. This keeps wrapping
// every pass in an observer free when nobody is looking.
//
// # Naming
//
// Every enabled observer takes the next number from a [Sequence]. Artifacts
// are named pass_{n}_{pass}_{input|output}_graph.{ext}, so listing a
// destination in sequence order replays the pipeline. [PassCount] reports the
// process-wide sequence.
//
// # Usage
//
//	err := observer.Run(ctx, g, "dce", func() error {
//	    return passes.DeadCodeElimination(g)
//	})
//
// Or with an explicit scope:
//
//	obs, err := observer.New(g, "fuse_ops")
//	if err != nil {
//	    return err
//	}
//	if err := obs.Enter(ctx); err != nil {
//	    return err
//	}
//	defer obs.Exit()
//
// Errors carry the codes SUBSCRIPTION_FAILED, RENDER_FAILED and WRITE_FAILED
// from [github.com/matzehuels/passview/pkg/errors].
package observer
