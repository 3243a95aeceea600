// Package pkg provides the libraries behind passview, which records what
// graph transformation passes do to a program graph.
//
// # Overview
//
// A pass rewrites a [dag.DAG] in place. Wrapping the pass in an
// [observer.Observer] subscribes to the graph's node creation and erasure
// hooks for the duration of the pass. When the pass changed the graph, the
// observer writes two diagrams: the input with erased nodes highlighted and
// the output with created nodes highlighted.
//
// The packages are organized as follows:
//
//  1. [dag] - The program graph with node create and erase hooks
//  2. [dag/transform] - Example passes (dead code elimination, fusion, CSE)
//  3. [observer] - Per-pass observation sessions
//  4. [render/nodelink] - Diagram snapshots and Graphviz rendering
//  5. [sink] - Artifact storage (directory, Redis, MongoDB, memory)
//  6. [pipeline] - Runs a list of passes, each under an observer
//  7. [config], [errors], [observability], [artifact], [cache], [io]
//
// # Data Flow
//
//	JSON graph
//	     ↓
//	[io] ReadJSON
//	     ↓
//	[pipeline] Runner ──► [observer] per pass ──► [render/nodelink] ──► [sink]
//	     ↓
//	transformed graph
//
// # Quick Start
//
// Observation is switched on by configuring an output destination:
//
//	config.Set(config.Config{OutputDestination: "./diagrams"})
//
//	err := observer.Run(ctx, g, "dce", func() error {
//	    _, err := transform.DeadCodeElimination(g)
//	    return err
//	})
//
// With no destination configured, observer.Run only calls the pass.
//
// # Error Handling
//
// Errors carry a code from [errors] (RENDER_FAILED, WRITE_FAILED, ...) that
// can be checked with errors.Is.
//
// # Observability
//
// The [observability] package exposes hooks for observer sessions and sink
// writes. internal/metrics implements them with Prometheus collectors.
package pkg
