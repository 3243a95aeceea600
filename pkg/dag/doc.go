// Package dag provides the mutable program graph that transformation passes
// operate on.
//
// # Overview
//
// A [DAG] holds [Node] values in program order, connected by [Edge] values
// that point from a producing node to each node consuming its value. Node
// IDs are stable: they identify the same operation across snapshots and
// across mutation events.
//
// # Mutation Hooks
//
// Passes mutate the graph with [DAG.AddNode] and [DAG.EraseNode]. Observers
// watch those mutations by registering a [Hook]:
//
//	h := dag.NewHook(func(n *dag.Node) { created[n.ID] = true })
//	if err := g.RegisterCreateHook(h); err != nil {
//	    return err
//	}
//	defer g.UnregisterCreateHook(h)
//
// Hooks fire synchronously, in registration order. Create hooks run after the
// node is inserted; erase hooks run before it is removed. Registering the same
// hook twice returns [ErrDuplicateHook].
//
// # Erasing Nodes
//
// A node can only be erased once nothing consumes it. Rewire its users first:
//
//	g.ReplaceAllUses("old", "new")
//	g.EraseNode("old")
//
// # Validation
//
// [DAG.Validate] checks edge endpoints and detects cycles. Passes are expected
// to leave the graph valid.
package dag
