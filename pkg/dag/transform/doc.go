// Package transform provides sample graph transformation passes.
//
// # Overview
//
// Each pass mutates a [dag.DAG] in place through AddNode and EraseNode, so
// that anything subscribed to the graph's create and erase hooks sees the
// exact set of nodes the pass touched. Passes return the number of rewrites
// they performed.
//
// # Dead Code Elimination
//
// [DeadCodeElimination] erases nodes whose value nobody consumes. Outputs
// and placeholders are kept. Erasing a node can leave its inputs unused, so
// the pass repeats until nothing changes:
//
//	Before: x → relu → out,  x → add (unused) ← w
//	After:  x → relu → out
//
// # Operator Fusion
//
// [FuseOps] merges a call node into its only consumer when that consumer is
// a call as well. The pair a → b is replaced by a new node fused_a_b that
// takes a's inputs followed by b's remaining inputs:
//
//	Before: x → mul → add → out
//	After:  x → fused_mul_add → out
//
// # Common Subexpression Elimination
//
// [CommonSubexpressionElimination] merges call nodes with the same op,
// target and ordered inputs. Users of the later duplicate are rewired to the
// first occurrence and the duplicate is erased.
//
// # Registry
//
// Passes are registered by name ("dce", "fuse_ops", "cse") and looked up
// with [Lookup]. The name doubles as the observer pass label.
package transform
