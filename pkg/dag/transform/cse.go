package transform

import (
	"strings"

	"github.com/matzehuels/passview/pkg/dag"
)

// CommonSubexpressionElimination merges call nodes that compute the same
// value: same op, same target and the same inputs in the same order. The
// first node in program order survives. Merging can make further nodes
// identical, so the pass repeats until nothing changes. It returns the
// number of erased duplicates.
func CommonSubexpressionElimination(g *dag.DAG) (int, error) {
	merged := 0
	for {
		n, err := csePass(g)
		merged += n
		if err != nil || n == 0 {
			return merged, err
		}
	}
}

func csePass(g *dag.DAG) (int, error) {
	seen := make(map[string]string)
	merged := 0
	for _, n := range g.Nodes() {
		if !n.Op.IsCall() {
			continue
		}
		key := exprKey(g, n)
		keep, ok := seen[key]
		if !ok {
			seen[key] = n.ID
			continue
		}
		if _, err := g.ReplaceAllUses(n.ID, keep); err != nil {
			return merged, err
		}
		if err := g.EraseNode(n.ID); err != nil {
			return merged, err
		}
		merged++
	}
	return merged, nil
}

func exprKey(g *dag.DAG, n *dag.Node) string {
	parts := append([]string{string(n.Op), n.Target}, g.Inputs(n.ID)...)
	return strings.Join(parts, "\x00")
}
