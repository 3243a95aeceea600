package transform

import (
	"fmt"
	"slices"

	"github.com/matzehuels/passview/pkg/dag"
)

// FusedID returns the ID of the node that replaces the pair a → b.
func FusedID(a, b string) string {
	return fmt.Sprintf("fused_%s_%s", a, b)
}

// FuseOps fuses each call node into its consumer when it has exactly one
// consuming node and that consumer is also a call. Nodes are visited once in
// program order; nodes created by a fusion take no part in further fusions
// during the same run. It returns the number of fusions.
func FuseOps(g *dag.DAG) (int, error) {
	fresh := make(map[string]bool)
	for _, a := range dag.NodeIDs(g.Nodes()) {
		b, ok := fusionPartner(g, a)
		if !ok || fresh[b] {
			continue
		}
		if err := fuse(g, a, b); err != nil {
			return len(fresh), err
		}
		fresh[FusedID(a, b)] = true
	}
	return len(fresh), nil
}

func fusionPartner(g *dag.DAG, a string) (string, bool) {
	na, ok := g.Node(a)
	if !ok || !na.Op.IsCall() {
		return "", false
	}
	users := g.Users(a)
	if len(users) == 0 {
		return "", false
	}
	b := users[0]
	for _, u := range users[1:] {
		if u != b {
			return "", false
		}
	}
	nb, ok := g.Node(b)
	if !ok || !nb.Op.IsCall() {
		return "", false
	}
	if _, exists := g.Node(FusedID(a, b)); exists {
		return "", false
	}
	return b, true
}

func fuse(g *dag.DAG, a, b string) error {
	na, _ := g.Node(a)
	nb, _ := g.Node(b)

	inputs := slices.Clone(g.Inputs(a))
	for _, in := range g.Inputs(b) {
		if in != a {
			inputs = append(inputs, in)
		}
	}

	id := FusedID(a, b)
	err := g.AddNode(dag.Node{
		ID:     id,
		Op:     nb.Op,
		Target: na.Target + "+" + nb.Target,
		Meta:   dag.Metadata{"fused": []string{a, b}},
	})
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if err := g.AddEdge(dag.Edge{From: in, To: id}); err != nil {
			return err
		}
	}
	if _, err := g.ReplaceAllUses(b, id); err != nil {
		return err
	}
	if err := g.EraseNode(b); err != nil {
		return err
	}
	return g.EraseNode(a)
}
