package transform

import "github.com/matzehuels/passview/pkg/dag"

// DeadCodeElimination erases every node without users, except outputs and
// placeholders, until no such node remains. It returns the number of erased
// nodes.
func DeadCodeElimination(g *dag.DAG) (int, error) {
	erased := 0
	for {
		dead := deadNodes(g)
		if len(dead) == 0 {
			return erased, nil
		}
		for _, id := range dead {
			if err := g.EraseNode(id); err != nil {
				return erased, err
			}
			erased++
		}
	}
}

// deadNodes returns the currently unused nodes in reverse program order, so
// that erasing them in order never hits a node that still has users.
func deadNodes(g *dag.DAG) []string {
	nodes := g.Nodes()
	var dead []string
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if n.Op == dag.OpOutput || n.Op == dag.OpPlaceholder {
			continue
		}
		if len(g.Users(n.ID)) == 0 {
			dead = append(dead, n.ID)
		}
	}
	return dead
}
