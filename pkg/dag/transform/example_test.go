package transform_test

import (
	"fmt"

	"github.com/matzehuels/passview/pkg/dag"
	"github.com/matzehuels/passview/pkg/dag/transform"
)

func ExampleFuseOps() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "x", Op: dag.OpPlaceholder})
	_ = g.AddNode(dag.Node{ID: "mul", Target: "mul"})
	_ = g.AddNode(dag.Node{ID: "add", Target: "add"})
	_ = g.AddNode(dag.Node{ID: "out", Op: dag.OpOutput})
	_ = g.AddEdge(dag.Edge{From: "x", To: "mul"})
	_ = g.AddEdge(dag.Edge{From: "mul", To: "add"})
	_ = g.AddEdge(dag.Edge{From: "add", To: "out"})

	n, _ := transform.FuseOps(g)
	fmt.Println("fusions:", n)
	fmt.Println("nodes:", dag.NodeIDs(g.Nodes()))
	// Output:
	// fusions: 1
	// nodes: [x out fused_mul_add]
}

func ExampleDeadCodeElimination() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "x", Op: dag.OpPlaceholder})
	_ = g.AddNode(dag.Node{ID: "neg", Target: "neg"})
	_ = g.AddNode(dag.Node{ID: "abs", Target: "abs"})
	_ = g.AddEdge(dag.Edge{From: "x", To: "neg"})
	_ = g.AddEdge(dag.Edge{From: "neg", To: "abs"})

	n, _ := transform.DeadCodeElimination(g)
	fmt.Println("erased:", n)
	fmt.Println("nodes:", dag.NodeIDs(g.Nodes()))
	// Output:
	// erased: 2
	// nodes: [x]
}
