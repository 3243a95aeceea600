package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/passview/pkg/dag"
	"github.com/matzehuels/passview/pkg/errors"
)

// ReadJSON decodes a JSON graph from r into a DAG.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [
//	    {"id": "x", "op": "placeholder"},
//	    {"id": "relu", "target": "torch.relu"}
//	  ],
//	  "edges": [{"from": "x", "to": "relu"}]
//	}
//
// Each node must have an "id" field. Optional fields:
//   - op: one of the dag.Op values (defaults to call_function)
//   - target: the called function, module or attribute path
//   - meta: object with arbitrary key-value pairs
//
// Nodes are added in array order, which becomes the graph's program order.
// Each edge must have "from" and "to" fields that reference node IDs.
//
// ReadJSON returns an INVALID_GRAPH error if a node has an unknown op or a
// duplicate ID, if an edge references an unknown node, or if the edges form
// a cycle. The underlying dag sentinel stays matchable with errors.Is.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.DAG, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := dag.New(data.Meta)
	for _, n := range data.Nodes {
		op := dag.Op(n.Op)
		if op != "" && !op.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "node %s: unknown op %q", n.ID, n.Op)
		}
		nd := dag.Node{ID: n.ID, Op: op, Target: n.Target, Meta: n.Meta}
		if err := g.AddNode(nd); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %s", n.ID)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %s->%s", e.From, e.To)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "validate graph")
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded DAG.
// A missing file yields a FILE_NOT_FOUND error; decoding errors are those of
// [ReadJSON].
func ImportJSON(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
