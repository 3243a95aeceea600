// Package io provides JSON import and export for program graphs.
//
// # Overview
//
// The format is a plain node and edge list, produced by graph capture tools
// and consumed by the passview CLI:
//
//	{
//	  "meta": {"model": "mlp"},
//	  "nodes": [
//	    {"id": "x", "op": "placeholder", "target": "x"},
//	    {"id": "w", "op": "get_attr", "target": "fc.weight"},
//	    {"id": "mm", "op": "call_function", "target": "matmul"},
//	    {"id": "out", "op": "output"}
//	  ],
//	  "edges": [
//	    {"from": "x", "to": "mm"},
//	    {"from": "w", "to": "mm"},
//	    {"from": "mm", "to": "out"}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: Unique string identifier (also the first line of the diagram label)
//
// Optional:
//   - op: placeholder, get_attr, parameter, call_function, call_module,
//     call_method or output (defaults to call_function)
//   - target: what the node calls or fetches
//   - meta: Freeform object shown in detailed diagram labels
//
// Node order in the array is program order. Edge order is operand order: a
// node's inputs are the "from" ends of its incoming edges in array order.
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	g, err := io.ImportJSON("model.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions reject unknown ops, duplicate IDs, dangling edges and
// cycles.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer. The CLI uses it to emit the graph after a pipeline run:
//
//	err := io.ExportJSON(g, "optimized.json")
//
// Importing an exported graph reproduces the same nodes, ops, targets,
// metadata and edges in the same order.
package io
