// Package nodelink renders program graphs as node-link diagrams.
//
// # Overview
//
// A [Diagram] is a snapshot of a graph: it copies the visible nodes and the
// edges between them, so the graph can keep mutating while the snapshot stays
// fixed. Diagrams can be annotated per node with [Diagram.SetFillColor] and
// rendered to DOT, SVG or PNG.
//
// # Usage
//
//	r := nodelink.Renderer{}
//	d, err := r.Snapshot(g, "fuse_ops")
//	if err != nil {
//	    return err
//	}
//	_ = d.SetFillColor("add_1", nodelink.ColorHighlight)
//	svg, err := d.Render(ctx, nodelink.FormatSVG)
//
// # Filtering
//
// By default get_attr and parameter nodes are left out of snapshots, since
// they only hold attributes and weights and clutter the diagram. Set
// [Options].IncludeAttributes or [Options].IncludeParameters to keep them.
//
// # Colors
//
// Fill colors are typed. [ColorDefault] and [ColorHighlight] are the pair
// used for before/after pass diagrams; a small set of other Graphviz names
// is accepted. Anything else is rejected with [ErrInvalidColor].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package nodelink
