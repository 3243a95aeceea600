// Package render groups the diagram renderers.
//
// The [nodelink] subpackage draws a program graph as a node-link diagram via
// Graphviz. It renders SVG and PNG through the embedded WASM build of
// Graphviz, so no external binaries are required, and emits DOT directly.
//
//	d := nodelink.NewDiagram(g, "dce", nodelink.Options{})
//	_ = d.SetFillColor("relu", nodelink.ColorHighlight)
//	svg, err := d.Render(ctx, nodelink.FormatSVG)
package render
