package nodelink

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/passview/pkg/dag"
)

var (
	// ErrUnknownNode is returned by [Diagram.SetFillColor] when the diagram
	// has no node with the given ID.
	ErrUnknownNode = errors.New("node not in diagram")

	// ErrInvalidColor is returned by [Diagram.SetFillColor] for colors
	// outside the supported palette.
	ErrInvalidColor = errors.New("invalid fill color")

	// ErrNilSource is returned when a snapshot is requested without a graph.
	ErrNilSource = errors.New("nil graph source")
)

// Color is a Graphviz fill color.
type Color string

const (
	// ColorDefault marks nodes left untouched by a pass.
	ColorDefault Color = "grey"
	// ColorHighlight marks nodes created or erased by a pass.
	ColorHighlight Color = "yellow"

	ColorWhite     Color = "white"
	ColorLightGrey Color = "lightgrey"
	ColorRed       Color = "red"
	ColorGreen     Color = "green"
	ColorBlue      Color = "lightblue"
	ColorOrange    Color = "orange"
)

var palette = map[Color]bool{
	ColorDefault:   true,
	ColorHighlight: true,
	ColorWhite:     true,
	ColorLightGrey: true,
	ColorRed:       true,
	ColorGreen:     true,
	ColorBlue:      true,
	ColorOrange:    true,
}

// Valid reports whether c is part of the supported palette.
func (c Color) Valid() bool { return palette[c] }

// Source is the read-only view of a graph needed to take a snapshot.
// *dag.DAG satisfies it.
type Source interface {
	Nodes() []*dag.Node
	Edges() []dag.Edge
}

// Options configures which nodes a snapshot includes and how they are labeled.
type Options struct {
	// IncludeAttributes keeps get_attr nodes, which are hidden by default.
	IncludeAttributes bool
	// IncludeParameters keeps parameter and buffer nodes, hidden by default.
	IncludeParameters bool
	// Detailed includes op and metadata in node labels.
	Detailed bool
}

func (o Options) visible(n *dag.Node) bool {
	if n.IsAttribute() && !o.IncludeAttributes {
		return false
	}
	if n.IsParameter() && !o.IncludeParameters {
		return false
	}
	return true
}

// Renderer takes diagram snapshots of a graph with fixed options.
type Renderer struct {
	Options Options
}

// Snapshot captures the current state of src as a new diagram.
func (r Renderer) Snapshot(src Source, label string) (*Diagram, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	return NewDiagram(src, label, r.Options), nil
}

type diagramNode struct {
	id    string
	label string
	op    dag.Op
	fill  Color
}

// Diagram is a snapshot of a graph ready to be annotated and rendered.
// It copies everything it needs, so later graph mutations do not affect it.
type Diagram struct {
	label string
	nodes []diagramNode
	index map[string]int
	edges []dag.Edge
}

// NewDiagram snapshots src, dropping nodes filtered out by opts together
// with their edges.
func NewDiagram(src Source, label string, opts Options) *Diagram {
	d := &Diagram{label: label, index: make(map[string]int)}
	for _, n := range src.Nodes() {
		if !opts.visible(n) {
			continue
		}
		d.index[n.ID] = len(d.nodes)
		d.nodes = append(d.nodes, diagramNode{
			id:    n.ID,
			label: fmtLabel(*n, opts.Detailed),
			op:    n.Op,
		})
	}
	for _, e := range src.Edges() {
		_, okS := d.index[e.From]
		_, okD := d.index[e.To]
		if okS && okD {
			d.edges = append(d.edges, e)
		}
	}
	return d
}

// Label returns the diagram title.
func (d *Diagram) Label() string { return d.label }

// NodeIDs returns the IDs of all nodes in the diagram, in program order.
func (d *Diagram) NodeIDs() []string {
	ids := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		ids[i] = n.id
	}
	return ids
}

// FillColor returns the fill color set on a node, or "" when none was set.
// The boolean is false when the node is not in the diagram.
func (d *Diagram) FillColor(id string) (Color, bool) {
	i, ok := d.index[id]
	if !ok {
		return "", false
	}
	return d.nodes[i].fill, true
}

// SetFillColor sets the fill color of a node, replacing any previous color.
func (d *Diagram) SetFillColor(id string, c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}
	i, ok := d.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	d.nodes[i].fill = c
	return nil
}

// ToDOT converts the diagram to Graphviz DOT source.
func (d *Diagram) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if d.label != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", d.label)
		buf.WriteString("  labelloc=t;\n")
	}
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range d.nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.id, strings.Join(fmtAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, detailed bool) string {
	parts := []string{n.ID}
	if n.Target != "" {
		parts = append(parts, n.Target)
	}
	if !detailed {
		return strings.Join(parts, "\n")
	}

	parts = append(parts, "op: "+string(n.Op))
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n diagramNode) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.label)}
	switch n.op {
	case dag.OpPlaceholder, dag.OpOutput:
		attrs = append(attrs, "shape=ellipse")
	case dag.OpGetAttr, dag.OpParameter:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	if n.fill != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%s", n.fill))
	}
	return attrs
}
