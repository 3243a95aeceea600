package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] and [DAG.RenameNode] when
	// the node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] and [DAG.RenameNode] when
	// a node with the same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an operation references a node ID that
	// is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNodeHasUsers is returned by [DAG.EraseNode] while other nodes still
	// consume the node's value. Rewire them with [DAG.ReplaceAllUses] first.
	ErrNodeHasUsers = errors.New("node still has users")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil after insertion.
type Metadata map[string]any

// Op is the kind of operation a node performs, mirroring the usual
// vocabulary of traced program graphs.
type Op string

const (
	OpPlaceholder  Op = "placeholder"
	OpGetAttr      Op = "get_attr"
	OpParameter    Op = "parameter"
	OpCallFunction Op = "call_function"
	OpCallModule   Op = "call_module"
	OpCallMethod   Op = "call_method"
	OpOutput       Op = "output"
)

// Valid reports whether op is one of the known node operations.
func (op Op) Valid() bool {
	switch op {
	case OpPlaceholder, OpGetAttr, OpParameter, OpCallFunction, OpCallModule, OpCallMethod, OpOutput:
		return true
	}
	return false
}

// IsCall reports whether the node computes a value from its inputs.
func (op Op) IsCall() bool {
	return op == OpCallFunction || op == OpCallModule || op == OpCallMethod
}

// Node is a single operation in the program graph.
//
// The zero value is not usable - ID must be set before adding to a DAG.
type Node struct {
	ID     string   // Stable identifier, unique within the graph
	Op     Op       // Operation kind (defaults to call_function)
	Target string   // Function, module or attribute the node refers to
	Meta   Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// IsAttribute reports whether the node only fetches an attribute.
func (n Node) IsAttribute() bool { return n.Op == OpGetAttr }

// IsParameter reports whether the node holds a parameter or buffer.
func (n Node) IsParameter() bool { return n.Op == OpParameter }

// Edge is a data dependency: the value produced by From is consumed by To.
type Edge struct {
	From string // Producing node ID
	To   string // Consuming node ID
}

// DAG is a mutable program graph. Nodes keep their insertion order, which is
// also program order, so enumeration is deterministic.
//
// Structural mutations (AddNode, EraseNode) notify registered hooks
// synchronously, in-line with the mutation.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string // nodeID -> user IDs
	incoming map[string][]string // nodeID -> input IDs
	meta     Metadata

	createHooks []*Hook
	eraseHooks  []*Hook
}

// New creates an empty DAG with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode appends a node to the graph and fires the create hooks.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists. An empty Op defaults to
// call_function and a nil Meta to an empty map.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Op == "" {
		n.Op = OpCallFunction
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	d.fire(d.createHooks, node)
	return nil
}

// EraseNode removes a node from the graph. The erase hooks fire before the
// node is removed, so they still observe it in place.
//
// Returns ErrUnknownNode if the node does not exist and ErrNodeHasUsers if
// other nodes still consume it. Edges from the node's inputs are dropped.
func (d *DAG) EraseNode(id string) error {
	node, ok := d.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	if len(d.outgoing[id]) > 0 {
		return ErrNodeHasUsers
	}
	d.fire(d.eraseHooks, node)

	for _, in := range d.incoming[id] {
		d.outgoing[in] = slices.DeleteFunc(d.outgoing[in], func(s string) bool { return s == id })
	}
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.To == id })
	delete(d.incoming, id)
	delete(d.outgoing, id)
	delete(d.nodes, id)
	d.order = slices.DeleteFunc(d.order, func(s string) bool { return s == id })
	return nil
}

// AddEdge records that To consumes the value of From.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode for missing endpoints.
// Multiple edges between the same nodes are allowed (an operand used twice).
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
// No error is returned if the edge does not exist. If multiple edges
// exist between the same nodes, only the first is removed.
func (d *DAG) RemoveEdge(from, to string) {
	if i := slices.IndexFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to }); i >= 0 {
		d.edges = slices.Delete(d.edges, i, i+1)
	}
	if i := slices.Index(d.outgoing[from], to); i >= 0 {
		d.outgoing[from] = slices.Delete(d.outgoing[from], i, i+1)
	}
	if i := slices.Index(d.incoming[to], from); i >= 0 {
		d.incoming[to] = slices.Delete(d.incoming[to], i, i+1)
	}
}

// ReplaceAllUses rewires every user of oldID to consume newID instead,
// preserving operand positions. Returns the number of rewired uses.
func (d *DAG) ReplaceAllUses(oldID, newID string) (int, error) {
	if _, ok := d.nodes[oldID]; !ok {
		return 0, ErrUnknownNode
	}
	if _, ok := d.nodes[newID]; !ok {
		return 0, ErrUnknownNode
	}
	if oldID == newID {
		return 0, nil
	}

	count := 0
	for i := range d.edges {
		if d.edges[i].From != oldID {
			continue
		}
		user := d.edges[i].To
		d.edges[i].From = newID
		for j, in := range d.incoming[user] {
			if in == oldID {
				d.incoming[user][j] = newID
				break
			}
		}
		d.outgoing[newID] = append(d.outgoing[newID], user)
		count++
	}
	delete(d.outgoing, oldID)
	return count, nil
}

// RenameNode changes a node's ID, updating all edges and indices.
// Renaming is not a structural mutation and fires no hooks.
// Returns ErrInvalidNodeID if newID is empty, ErrUnknownNode if oldID
// doesn't exist, or ErrDuplicateNodeID if newID is already in use.
func (d *DAG) RenameNode(oldID, newID string) error {
	if newID == "" {
		return ErrInvalidNodeID
	}
	node, ok := d.nodes[oldID]
	if !ok {
		return ErrUnknownNode
	}
	if _, exists := d.nodes[newID]; exists {
		return ErrDuplicateNodeID
	}

	node.ID = newID
	delete(d.nodes, oldID)
	d.nodes[newID] = node
	d.order[slices.Index(d.order, oldID)] = newID

	for i := range d.edges {
		if d.edges[i].From == oldID {
			d.edges[i].From = newID
		}
		if d.edges[i].To == oldID {
			d.edges[i].To = newID
		}
	}
	renameKey(d.outgoing, oldID, newID)
	renameKey(d.incoming, oldID, newID)
	return nil
}

func renameKey(adj map[string][]string, oldID, newID string) {
	if v, ok := adj[oldID]; ok {
		adj[newID] = v
		delete(adj, oldID)
	}
	for id, ids := range adj {
		for i, s := range ids {
			if s == oldID {
				adj[id][i] = newID
			}
		}
	}
}

// Nodes returns all nodes in program order. The returned slice contains
// pointers to the actual node structs, so modifications affect the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Inputs returns the IDs of the nodes whose values this node consumes, in
// operand order. The returned slice should be treated as read-only.
func (d *DAG) Inputs(id string) []string { return d.incoming[id] }

// Users returns the IDs of the nodes consuming this node's value.
// The returned slice should be treated as read-only.
func (d *DAG) Users(id string) []string { return d.outgoing[id] }

// Sources returns nodes with no inputs, in program order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.Nodes() {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no users, in program order.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, n := range d.Nodes() {
		if len(d.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Validate checks graph integrity and returns nil if valid: every edge must
// connect existing nodes and the graph must be acyclic.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		_, okS := d.nodes[e.From]
		_, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
	}
	return d.detectCycles()
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
