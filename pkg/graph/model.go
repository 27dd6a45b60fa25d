package graph

import (
	"github.com/graphdrift/graphdrift/pkg/errors"
)

// =============================================================================
// Model - Normalized Graph
// =============================================================================

// Node is a graph vertex with a dense index and its ordered attributes.
type Node struct {
	ID    string // Canonical identity (normalized)
	Index int    // Dense index in [0, NodeCount)
	Attrs []Attr // Ordered attribute list (later declarations override by name)
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Edge is a directed edge between two node indices. From == To is a
// structural self-loop; the solver skips its force terms.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Model is the immutable graph consumed by the layout solver. Build once,
// read forever: nothing mutates a Model after construction.
type Model struct {
	nodes []Node
	edges []Edge
	index map[string]int
}

// Build constructs a validated Model from a Document.
//
// Node indices are assigned in first-seen declaration order. Re-declared
// nodes merge their attribute lists: a later value for an existing name
// replaces it in place, new names append. Edge chains expand into ordered
// pairs.
//
// An edge endpoint that does not resolve to a declared node is fatal and
// returns a MALFORMED_GRAPH error before any layout work starts.
func Build(doc *Document) (*Model, error) {
	m := &Model{index: make(map[string]int)}

	for _, decl := range doc.Nodes {
		id := NormalizeID(decl.ID)
		if id == "" {
			return nil, errors.New(errors.ErrCodeMalformedGraph, "empty node identity")
		}
		idx, seen := m.index[id]
		if !seen {
			idx = len(m.nodes)
			m.index[id] = idx
			m.nodes = append(m.nodes, Node{ID: id, Index: idx})
		}
		for _, a := range decl.Attrs {
			setAttr(&m.nodes[idx], a)
		}
	}

	for _, stmt := range doc.Edges {
		if len(stmt.Endpoints) < 2 {
			return nil, errors.New(errors.ErrCodeMalformedGraph,
				"edge statement needs at least 2 endpoints, got %d", len(stmt.Endpoints))
		}
		prev, err := m.resolve(stmt.Endpoints[0])
		if err != nil {
			return nil, err
		}
		for _, ep := range stmt.Endpoints[1:] {
			cur, err := m.resolve(ep)
			if err != nil {
				return nil, err
			}
			m.edges = append(m.edges, Edge{From: prev, To: cur})
			prev = cur
		}
	}

	return m, nil
}

// resolve maps an edge endpoint to a node index, normalizing first.
func (m *Model) resolve(id string) (int, error) {
	idx, ok := m.index[NormalizeID(id)]
	if !ok {
		return 0, errors.New(errors.ErrCodeMalformedGraph,
			"edge references unknown node %q", id)
	}
	return idx, nil
}

// setAttr replaces an existing attribute value in place or appends a new one,
// preserving first-seen attribute order.
func setAttr(n *Node, a Attr) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == a.Name {
			n.Attrs[i].Value = a.Value
			return
		}
	}
	n.Attrs = append(n.Attrs, a)
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of directed edges after chain expansion.
func (m *Model) EdgeCount() int { return len(m.edges) }

// Nodes returns the node list in index order. Callers must not modify it.
func (m *Model) Nodes() []Node { return m.nodes }

// Node returns the node at the given dense index.
func (m *Model) Node(i int) *Node { return &m.nodes[i] }

// Edges returns the edge list. Callers must not modify it.
func (m *Model) Edges() []Edge { return m.edges }

// Lookup returns the dense index for a node identity (normalized first)
// and whether the node exists.
func (m *Model) Lookup(id string) (int, bool) {
	idx, ok := m.index[NormalizeID(id)]
	return idx, ok
}
