package graph

import "strings"

// =============================================================================
// Document - Parser-Independent Input Form
// =============================================================================

// Attr is a single name/value attribute pair. Attribute order is preserved
// from the source description.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NodeDecl is a node declaration with its ordered attribute list.
// The same node may be declared more than once (DOT allows re-declaration
// inside subgraphs); declarations merge during model construction.
type NodeDecl struct {
	ID    string `json:"id"`
	Attrs []Attr `json:"attrs,omitempty"`
}

// EdgeStmt is an edge statement: a chain of two or more endpoints.
// A chain of k endpoints expands to k-1 directed edges during model
// construction.
type EdgeStmt struct {
	Endpoints []string `json:"endpoints"`
}

// Document is the parser-independent graph description consumed by [Build].
// It is also the serialization format written by the parse command
// (graph.json) so that ingestion and layout can run as separate steps.
type Document struct {
	Name  string     `json:"name,omitempty"`
	Nodes []NodeDecl `json:"nodes"`
	Edges []EdgeStmt `json:"edges,omitempty"`
}

// =============================================================================
// Identity Normalization
// =============================================================================

// NormalizeID folds port and compass qualifiers into a single canonical
// node key: "db:out:n" and "db:out" both normalize to "db". Whitespace
// around the identity is trimmed.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[:i]
	}
	return id
}
