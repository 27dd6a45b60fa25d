package graph

import (
	"context"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/graphdrift/graphdrift/pkg/errors"
)

// displayAttrs are the node attributes lifted from DOT input into the
// Document. Only attributes with display meaning for the point cloud are
// carried; layout hints aimed at Graphviz's own engines are ignored.
var displayAttrs = []string{"label", "shape", "color", "style", "fillcolor", "group"}

// ParseDOT parses Graphviz DOT text into a Document.
//
// Graphviz flattens subgraphs and pre-expands edge chains during parsing,
// so the resulting Document contains one declaration per distinct node
// (including nodes that first appear in edge statements) and one two-point
// edge statement per directed edge. Port qualifiers on edge endpoints are
// folded by [NormalizeID] during model construction.
//
// A syntactically invalid description returns an INVALID_DOT error.
func ParseDOT(ctx context.Context, data []byte) (*Document, error) {
	g, err := graphviz.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDOT, err, "parse DOT")
	}
	defer g.Close()

	doc := &Document{}
	if name, err := g.Name(); err == nil {
		doc.Name = name
	}

	n, err := g.FirstNode()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDOT, err, "walk nodes")
	}
	for n != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		decl, err := liftNode(n)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, decl)

		if err := liftOutEdges(g, n, decl.ID, doc); err != nil {
			return nil, err
		}

		n, err = g.NextNode(n)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDOT, err, "walk nodes")
		}
	}

	return doc, nil
}

// liftNode converts a Graphviz node into a declaration with its display
// attributes in canonical order.
func liftNode(n *cgraph.Node) (NodeDecl, error) {
	name, err := n.Name()
	if err != nil {
		return NodeDecl{}, errors.Wrap(errors.ErrCodeInvalidDOT, err, "node name")
	}
	decl := NodeDecl{ID: name}
	for _, key := range displayAttrs {
		val := n.GetStr(key)
		if val == "" {
			continue
		}
		decl.Attrs = append(decl.Attrs, Attr{Name: key, Value: val})
	}
	return decl, nil
}

// liftOutEdges appends one edge statement per outgoing edge of n. Walking
// out-edges per node visits every directed edge exactly once.
func liftOutEdges(g *graphviz.Graph, n *cgraph.Node, tail string, doc *Document) error {
	e, err := g.FirstOut(n)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDOT, err, "walk edges of %q", tail)
	}
	for e != nil {
		head := e.Node()
		headName, err := head.Name()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDOT, err, "edge head name")
		}
		doc.Edges = append(doc.Edges, EdgeStmt{Endpoints: []string{tail, headName}})

		e, err = g.NextOut(e)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDOT, err, "walk edges of %q", tail)
		}
	}
	return nil
}
