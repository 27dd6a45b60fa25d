package style

import (
	"strings"

	"github.com/graphdrift/graphdrift/pkg/graph"
)

// LabelFor derives the display label for a node.
//
// With no "label" attribute the label is the node's identity. Otherwise the
// raw attribute text is trimmed of exporter noise: the substring starts one
// past the later of the last '/' and the first '"' (or at 0 when neither
// occurs), and ends at the last '"' when one follows the start (or at the
// end of the text). So `"path/to/node"` yields `node` and `"onlyquotes"`
// yields `onlyquotes`.
//
// The second return is false when the text is degenerate (empty result from
// non-empty text); callers should log it as a per-node warning. The label
// then falls back to the identity.
func LabelFor(n *graph.Node) (string, bool) {
	raw, ok := n.Attr("label")
	if !ok {
		return n.ID, true
	}

	start := 0
	if i := strings.LastIndexByte(raw, '/'); i >= 0 {
		start = i + 1
	}
	if i := strings.IndexByte(raw, '"'); i >= 0 && i+1 > start {
		start = i + 1
	}
	end := len(raw)
	if i := strings.LastIndexByte(raw, '"'); i >= start {
		end = i
	}

	if start >= end && raw != "" {
		return n.ID, false
	}
	return raw[start:end], true
}
