package style

import (
	"math/rand/v2"

	"github.com/graphdrift/graphdrift/pkg/graph"
)

// Palette records the color assigned to each "shape" attribute value so
// same-shaped nodes share a color. It is short-lived mutable state scoped
// to one styling pass; create one per run rather than sharing globally.
type Palette struct {
	byShape map[string]Color
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{byShape: make(map[string]Color)}
}

// ColorFor returns the display color for a node.
//
// If the node has a "shape" attribute whose value was seen before, the
// color recorded for that shape is reused. A new shape value fixes a fresh
// random color for all later nodes with the same shape. Nodes without a
// shape attribute get an independent random color that is never recorded.
func (p *Palette) ColorFor(rng *rand.Rand, n *graph.Node) Color {
	shape, ok := n.Attr("shape")
	if !ok {
		return randomColor(rng)
	}
	if c, seen := p.byShape[shape]; seen {
		return c
	}
	c := randomColor(rng)
	p.byShape[shape] = c
	return c
}
