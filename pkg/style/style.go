package style

import (
	"math/rand/v2"

	"github.com/graphdrift/graphdrift/pkg/graph"
)

// Styling holds the immutable per-node display properties computed before
// the solver starts. Index i styles the node with dense index i.
type Styling struct {
	Colors []Color
	Labels []string
}

// Warning reports a recovered per-node attribute anomaly. Warnings never
// abort a run; callers log them and continue.
type Warning struct {
	NodeID string
	Attr   string
	Reason string
}

// Assign computes colors and labels for every node in the model, in index
// order. Colors use the shape-grouping palette; labels use the exporter
// noise-stripping heuristic with identity fallback. The rng must be the
// run's explicit random source so seeded runs are reproducible.
func Assign(rng *rand.Rand, m *graph.Model) (*Styling, []Warning) {
	s := &Styling{
		Colors: make([]Color, m.NodeCount()),
		Labels: make([]string, m.NodeCount()),
	}
	var warnings []Warning

	palette := NewPalette()
	for i := range m.NodeCount() {
		n := m.Node(i)
		s.Colors[i] = palette.ColorFor(rng, n)

		label, ok := LabelFor(n)
		if !ok {
			warnings = append(warnings, Warning{
				NodeID: n.ID,
				Attr:   "label",
				Reason: "malformed label text, falling back to node identity",
			})
		}
		s.Labels[i] = label
	}

	return s, warnings
}
