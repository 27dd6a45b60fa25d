// Package style derives per-node display colors and labels from graph
// attributes, deterministically and exactly once before layout begins.
//
// # Color grouping
//
// Nodes that share a "shape" attribute value share a color: the first node
// seen with a given shape fixes the color for every later node with that
// shape. This is a deliberate visual-clustering aid. Nodes without a shape
// attribute each get an independent random color.
//
// # Labels
//
// Labels come from the "label" attribute when present, stripped of the
// quoting and path-prefix noise that graph exporters tend to produce
// ("\"path/to/node\"" becomes "node"). Nodes without a label attribute are
// labeled with their own identity. Malformed label text never aborts a run;
// it falls back to the identity and surfaces as a warning.
//
// All randomness flows through an explicit math/rand/v2 source so seeded
// runs assign identical colors.
package style
