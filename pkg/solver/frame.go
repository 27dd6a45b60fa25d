package solver

import (
	"context"
	"math"

	"github.com/graphdrift/graphdrift/pkg/style"
)

// Edge color ramp endpoints. Compressed edges blend from relaxed green
// toward red, stretched edges toward blue-purple.
var (
	colorRelaxed    = style.Color{R: 0, G: 200, B: 0}
	colorCompressed = style.Color{R: 220, G: 0, B: 0}
	colorStretched  = style.Color{R: 90, G: 0, B: 220}
)

// NodePoint is one node's contribution to a frame: the 3D projection of
// its position plus its fixed display color and label.
type NodePoint struct {
	Index int         `json:"index"`
	Pos   [3]float64  `json:"pos"`
	Color style.Color `json:"color"`
	Label string      `json:"label"`
}

// EdgeArrow is a directed arrow from the source node's 3D position along
// the vector to the target, colored by the edge's current stretch ratio.
type EdgeArrow struct {
	Origin [3]float64  `json:"origin"`
	Vector [3]float64  `json:"vector"`
	Color  style.Color `json:"color"`
}

// Frame is one emitted snapshot of the evolving layout: exactly one point
// per node and one arrow per edge, in index order.
type Frame struct {
	Seq   int         `json:"seq"`
	Dims  int         `json:"dims"`
	Nodes []NodePoint `json:"nodes"`
	Edges []EdgeArrow `json:"edges"`
}

// Sink receives frames as the solver emits them. Emit blocks the solver;
// an error aborts the run. Implementations live in pkg/sink.
type Sink interface {
	Emit(ctx context.Context, f *Frame) error
}

// snapshot captures the current state as a Frame. Slices are freshly
// allocated so sinks may retain frames without aliasing solver state.
func (s *Solver) snapshot() *Frame {
	f := &Frame{
		Seq:   s.seq,
		Dims:  s.activeDims,
		Nodes: make([]NodePoint, s.model.NodeCount()),
		Edges: make([]EdgeArrow, s.model.EdgeCount()),
	}

	for i := range f.Nodes {
		f.Nodes[i] = NodePoint{
			Index: i,
			Pos:   [3]float64{s.pos[i][0], s.pos[i][1], s.pos[i][2]},
			Color: s.styling.Colors[i],
			Label: s.styling.Labels[i],
		}
	}

	for i, e := range s.model.Edges() {
		from, to := f.Nodes[e.From].Pos, f.Nodes[e.To].Pos
		f.Edges[i] = EdgeArrow{
			Origin: from,
			Vector: [3]float64{to[0] - from[0], to[1] - from[1], to[2] - from[2]},
			Color:  s.edgeColor(e.From, e.To),
		}
	}

	return f
}

// edgeColor maps an edge's stretch ratio in the active dimensions onto the
// green/red/purple ramp. Self-loops read as fully relaxed.
func (s *Solver) edgeColor(from, to int) style.Color {
	if from == to {
		return colorRelaxed
	}
	ratio := s.distance(from, to) / s.cfg.EdgeRestLength
	if ratio < 1 {
		return style.Blend(colorRelaxed, colorCompressed, (1-ratio)/s.cfg.CompressRange)
	}
	return style.Blend(colorRelaxed, colorStretched, (ratio-1)/s.cfg.StretchRange)
}

// distance is the Euclidean distance between two nodes in the active
// dimensions.
func (s *Solver) distance(i, j int) float64 {
	var sum float64
	for a := range s.activeDims {
		d := s.pos[i][a] - s.pos[j][a]
		sum += d * d
	}
	return math.Sqrt(sum)
}
