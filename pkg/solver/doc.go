// Package solver implements the dimension-annealed force relaxation that
// turns an abstract directed graph into readable 3D coordinates.
//
// # Overview
//
// Every node starts at a uniformly random position in a vector space with
// up to [MaxDimsCap] coordinates. The solver then runs a fixed annealing
// schedule: one phase per dimensionality d, from MaxDims-1 down to 3, where
// forces only read and write the first d coordinates. Relaxing in high
// dimensions first gives the layout room to untangle before it is projected
// down to the 3 coordinates that are ever emitted; this progressive handoff
// is what keeps the final embedding out of high-dimensional local optima.
//
// # Forces
//
// Within one inner iteration three forces apply in sequence:
//
//  1. Hierarchy: a constant-magnitude nudge on the third axis separating
//     edge parents (up) from children (down) when they sit too close.
//  2. Repulsion: every unordered node pair closer than RepelDistance is
//     pushed apart, capped at RepelStrength.
//  3. Spring: every edge pulls or pushes its endpoints toward
//     EdgeRestLength. Self-loops are skipped.
//
// The order is kept fixed; it matters for numerical stability. Distances
// are guarded by a small epsilon so coincident points never divide by zero.
//
// # Frames
//
// After each outer iteration (a batch of inner steps) the solver snapshots
// the first three coordinates of every node plus per-edge arrows colored by
// stretch ratio, and hands the [Frame] to a [Sink]. The solver is
// single-threaded and owns the position array exclusively; the only
// blocking point is frame emission, and a sink error aborts the run. The
// optional parallel repulsion pass partitions pair work across workers with
// per-worker buffers summed in fixed order, so seeded runs stay
// reproducible.
package solver
