// Package graph provides the normalized in-memory graph model that feeds
// the layout solver.
//
// # Overview
//
// Graphdrift renders directed graphs as clouds of points in 3D space. This
// package owns the first stage of that pipeline: turning a parsed graph
// description into a compact, validated [Model] with dense node indices.
//
// The model is built once and is read-only afterwards. Every node receives
// a dense index in [0, NodeCount) assigned in first-seen declaration order,
// and every edge is stored as an ordered pair of node indices. Edge chains
// (a -> b -> c) expand into one pair per hop. Multi-edges are kept as-is,
// and self-loops are kept structurally (the solver special-cases them).
//
// # Ingestion
//
// Input arrives either as a [Document] (the parser-independent form, also
// used for graph.json serialization) or directly from Graphviz DOT text via
// [ParseDOT]. Node identities are normalized with [NormalizeID] so that
// port and compass qualifiers ("db:out:n") fold into a single canonical
// key ("db").
//
// # Validation
//
// Building a model fails fast: an edge endpoint that does not resolve to a
// declared node is a fatal MALFORMED_GRAPH error, reported before any
// simulation work starts. There is no silent skipping of unknown endpoints.
package graph
