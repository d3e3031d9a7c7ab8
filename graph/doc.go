// SPDX-License-Identifier: MIT

// Package graph defines the edge-index representation consumed by every
// explainer stage: a node count plus parallel source/target slices.
//
// What
//
//   - EdgeIndex: N nodes, E directed edges stored as Src[e] -> Dst[e].
//   - WithSelfLoops: the self-loop augmented view of size E+N. Slot E+i is the
//     loop i -> i; original edges keep their slots 0..E-1.
//   - BySource: edges grouped by source node, ascending edge order per group.
//   - Build + Constructors (Path, Star, Cycle, Complete): small deterministic
//     topologies used by tests, examples and benchmarks.
//
// Determinism
//
//	Nothing in this package iterates a map. Edge order is the insertion order,
//	and every derived index preserves it, so walk enumeration and mask slots
//	are reproducible across runs.
//
// Errors
//
//   - ErrNodeOutOfRange   an endpoint is outside [0, N).
//   - ErrLengthMismatch   len(Src) != len(Dst).
//   - ErrTooFewNodes      a constructor was asked for fewer nodes than it needs.
//   - ErrNilConstructor   Build received a nil Constructor.
package graph
