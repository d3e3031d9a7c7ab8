// SPDX-License-Identifier: MIT

// Package subgraph restricts a graph to the neighborhood that can influence a
// node's prediction under k rounds of message passing.
//
// Flow
//
//	With FlowSourceToTarget a node receives messages along its in-edges, so the
//	expansion collects the sources of edges pointing into the frontier.
//	FlowTargetToSource follows out-edges instead.
//
// Whole-graph mode
//
//	numHops == -1 expands from node 0 until nothing new is reachable. Components
//	not reachable from node 0 are left out. WithWholeGraph(true) keeps every node
//	0..N-1 instead.
//
// Errors
//
//   - ErrInvalidNodeIndex   target outside [0, N) in hop mode.
//   - ErrInvalidFlow        unknown flow string.
//   - ErrInvalidHops        numHops < -1.
package subgraph
