// SPDX-License-Identifier: MIT
// Package: gnnwalk/subgraph
//
// extract.go - k-hop neighborhood extraction.
//
// Contract:
//   - numHops >= 0: breadth-first expansion of exactly numHops rounds from nodeIdx.
//   - numHops == -1: closure from node 0 (or every node with WithWholeGraph).
//   - Subset is sorted and unique; EdgeMask keeps edges with both ends in Subset.
//   - The input edge index is never modified.

package subgraph

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/gnnwalk/graph"
)

// Result is the restricted neighborhood.
type Result struct {
	// Subset lists kept node ids in ascending order.
	Subset []int
	// EdgeIndex holds the kept edges in original order, relabeled when requested.
	EdgeIndex graph.EdgeIndex
	// Inverse is the position of the target node inside Subset (and its new id
	// after relabeling); -1 in whole-graph mode.
	Inverse int
	// EdgeMask[e] reports whether original edge e was kept.
	EdgeMask []bool
}

// Extract restricts ei to the numHops-neighborhood of nodeIdx.
//
// Implementation:
//   - Stage 1: resolve options, node count and flow (row = receiving end).
//   - Stage 2: expand the frontier along edges whose row end is in the frontier,
//     adding their other end; bounded by numHops or run to a fixed point.
//   - Stage 3: build the sorted subset, the edge mask and the (relabeled) edges.
//
// Complexity: O(N + E) time and memory.
func Extract(nodeIdx, numHops int, ei graph.EdgeIndex, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	if err := o.Flow.Check(); err != nil {
		return nil, fmt.Errorf("Extract: %w", err)
	}
	if numHops < WholeGraph {
		return nil, fmt.Errorf("Extract: numHops=%d: %w", numHops, ErrInvalidHops)
	}
	n := resolveNumNodes(ei, o.NumNodes)
	if len(ei.Src) != len(ei.Dst) {
		return nil, fmt.Errorf("Extract: %w", graph.ErrLengthMismatch)
	}
	if m := ei.MaxNode(); m >= n {
		return nil, fmt.Errorf("Extract: endpoint %d with %d nodes: %w", m, n, graph.ErrNodeOutOfRange)
	}

	// row is the receiving end of an edge under the flow, col the end we expand to.
	row, col := ei.Dst, ei.Src
	if o.Flow == graph.FlowTargetToSource {
		row, col = ei.Src, ei.Dst
	}
	incident := make([][]int, n)
	for e, r := range row {
		incident[r] = append(incident[r], e)
	}

	inSet := make([]bool, n)
	inverse := -1
	switch {
	case numHops == WholeGraph && o.WholeGraph:
		for v := range inSet {
			inSet[v] = true
		}
	case numHops == WholeGraph:
		if n > 0 {
			expand(inSet, incident, col, 0, -1)
		}
	default:
		if nodeIdx < 0 || nodeIdx >= n {
			return nil, fmt.Errorf("Extract: node %d with %d nodes: %w", nodeIdx, n, ErrInvalidNodeIndex)
		}
		expand(inSet, incident, col, nodeIdx, numHops)
	}

	subset := make([]int, 0, n)
	for v, ok := range inSet {
		if ok {
			subset = append(subset, v)
		}
	}
	if numHops != WholeGraph {
		inverse, _ = slices.BinarySearch(subset, nodeIdx)
	}

	newID := make([]int, n)
	for i, v := range subset {
		newID[v] = i
	}
	res := &Result{
		Subset:    subset,
		Inverse:   inverse,
		EdgeMask:  make([]bool, len(ei.Src)),
		EdgeIndex: graph.EdgeIndex{NumNodes: n},
	}
	if o.Relabel {
		res.EdgeIndex.NumNodes = len(subset)
	}
	for e := range ei.Src {
		s, d := ei.Src[e], ei.Dst[e]
		if !inSet[s] || !inSet[d] {
			continue
		}
		res.EdgeMask[e] = true
		if o.Relabel {
			s, d = newID[s], newID[d]
		}
		res.EdgeIndex.Src = append(res.EdgeIndex.Src, s)
		res.EdgeIndex.Dst = append(res.EdgeIndex.Dst, d)
	}

	return res, nil
}

// expand marks start and every node reachable within hops rounds (hops < 0: unbounded).
func expand(inSet []bool, incident [][]int, col []int, start, hops int) {
	inSet[start] = true
	frontier := []int{start}
	for round := 0; len(frontier) > 0 && (hops < 0 || round < hops); round++ {
		var next []int
		for _, v := range frontier {
			for _, e := range incident[v] {
				u := col[e]
				if !inSet[u] {
					inSet[u] = true
					next = append(next, u)
				}
			}
		}
		frontier = next
	}
}

// resolveNumNodes picks the explicit override, then ei.NumNodes, then max index + 1.
func resolveNumNodes(ei graph.EdgeIndex, override int) int {
	switch {
	case override > 0:
		return override
	case ei.NumNodes > 0:
		return ei.NumNodes
	default:
		return ei.MaxNode() + 1
	}
}

// Nodes returns the number of kept nodes.
func (r *Result) Nodes() int { return len(r.Subset) }

// KeptEdges returns the original slots of the kept edges, ascending.
func (r *Result) KeptEdges() []int {
	out := make([]int, 0, r.EdgeIndex.NumEdges())
	for e, ok := range r.EdgeMask {
		if ok {
			out = append(out, e)
		}
	}

	return out
}
