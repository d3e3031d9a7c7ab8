// SPDX-License-Identifier: MIT
// Package: gnnwalk/walk
//
// walk.go - fixed-length walk enumeration over an edge index.
//
// Contract:
//   - A walk is a sequence of edge slots e_0..e_{L-1} with Dst[e_k] == Src[e_{k+1}].
//   - Enumerate emits every such walk of exactly depth edges rooted at the
//     given start edges; node and edge revisits are allowed.
//   - Order: roots in start order, successors in ascending slot order.

package walk

import (
	"fmt"

	"github.com/katalvlaran/gnnwalk/graph"
)

// Walk is an ordered sequence of edge slots.
type Walk []int

// Enumerate lists every walk of exactly depth edges that starts with one of
// the start edges.
//
// Implementation:
//   - Stage 1: group slots by source node (graph.EdgeIndex.BySource).
//   - Stage 2: for each root, explicit-stack DFS; each frame holds the successor
//     list of the current tail and a cursor into it. The path buffer is appended
//     on descent and truncated on return.
//   - Stage 3: when the path reaches depth, copy it out.
//
// Complexity: O(W·L) output plus O(L) working memory, where W is the number of
// walks (exponential in depth for branching graphs).
func Enumerate(ei graph.EdgeIndex, start []int, depth int) ([]Walk, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("Enumerate: depth=%d: %w", depth, ErrInvalidDepth)
	}
	if err := ei.Validate(); err != nil {
		return nil, fmt.Errorf("Enumerate: %w", err)
	}
	e := ei.NumEdges()
	for _, s := range start {
		if s < 0 || s >= e {
			return nil, fmt.Errorf("Enumerate: start edge %d with %d edges: %w", s, e, ErrInvalidEdge)
		}
	}

	bySrc := ei.BySource()
	type frame struct {
		next []int // successors of the path tail still to try
	}
	var (
		out   []Walk
		path  = make([]int, 0, depth)
		stack = make([]frame, 0, depth)
	)
	for _, root := range start {
		path = append(path[:0], root)
		if depth == 1 {
			out = append(out, Walk{root})
			continue
		}
		stack = append(stack[:0], frame{next: bySrc[ei.Dst[root]]})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if len(top.next) == 0 {
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}
			edge := top.next[0]
			top.next = top.next[1:]
			path = append(path, edge)
			if len(path) == depth {
				out = append(out, append(Walk(nil), path...))
				path = path[:len(path)-1]
				continue
			}
			stack = append(stack, frame{next: bySrc[ei.Dst[edge]]})
		}
	}

	return out, nil
}

// AllEdges returns the slots 0..E-1, the root set of an unrestricted enumeration.
func AllEdges(ei graph.EdgeIndex) []int {
	out := make([]int, ei.NumEdges())
	for i := range out {
		out[i] = i
	}

	return out
}

// EndingAt keeps the walks whose last edge targets node, preserving order.
func EndingAt(ei graph.EdgeIndex, walks []Walk, node int) []Walk {
	var out []Walk
	for _, w := range walks {
		if len(w) > 0 && ei.Dst[w[len(w)-1]] == node {
			out = append(out, w)
		}
	}

	return out
}

// Trail returns the L+1 nodes visited by w: the first edge's source, then
// every edge's target.
func Trail(ei graph.EdgeIndex, w Walk) []int {
	if len(w) == 0 {
		return nil
	}
	out := make([]int, 0, len(w)+1)
	out = append(out, ei.Src[w[0]])
	for _, e := range w {
		out = append(out, ei.Dst[e])
	}

	return out
}

// Contains reports whether w traverses slot e.
func (w Walk) Contains(e int) bool {
	return w.CountOccurrences(e) > 0
}

// CountOccurrences returns how many times w traverses slot e.
func (w Walk) CountOccurrences(e int) int {
	n := 0
	for _, x := range w {
		if x == e {
			n++
		}
	}

	return n
}

// Equal reports element-wise equality.
func (w Walk) Equal(o Walk) bool {
	if len(w) != len(o) {
		return false
	}
	for i := range w {
		if w[i] != o[i] {
			return false
		}
	}

	return true
}
