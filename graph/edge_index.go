// SPDX-License-Identifier: MIT

package graph

import "fmt"

// EdgeIndex is a directed graph in coordinate form.
// Edge e runs Src[e] -> Dst[e]; len(Src) == len(Dst) == E.
type EdgeIndex struct {
	NumNodes int   // N, node ids are 0..N-1
	Src      []int // source node per edge
	Dst      []int // target node per edge
}

// New builds an EdgeIndex over n nodes from (source, target) pairs and validates it.
// The pairs are copied; the caller keeps ownership of its slice.
func New(n int, pairs [][2]int) (EdgeIndex, error) {
	ei := EdgeIndex{
		NumNodes: n,
		Src:      make([]int, len(pairs)),
		Dst:      make([]int, len(pairs)),
	}
	for e, p := range pairs {
		ei.Src[e], ei.Dst[e] = p[0], p[1]
	}
	if err := ei.Validate(); err != nil {
		return EdgeIndex{}, err
	}

	return ei, nil
}

// NumEdges returns E.
func (ei EdgeIndex) NumEdges() int { return len(ei.Src) }

// Validate checks the slice lengths and that every endpoint is a valid node id.
// Complexity: O(E).
func (ei EdgeIndex) Validate() error {
	if ei.NumNodes < 0 {
		return fmt.Errorf("Validate: n=%d: %w", ei.NumNodes, ErrNegativeNodes)
	}
	if len(ei.Src) != len(ei.Dst) {
		return fmt.Errorf("Validate: |src|=%d |dst|=%d: %w", len(ei.Src), len(ei.Dst), ErrLengthMismatch)
	}
	for e := range ei.Src {
		if ei.Src[e] < 0 || ei.Src[e] >= ei.NumNodes || ei.Dst[e] < 0 || ei.Dst[e] >= ei.NumNodes {
			return fmt.Errorf("Validate: edge %d (%d->%d), n=%d: %w",
				e, ei.Src[e], ei.Dst[e], ei.NumNodes, ErrNodeOutOfRange)
		}
	}

	return nil
}

// Edge returns the endpoints of edge e. It panics on an invalid e, like a slice index.
func (ei EdgeIndex) Edge(e int) (src, dst int) { return ei.Src[e], ei.Dst[e] }

// WithSelfLoops returns the self-loop augmented edge index of size E+N.
// Original edges keep slots 0..E-1 and the loop i -> i lives in slot E+i.
// Existing self-loops are kept as ordinary edges, so a node may own two loop slots.
func (ei EdgeIndex) WithSelfLoops() EdgeIndex {
	e := ei.NumEdges()
	out := EdgeIndex{
		NumNodes: ei.NumNodes,
		Src:      make([]int, e+ei.NumNodes),
		Dst:      make([]int, e+ei.NumNodes),
	}
	copy(out.Src, ei.Src)
	copy(out.Dst, ei.Dst)
	for i := 0; i < ei.NumNodes; i++ {
		out.Src[e+i] = i
		out.Dst[e+i] = i
	}

	return out
}

// Clone returns a deep copy.
func (ei EdgeIndex) Clone() EdgeIndex {
	out := EdgeIndex{NumNodes: ei.NumNodes, Src: make([]int, len(ei.Src)), Dst: make([]int, len(ei.Dst))}
	copy(out.Src, ei.Src)
	copy(out.Dst, ei.Dst)

	return out
}

// Reverse returns the edge index with every edge flipped; slot order is kept.
func (ei EdgeIndex) Reverse() EdgeIndex {
	return EdgeIndex{NumNodes: ei.NumNodes, Src: append([]int(nil), ei.Dst...), Dst: append([]int(nil), ei.Src...)}
}

// BySource groups edge slots by their source node.
// Result[v] lists, in ascending order, every edge e with Src[e] == v.
// Complexity: O(N + E) time and memory.
func (ei EdgeIndex) BySource() [][]int {
	out := make([][]int, ei.NumNodes)
	for e, s := range ei.Src {
		out[s] = append(out[s], e)
	}

	return out
}

// ByTarget groups edge slots by their target node, ascending edge order per group.
func (ei EdgeIndex) ByTarget() [][]int {
	out := make([][]int, ei.NumNodes)
	for e, d := range ei.Dst {
		out[d] = append(out[d], e)
	}

	return out
}

// InDegree returns the number of incoming edges per node.
func (ei EdgeIndex) InDegree() []int {
	deg := make([]int, ei.NumNodes)
	for _, d := range ei.Dst {
		deg[d]++
	}

	return deg
}

// MaxNode returns the largest endpoint id, or -1 for an empty edge list.
func (ei EdgeIndex) MaxNode() int {
	m := -1
	for e := range ei.Src {
		m = max(m, ei.Src[e], ei.Dst[e])
	}

	return m
}
