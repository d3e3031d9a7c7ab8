// SPDX-License-Identifier: MIT
// Package: gnnwalk/edgemask
//
// mask.go - walk scores projected onto edge slots, and sparsification.
//
// Contract:
//   - Aggregate: every occurrence of a slot in a walk adds the walk's score.
//   - Slots no walk touches hold the "no information" sentinel +Inf until the
//     final subtraction step resolves them to 0; Visited keeps the distinction.
//   - ControlSparsity keeps the round((1-s)·n) largest magnitudes, stable by slot.
//   - Both return new masks; inputs are never modified.

package edgemask

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/gnnwalk/walk"
)

// Mask is an attribution vector over edge slots (E original edges + N loops).
type Mask struct {
	Values  []float64
	Visited []bool
}

// Len returns the number of slots.
func (m *Mask) Len() int { return len(m.Values) }

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	return &Mask{
		Values:  append([]float64(nil), m.Values...),
		Visited: append([]bool(nil), m.Visited...),
	}
}

// NonZero counts slots with a non-zero value.
func (m *Mask) NonZero() int {
	n := 0
	for _, v := range m.Values {
		if v != 0 {
			n++
		}
	}

	return n
}

// Sum returns the sum of all values.
func (m *Mask) Sum() float64 {
	var s float64
	for _, v := range m.Values {
		s += v
	}

	return s
}

// Aggregate projects per-walk scores onto numSlots edge slots.
//
// Implementation:
//   - Stage 1: per slot, accumulate score · (occurrences of the slot in the walk),
//     optionally divided by the walk length.
//   - Stage 2: mark untouched slots with the +Inf sentinel.
//   - Stage 3: subtract the sentinel (Inf for untouched, 0 for touched) from the
//     accumulated sum held separately, so untouched slots resolve to 0.
//
// Complexity: O(Σ|walk| + numSlots).
func Aggregate(walks []walk.Walk, scores []float64, numSlots int, opts ...Option) (*Mask, error) {
	if len(walks) != len(scores) {
		return nil, fmt.Errorf("Aggregate: %d walks, %d scores: %w", len(walks), len(scores), ErrLengthMismatch)
	}
	o := gatherOptions(opts...)

	sum := make([]float64, numSlots)
	visited := make([]bool, numSlots)
	for k, w := range walks {
		share := scores[k]
		if o.DepthNormalization && len(w) > 0 {
			share /= float64(len(w))
		}
		for _, e := range w {
			if e < 0 || e >= numSlots {
				return nil, fmt.Errorf("Aggregate: walk %d slot %d of %d: %w", k, e, numSlots, ErrSlotOutOfRange)
			}
			sum[e] += share
			visited[e] = true
		}
	}

	sentinel := make([]float64, numSlots)
	for e, ok := range visited {
		if !ok {
			sentinel[e] = math.Inf(1)
		}
	}
	values := make([]float64, numSlots)
	for e := range values {
		values[e] = resolve(sum[e], sentinel[e])
	}

	return &Mask{Values: values, Visited: visited}, nil
}

// resolve removes the sentinel: a touched slot keeps its sum, an untouched one
// (sum 0, sentinel +Inf) becomes 0.
func resolve(sum, sentinel float64) float64 {
	if math.IsInf(sentinel, 1) {
		return 0
	}

	return sum - sentinel
}

// Keep returns round((1-sparsity)·n), the number of slots ControlSparsity retains.
func Keep(n int, sparsity float64) int {
	return int(math.Round((1 - sparsity) * float64(n)))
}

// ControlSparsity zeroes every slot except the Keep(n, sparsity) largest by
// magnitude. Ties keep the lower slot; unvisited slots rank after every visited one.
func ControlSparsity(m *Mask, sparsity float64) (*Mask, error) {
	if m == nil {
		return nil, fmt.Errorf("ControlSparsity: %w", ErrNilMask)
	}
	if math.IsNaN(sparsity) || sparsity < 0 || sparsity > 1 {
		return nil, fmt.Errorf("ControlSparsity: s=%v: %w", sparsity, ErrInvalidSparsity)
	}
	n := m.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	visited := func(e int) bool { return e < len(m.Visited) && m.Visited[e] }
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := order[a], order[b]
		if va, vb := visited(ea), visited(eb); va != vb {
			return va
		}

		return math.Abs(m.Values[ea]) > math.Abs(m.Values[eb])
	})

	out := &Mask{Values: make([]float64, n), Visited: append([]bool(nil), m.Visited...)}
	for _, e := range order[:Keep(n, sparsity)] {
		out.Values[e] = m.Values[e]
	}

	return out, nil
}
