// SPDX-License-Identifier: MIT

package graph

import "fmt"

// Flow is the direction in which messages travel along an edge.
type Flow string

const (
	// FlowSourceToTarget sends along Src[e] -> Dst[e]; a node aggregates its in-edges.
	FlowSourceToTarget Flow = "source_to_target"

	// FlowTargetToSource sends along Dst[e] -> Src[e]; a node aggregates its out-edges.
	FlowTargetToSource Flow = "target_to_source"
)

// Valid reports whether f is one of the two recognized directions.
func (f Flow) Valid() bool {
	return f == FlowSourceToTarget || f == FlowTargetToSource
}

// Check returns ErrInvalidFlow for unrecognized directions.
func (f Flow) Check() error {
	if !f.Valid() {
		return fmt.Errorf("flow %q: %w", string(f), ErrInvalidFlow)
	}

	return nil
}

// Messages returns the (from, to) slot endpoints for message passing under f.
// The returned slices alias ei; callers must not mutate them.
func (ei EdgeIndex) Messages(f Flow) (from, to []int) {
	if f == FlowTargetToSource {
		return ei.Dst, ei.Src
	}

	return ei.Src, ei.Dst
}
