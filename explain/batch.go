// SPDX-License-Identifier: MIT
// Package: gnnwalk/explain
//
// batch.go - sequential drivers over many nodes or graphs.
//
// Contract:
//   - Items are explained in order; the wall-clock budget is checked only after
//     an item completes, so the item in progress always finishes and is kept.
//   - Items never started are listed in Batch.Skipped.
//   - The first error aborts the batch and is returned with no partial result.

package explain

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/tensor"
)

// Batch collects the results of a driver run.
type Batch struct {
	Explanations []*Explanation
	// Durations[i] is the wall time spent on Explanations[i].
	Durations []time.Duration
	// Skipped lists the nodes (or graph positions) left out by the budget.
	Skipped []int
}

// GraphInput is one graph of a graph-classification batch.
type GraphInput struct {
	X         *tensor.Dense
	EdgeIndex graph.EdgeIndex
}

// ExplainNodes explains nodes one after another on the same graph. budget <= 0
// falls back to the configured time limit; both zero means no limit.
func (e *Explainer) ExplainNodes(ctx context.Context, x *tensor.Dense, ei graph.EdgeIndex, nodes []int, budget time.Duration) (*Batch, error) {
	b, err := e.drive(ctx, len(nodes), budget, func(i int) (*Explanation, error) {
		return e.ExplainNode(ctx, x, ei, nodes[i])
	})
	if err != nil {
		return nil, fmt.Errorf("ExplainNodes: %w", err)
	}
	for k, i := range b.Skipped {
		b.Skipped[k] = nodes[i]
	}

	return b, nil
}

// ExplainGraphs explains every graph under the configured time limit.
func (e *Explainer) ExplainGraphs(ctx context.Context, graphs []GraphInput) (*Batch, error) {
	b, err := e.drive(ctx, len(graphs), 0, func(i int) (*Explanation, error) {
		return e.ExplainGraph(ctx, graphs[i].X, graphs[i].EdgeIndex)
	})
	if err != nil {
		return nil, fmt.Errorf("ExplainGraphs: %w", err)
	}

	return b, nil
}

// drive runs fn for 0..n-1 and records positions it did not reach.
func (e *Explainer) drive(ctx context.Context, n int, budget time.Duration, fn func(i int) (*Explanation, error)) (*Batch, error) {
	if budget <= 0 {
		budget = e.opts.TimeLimit
	}
	b := &Batch{
		Explanations: make([]*Explanation, 0, n),
		Durations:    make([]time.Duration, 0, n),
	}
	t0 := time.Now()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		started := time.Now()
		exp, err := fn(i)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		b.Explanations = append(b.Explanations, exp)
		b.Durations = append(b.Durations, time.Since(started))

		if budget > 0 && time.Since(t0) > budget && i+1 < n {
			for j := i + 1; j < n; j++ {
				b.Skipped = append(b.Skipped, j)
			}
			e.opts.Logger.Warn("time budget exhausted", "budget", budget, "done", i+1, "skipped", len(b.Skipped))
			if e.opts.Metrics != nil {
				e.opts.Metrics.RecordSkipped(len(b.Skipped))
			}

			break
		}
	}

	return b, nil
}
