// SPDX-License-Identifier: MIT

package relevance

import (
	"context"
	"fmt"

	"github.com/katalvlaran/gnnwalk/autograd"
	"github.com/katalvlaran/gnnwalk/tensor"
	"github.com/katalvlaran/gnnwalk/tracer"
	"github.com/katalvlaran/gnnwalk/walk"
)

// GI decomposes a class score into walk relevances by repeated edge-weight
// gradients (GNN-GI).
//
// Implementation:
//   - Stage 1: one unit edge-weight leaf w_l of size (E+N)×1 per graph layer,
//     threaded through a traced forward pass.
//   - Stage 2: per label, root r = score[node, label] (row 0 for graph tasks).
//     Starting at the last layer, g = ∂r/∂w_l with the gradient graph kept; for
//     every allowed slot i the child relevance is g[i]·w_l[i], and the search
//     descends one layer with the slots whose message ends where slot i starts.
//   - Stage 3: at the bottom, record the slot sequence (first layer first) and
//     its relevance.
//
// The top level allows the slots delivering into the node (every slot for graph
// tasks). The forward graph is shared read-only by all labels.
func GI(ctx context.Context, in Input) (*Table, error) {
	if in.Model == nil {
		return nil, fmt.Errorf("GI: %w", ErrNilModel)
	}
	depth := in.Model.NumGraphLayers()
	slots := in.Graph.NumEdges() + in.Graph.NumNodes
	ws := make([]*autograd.Var, depth)
	for l := range ws {
		ws[l] = autograd.Leaf(tensor.Full(slots, 1, 1), true)
	}

	p, err := prepare(in, false, tracer.WithDetach(false), tracer.WithEdgeWeights(ws...))
	if err != nil {
		return nil, fmt.Errorf("GI: %w", err)
	}

	intoNode := p.msg.ByTarget()
	top := walk.AllEdges(p.msg)
	if p.in.Node != GraphTask {
		top = intoNode[p.in.Node]
	}

	walksPerLabel := make([][]walk.Walk, len(p.labels))
	scores := make([][]float64, len(p.labels))
	err = p.fanOut(ctx, func(j, label int) error {
		root := autograd.Index(p.trace.Scores, p.scoreRow(), label)
		var (
			walks []walk.Walk
			vals  []float64
		)
		// suffix holds the slots chosen so far, last layer at the end.
		var descend func(level int, r *autograd.Var, allowed []int, suffix []int) error
		descend = func(level int, r *autograd.Var, allowed []int, suffix []int) error {
			if level < 0 {
				walks = append(walks, append(walk.Walk(nil), suffix...))
				vals = append(vals, r.Item())
				return nil
			}
			gs, err := autograd.GradGraph(r, ws[level])
			if err != nil {
				return err
			}
			for _, i := range allowed {
				child := autograd.Mul(autograd.Index(gs[0], i, 0), autograd.Index(ws[level], i, 0))
				next := append([]int{i}, suffix...)
				if err := descend(level-1, child, intoNode[p.msg.Src[i]], next); err != nil {
					return err
				}
			}

			return nil
		}
		if err := descend(depth-1, root, top, nil); err != nil {
			return fmt.Errorf("label %d: %w", label, err)
		}
		walksPerLabel[j], scores[j] = walks, vals

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("GI: %w", err)
	}

	return assemble(walksPerLabel, scores, p.labels), nil
}

// assemble transposes per-label score lists into a Table. Every label visits
// the same walks in the same order, so the first label's walks are used.
func assemble(walksPerLabel [][]walk.Walk, scores [][]float64, labels []int) *Table {
	t := &Table{Labels: append([]int(nil), labels...)}
	if len(walksPerLabel) == 0 {
		return t
	}
	t.Walks = walksPerLabel[0]
	t.Scores = make([][]float64, len(t.Walks))
	for w := range t.Walks {
		row := make([]float64, len(labels))
		for j := range labels {
			row[j] = scores[j][w]
		}
		t.Scores[w] = row
	}

	return t
}
