// SPDX-License-Identifier: MIT

package relevance

import (
	"context"
	"fmt"

	"github.com/katalvlaran/gnnwalk/autograd"
	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/nn"
	"github.com/katalvlaran/gnnwalk/tensor"
	"github.com/katalvlaran/gnnwalk/walk"
)

// LRP scores every walk with gamma-rule layer-wise relevance propagation (GNN-LRP).
//
// Implementation, per label (clones are built once per label and owned by it):
//   - gamma clones of every walk-step head (γ from the schedule) and every
//     readout-step head (γ = 1).
//
// Per walk with node trail t_0..t_L:
//   - h = X as a differentiable leaf (after any prelude layers);
//   - for graph layer i: std = the full step on a detached copy of h,
//     p = the gamma head on h, q = (p+ε)·const(std/(p+ε)); GIN layers apply
//     this ratio once per internal Dense stage;
//   - keep only row t_{i+1} of q live, every other row becomes constant;
//   - every readout step uses the same ratio with its own gamma head;
//   - relevance = ∂f/∂X[t_0] · X[t_0] with f the explained score.
func LRP(ctx context.Context, in Input) (*Table, error) {
	p, err := prepare(in, true)
	if err != nil {
		return nil, fmt.Errorf("LRP: %w", err)
	}

	walks := p.in.Walks
	if walks == nil {
		all, err := walk.Enumerate(p.msg, walk.AllEdges(p.msg), p.depth)
		if err != nil && p.depth > 0 {
			return nil, fmt.Errorf("LRP: %w", err)
		}
		walks = all
		if p.in.Node != GraphTask {
			walks = walk.EndingAt(p.msg, walks, p.in.Node)
		}
	}
	slots := p.msg.NumEdges()
	for k, w := range walks {
		if len(w) != p.depth {
			return nil, fmt.Errorf("LRP: walk %d has %d edges for depth %d: %w", k, len(w), p.depth, ErrDepthMismatch)
		}
		for _, e := range w {
			if e < 0 || e >= slots {
				return nil, fmt.Errorf("LRP: walk %d slot %d of %d: %w", k, e, slots, ErrInvalidWalk)
			}
		}
	}

	scores := make([][]float64, len(p.labels))
	err = p.fanOut(ctx, func(j, label int) error {
		walkGamma := make([]nn.Layer, len(p.trace.WalkSteps))
		for i, s := range p.trace.WalkSteps {
			walkGamma[i] = s.Head().Gamma(p.gammaAt(i))
		}
		readoutGamma := make([]nn.Layer, len(p.trace.ReadoutSteps))
		for i, s := range p.trace.ReadoutSteps {
			readoutGamma[i] = s.Head().Gamma(1)
		}

		col := make([]float64, len(walks))
		for k, w := range walks {
			r, err := p.walkRelevance(w, label, walkGamma, readoutGamma)
			if err != nil {
				return fmt.Errorf("label %d walk %d: %w", label, k, err)
			}
			col[k] = r
		}
		scores[j] = col

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("LRP: %w", err)
	}

	t := &Table{Walks: walks, Labels: append([]int(nil), p.labels...), Scores: make([][]float64, len(walks))}
	for k := range walks {
		row := make([]float64, len(p.labels))
		for j := range p.labels {
			row[j] = scores[j][k]
		}
		t.Scores[k] = row
	}

	return t, nil
}

// walkRelevance runs the masked gamma pass for one walk and one label.
func (p *prepared) walkRelevance(w walk.Walk, label int, walkGamma, readoutGamma []nn.Layer) (float64, error) {
	trail := walk.Trail(p.msg, w)
	start := p.in.Graph.NumNodes
	if len(trail) > 0 {
		start = trail[0]
	}
	eps := p.in.Epsilon
	g := p.in.Graph

	x := autograd.Leaf(p.in.X, true)
	var f *autograd.Var
	err := autograd.Try(func() error {
		h := x
		for _, l := range p.trace.Prelude {
			h = mustApply(l, h, g)
		}
		for i, step := range p.trace.WalkSteps {
			var q *autograd.Var
			if head := step.Head(); head.Kind() == nn.KindGIN {
				q = ginRatio(head, &walkGamma[i], h, g, eps)
			} else {
				std := applyAll(step.Layers, autograd.Detach(h), g)
				q = ratio(mustApply(&walkGamma[i], h, g), std, eps)
			}
			h = keepRow(q, trail[i+1])
		}
		for i, step := range p.trace.ReadoutSteps {
			std := applyAll(step.Layers, autograd.Detach(h), g)
			h = ratio(mustApply(&readoutGamma[i], h, g), std, eps)
		}
		f = autograd.Index(h, p.scoreRow(), label)

		return nil
	})
	if err != nil {
		return 0, err
	}

	gs, err := autograd.Grad(f, x)
	if err != nil {
		return 0, err
	}
	if start >= p.in.Graph.NumNodes {
		return 0, nil
	}
	gradRow, _ := gs[0].Row(start)
	featRow, _ := p.in.X.Row(start)
	var r float64
	for d := range gradRow {
		r += gradRow[d] * featRow[d]
	}

	return r, nil
}

// ginRatio applies the per-stage ratio through a GIN sub-network.
func ginRatio(orig, gamma *nn.Layer, h *autograd.Var, g graph.EdgeIndex, eps float64) *autograd.Var {
	z, err := gamma.Aggregate(h, g, nil)
	if err != nil {
		panic(&autograd.ShapeError{Op: "gin", Err: err})
	}
	origStages, gammaStages := orig.Stages(), gamma.Stages()
	for s := range origStages {
		std := applyValues(origStages[s], autograd.Detach(z), g)
		z = ratio(applyValues(gammaStages[s], z, g), std, eps)
	}

	return z
}

// ratio returns (p+ε)·const(std/(p+ε)): the value of std with p's linear
// dependence on its inputs.
func ratio(p, std *autograd.Var, eps float64) *autograd.Var {
	pe := autograd.AddScalar(p, eps)
	scale, err := tensor.Div(std.Value(), pe.Value())
	if err != nil {
		panic(&autograd.ShapeError{Op: "ratio", Err: err})
	}

	return autograd.Mul(pe, autograd.Const(scale))
}

// keepRow keeps row k of q differentiable and freezes every other row.
func keepRow(q *autograd.Var, k int) *autograd.Var {
	rows, cols := q.Shape()
	live := tensor.Zeros(rows, cols)
	frozen := q.Value().Clone()
	lr, fr := live.Raw(), frozen.Raw()
	for j := 0; j < cols; j++ {
		lr[k*cols+j] = 1
		fr[k*cols+j] = 0
	}

	return autograd.Add(autograd.Mul(q, autograd.Const(live)), autograd.Const(frozen))
}

func mustApply(l *nn.Layer, h *autograd.Var, g graph.EdgeIndex) *autograd.Var {
	out, err := l.Apply(h, g, nil)
	if err != nil {
		panic(&autograd.ShapeError{Op: l.Kind().String(), Err: err})
	}

	return out
}

func applyAll(layers []*nn.Layer, h *autograd.Var, g graph.EdgeIndex) *autograd.Var {
	for _, l := range layers {
		h = mustApply(l, h, g)
	}

	return h
}

func applyValues(layers []nn.Layer, h *autograd.Var, g graph.EdgeIndex) *autograd.Var {
	for i := range layers {
		h = mustApply(&layers[i], h, g)
	}

	return h
}
