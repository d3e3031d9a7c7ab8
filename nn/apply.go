// SPDX-License-Identifier: MIT

package nn

import (
	"fmt"

	"github.com/katalvlaran/gnnwalk/autograd"
	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/tensor"
)

// Apply runs l on h over the raw (not self-loop augmented) graph ei.
// w is an optional (E+N)×1 edge-weight override for graph layers; nil means
// unit weights. Other layer kinds ignore ei and w.
func (l *Layer) Apply(h *autograd.Var, ei graph.EdgeIndex, w *autograd.Var) (*autograd.Var, error) {
	var out *autograd.Var
	err := autograd.Try(func() error {
		out, _ = l.apply(h, ei, w)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Apply(%s): %w", l.kind, err)
	}

	return out, nil
}

// Aggregate returns the message-passing part of a graph layer before any
// weight transform: Σ w_e·h_src for MessagePassing and (1+eps)·h + Σ w_e·h_src
// for GIN. Non-graph layers return h unchanged.
func (l *Layer) Aggregate(h *autograd.Var, ei graph.EdgeIndex, w *autograd.Var) (*autograd.Var, error) {
	if !l.IsGraph() {
		return h, nil
	}
	var out *autograd.Var
	err := autograd.Try(func() error {
		out = l.aggregate(h, ei, w)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Aggregate(%s): %w", l.kind, err)
	}

	return out, nil
}

// Sequence applies layers in order. Graph layers use unit edge weights.
func Sequence(layers []Layer, h *autograd.Var, ei graph.EdgeIndex) (*autograd.Var, error) {
	var err error
	for i := range layers {
		if h, err = layers[i].Apply(h, ei, nil); err != nil {
			return nil, fmt.Errorf("Sequence: layer %d: %w", i, err)
		}
	}

	return h, nil
}

// apply is the panicking core shared by Apply and Model.Forward.
// For GIN layers it also returns the records of the internal layers.
func (l *Layer) apply(h *autograd.Var, ei graph.EdgeIndex, w *autograd.Var) (*autograd.Var, []Record) {
	switch l.kind {
	case KindDense:
		out := autograd.MatMul(h, autograd.Const(l.weight))
		if l.bias != nil {
			out = autograd.AddRowVector(out, autograd.Const(l.bias))
		}

		return out, nil

	case KindActivation:
		return autograd.ReLU(h), nil

	case KindPool:
		switch l.pool {
		case PoolSum:
			return autograd.SumRows(h), nil
		case PoolMean:
			return autograd.MeanRows(h), nil
		default:
			return h, nil
		}

	case KindMessagePassing:
		out := autograd.MatMul(l.aggregate(h, ei, w), autograd.Const(l.weight))
		if l.root != nil {
			out = autograd.Add(out, autograd.MatMul(h, autograd.Const(l.root)))
		}
		if l.bias != nil {
			out = autograd.AddRowVector(out, autograd.Const(l.bias))
		}

		return out, nil

	case KindGIN:
		z := l.aggregate(h, ei, w)
		nested := make([]Record, 0, len(l.mlp))
		for i := range l.mlp {
			in := z
			z, _ = l.mlp[i].apply(z, ei, nil)
			nested = append(nested, Record{Layer: &l.mlp[i], Index: i, Nested: true, Input: in, Output: z})
		}

		return z, nested

	default:
		panic(&autograd.ShapeError{Op: l.kind.String(), Err: ErrShape})
	}
}

func (l *Layer) aggregate(h *autograd.Var, ei graph.EdgeIndex, w *autograd.Var) *autograd.Var {
	aug := ei.WithSelfLoops()
	from, to := aug.Messages(l.Flow())

	return autograd.ScatterAdd(h, l.slotWeights(aug, ei.NumEdges(), w), from, to, ei.NumNodes)
}

// slotWeights builds the effective (E+N)×1 weights.
//
// Message slots weigh 1, divided by the active in-degree under mean
// aggregation. Loop slots weigh 1 with self-loops and 0 without; a GIN layer
// adds its self term 1+eps on top, so (1+eps)·h_i flows through loop slot i
// and edge-weight overrides reach it.
func (l *Layer) slotWeights(aug graph.EdgeIndex, numEdges int, w *autograd.Var) *autograd.Var {
	_, to := aug.Messages(l.Flow())
	mask := tensor.Zeros(aug.NumEdges(), 1)
	raw := mask.Raw()
	for s := range raw {
		if s < numEdges || l.selfLoops {
			raw[s] = 1
		}
	}
	if l.meanAggr {
		deg := make([]float64, aug.NumNodes)
		for s, v := range raw {
			if v != 0 {
				deg[to[s]]++
			}
		}
		for s := range raw {
			if raw[s] != 0 {
				raw[s] /= deg[to[s]]
			}
		}
	}
	if l.kind == KindGIN {
		for s := numEdges; s < len(raw); s++ {
			raw[s] += 1 + l.eps
		}
	}
	if w == nil {
		return autograd.Const(mask)
	}

	return autograd.Mul(w, autograd.Const(mask))
}
