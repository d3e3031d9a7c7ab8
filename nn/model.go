// SPDX-License-Identifier: MIT

package nn

import (
	"fmt"

	"github.com/katalvlaran/gnnwalk/autograd"
	"github.com/katalvlaran/gnnwalk/graph"
)

// Record is one observed layer application.
type Record struct {
	Layer  *Layer // handle into the model (or into a GIN sub-network when Nested)
	Index  int    // position among its siblings
	Nested bool   // true for layers inside a GIN sub-network
	Input  *autograd.Var
	Output *autograd.Var
}

// Observer receives layer applications in pre-order.
type Observer interface {
	Observe(r Record)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r Record)

// Observe calls f(r).
func (f ObserverFunc) Observe(r Record) { f(r) }

// Output is the result of Model.Forward.
type Output struct {
	// Scores holds pre-softmax class scores: N×C for node models, 1×C after PoolSum/PoolMean.
	Scores *autograd.Var
	// Embedding is the last node embedding, i.e. the input of the Pool layer
	// (or the final output when the model has no Pool layer).
	Embedding *autograd.Var
}

// Model is a sequential stack of layers.
type Model struct {
	layers []Layer
}

// NewModel validates the layer stack and takes deep copies of every layer.
//
// Rules:
//   - at least one layer;
//   - at most one Pool layer, and no graph layer after it;
//   - adjacent weighted layers chain their widths.
func NewModel(layers ...Layer) (*Model, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("NewModel: %w", ErrNoLayers)
	}
	var (
		dim    = -1
		pooled bool
		own    = make([]Layer, len(layers))
	)
	for i := range layers {
		l := &layers[i]
		switch {
		case l.kind == KindPool && pooled:
			return nil, fmt.Errorf("NewModel: layer %d: second pool: %w", i, ErrLayerOrder)
		case l.kind == KindPool:
			pooled = true
		case l.IsGraph() && pooled:
			return nil, fmt.Errorf("NewModel: layer %d: %s after pool: %w", i, l.kind, ErrLayerOrder)
		case l.kind < KindDense || l.kind > KindPool:
			return nil, fmt.Errorf("NewModel: layer %d: %s: %w", i, l.kind, ErrShape)
		}
		in, out := l.dims()
		if in >= 0 {
			if dim >= 0 && in != dim {
				return nil, fmt.Errorf("NewModel: layer %d (%s) expects %d inputs, previous width %d: %w",
					i, l.kind, in, dim, ErrShape)
			}
			dim = out
		}
		own[i] = l.Clone()
	}

	return &Model{layers: own}, nil
}

// NumLayers returns the number of top-level layers.
func (m *Model) NumLayers() int { return len(m.layers) }

// Layer returns a handle to the i-th top-level layer. Handles compare equal to
// the Record.Layer values reported during Forward.
func (m *Model) Layer(i int) *Layer { return &m.layers[i] }

// NumGraphLayers counts MessagePassing and GIN layers (the model depth L).
func (m *Model) NumGraphLayers() int {
	n := 0
	for i := range m.layers {
		if m.layers[i].IsGraph() {
			n++
		}
	}

	return n
}

// GraphLayers returns handles to the graph layers in order.
func (m *Model) GraphLayers() []*Layer {
	out := make([]*Layer, 0, len(m.layers))
	for i := range m.layers {
		if m.layers[i].IsGraph() {
			out = append(out, &m.layers[i])
		}
	}

	return out
}

// HasPool reports whether the model contains a Pool layer.
func (m *Model) HasPool() bool {
	for i := range m.layers {
		if m.layers[i].kind == KindPool {
			return true
		}
	}

	return false
}

// GraphLevel reports whether the model reduces to one row (PoolSum or PoolMean).
func (m *Model) GraphLevel() bool {
	for i := range m.layers {
		if m.layers[i].kind == KindPool {
			return m.layers[i].pool != PoolIdentity
		}
	}

	return false
}

// Flow returns the direction of the first graph layer, or FlowSourceToTarget.
func (m *Model) Flow() graph.Flow {
	for i := range m.layers {
		if m.layers[i].IsGraph() {
			return m.layers[i].Flow()
		}
	}

	return graph.FlowSourceToTarget
}

// Forward runs the model on features x (N×D) over ei.
//
// Implementation:
//   - Stage 1: validate ei, x rows and the edge-weight overrides.
//   - Stage 2: apply layers in order, passing the k-th override to the k-th graph
//     layer and reporting each application to the observer (GIN first, then its
//     nested layers).
//   - Stage 3: recover shape panics into errors.
func (m *Model) Forward(x *autograd.Var, ei graph.EdgeIndex, opts ...ForwardOption) (*Output, error) {
	var o forwardOptions
	for _, fn := range opts {
		fn(&o)
	}
	if x == nil {
		return nil, fmt.Errorf("Forward: %w", autograd.ErrNilVar)
	}
	if err := ei.Validate(); err != nil {
		return nil, fmt.Errorf("Forward: %w", err)
	}
	if r, _ := x.Shape(); r != ei.NumNodes {
		return nil, fmt.Errorf("Forward: x has %d rows, graph has %d nodes: %w", r, ei.NumNodes, ErrFeatureShape)
	}
	if err := m.checkEdgeWeights(ei, o.edgeWeights); err != nil {
		return nil, fmt.Errorf("Forward: %w", err)
	}

	var out Output
	err := autograd.Try(func() error {
		h, graphIdx := x, 0
		out.Embedding = nil
		for i := range m.layers {
			l := &m.layers[i]
			if l.kind == KindPool {
				out.Embedding = h
			}
			var w *autograd.Var
			if l.IsGraph() {
				if o.edgeWeights != nil {
					w = o.edgeWeights[graphIdx]
				}
				graphIdx++
			}
			in := h
			next, nested := l.apply(h, ei, w)
			h = next
			if o.observer != nil {
				o.observer.Observe(Record{Layer: l, Index: i, Input: in, Output: h})
				for _, r := range nested {
					o.observer.Observe(r)
				}
			}
		}
		out.Scores = h
		if out.Embedding == nil {
			out.Embedding = h
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Forward: %w", err)
	}

	return &out, nil
}

func (m *Model) checkEdgeWeights(ei graph.EdgeIndex, ws []*autograd.Var) error {
	if ws == nil {
		return nil
	}
	if len(ws) != m.NumGraphLayers() {
		return fmt.Errorf("%d overrides for %d graph layers: %w", len(ws), m.NumGraphLayers(), ErrEdgeWeights)
	}
	slots := ei.NumEdges() + ei.NumNodes
	for k, w := range ws {
		if w == nil {
			return fmt.Errorf("override %d is nil: %w", k, ErrEdgeWeights)
		}
		if r, c := w.Shape(); r != slots || c != 1 {
			return fmt.Errorf("override %d is %dx%d, want %dx1: %w", k, r, c, slots, ErrEdgeWeights)
		}
	}

	return nil
}
