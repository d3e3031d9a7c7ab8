// SPDX-License-Identifier: MIT
// Package: gnnwalk/nn
//
// layer.go - the closed layer variant, constructors and value-semantics copies.
//
// Contract:
//   - Layer values are immutable after construction; weight matrices are owned
//     by the layer and never exposed for mutation.
//   - Gamma(γ) and Clone() return deep copies that share no storage.
//   - Constructors validate shapes early and return sentinel errors.

package nn

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/tensor"
)

// Kind tags a Layer.
type Kind uint8

const (
	// KindDense is a fully connected layer h·W + b.
	KindDense Kind = iota + 1
	// KindMessagePassing is a GraphConv-style layer: (Σ w_e·h_src)·W [+ h·Root] [+ b].
	KindMessagePassing
	// KindGIN is a GIN layer: MLP((1+eps)·h + Σ w_e·h_src).
	KindGIN
	// KindActivation is an element-wise ReLU.
	KindActivation
	// KindPool ends message passing; see PoolMode.
	KindPool
)

// String returns the kind name used in logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindMessagePassing:
		return "message_passing"
	case KindGIN:
		return "gin"
	case KindActivation:
		return "relu"
	case KindPool:
		return "pool"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// PoolMode selects the readout reduction.
type PoolMode uint8

const (
	// PoolIdentity keeps one row per node (node-level models).
	PoolIdentity PoolMode = iota
	// PoolSum sums all node rows into one row.
	PoolSum
	// PoolMean averages all node rows into one row.
	PoolMean
)

// Layer is one computational unit of a Model.
// Only the fields relevant to its Kind are populated.
type Layer struct {
	kind Kind

	weight *tensor.Dense // in×out
	root   *tensor.Dense // in×out, MessagePassing only, optional
	bias   *tensor.Dense // 1×out, optional

	selfLoops bool
	meanAggr  bool
	flow      graph.Flow
	eps       float64 // GIN
	mlp       []Layer // GIN

	pool PoolMode
}

// Dense builds a fully connected layer. bias may be nil.
func Dense(weight, bias *tensor.Dense) (Layer, error) {
	if weight == nil {
		return Layer{}, fmt.Errorf("Dense: %w", ErrNilWeight)
	}
	if err := checkBias(weight, bias); err != nil {
		return Layer{}, fmt.Errorf("Dense: %w", err)
	}

	return Layer{kind: KindDense, weight: weight.Clone(), bias: cloneOrNil(bias)}, nil
}

// ReLU builds an activation layer.
func ReLU() Layer { return Layer{kind: KindActivation} }

// Pool builds the readout boundary.
func Pool(mode PoolMode) Layer { return Layer{kind: KindPool, pool: mode} }

// MessagePassing builds a GraphConv-style layer with neighbor weight W.
func MessagePassing(weight *tensor.Dense, opts ...GraphOption) (Layer, error) {
	if weight == nil {
		return Layer{}, fmt.Errorf("MessagePassing: %w", ErrNilWeight)
	}
	o := gatherGraphOptions(DefaultSelfLoops, opts...)
	if err := o.flow.Check(); err != nil {
		return Layer{}, fmt.Errorf("MessagePassing: %w", err)
	}
	if err := checkBias(weight, o.bias); err != nil {
		return Layer{}, fmt.Errorf("MessagePassing: %w", err)
	}
	if o.root != nil && (o.root.Rows() != weight.Rows() || o.root.Cols() != weight.Cols()) {
		return Layer{}, fmt.Errorf("MessagePassing: root %dx%d vs weight %dx%d: %w",
			o.root.Rows(), o.root.Cols(), weight.Rows(), weight.Cols(), ErrShape)
	}

	return Layer{
		kind:      KindMessagePassing,
		weight:    weight.Clone(),
		root:      cloneOrNil(o.root),
		bias:      cloneOrNil(o.bias),
		selfLoops: o.selfLoops,
		meanAggr:  o.meanAggr,
		flow:      o.flow,
	}, nil
}

// GIN builds a GIN layer around mlp, which must start with a Dense layer and
// contain only Dense and Activation layers with chaining dimensions.
func GIN(mlp []Layer, opts ...GraphOption) (Layer, error) {
	o := gatherGraphOptions(DefaultGINSelfLoops, opts...)
	if err := o.flow.Check(); err != nil {
		return Layer{}, fmt.Errorf("GIN: %w", err)
	}
	if len(mlp) == 0 || mlp[0].kind != KindDense {
		return Layer{}, fmt.Errorf("GIN: %w", ErrInvalidMLP)
	}
	dim := -1
	inner := make([]Layer, len(mlp))
	for i, l := range mlp {
		if l.kind != KindDense && l.kind != KindActivation {
			return Layer{}, fmt.Errorf("GIN: layer %d is %s: %w", i, l.kind, ErrInvalidMLP)
		}
		if l.kind == KindDense {
			if dim >= 0 && l.weight.Rows() != dim {
				return Layer{}, fmt.Errorf("GIN: layer %d expects %d inputs, got %d: %w", i, l.weight.Rows(), dim, ErrShape)
			}
			dim = l.weight.Cols()
		}
		inner[i] = l.Clone()
	}

	return Layer{
		kind:      KindGIN,
		selfLoops: o.selfLoops,
		meanAggr:  o.meanAggr,
		flow:      o.flow,
		eps:       o.ginEps,
		mlp:       inner,
	}, nil
}

// Kind returns the layer tag.
func (l *Layer) Kind() Kind { return l.kind }

// IsGraph reports whether the layer passes messages (MessagePassing or GIN).
func (l *Layer) IsGraph() bool { return l.kind == KindMessagePassing || l.kind == KindGIN }

// Flow returns the message direction; non-graph layers report FlowSourceToTarget.
func (l *Layer) Flow() graph.Flow {
	if l.flow == "" {
		return graph.FlowSourceToTarget
	}

	return l.flow
}

// SelfLoops reports whether the loop slots carry messages.
func (l *Layer) SelfLoops() bool { return l.selfLoops }

// PoolMode returns the reduction of a Pool layer.
func (l *Layer) PoolMode() PoolMode { return l.pool }

// Weight returns a copy of the main weight matrix, or nil.
func (l *Layer) Weight() *tensor.Dense { return cloneOrNil(l.weight) }

// MLP returns copies of a GIN layer's internal layers.
func (l *Layer) MLP() []Layer {
	out := make([]Layer, len(l.mlp))
	for i := range l.mlp {
		out[i] = l.mlp[i].Clone()
	}

	return out
}

// Stages splits a GIN sub-network into consecutive groups, each starting at a
// Dense layer and carrying the activations that follow it.
// Non-GIN layers return nil.
func (l *Layer) Stages() [][]Layer {
	if l.kind != KindGIN {
		return nil
	}
	var out [][]Layer
	for _, inner := range l.mlp {
		if inner.kind == KindDense || len(out) == 0 {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], inner)
	}

	return out
}

// dims returns the input and output width, or (-1, -1) for shape-preserving layers.
func (l *Layer) dims() (in, out int) {
	switch l.kind {
	case KindDense, KindMessagePassing:
		return l.weight.Rows(), l.weight.Cols()
	case KindGIN:
		in, out = -1, -1
		for i := range l.mlp {
			if l.mlp[i].kind != KindDense {
				continue
			}
			if in < 0 {
				in = l.mlp[i].weight.Rows()
			}
			out = l.mlp[i].weight.Cols()
		}

		return in, out
	default:
		return -1, -1
	}
}

// Clone returns a deep copy of l.
func (l Layer) Clone() Layer {
	out := l
	out.weight = cloneOrNil(l.weight)
	out.root = cloneOrNil(l.root)
	out.bias = cloneOrNil(l.bias)
	if l.mlp != nil {
		out.mlp = make([]Layer, len(l.mlp))
		for i := range l.mlp {
			out.mlp[i] = l.mlp[i].Clone()
		}
	}

	return out
}

// Gamma returns an independent copy of l whose weight matrices are replaced by
// w + γ·max(w, 0). Biases are copied unchanged; layers without weights are
// plain clones. The receiver is never modified.
func (l Layer) Gamma(g float64) Layer {
	out := l.Clone()
	out.weight = gammaWeights(out.weight, g)
	out.root = gammaWeights(out.root, g)
	for i := range out.mlp {
		out.mlp[i].weight = gammaWeights(out.mlp[i].weight, g)
	}

	return out
}

func gammaWeights(w *tensor.Dense, g float64) *tensor.Dense {
	if w == nil {
		return nil
	}
	out, _ := tensor.Apply(w, func(v float64) float64 { return v + g*math.Max(v, 0) })

	return out
}

func cloneOrNil(m *tensor.Dense) *tensor.Dense {
	if m == nil {
		return nil
	}

	return m.Clone()
}

func checkBias(weight, bias *tensor.Dense) error {
	if bias == nil {
		return nil
	}
	if bias.Rows() != 1 || bias.Cols() != weight.Cols() {
		return fmt.Errorf("bias %dx%d for %d outputs: %w", bias.Rows(), bias.Cols(), weight.Cols(), ErrShape)
	}

	return nil
}
