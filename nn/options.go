// SPDX-License-Identifier: MIT

package nn

import (
	"math"

	"github.com/katalvlaran/gnnwalk/autograd"
	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/tensor"
)

// ---------- Defaults ----------

const (
	// DefaultSelfLoops adds the loop message i -> i to MessagePassing layers.
	DefaultSelfLoops = true

	// DefaultGINSelfLoops is off: the GIN self term (1+eps)·h already rides
	// the loop slot, and a loop message would count h_i twice.
	DefaultGINSelfLoops = false

	// DefaultFlow is the message direction of graph layers.
	DefaultFlow = graph.FlowSourceToTarget

	// DefaultGINEps is the GIN self weight offset (1+eps)·h.
	DefaultGINEps = 0.0
)

const panicGINEpsInvalid = "nn: WithGINEps: eps must be finite"

// ---------- graph layer options ----------

// GraphOption configures MessagePassing and GIN layers.
type GraphOption func(*graphOptions)

type graphOptions struct {
	selfLoops bool
	meanAggr  bool
	flow      graph.Flow
	ginEps    float64
	root      *tensor.Dense
	bias      *tensor.Dense
}

func gatherGraphOptions(selfLoops bool, opts ...GraphOption) graphOptions {
	o := graphOptions{selfLoops: selfLoops, flow: DefaultFlow, ginEps: DefaultGINEps}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// WithSelfLoops toggles the loop message. Without it a MessagePassing node only
// hears its neighbors; a GIN layer keeps its (1+eps)·h self term either way.
func WithSelfLoops(on bool) GraphOption {
	return func(o *graphOptions) { o.selfLoops = on }
}

// WithMeanAggregation divides each incoming message by the receiver's active in-degree.
func WithMeanAggregation() GraphOption {
	return func(o *graphOptions) { o.meanAggr = true }
}

// WithFlow sets the message direction. Unknown values are rejected by the layer constructor.
func WithFlow(f graph.Flow) GraphOption {
	return func(o *graphOptions) { o.flow = f }
}

// WithGINEps sets the GIN self weight offset. Panics on NaN or Inf.
func WithGINEps(eps float64) GraphOption {
	if math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicGINEpsInvalid)
	}

	return func(o *graphOptions) { o.ginEps = eps }
}

// WithRoot adds a separate root transform h·Root to a MessagePassing layer.
func WithRoot(root *tensor.Dense) GraphOption {
	return func(o *graphOptions) { o.root = root }
}

// WithBias adds a 1×out bias to a MessagePassing layer.
func WithBias(bias *tensor.Dense) GraphOption {
	return func(o *graphOptions) { o.bias = bias }
}

// ---------- Forward options ----------

// ForwardOption configures Model.Forward.
type ForwardOption func(*forwardOptions)

type forwardOptions struct {
	edgeWeights []*autograd.Var
	observer    Observer
}

// WithEdgeWeights passes one (E+N)×1 weight Var per graph layer, in layer order.
// The Vars replace the unit edge weights; differentiate with respect to them to
// obtain per-slot gradients.
func WithEdgeWeights(ws ...*autograd.Var) ForwardOption {
	return func(o *forwardOptions) { o.edgeWeights = ws }
}

// WithObserver reports every applied layer to obs.
func WithObserver(obs Observer) ForwardOption {
	return func(o *forwardOptions) { o.observer = obs }
}
