// SPDX-License-Identifier: MIT

package subgraph

import "github.com/katalvlaran/gnnwalk/graph"

// ---------- Defaults ----------

const (
	// DefaultRelabel keeps original node ids in Result.EdgeIndex.
	DefaultRelabel = false

	// DefaultFlow collects the sources of edges pointing into the frontier.
	DefaultFlow = graph.FlowSourceToTarget

	// DefaultWholeGraph keeps the closure-from-node-0 reading of numHops == -1.
	DefaultWholeGraph = false

	// WholeGraph is the numHops value requesting whole-graph mode.
	WholeGraph = -1
)

// Option configures Extract.
type Option func(*Options)

// Options holds the resolved Extract configuration.
type Options struct {
	Relabel    bool
	NumNodes   int // <= 0 means "derive from the edge index"
	Flow       graph.Flow
	WholeGraph bool
}

func gatherOptions(opts ...Option) Options {
	o := Options{Relabel: DefaultRelabel, Flow: DefaultFlow, WholeGraph: DefaultWholeGraph}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// WithRelabel renumbers the kept nodes densely (0..k-1) in subset order.
func WithRelabel(on bool) Option {
	return func(o *Options) { o.Relabel = on }
}

// WithNumNodes overrides the node count of the input graph.
func WithNumNodes(n int) Option {
	return func(o *Options) { o.NumNodes = n }
}

// WithFlow selects the expansion direction. Invalid values surface as ErrInvalidFlow.
func WithFlow(f graph.Flow) Option {
	return func(o *Options) { o.Flow = f }
}

// WithWholeGraph makes numHops == -1 return every node 0..N-1, connected to
// node 0 or not, instead of the closure from node 0.
func WithWholeGraph(on bool) Option {
	return func(o *Options) { o.WholeGraph = on }
}
